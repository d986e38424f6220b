package domain

// Profile carries the per-user activity counters. ItemsSold counts listings,
// not settled sales; the original column name is kept.
type Profile struct {
	UserID      int64
	ItemsSold   int
	ItemsBought int
}
