package port

import "context"

// SoldOutCache is an advisory fast-reject gate for purchases. Stock never
// increases, so a marker set after an authoritative zero-stock observation
// can never wrongly reject. Implementations may lose markers at any time.
type SoldOutCache interface {
	MarkSoldOut(ctx context.Context, itemID int64) error
	IsSoldOut(ctx context.Context, itemID int64) (bool, error)
}
