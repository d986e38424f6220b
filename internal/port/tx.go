package port

import "context"

// Stores bundles the three stores bound to one execution scope: either the
// auto-commit pool or a single transaction.
type Stores struct {
	Catalog  CatalogStore
	Orders   OrderLedger
	Profiles ProfileLedger
}

// Transactor runs fn with stores bound to one storage transaction. fn
// returning an error rolls the whole transaction back; otherwise it commits.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(Stores) error) error
}
