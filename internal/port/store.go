package port

import (
	"context"

	"anonmarket/internal/core/domain"
)

type CatalogStore interface {
	// CreateItem persists a new listing with initial stock 1 and returns
	// the assigned id. Fails with domain.ErrInvalidInput on an empty
	// description or a non-positive/non-finite price.
	CreateItem(ctx context.Context, description string, price float64, sellerID int64) (int64, error)

	// ActiveItems returns a snapshot of items with stock > 0, ascending id.
	ActiveItems(ctx context.Context) ([]domain.Item, error)

	// ItemByID fails with domain.ErrItemNotFound when no such item exists.
	ItemByID(ctx context.Context, id int64) (*domain.Item, error)

	// DecrementStock takes exactly one unit. domain.ErrOutOfStock when
	// stock is already 0, domain.ErrItemNotFound when the id is unknown.
	// Call only inside a marketplace transaction.
	DecrementStock(ctx context.Context, id int64) error
}

type OrderLedger interface {
	// CreateOrder is a pure insert; stock validation is the caller's job.
	CreateOrder(ctx context.Context, buyerID, itemID int64, status domain.OrderStatus, location string) (int64, error)

	// OrdersForUser returns the user's orders, ascending id.
	OrdersForUser(ctx context.Context, userID int64) ([]domain.Order, error)

	// UpdateStatus is the settlement extension point.
	// domain.ErrOrderNotFound when the id is unknown.
	UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error
}

type ProfileLedger interface {
	// EnsureProfile creates a zero-initialized profile if absent. Idempotent
	// and concurrency-safe via the user_id primary key.
	EnsureProfile(ctx context.Context, userID int64) error

	IncrementSold(ctx context.Context, userID int64) error
	IncrementBought(ctx context.Context, userID int64) error

	// Stats fails with domain.ErrProfileNotFound when the user has no row.
	Stats(ctx context.Context, userID int64) (*domain.Profile, error)
}
