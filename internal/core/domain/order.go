package domain

import "time"

type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "pending_payment"
	OrderStatusPaid           OrderStatus = "paid"
	OrderStatusFulfilled      OrderStatus = "fulfilled"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// Order reserves exactly one unit of its item at creation time. ItemID is a
// weak reference: the item may sell out later, the order still names it.
type Order struct {
	ID        int64
	BuyerID   int64
	ItemID    int64
	Status    OrderStatus
	Location  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
