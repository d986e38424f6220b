package storage

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"anonmarket/internal/core/domain"
)

type mysqlOrders struct {
	ext sqlx.ExtContext
}

type orderRow struct {
	ID        int64     `db:"id"`
	BuyerID   int64     `db:"buyer_id"`
	ItemID    int64     `db:"item_id"`
	Status    string    `db:"status"`
	Location  string    `db:"location"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (o *mysqlOrders) CreateOrder(ctx context.Context, buyerID, itemID int64, status domain.OrderStatus, location string) (int64, error) {
	res, err := o.ext.ExecContext(ctx, `
		INSERT INTO orders (buyer_id, item_id, status, location, created_at, updated_at)
		VALUES (?, ?, ?, ?, NOW(), NOW())`,
		buyerID, itemID, string(status), location,
	)
	if err != nil {
		return 0, errors.Wrap(err, "insert order")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "order id")
	}
	return id, nil
}

func (o *mysqlOrders) OrdersForUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	var rows []orderRow
	err := sqlx.SelectContext(ctx, o.ext, &rows, `
		SELECT id, buyer_id, item_id, status, location, created_at, updated_at
		FROM orders WHERE buyer_id = ? ORDER BY id ASC`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "select orders")
	}

	out := make([]domain.Order, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Order{
			ID:        r.ID,
			BuyerID:   r.BuyerID,
			ItemID:    r.ItemID,
			Status:    domain.OrderStatus(r.Status),
			Location:  r.Location,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		})
	}
	return out, nil
}

func (o *mysqlOrders) UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	res, err := o.ext.ExecContext(ctx, `
		UPDATE orders SET status = ?, updated_at = NOW() WHERE id = ?`,
		string(status), orderID,
	)
	if err != nil {
		return errors.Wrap(err, "update order status")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "update order status")
	}
	if rows == 1 {
		return nil
	}

	// RowsAffected is 0 both for a missing row and for a no-op update.
	var n int
	if err := sqlx.GetContext(ctx, o.ext, &n, `SELECT COUNT(*) FROM orders WHERE id = ?`, orderID); err != nil {
		return errors.Wrap(err, "check order")
	}
	if n == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}
