package storage

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"anonmarket/internal/core/domain"
)

type mysqlCatalog struct {
	ext sqlx.ExtContext
}

type itemRow struct {
	ID          int64     `db:"id"`
	Description string    `db:"description"`
	Price       float64   `db:"price"`
	SellerID    int64     `db:"seller_id"`
	Stock       int       `db:"stock"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r itemRow) toDomain() domain.Item {
	return domain.Item{
		ID:          r.ID,
		Description: r.Description,
		Price:       r.Price,
		SellerID:    r.SellerID,
		Stock:       r.Stock,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (c *mysqlCatalog) CreateItem(ctx context.Context, description string, price float64, sellerID int64) (int64, error) {
	if err := domain.ValidateListing(description, price); err != nil {
		return 0, err
	}

	res, err := c.ext.ExecContext(ctx, `
		INSERT INTO items (description, price, seller_id, stock, created_at, updated_at)
		VALUES (?, ?, ?, 1, NOW(), NOW())`,
		description, price, sellerID,
	)
	if err != nil {
		return 0, errors.Wrap(err, "insert item")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "item id")
	}
	return id, nil
}

func (c *mysqlCatalog) ActiveItems(ctx context.Context) ([]domain.Item, error) {
	var rows []itemRow
	err := sqlx.SelectContext(ctx, c.ext, &rows, `
		SELECT id, description, price, seller_id, stock, created_at, updated_at
		FROM items WHERE stock > 0 ORDER BY id ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "select active items")
	}

	items := make([]domain.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.toDomain())
	}
	return items, nil
}

func (c *mysqlCatalog) ItemByID(ctx context.Context, id int64) (*domain.Item, error) {
	var row itemRow
	err := sqlx.GetContext(ctx, c.ext, &row, `
		SELECT id, description, price, seller_id, stock, created_at, updated_at
		FROM items WHERE id = ?`, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "query item")
	}

	item := row.toDomain()
	return &item, nil
}

// DecrementStock is a compare-and-swap on the stock column: the conditional
// UPDATE is the only line of defense against two purchasers of the last unit.
func (c *mysqlCatalog) DecrementStock(ctx context.Context, id int64) error {
	res, err := c.ext.ExecContext(ctx, `
		UPDATE items SET stock = stock - 1, updated_at = NOW()
		WHERE id = ? AND stock > 0`, id)
	if err != nil {
		return errors.Wrap(err, "decrement stock")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "decrement stock")
	}
	if rows == 1 {
		return nil
	}

	var n int
	if err := sqlx.GetContext(ctx, c.ext, &n, `SELECT COUNT(*) FROM items WHERE id = ?`, id); err != nil {
		return errors.Wrap(err, "check item")
	}
	if n == 0 {
		return domain.ErrItemNotFound
	}
	return domain.ErrOutOfStock
}
