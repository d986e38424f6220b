package storage

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"anonmarket/internal/core/domain"
)

type mysqlProfiles struct {
	ext sqlx.ExtContext
}

// EnsureProfile relies on the user_id primary key for idempotency: INSERT
// IGNORE under concurrent callers leaves exactly one row.
func (p *mysqlProfiles) EnsureProfile(ctx context.Context, userID int64) error {
	_, err := p.ext.ExecContext(ctx, `
		INSERT IGNORE INTO profiles (user_id, items_sold, items_bought)
		VALUES (?, 0, 0)`, userID)
	if err != nil {
		return errors.Wrap(err, "ensure profile")
	}
	return nil
}

func (p *mysqlProfiles) IncrementSold(ctx context.Context, userID int64) error {
	return p.increment(ctx, "items_sold", userID)
}

func (p *mysqlProfiles) IncrementBought(ctx context.Context, userID int64) error {
	return p.increment(ctx, "items_bought", userID)
}

func (p *mysqlProfiles) increment(ctx context.Context, column string, userID int64) error {
	// column is one of two fixed names, never caller input.
	res, err := p.ext.ExecContext(ctx,
		`UPDATE profiles SET `+column+` = `+column+` + 1 WHERE user_id = ?`, userID)
	if err != nil {
		return errors.Wrapf(err, "increment %s", column)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "increment %s", column)
	}
	if rows == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

type profileRow struct {
	UserID      int64 `db:"user_id"`
	ItemsSold   int   `db:"items_sold"`
	ItemsBought int   `db:"items_bought"`
}

func (p *mysqlProfiles) Stats(ctx context.Context, userID int64) (*domain.Profile, error) {
	var row profileRow
	err := sqlx.GetContext(ctx, p.ext, &row, `
		SELECT user_id, items_sold, items_bought
		FROM profiles WHERE user_id = ?`, userID)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "query profile")
	}
	return &domain.Profile{
		UserID:      row.UserID,
		ItemsSold:   row.ItemsSold,
		ItemsBought: row.ItemsBought,
	}, nil
}
