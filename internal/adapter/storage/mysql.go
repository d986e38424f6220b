package storage

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"anonmarket/internal/port"
)

// MySQL owns the connection pool and hands out store sets bound either to
// the pool (auto-commit reads) or to a single transaction.
type MySQL struct {
	db *sqlx.DB
}

func NewMySQL(db *sqlx.DB) *MySQL {
	return &MySQL{db: db}
}

// Stores returns auto-commit stores for single-statement operations.
func (m *MySQL) Stores() port.Stores {
	return storesOver(m.db)
}

// WithinTx runs fn with stores bound to one transaction. An error from fn
// rolls everything back; commit errors surface to the caller unchanged.
func (m *MySQL) WithinTx(ctx context.Context, fn func(port.Stores) error) error {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	if err := fn(storesOver(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit tx")
	}
	return nil
}

func storesOver(ext sqlx.ExtContext) port.Stores {
	return port.Stores{
		Catalog:  &mysqlCatalog{ext: ext},
		Orders:   &mysqlOrders{ext: ext},
		Profiles: &mysqlProfiles{ext: ext},
	}
}
