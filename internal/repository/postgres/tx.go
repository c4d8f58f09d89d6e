package postgres

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type txKey struct{}

const maxSerializableAttempts = 3

// Transactor runs a unit of work in one database transaction. Repositories pick the
// transaction up from the context, so services compose them without passing *gorm.DB.
type Transactor struct {
	DB *gorm.DB
	// Options is passed to BEGIN; nil uses the database default isolation.
	Options *sql.TxOptions
}

func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{DB: db}
}

// NewSerializableTransactor runs units of work at SERIALIZABLE and retries them
// when postgres aborts one with a serialization failure.
func NewSerializableTransactor(db *gorm.DB) *Transactor {
	return &Transactor{DB: db, Options: &sql.TxOptions{Isolation: sql.LevelSerializable}}
}

// WithinTransaction commits when fn returns nil and rolls back otherwise.
// A call nested inside an open transaction joins it.
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	run := func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	}
	if t.Options == nil {
		return t.DB.WithContext(ctx).Transaction(run)
	}

	var err error
	for attempt := 0; attempt < maxSerializableAttempts; attempt++ {
		err = t.DB.WithContext(ctx).Transaction(run, t.Options)
		if !isSerializationFailure(err) {
			return err
		}
	}
	return err
}

// conn returns the transaction bound to ctx, or db.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
