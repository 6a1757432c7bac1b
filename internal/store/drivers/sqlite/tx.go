package sqlite

import (
	"context"
	"database/sql"

	"github.com/openvenue/eventd/internal/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // nothing to close; caller will commit/rollback and outer DB stays open

// Ping is a no-op for transactions; the connection is already established.
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) ApplyMigrations() error { return nil } // migrations are applied before any tx starts

func (t *txStore) Users() store.Users           { return &usersRepo{db: t.tx} }
func (t *txStore) Roles() store.Roles           { return &rolesRepo{db: t.tx} }
func (t *txStore) Sessions() store.Sessions     { return &sessionsRepo{db: t.tx} }
func (t *txStore) Categories() store.Categories { return &categoriesRepo{db: t.tx} }
func (t *txStore) Events() store.Events         { return &eventsRepo{db: t.tx} }
func (t *txStore) Ratings() store.Ratings       { return &ratingsRepo{db: t.tx} }
