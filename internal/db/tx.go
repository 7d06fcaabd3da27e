package db

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// TxManager runs multi-repository units of work in a single database
// transaction. The open transaction travels in the context; repositories
// resolve their handle through Conn so every write inside the unit joins
// the same transaction.
type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// RunInTx starts a transaction and invokes fn with a context carrying it.
// Nested calls join the transaction already in the context.
func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return RunInTx(ctx, m.db, fn)
}

// RunInTx is the package-level form used by repositories that hold their own
// handle.
func RunInTx(ctx context.Context, conn *gorm.DB, fn func(ctx context.Context) error) error {
	if tx := txFromContext(ctx); tx != nil {
		return fn(ctx)
	}
	return WithCommitHooks(ctx, func(ctx context.Context) error {
		return conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(context.WithValue(ctx, txKey{}, tx))
		})
	})
}

type hooksKey struct{}

type commitHooks struct {
	fns []func(ctx context.Context)
}

func (h *commitHooks) run(ctx context.Context) {
	for _, fn := range h.fns {
		fn(ctx)
	}
}

// WithCommitHooks runs fn with a context that collects AfterCommit callbacks
// and fires them only after fn returns nil. When the context already
// collects hooks the unit is nested and defers to the outermost one, so
// side effects registered by inner services never escape an aborted unit.
func WithCommitHooks(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(hooksKey{}).(*commitHooks); ok {
		return fn(ctx)
	}
	hooks := &commitHooks{}
	if err := fn(context.WithValue(ctx, hooksKey{}, hooks)); err != nil {
		return err
	}
	hooks.run(ctx)
	return nil
}

// AfterCommit defers fn until the enclosing unit of work commits. Outside a
// unit fn runs immediately.
func AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	if hooks, ok := ctx.Value(hooksKey{}).(*commitHooks); ok {
		hooks.fns = append(hooks.fns, fn)
		return
	}
	fn(ctx)
}

// Conn returns the transaction from the context when one is open, and the
// fallback handle otherwise.
func Conn(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return fallback.WithContext(ctx)
}

func txFromContext(ctx context.Context) *gorm.DB {
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	if !ok {
		return nil
	}
	return tx
}
