package services

import (
	"context"

	"github.com/upb/ecommerce-auth/repositories"
)

// WithTransaction executes fn within a database transaction.
// Commit, rollback and panic handling belong to the TransactionManager.
func WithTransaction(ctx context.Context, txMgr repositories.TransactionManager, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	return txMgr.InTransaction(ctx, fn)
}

// WithTransactionResult is WithTransaction for functions that return a value.
// The zero value is returned when the transaction does not commit.
func WithTransactionResult[T any](ctx context.Context, txMgr repositories.TransactionManager, fn func(ctx context.Context, tx repositories.Transaction) (T, error)) (T, error) {
	var result T

	err := txMgr.InTransaction(ctx, func(ctx context.Context, tx repositories.Transaction) error {
		r, err := fn(ctx, tx)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return result, nil
}
