package database

import "context"

// Transactor runs fn so that every repository call made with the ctx it receives
// commits or rolls back together. Backends without transactions run fn directly.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type noopTransactor struct{}

// NoopTransactor is used by the table API backend, which has no transactions.
func NoopTransactor() Transactor {
	return noopTransactor{}
}

func (noopTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
