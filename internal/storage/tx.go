package storage

import "context"

// Transactor is implemented by stores that can open a transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(Store) error) error
}

// RunInTx runs fn in a transaction when s supports one, and directly on s
// otherwise. A store that is already transactional joins its transaction.
func RunInTx(ctx context.Context, s Store, fn func(Store) error) error {
	if t, ok := s.(Transactor); ok {
		return t.WithTx(ctx, fn)
	}
	return fn(s)
}
