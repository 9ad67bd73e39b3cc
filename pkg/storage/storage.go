// Package storage provides the keyed byte storage the trainer persists
// checkpoints into, with an in-memory backend for tests and short runs and
// a Badger backend for durable runs.
package storage

import "context"

type Storage interface {
	Put(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	// Keys lists all stored keys with the given prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
	Close() error
}
