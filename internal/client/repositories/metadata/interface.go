// Package metadata is the client's durable key/value store. It keeps the
// bearer token and locally managed reminders.
package metadata

import "context"

// Repository stores opaque values by key. Get returns (nil, nil) when the
// key is absent.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
