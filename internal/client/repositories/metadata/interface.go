// Package metadata stores the client's persisted key-value state
// (credentials, display name, theme) in the local sqlite database.
package metadata

import "context"

// Repository is a string-keyed byte store. Get returns (nil, nil) for an
// absent key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
