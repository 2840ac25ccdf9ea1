package metadata

import (
	"context"
)

// Repository is a small key/value store for engine state that does not
// belong in the journal tables: device id, sealed session, backup marks.
//
// Get returns (nil, nil) when the key is absent so callers can treat
// missing and empty alike.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
