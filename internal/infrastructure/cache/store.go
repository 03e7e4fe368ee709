package cache

import (
	"context"
	"time"
)

// Store is a small key-value cache with expiration. It backs the analysis
// status polling endpoint so repeated polls do not hit the database.
type Store interface {
	Set(ctx context.Context, key, value string, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error
}
