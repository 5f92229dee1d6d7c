// Package metadata stores small string values of the local client state,
// such as the session token, in a key/value table.
package metadata

import (
	"context"
)

// Repository is a key/value store. Get reports ok=false for an absent key.
type Repository interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
}
