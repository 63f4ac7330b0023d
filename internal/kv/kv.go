// Package kv defines the persistence port the tenant store is built over.
// Values are opaque text; key layout and encoding belong to the caller.
package kv

import "context"

// Store is a flat key-value capability. Get reports absence via ok=false;
// transport failures are returned as errors and classified by the caller.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}
