// Package filterstore provides persistence backends for serialized Bloom
// filter snapshots. A store moves opaque snapshot bytes; it never inspects
// or repairs them, so malformed data always surfaces as a codec error at
// restore time.
package filterstore

import (
	"context"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by Load when no snapshot exists under the key.
var ErrNotFound = errors.New("filterstore: snapshot not found")

// Store persists filter snapshots under string keys.
type Store interface {
	// Save atomically replaces the snapshot stored under key. A failed Save
	// must never leave a readable partial snapshot behind.
	Save(ctx context.Context, key string, data []byte) error
	// Load returns the snapshot stored under key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)
}
