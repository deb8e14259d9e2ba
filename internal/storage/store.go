package storage

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// TodosKey is the single key the to-do list is stored under.
const TodosKey = "todos"

var (
	ErrNotFound       = errors.New("storage: not found")
	ErrClosed         = errors.New("storage: store closed")
	ErrUnknownBackend = errors.New("storage: unknown backend")
)

// KVStore is a synchronous string-keyed, string-valued store that outlives a
// session. Set overwrites any previous value.
type KVStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Timestamped is implemented by stores that record when each key was written.
type Timestamped interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, error)
}

// LastSaved reports when key was last written. ok is false when the store
// does not track write times or the key was never written.
func LastSaved(ctx context.Context, store KVStore, key string) (time.Time, bool, error) {
	ts, ok := store.(Timestamped)
	if !ok {
		return time.Time{}, false, nil
	}
	at, err := ts.UpdatedAt(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("last saved %q: %w", key, err)
	}
	return at, true, nil
}
