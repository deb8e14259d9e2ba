package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendBolt   Backend = "bolt"
	BackendMemory Backend = "memory"
)

func (b Backend) IsValid() bool {
	switch b {
	case BackendSQLite, BackendBolt, BackendMemory:
		return true
	default:
		return false
	}
}

// OnDisk reports whether the backend needs a file path.
func (b Backend) OnDisk() bool {
	return b == BackendSQLite || b == BackendBolt
}

type Config struct {
	Backend Backend
	Path    string
}

func Open(cfg Config) (KVStore, error) {
	backend := Backend(strings.ToLower(strings.TrimSpace(string(cfg.Backend))))
	if !backend.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
	if backend == BackendMemory {
		return NewMemoryStore(), nil
	}

	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, fmt.Errorf("storage: %s backend requires a path", backend)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	if backend == BackendBolt {
		store, err := OpenBolt(path)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	store, err := OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	return store, nil
}
