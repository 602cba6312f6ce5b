// Package cache provides byte stores keyed by string.
//
// Every backend stores the value verbatim with no metadata alongside it.
// Save replaces an entry atomically: readers see either the previous value
// or the new one, never a partial write.
package cache

import (
	"errors"
	"fmt"
)

var (
	ErrCacheMiss  = errors.New("cache: key not found")
	ErrInvalidKey = errors.New("cache: invalid key")
)

// Store is the contract shared by every backend in this package.
type Store interface {
	Save(data []byte, key string) error
	Load(key string) ([]byte, error)
	Exists(key string) bool
}

var (
	_ Store = (*FileStore)(nil)
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
)

// New builds the store named by backend: "file", "memory" or "redis".
func New(backend string, fileOpts []FileOption, redisOpts []RedisOption) (Store, error) {
	switch backend {
	case "", "file":
		return NewFileStore(fileOpts...)
	case "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(redisOpts...)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}
