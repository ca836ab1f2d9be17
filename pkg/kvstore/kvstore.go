// Package kvstore provides synchronous string key-value slots used as the
// local substitute for the document store and for session persistence.
package kvstore

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

type Store interface {
	// Get returns the value under key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

type Options struct {
	Driver    string
	Path      string
	RedisAddr string
}

// Open builds the durable store selected by opts.Driver.
func Open(ctx context.Context, opts Options, logger *logrus.Logger) (Store, error) {
	switch opts.Driver {
	case DriverSQLite, "":
		logger.Infof("KV Store: Opening sqlite store at %s", opts.Path)
		return NewSQLiteStore(ctx, opts.Path)
	case DriverRedis:
		logger.Infof("KV Store: Connecting to redis at %s", opts.RedisAddr)
		return NewRedisStore(ctx, opts.RedisAddr)
	case DriverMemory:
		logger.Warn("KV Store: Using memory store, local data will not survive a restart")
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown local store driver %q", opts.Driver)
	}
}
