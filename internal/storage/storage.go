// Package storage is the durable key/value layer the stores persist to.
// Keys are plain strings (token, user, cart, theme, language) scoped to a
// client profile namespace.
package storage

import (
	"context"
	"errors"
	"fmt"
)

const (
	KeyToken    = "token"
	KeyUser     = "user"
	KeyCart     = "cart"
	KeyTheme    = "theme"
	KeyLanguage = "language"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

// KV is the surface every store depends on. A missing key is reported with
// ok == false and a nil error.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Store is a KV that owns an underlying connection.
type Store interface {
	KV
	Close() error
}

type Options struct {
	Driver    string
	DSN       string
	RedisURL  string
	Namespace string
}

func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverSQLite, DriverPostgres:
		db, err := OpenSQL(ctx, opts.Driver, opts.DSN)
		if err != nil {
			return nil, err
		}
		return NewGormRepo(ctx, db, opts.Namespace)
	case DriverRedis:
		return NewRedisRepo(ctx, opts.RedisURL, opts.Namespace)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}
