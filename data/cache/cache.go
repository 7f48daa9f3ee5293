// Package cache is the durable client-side cache: the session pair and an
// optional one-shot prefetched entry list. Values are JSON, keyed the same
// way the web client keys its localStorage.
package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/KotFed0t/extrol_cli/config"
	"github.com/KotFed0t/extrol_cli/data"
	"github.com/KotFed0t/extrol_cli/internal/model"
)

const (
	keyToken    = "extrol_token"
	keyUser     = "extrol_user"
	keyPrefetch = "extrol_prefetch_entries"
)

// ErrNotFound covers both a missing and an unreadable record: a corrupt
// cached session must degrade to "no session", never fail startup.
var ErrNotFound = errors.New("not found in cache")

type Cache interface {
	SaveSession(ctx context.Context, session model.Session) error
	LoadSession(ctx context.Context) (model.Session, error)
	Clear(ctx context.Context) error
	SavePrefetch(ctx context.Context, entries []model.Entry) error
	// TakePrefetch returns the stashed entry list and deletes it.
	TakePrefetch(ctx context.Context) ([]model.Entry, error)
}

// New selects the backend by config: "disk" (default) or "redis".
func New(cfg *config.Config) (Cache, error) {
	switch cfg.Cache.Backend {
	case "", "disk":
		return NewDiskvCache(cfg)
	case "redis":
		return NewRedisCache(data.NewRedisClient(cfg)), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}
