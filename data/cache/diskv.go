package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/KotFed0t/extrol_cli/config"
	"github.com/KotFed0t/extrol_cli/internal/model"
	"github.com/KotFed0t/extrol_cli/utils"
	"github.com/peterbourgon/diskv/v3"
)

// DiskvCache is the file-backed default, the CLI analog of the web
// client's localStorage.
type DiskvCache struct {
	d *diskv.Diskv
}

func NewDiskvCache(cfg *config.Config) (*DiskvCache, error) {
	basePath := cfg.Cache.Dir
	if basePath == "" {
		userCache, err := os.UserCacheDir()
		if err != nil {
			return nil, err
		}
		basePath = filepath.Join(userCache, "extrol")
	}

	flatTransform := func(s string) []string { return []string{} }

	return &DiskvCache{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    flatTransform,
		CacheSizeMax: 1024 * 1024, // 1MB
	})}, nil
}

func (c *DiskvCache) SaveSession(ctx context.Context, session model.Session) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DiskvCache.SaveSession"

	userJson, err := json.Marshal(session.User)
	if err != nil {
		slog.Error("can't marshall user", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	if err := c.d.Write(keyToken, []byte(session.Token)); err != nil {
		slog.Error("failed on diskv.Write token", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	if err := c.d.Write(keyUser, userJson); err != nil {
		slog.Error("failed on diskv.Write user", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	return nil
}

func (c *DiskvCache) LoadSession(ctx context.Context) (model.Session, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DiskvCache.LoadSession"

	token, err := c.d.Read(keyToken)
	if err != nil || len(token) == 0 {
		return model.Session{}, ErrNotFound
	}

	userJson, err := c.d.Read(keyUser)
	if err != nil {
		return model.Session{}, ErrNotFound
	}

	user := model.User{}
	if err := json.Unmarshal(userJson, &user); err != nil {
		// corrupt record degrades to "no session"
		slog.Warn("can't unmarshall cached user, treating as absent", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Session{}, ErrNotFound
	}

	return model.Session{Token: string(token), User: user}, nil
}

func (c *DiskvCache) Clear(ctx context.Context) error {
	for _, key := range []string{keyToken, keyUser, keyPrefetch} {
		if !c.d.Has(key) {
			continue
		}
		if err := c.d.Erase(key); err != nil {
			slog.Error("failed on diskv.Erase", slog.String("op", "DiskvCache.Clear"), slog.String("key", key), slog.String("err", err.Error()))
			return err
		}
	}
	return nil
}

func (c *DiskvCache) SavePrefetch(ctx context.Context, entries []model.Entry) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DiskvCache.SavePrefetch"

	entriesJson, err := json.Marshal(entries)
	if err != nil {
		slog.Error("can't marshall entries", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	if err := c.d.Write(keyPrefetch, entriesJson); err != nil {
		slog.Error("failed on diskv.Write prefetch", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	return nil
}

func (c *DiskvCache) TakePrefetch(ctx context.Context) ([]model.Entry, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DiskvCache.TakePrefetch"

	entriesJson, err := c.d.Read(keyPrefetch)
	if err != nil {
		return nil, ErrNotFound
	}

	// one-shot: drop it whether or not it parses
	if err := c.d.Erase(keyPrefetch); err != nil {
		slog.Warn("failed on diskv.Erase prefetch", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	var entries []model.Entry
	if err := json.Unmarshal(entriesJson, &entries); err != nil {
		slog.Warn("can't unmarshall cached prefetch, treating as absent", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, ErrNotFound
	}

	return entries, nil
}
