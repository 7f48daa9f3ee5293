package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/KotFed0t/extrol_cli/internal/model"
	"github.com/KotFed0t/extrol_cli/utils"
	"github.com/redis/go-redis/v9"
)

// RedisCache keeps the session in redis, for setups where the CLI runs in
// several places against one shared cache.
type RedisCache struct {
	redis *redis.Client
}

func NewRedisCache(redisClient *redis.Client) *RedisCache {
	return &RedisCache{redis: redisClient}
}

func (r *RedisCache) SaveSession(ctx context.Context, session model.Session) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RedisCache.SaveSession"

	userJson, err := json.Marshal(session.User)
	if err != nil {
		slog.Error("can't marshall user", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	pipe := r.redis.Pipeline()
	pipe.Set(ctx, keyToken, session.Token, 0)
	pipe.Set(ctx, keyUser, userJson, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Error("failed on pipe.Exec", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	return nil
}

func (r *RedisCache) LoadSession(ctx context.Context) (model.Session, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RedisCache.LoadSession"

	token, err := r.redis.Get(ctx, keyToken).Result()
	if err != nil || token == "" {
		if err != nil && !errors.Is(err, redis.Nil) {
			slog.Error("failed on redis.Get token", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
		return model.Session{}, ErrNotFound
	}

	userJson, err := r.redis.Get(ctx, keyUser).Result()
	if err != nil {
		return model.Session{}, ErrNotFound
	}

	user := model.User{}
	if err := json.Unmarshal([]byte(userJson), &user); err != nil {
		slog.Warn("can't unmarshall cached user, treating as absent", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Session{}, ErrNotFound
	}

	return model.Session{Token: token, User: user}, nil
}

func (r *RedisCache) Clear(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RedisCache.Clear"

	if err := r.redis.Del(ctx, keyToken, keyUser, keyPrefetch).Err(); err != nil {
		slog.Error("failed on redis.Del", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}
	return nil
}

func (r *RedisCache) SavePrefetch(ctx context.Context, entries []model.Entry) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RedisCache.SavePrefetch"

	entriesJson, err := json.Marshal(entries)
	if err != nil {
		slog.Error("can't marshall entries", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	if err := r.redis.Set(ctx, keyPrefetch, entriesJson, 0).Err(); err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}
	return nil
}

func (r *RedisCache) TakePrefetch(ctx context.Context) ([]model.Entry, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RedisCache.TakePrefetch"

	entriesJson, err := r.redis.GetDel(ctx, keyPrefetch).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Error("failed on redis.GetDel", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
		return nil, ErrNotFound
	}

	var entries []model.Entry
	if err := json.Unmarshal([]byte(entriesJson), &entries); err != nil {
		slog.Warn("can't unmarshall cached prefetch, treating as absent", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, ErrNotFound
	}

	return entries, nil
}
