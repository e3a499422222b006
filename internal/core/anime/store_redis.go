// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package anime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/animeapi/internal/platform/constants"
	"github.com/taibuivan/animeapi/pkg/normalize"
)

// CachedRepository is a read-through Redis cache over another [Repository].
//
// Only by-name lookups are cached. Every write drops the affected keys after
// the inner store accepts it. Redis failures are logged and fall back to the
// inner store.
type CachedRepository struct {
	Repository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedRepository wraps inner with a Redis cache.
func NewCachedRepository(inner Repository, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedRepository {
	if ttl <= 0 {
		ttl = constants.DefaultCacheTTL
	}
	return &CachedRepository{Repository: inner, client: client, ttl: ttl, logger: logger}
}

func nameKey(name string) string {
	return constants.RedisPrefixAnime + normalize.Name(name)
}

func idKey(id int64) string {
	return constants.RedisPrefixAnimeID + strconv.FormatInt(id, 10)
}

// FindByName serves from Redis when possible and populates it on a miss.
func (repository *CachedRepository) FindByName(context context.Context, name string) (*Anime, error) {
	key := nameKey(name)

	payload, err := repository.client.Get(context, key).Bytes()
	switch {
	case err == nil:
		cached := &Anime{}
		if err := json.Unmarshal(payload, cached); err == nil {
			return cached, nil
		}
		repository.logger.WarnContext(context, "anime_cache_corrupt", slog.String("key", key))
	case !errors.Is(err, redis.Nil):
		repository.logger.WarnContext(context, "anime_cache_read_failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}

	found, err := repository.Repository.FindByName(context, name)
	if err != nil {
		return nil, err
	}

	repository.store(context, key, found)
	return found, nil
}

func (repository *CachedRepository) store(context context.Context, key string, a *Anime) {
	payload, err := json.Marshal(a)
	if err != nil {
		return
	}

	_, err = repository.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Set(context, key, payload, repository.ttl)
		pipe.Set(context, idKey(a.ID), key, repository.ttl)
		return nil
	})
	if err != nil {
		repository.logger.WarnContext(context, "anime_cache_write_failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
}

// invalidate drops the name keys and, when id is known, whatever name key the
// record was last cached under.
func (repository *CachedRepository) invalidate(context context.Context, id int64, names ...string) {
	keys := make([]string, 0, len(names)+2)
	for _, name := range names {
		keys = append(keys, nameKey(name))
	}

	if id > 0 {
		previous, err := repository.client.Get(context, idKey(id)).Result()
		if err == nil {
			keys = append(keys, previous)
		}
		keys = append(keys, idKey(id))
	}

	if err := repository.client.Del(context, keys...).Err(); err != nil {
		repository.logger.WarnContext(context, "anime_cache_invalidate_failed",
			slog.Any("keys", keys),
			slog.Any("error", err),
		)
	}
}

func (repository *CachedRepository) Create(context context.Context, a *Anime) error {
	if err := repository.Repository.Create(context, a); err != nil {
		return err
	}
	repository.invalidate(context, 0, a.Name)
	return nil
}

func (repository *CachedRepository) Update(context context.Context, a *Anime) error {
	if err := repository.Repository.Update(context, a); err != nil {
		return err
	}
	repository.invalidate(context, a.ID, a.Name)
	return nil
}

func (repository *CachedRepository) DeleteByName(context context.Context, name, actor string) error {
	if err := repository.Repository.DeleteByName(context, name, actor); err != nil {
		return err
	}
	repository.invalidate(context, 0, name)
	return nil
}
