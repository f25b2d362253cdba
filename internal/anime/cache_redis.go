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

	"github.com/taibuivan/anipulse/internal/platform/constants"
	"github.com/taibuivan/anipulse/internal/platform/ctxutil"
)

// scanBatch is the COUNT hint used while sweeping cached pages.
const scanBatch = 100

// RedisCache implements [Cache] on Redis.
//
// Keys:
//   - anime:list:{page}:{limit} → JSON Page
//   - anime:detail:{id}         → JSON Anime
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisCache creates a cache whose entries expire after ttl.
func NewRedisCache(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func pageKey(page, limit int) string {
	return constants.RedisPrefixAnimeList + strconv.Itoa(page) + ":" + strconv.Itoa(limit)
}

func detailKey(id int64) string {
	return constants.RedisPrefixAnimeDetail + strconv.FormatInt(id, 10)
}

// GetPage returns a cached catalogue page.
func (cache *RedisCache) GetPage(context context.Context, page, limit int) (*Page, bool) {
	value := &Page{}
	if !cache.get(context, pageKey(page, limit), value) {
		return nil, false
	}
	return value, true
}

// SetPage stores a catalogue page.
func (cache *RedisCache) SetPage(context context.Context, page, limit int, value *Page) {
	cache.set(context, pageKey(page, limit), value)
}

// GetDetail returns a cached entry.
func (cache *RedisCache) GetDetail(context context.Context, id int64) (*Anime, bool) {
	value := &Anime{}
	if !cache.get(context, detailKey(id), value) {
		return nil, false
	}
	return value, true
}

// SetDetail stores an entry.
func (cache *RedisCache) SetDetail(context context.Context, anime *Anime) {
	cache.set(context, detailKey(anime.ID), anime)
}

// Invalidate drops the entry and every cached page, since any write can
// shift page boundaries.
func (cache *RedisCache) Invalidate(context context.Context, id int64) {
	logger := ctxutil.GetLogger(context)

	keys := []string{detailKey(id)}
	iterator := cache.client.Scan(context, 0, constants.RedisPrefixAnimeList+"*", scanBatch).Iterator()
	for iterator.Next(context) {
		keys = append(keys, iterator.Val())
	}
	if err := iterator.Err(); err != nil {
		logger.WarnContext(context, "anime_cache_scan_failed", slog.Any("error", err))
	}

	if err := cache.client.Del(context, keys...).Err(); err != nil {
		logger.WarnContext(context, "anime_cache_invalidate_failed",
			slog.Int64("anime_id", id),
			slog.Any("error", err),
		)
	}
}

func (cache *RedisCache) get(context context.Context, key string, target any) bool {
	raw, err := cache.client.Get(context, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			ctxutil.GetLogger(context).WarnContext(context, "anime_cache_read_failed",
				slog.String("key", key),
				slog.Any("error", err),
			)
		}
		return false
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return false
	}
	return true
}

func (cache *RedisCache) set(context context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := cache.client.Set(context, key, raw, cache.ttl).Err(); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "anime_cache_write_failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
}
