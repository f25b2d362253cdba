// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fanart_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/anipulse/internal/fanart"
	"github.com/taibuivan/anipulse/internal/platform/database/schema"
	"github.com/taibuivan/anipulse/internal/platform/dberr"
)

// memoryGallery mirrors core.fanart, including both foreign keys.
type memoryGallery struct {
	mu      sync.Mutex
	nextID  int64
	items   map[int64]*fanart.FanArt
	anime   map[int64]string
	removed map[string]bool // deleted accounts
}

func newMemoryGallery(anime map[int64]string) *memoryGallery {
	return &memoryGallery{nextID: 1, items: map[int64]*fanart.FanArt{}, anime: anime, removed: map[string]bool{}}
}

func foreignKeyError(constraint string) error {
	pgError := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: constraint}
	return dberr.Wrap(pgError, "create_fanart")
}

func (store *memoryGallery) Create(_ context.Context, art *fanart.FanArt) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.removed[art.UserID] {
		return foreignKeyError(schema.FanArtUserFK)
	}
	if art.AnimeID != nil {
		if _, ok := store.anime[*art.AnimeID]; !ok {
			return foreignKeyError(schema.FanArtAnimeFK)
		}
	}

	art.ID = store.nextID
	store.nextID++
	art.CreatedAt = time.Now().UTC()

	copied := *art
	store.items[art.ID] = &copied
	return nil
}

func (store *memoryGallery) sorted(keep func(*fanart.FanArt) bool) []*fanart.FanArt {
	items := []*fanart.FanArt{}
	for _, art := range store.items {
		if keep(art) {
			copied := *art
			if art.AnimeID != nil {
				title := store.anime[*art.AnimeID]
				copied.AnimeTitle = &title
			}
			items = append(items, &copied)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return items
}

func (store *memoryGallery) Gallery(_ context.Context, limit, offset int) ([]*fanart.FanArt, int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	all := store.sorted(func(*fanart.FanArt) bool { return true })
	if offset >= len(all) {
		return []*fanart.FanArt{}, len(all), nil
	}
	return all[offset:min(offset+limit, len(all))], len(all), nil
}

func (store *memoryGallery) ListByUser(_ context.Context, userID string) ([]*fanart.FanArt, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	return store.sorted(func(art *fanart.FanArt) bool { return art.UserID == userID }), nil
}

func (store *memoryGallery) DeleteOwned(_ context.Context, id int64, userID string) (string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	art, ok := store.items[id]
	if !ok || art.UserID != userID {
		return "", dberr.ErrNotFound
	}
	delete(store.items, id)
	return art.ImageKey, nil
}

func (store *memoryGallery) count() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.items)
}
