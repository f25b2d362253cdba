// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package anime_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/anipulse/internal/anime"
	"github.com/taibuivan/anipulse/internal/platform/database/schema"
	"github.com/taibuivan/anipulse/internal/platform/dberr"
)

// memoryCatalogue mirrors the constraints of core.anime and core.animefavorite.
type memoryCatalogue struct {
	mu        sync.Mutex
	nextID    int64
	items     map[int64]*anime.Anime
	favorites map[string]map[int64]bool
	removed   map[string]bool // deleted accounts
	lists     int
	finds     int
}

func newMemoryCatalogue() *memoryCatalogue {
	return &memoryCatalogue{
		nextID:    1,
		items:     map[int64]*anime.Anime{},
		favorites: map[string]map[int64]bool{},
		removed:   map[string]bool{},
	}
}

func (store *memoryCatalogue) List(_ context.Context, limit, offset int) ([]*anime.Anime, int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.lists++

	all := make([]*anime.Anime, 0, len(store.items))
	for _, item := range store.items {
		all = append(all, item)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	if offset >= len(all) {
		return []*anime.Anime{}, len(all), nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], len(all), nil
}

func (store *memoryCatalogue) FindByID(_ context.Context, id int64) (*anime.Anime, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.finds++

	item, ok := store.items[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (store *memoryCatalogue) SlugExists(_ context.Context, slug string) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, item := range store.items {
		if item.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (store *memoryCatalogue) Create(_ context.Context, item *anime.Anime) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, existing := range store.items {
		if existing.Slug == item.Slug {
			return fmt.Errorf("create_anime: %w", dberr.ErrDuplicate)
		}
	}

	item.ID = store.nextID
	store.nextID++
	item.CreatedAt = time.Now().UTC()
	item.UpdatedAt = item.CreatedAt

	copied := *item
	store.items[item.ID] = &copied
	return nil
}

func (store *memoryCatalogue) UpdateDetails(_ context.Context, id int64, details anime.Details) (*anime.Anime, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	item, ok := store.items[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	item.StreamingURL = details.StreamingURL
	item.DropDate = details.DropDate
	item.ExtraNotes = details.ExtraNotes

	copied := *item
	return &copied, nil
}

func (store *memoryCatalogue) Delete(_ context.Context, id int64) (string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	item, ok := store.items[id]
	if !ok {
		return "", dberr.ErrNotFound
	}
	delete(store.items, id)
	for _, favorites := range store.favorites {
		delete(favorites, id)
	}
	if item.CoverKey == nil {
		return "", nil
	}
	return *item.CoverKey, nil
}

func (store *memoryCatalogue) AddFavorite(_ context.Context, userID string, animeID int64) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.removed[userID] {
		return foreignKeyError("add_favorite", schema.AnimeFavoriteUserFK)
	}
	if _, ok := store.items[animeID]; !ok {
		return foreignKeyError("add_favorite", schema.AnimeFavoriteAnimeFK)
	}
	if store.favorites[userID] == nil {
		store.favorites[userID] = map[int64]bool{}
	}
	store.favorites[userID][animeID] = true
	return nil
}

func (store *memoryCatalogue) RemoveFavorite(_ context.Context, userID string, animeID int64) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.favorites[userID], animeID)
	return nil
}

func (store *memoryCatalogue) ListFavorites(_ context.Context, userID string) ([]*anime.Anime, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	items := []*anime.Anime{}
	for id := range store.favorites[userID] {
		copied := *store.items[id]
		items = append(items, &copied)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Title < items[j].Title })
	return items, nil
}

func (store *memoryCatalogue) listCalls() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.lists
}

func foreignKeyError(action, constraint string) error {
	return dberr.Wrap(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: constraint}, action)
}
