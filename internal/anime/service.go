// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package anime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/taibuivan/anipulse/internal/platform/apperr"
	"github.com/taibuivan/anipulse/internal/platform/ctxutil"
	"github.com/taibuivan/anipulse/internal/platform/database/schema"
	"github.com/taibuivan/anipulse/internal/platform/dberr"
	"github.com/taibuivan/anipulse/internal/platform/storage"
	"github.com/taibuivan/anipulse/pkg/pagination"
	"github.com/taibuivan/anipulse/pkg/pointer"
	"github.com/taibuivan/anipulse/pkg/slug"
)

const (
	resourceAnime = "Anime"

	// fallbackSlug is used for titles without any Latin letters or digits.
	fallbackSlug = "anime"

	// maxSlugAttempts bounds the numbered suffixes tried after the year.
	maxSlugAttempts = 20
)

// Service implements the catalogue and favorites use cases.
type Service struct {
	repository Repository
	cache      Cache
	objects    storage.ObjectStore
}

// NewService constructs a new [Service]. A nil cache disables caching.
func NewService(repository Repository, cache Cache, objects storage.ObjectStore) *Service {
	if cache == nil {
		cache = noCache{}
	}
	return &Service{repository: repository, cache: cache, objects: objects}
}

// # Catalogue Reads

// List returns a page of the catalogue, newest first.
func (service *Service) List(context context.Context, params pagination.Params) ([]*Anime, int, error) {
	if cached, ok := service.cache.GetPage(context, params.Page, params.Limit); ok {
		return cached.Items, cached.Total, nil
	}

	items, total, err := service.repository.List(context, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("anime_service_list_failed: %w", err)
	}

	service.cache.SetPage(context, params.Page, params.Limit, &Page{Items: items, Total: total})
	return items, total, nil
}

// Get returns a single entry.
func (service *Service) Get(context context.Context, id int64) (*Anime, error) {
	if cached, ok := service.cache.GetDetail(context, id); ok {
		return cached, nil
	}

	anime, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, notFoundOr(err)
	}

	service.cache.SetDetail(context, anime)
	return anime, nil
}

// # Catalogue Writes

// Cover is an uploaded cover image.
type Cover struct {
	Body        io.Reader
	ContentType string
}

// CreateInput holds a new catalogue entry. Cover, when present, wins over
// CoverImageURL.
type CreateInput struct {
	Title         string
	CoverImageURL *string
	Year          *int
	Season        *string
	StreamingURL  *string
	DropDate      *string
	ExtraNotes    *string
	Cover         *Cover
}

/*
Create adds a catalogue entry.

Flow:
 1. Store the uploaded cover, if any.
 2. Derive a free slug from the title (then title-year, then numbered).
 3. Insert, removing the stored cover again if the insert fails.
 4. Invalidate cached pages.

Parameters:
  - context: context.Context
  - input: CreateInput (shape-validated by the handler)

Returns:
  - *Anime: The created entry
  - error: conflict on a slug race, or internal failures
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Anime, error) {
	logger := ctxutil.GetLogger(context)

	anime := &Anime{
		Title:         input.Title,
		CoverImageURL: input.CoverImageURL,
		Year:          input.Year,
		Season:        input.Season,
		StreamingURL:  input.StreamingURL,
		DropDate:      input.DropDate,
		ExtraNotes:    input.ExtraNotes,
	}

	// 1. Cover upload
	var coverKey string
	if input.Cover != nil {
		coverKey = storage.NewKey(coverPrefix, input.Cover.ContentType)
		url, err := service.objects.Put(context, coverKey, input.Cover.Body, input.Cover.ContentType)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("anime_service_store_cover_failed: %w", err))
		}
		anime.CoverImageURL = &url
		anime.CoverKey = &coverKey
	}

	// 2. Slug
	animeSlug, err := service.freeSlug(context, input.Title, pointer.Val(input.Year))
	if err == nil {
		anime.Slug = animeSlug

		// 3. Insert
		err = service.repository.Create(context, anime)
	}

	if err != nil {
		service.removeCover(context, coverKey)
		if errors.Is(err, dberr.ErrDuplicate) {
			return nil, apperr.Conflict("An anime with this title already exists")
		}
		return nil, fmt.Errorf("anime_service_create_failed: %w", err)
	}

	// 4. Cache
	service.cache.Invalidate(context, anime.ID)

	logger.InfoContext(context, "anime_created",
		slog.Int64("anime_id", anime.ID),
		slog.String("slug", anime.Slug),
	)
	return anime, nil
}

func (service *Service) freeSlug(context context.Context, title string, year int) (string, error) {
	base := slug.From(title)
	if base == "" {
		base = fallbackSlug
	}

	candidates := []string{base}
	if year > 0 {
		candidates = append(candidates, slug.WithYear(base, year))
	}
	for n := 2; n <= maxSlugAttempts; n++ {
		candidates = append(candidates, base+"-"+strconv.Itoa(n))
	}

	for _, candidate := range candidates {
		taken, err := service.repository.SlugExists(context, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no free slug for %q: %w", base, dberr.ErrDuplicate)
}

// Update replaces the mutable details of an entry.
func (service *Service) Update(context context.Context, id int64, details Details) (*Anime, error) {
	anime, err := service.repository.UpdateDetails(context, id, details)
	if err != nil {
		return nil, notFoundOr(err)
	}

	service.cache.Invalidate(context, id)
	ctxutil.GetLogger(context).InfoContext(context, "anime_updated", slog.Int64("anime_id", id))

	return anime, nil
}

// Delete removes an entry, then its uploaded cover.
func (service *Service) Delete(context context.Context, id int64) error {
	coverKey, err := service.repository.Delete(context, id)
	if err != nil {
		return notFoundOr(err)
	}

	service.removeCover(context, coverKey)
	service.cache.Invalidate(context, id)
	ctxutil.GetLogger(context).WarnContext(context, "anime_deleted", slog.Int64("anime_id", id))

	return nil
}

// removeCover deletes a stored cover; the row is authoritative, so failures are only logged.
func (service *Service) removeCover(context context.Context, key string) {
	if key == "" {
		return
	}
	if err := service.objects.Delete(context, key); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "anime_cover_cleanup_failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
}

// # Favorites

// Favorite marks an entry as a favorite of the member. Repeating it is a no-op.
func (service *Service) Favorite(context context.Context, userID string, animeID int64) error {
	err := service.repository.AddFavorite(context, userID, animeID)
	if errors.Is(err, dberr.ErrMissingReference) {
		if dberr.Constraint(err) == schema.AnimeFavoriteUserFK {
			return apperr.Unauthenticated(apperr.MsgAccountGone)
		}
		return apperr.NotFound(resourceAnime)
	}
	if err != nil {
		return fmt.Errorf("anime_service_favorite_failed: %w", err)
	}
	return nil
}

// Unfavorite removes a favorite. Removing an absent favorite is a no-op.
func (service *Service) Unfavorite(context context.Context, userID string, animeID int64) error {
	if err := service.repository.RemoveFavorite(context, userID, animeID); err != nil {
		return fmt.Errorf("anime_service_unfavorite_failed: %w", err)
	}
	return nil
}

// Favorites lists the member's favorites ordered by title.
func (service *Service) Favorites(context context.Context, userID string) ([]*Anime, error) {
	items, err := service.repository.ListFavorites(context, userID)
	if err != nil {
		return nil, fmt.Errorf("anime_service_favorites_failed: %w", err)
	}
	return items, nil
}

func notFoundOr(err error) error {
	if apperr.IsKind(err, apperr.KindNotFound) {
		return apperr.NotFound(resourceAnime)
	}
	return err
}
