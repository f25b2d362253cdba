// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package anime manages the release catalogue and members' favorites.

# Architecture

  - Handler: Public reads, admin writes, authenticated favorites.
  - Service: Slug assignment, cover uploads and cache invalidation.
  - Repository: PostgreSQL persistence (core.anime, core.animefavorite).
  - Cache: Read-through Redis cache for the list and detail reads.
*/
package anime

import (
	"context"
	"time"
)

// # Domain Entities

// Anime is a catalogue entry.
type Anime struct {
	ID            int64     `json:"id"`
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	CoverImageURL *string   `json:"cover_image_url"`
	Year          *int      `json:"year"`
	Season        *string   `json:"season"`
	StreamingURL  *string   `json:"streaming_url"`
	DropDate      *string   `json:"drop_date"` // YYYY-MM-DD
	ExtraNotes    *string   `json:"extra_notes"`
	CoverKey      *string   `json:"-"` // object store key of an uploaded cover
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Page is one cached page of the catalogue.
type Page struct {
	Items []*Anime `json:"items"`
	Total int      `json:"total"`
}

// Details holds the fields an admin may change after creation.
type Details struct {
	StreamingURL *string
	DropDate     *string
	ExtraNotes   *string
}

// # Field Identifiers

const (
	FieldTitle         = "title"
	FieldCoverImageURL = "cover_image_url"
	FieldYear          = "year"
	FieldSeason        = "season"
	FieldStreamingURL  = "streaming_url"
	FieldDropDate      = "drop_date"
	FieldExtraNotes    = "extra_notes"
	FieldImage         = "image"
)

// # Limits

const (
	MaxTitleLength  = 200
	MaxSeasonLength = 40
	MaxNotesLength  = 2000
	MinYear         = 1900
	MaxYear         = 2100

	// DateLayout is the wire and storage format of drop dates.
	DateLayout = "2006-01-02"

	// coverPrefix namespaces uploaded cover images in the object store.
	coverPrefix = "covers"
)

// # Repository Contracts

// Repository defines the persistence contract for the catalogue and favorites.
type Repository interface {
	// List returns a page of entries, newest first, and the total count.
	List(context context.Context, limit, offset int) ([]*Anime, int, error)

	// FindByID returns a single entry or a not_found AppError.
	FindByID(context context.Context, id int64) (*Anime, error)

	// SlugExists reports whether slug is already assigned.
	SlugExists(context context.Context, slug string) (bool, error)

	// Create inserts the entry and fills in ID and timestamps.
	// A slug collision wraps dberr.ErrDuplicate.
	Create(context context.Context, anime *Anime) error

	// UpdateDetails replaces the mutable details and returns the updated entry.
	UpdateDetails(context context.Context, id int64, details Details) (*Anime, error)

	// Delete removes the entry and returns its uploaded cover key ("" when none).
	// Favorites and fan-art references follow the FK rules.
	Delete(context context.Context, id int64) (string, error)

	// AddFavorite is idempotent. A missing anime or account yields a
	// dberr.ConstraintError naming the violated foreign key.
	AddFavorite(context context.Context, userID string, animeID int64) error

	// RemoveFavorite is idempotent.
	RemoveFavorite(context context.Context, userID string, animeID int64) error

	// ListFavorites returns the member's favorites ordered by title.
	ListFavorites(context context.Context, userID string) ([]*Anime, error)
}

// Cache is a best-effort read-through cache. Misses and backend failures
// look the same to callers.
type Cache interface {
	GetPage(context context.Context, page, limit int) (*Page, bool)
	SetPage(context context.Context, page, limit int, value *Page)
	GetDetail(context context.Context, id int64) (*Anime, bool)
	SetDetail(context context.Context, anime *Anime)

	// Invalidate drops the entry's detail and every cached page.
	Invalidate(context context.Context, id int64)
}

type noCache struct{}

func (noCache) GetPage(context.Context, int, int) (*Page, bool) { return nil, false }
func (noCache) SetPage(context.Context, int, int, *Page)        {}
func (noCache) GetDetail(context.Context, int64) (*Anime, bool) { return nil, false }
func (noCache) SetDetail(context.Context, *Anime)               {}
func (noCache) Invalidate(context.Context, int64)               {}
