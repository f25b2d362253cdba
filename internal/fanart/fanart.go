// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package fanart implements member fan-art uploads and the community gallery.

Images go to the configured [storage.ObjectStore]; the database keeps the
object key so a deletion can remove the file as well.
*/
package fanart

import (
	"context"
	"time"
)

// FanArt is one uploaded piece.
type FanArt struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username,omitempty"`
	AnimeID     *int64    `json:"anime_id"`
	AnimeTitle  *string   `json:"anime_title"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	ImageKey    string    `json:"-"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

const (
	FieldImage       = "image"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldAnimeID     = "anime_id"

	MaxTitleLength       = 200
	MaxDescriptionLength = 2000

	objectPrefix = "fanart"
)

// Repository defines the persistence contract for fan art.
type Repository interface {
	// Create inserts the row and fills in ID and CreatedAt. An unknown anime
	// or account yields a dberr.ConstraintError naming the foreign key.
	Create(context context.Context, art *FanArt) error

	// Gallery returns a page of every member's uploads, newest first, with
	// uploader and anime titles joined in.
	Gallery(context context.Context, limit, offset int) ([]*FanArt, int, error)

	// ListByUser returns one member's uploads, newest first.
	ListByUser(context context.Context, userID string) ([]*FanArt, error)

	// DeleteOwned removes the row only if userID owns it and returns its
	// object key. Anything else is not_found.
	DeleteOwned(context context.Context, id int64, userID string) (string, error)
}
