// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fanart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/taibuivan/anipulse/internal/platform/apperr"
	"github.com/taibuivan/anipulse/internal/platform/ctxutil"
	"github.com/taibuivan/anipulse/internal/platform/database/schema"
	"github.com/taibuivan/anipulse/internal/platform/dberr"
	"github.com/taibuivan/anipulse/internal/platform/storage"
	"github.com/taibuivan/anipulse/pkg/pagination"
)

// Service implements fan-art uploads, listings and owner deletion.
type Service struct {
	repository Repository
	objects    storage.ObjectStore
}

// NewService constructs a new [Service].
func NewService(repository Repository, objects storage.ObjectStore) *Service {
	return &Service{repository: repository, objects: objects}
}

// UploadInput is one validated upload.
type UploadInput struct {
	UserID      string
	AnimeID     *int64
	Title       *string
	Description *string
	Image       io.Reader
	ContentType string
}

/*
Upload stores the image and records it.

The stored object is removed again when the row cannot be written, so a
failed upload leaves nothing behind.

Returns:
  - *FanArt: The created record
  - error: validation_error for an unknown anime, or internal failures
*/
func (service *Service) Upload(context context.Context, input UploadInput) (*FanArt, error) {
	logger := ctxutil.GetLogger(context)

	key := storage.NewKey(objectPrefix, input.ContentType)
	url, err := service.objects.Put(context, key, input.Image, input.ContentType)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("fanart_service_store_failed: %w", err))
	}

	art := &FanArt{
		UserID:      input.UserID,
		AnimeID:     input.AnimeID,
		Title:       input.Title,
		Description: input.Description,
		ImageKey:    key,
		ImageURL:    url,
	}

	if err := service.repository.Create(context, art); err != nil {
		service.removeObject(context, key)

		if dberr.Constraint(err) == schema.FanArtUserFK {
			return nil, apperr.Unauthenticated(apperr.MsgAccountGone)
		}
		if errors.Is(err, dberr.ErrMissingReference) {
			return nil, apperr.ValidationError("Invalid input", apperr.FieldError{
				Field:   FieldAnimeID,
				Message: "Anime does not exist",
			})
		}
		return nil, fmt.Errorf("fanart_service_create_failed: %w", err)
	}

	logger.InfoContext(context, "fanart_uploaded",
		slog.Int64("fanart_id", art.ID),
		slog.String("user_id", art.UserID),
	)
	return art, nil
}

// Gallery returns a page of every member's uploads.
func (service *Service) Gallery(context context.Context, params pagination.Params) ([]*FanArt, int, error) {
	items, total, err := service.repository.Gallery(context, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("fanart_service_gallery_failed: %w", err)
	}
	return items, total, nil
}

// Mine returns the member's own uploads.
func (service *Service) Mine(context context.Context, userID string) ([]*FanArt, error) {
	items, err := service.repository.ListByUser(context, userID)
	if err != nil {
		return nil, fmt.Errorf("fanart_service_mine_failed: %w", err)
	}
	return items, nil
}

// Delete removes an upload owned by userID. Someone else's upload and a
// missing one produce the same not_found.
func (service *Service) Delete(context context.Context, userID string, id int64) error {
	key, err := service.repository.DeleteOwned(context, id, userID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return apperr.NotFound("Fan art")
		}
		return fmt.Errorf("fanart_service_delete_failed: %w", err)
	}

	service.removeObject(context, key)
	ctxutil.GetLogger(context).InfoContext(context, "fanart_deleted",
		slog.Int64("fanart_id", id),
		slog.String("user_id", userID),
	)
	return nil
}

// removeObject deletes a stored image; the row is authoritative, so failures are only logged.
func (service *Service) removeObject(context context.Context, key string) {
	if key == "" {
		return
	}
	if err := service.objects.Delete(context, key); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "fanart_object_delete_failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
}
