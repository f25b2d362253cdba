// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fanart

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/anipulse/internal/platform/middleware"
	requestutil "github.com/taibuivan/anipulse/internal/platform/request"
	"github.com/taibuivan/anipulse/internal/platform/respond"
	"github.com/taibuivan/anipulse/internal/platform/validate"
	"github.com/taibuivan/anipulse/pkg/pagination"
)

// Handler implements the fan-art endpoints.
type Handler struct {
	service        *Service
	verifier       middleware.TokenVerifier
	uploadMaxBytes int64
}

// NewHandler constructs a new fan-art [Handler].
func NewHandler(service *Service, verifier middleware.TokenVerifier, uploadMaxBytes int64) *Handler {
	return &Handler{service: service, verifier: verifier, uploadMaxBytes: uploadMaxBytes}
}

// Routes returns the router mounted at /api/fanart.
//
// # Endpoints
//   - GET    /      : Public gallery.
//   - POST   /      : Authenticated multipart upload.
//   - GET    /mine  : Authenticated. The caller's uploads.
//   - DELETE /{id}  : Authenticated. Owner only.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.gallery)

	router.Group(func(member chi.Router) {
		member.Use(middleware.RequireAuth(handler.verifier))

		member.Post("/", handler.upload)
		member.Get("/mine", handler.mine)
		member.Delete("/{id}", handler.delete)
	})

	return router
}

func (handler *Handler) gallery(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromQuery(request.URL.Query())

	items, total, err := handler.service.Gallery(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, items, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
POST /api/fanart.

Request:
  - multipart/form-data: image (required), title, description, anime_id

Response:
  - 201: {data: FanArt}
  - 400: validation_error (missing or non-image file, too large, unknown anime)
  - 401: authentication_error
*/
func (handler *Handler) upload(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if !requestutil.IsMultipart(request) {
		respond.Error(writer, request, validate.FieldError(FieldImage, "Image file is required"))
		return
	}

	if err := requestutil.ParseMultipart(writer, request, handler.uploadMaxBytes); err != nil {
		respond.Error(writer, request, err)
		return
	}

	image, err := requestutil.FormImage(request, FieldImage)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if image == nil {
		respond.Error(writer, request, validate.FieldError(FieldImage, "Image file is required"))
		return
	}
	defer image.File.Close()

	title := requestutil.FormValue(request, FieldTitle)
	description := requestutil.FormValue(request, FieldDescription)

	validator := &validate.Validator{}
	if title != nil {
		validator.MaxLen(FieldTitle, *title, MaxTitleLength)
	}
	if description != nil {
		validator.MaxLen(FieldDescription, *description, MaxDescriptionLength)
	}

	var animeID *int64
	if raw := requestutil.FormValue(request, FieldAnimeID); raw != nil {
		id, err := strconv.ParseInt(*raw, 10, 64)
		validator.Custom(FieldAnimeID, err != nil || id <= 0, "Must be a positive integer")
		animeID = &id
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	art, err := handler.service.Upload(request.Context(), UploadInput{
		UserID:      claims.UserID,
		AnimeID:     animeID,
		Title:       title,
		Description: description,
		Image:       image.File,
		ContentType: image.ContentType,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	art.Username = claims.Username
	respond.Created(writer, art)
}

func (handler *Handler) mine(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	items, err := handler.service.Mine(request.Context(), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, items)
}

/*
DELETE /api/fanart/{id}.

Response:
  - 204: Deleted
  - 404: not_found, also when the upload belongs to someone else
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), claims.UserID, id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
