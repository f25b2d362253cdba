// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package anime

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/anipulse/internal/platform/middleware"
	requestutil "github.com/taibuivan/anipulse/internal/platform/request"
	"github.com/taibuivan/anipulse/internal/platform/respond"
	"github.com/taibuivan/anipulse/internal/platform/sec"
	"github.com/taibuivan/anipulse/internal/platform/validate"
	"github.com/taibuivan/anipulse/pkg/pagination"
	"github.com/taibuivan/anipulse/pkg/pointer"
)

// Handler implements the catalogue and favorites endpoints.
type Handler struct {
	service        *Service
	verifier       middleware.TokenVerifier
	uploadMaxBytes int64
}

// NewHandler constructs a new anime [Handler].
func NewHandler(service *Service, verifier middleware.TokenVerifier, uploadMaxBytes int64) *Handler {
	return &Handler{service: service, verifier: verifier, uploadMaxBytes: uploadMaxBytes}
}

// Routes returns the router mounted at /api/anime.
//
// # Endpoints
//   - GET    /               : Public. Paginated catalogue.
//   - GET    /{id}           : Public. Single entry.
//   - POST   /               : Admin. JSON or multipart create.
//   - PUT    /{id}           : Admin. Update streaming url, drop date, notes.
//   - DELETE /{id}           : Admin.
//   - POST   /{id}/favorite  : Authenticated.
//   - DELETE /{id}/favorite  : Authenticated.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public
	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)

	router.Group(func(member chi.Router) {
		member.Use(middleware.RequireAuth(handler.verifier))

		member.Post("/{id}/favorite", handler.favorite)
		member.Delete("/{id}/favorite", handler.unfavorite)

		// Admin only
		member.Group(func(admin chi.Router) {
			admin.Use(middleware.RequireRole(sec.RoleAdmin))

			admin.Post("/", handler.create)
			admin.Put("/{id}", handler.update)
			admin.Delete("/{id}", handler.delete)
		})
	})

	return router
}

// FavoritesRoutes returns the router mounted at /api/favorites.
func (handler *Handler) FavoritesRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth(handler.verifier))
	router.Get("/", handler.listFavorites)
	return router
}

// # Reads

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromQuery(request.URL.Query())

	items, total, err := handler.service.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, items, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	anime, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, anime)
}

// # Writes

type createRequest struct {
	Title         string  `json:"title"`
	CoverImageURL *string `json:"cover_image_url"`
	Year          *int    `json:"year"`
	Season        *string `json:"season"`
	StreamingURL  *string `json:"streaming_url"`
	DropDate      *string `json:"drop_date"`
	ExtraNotes    *string `json:"extra_notes"`
}

/*
POST /api/anime.

Request:
  - JSON createRequest, or
  - multipart/form-data with the same fields plus an optional "image" file

Response:
  - 201: {data: Anime}
  - 400: validation_error
  - 409: conflict when no slug is free
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	input, cover, err := handler.decodeCreate(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if cover != nil {
		defer cover.File.Close()
	}

	input.CoverImageURL = blankToNil(input.CoverImageURL)
	input.Season = blankToNil(input.Season)
	input.StreamingURL = blankToNil(input.StreamingURL)
	input.DropDate = blankToNil(input.DropDate)
	input.ExtraNotes = blankToNil(input.ExtraNotes)
	input.Title = strings.TrimSpace(input.Title)

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, MaxTitleLength)
	if input.Year != nil {
		validator.Range(FieldYear, *input.Year, MinYear, MaxYear)
	}
	if input.Season != nil {
		validator.MaxLen(FieldSeason, *input.Season, MaxSeasonLength)
	}
	if cover == nil && input.CoverImageURL != nil {
		validator.URL(FieldCoverImageURL, *input.CoverImageURL)
	}
	validateDetails(validator, input.StreamingURL, input.DropDate, input.ExtraNotes)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	create := CreateInput{
		Title:         input.Title,
		CoverImageURL: input.CoverImageURL,
		Year:          input.Year,
		Season:        input.Season,
		StreamingURL:  input.StreamingURL,
		DropDate:      input.DropDate,
		ExtraNotes:    input.ExtraNotes,
	}
	if cover != nil {
		create.Cover = &Cover{Body: cover.File, ContentType: cover.ContentType}
	}

	anime, err := handler.service.Create(request.Context(), create)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, anime)
}

func (handler *Handler) decodeCreate(writer http.ResponseWriter, request *http.Request) (*createRequest, *requestutil.Image, error) {
	if !requestutil.IsMultipart(request) {
		input := &createRequest{}
		if err := requestutil.DecodeJSON(writer, request, input); err != nil {
			return nil, nil, err
		}
		return input, nil, nil
	}

	if err := requestutil.ParseMultipart(writer, request, handler.uploadMaxBytes); err != nil {
		return nil, nil, err
	}

	input := &createRequest{
		Title:         request.FormValue(FieldTitle),
		CoverImageURL: requestutil.FormValue(request, FieldCoverImageURL),
		Season:        requestutil.FormValue(request, FieldSeason),
		StreamingURL:  requestutil.FormValue(request, FieldStreamingURL),
		DropDate:      requestutil.FormValue(request, FieldDropDate),
		ExtraNotes:    requestutil.FormValue(request, FieldExtraNotes),
	}

	if raw := requestutil.FormValue(request, FieldYear); raw != nil {
		year, err := strconv.Atoi(*raw)
		if err != nil {
			return nil, nil, validate.FieldError(FieldYear, "Must be a number")
		}
		input.Year = pointer.To(year)
	}

	cover, err := requestutil.FormImage(request, FieldImage)
	if err != nil {
		return nil, nil, err
	}

	return input, cover, nil
}

type updateRequest struct {
	StreamingURL *string `json:"streaming_url"`
	DropDate     *string `json:"drop_date"`
	ExtraNotes   *string `json:"extra_notes"`
}

/*
PUT /api/anime/{id}.

Omitted or empty fields are cleared.

Response:
  - 200: {data: Anime}
  - 400: validation_error
  - 404: not_found
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	details := Details{
		StreamingURL: blankToNil(input.StreamingURL),
		DropDate:     blankToNil(input.DropDate),
		ExtraNotes:   blankToNil(input.ExtraNotes),
	}

	validator := &validate.Validator{}
	validateDetails(validator, details.StreamingURL, details.DropDate, details.ExtraNotes)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	anime, err := handler.service.Update(request.Context(), id, details)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, anime)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Favorites

func (handler *Handler) favorite(writer http.ResponseWriter, request *http.Request) {
	handler.toggleFavorite(writer, request, handler.service.Favorite)
}

func (handler *Handler) unfavorite(writer http.ResponseWriter, request *http.Request) {
	handler.toggleFavorite(writer, request, handler.service.Unfavorite)
}

func (handler *Handler) toggleFavorite(
	writer http.ResponseWriter,
	request *http.Request,
	apply func(context.Context, string, int64) error,
) {
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

	if err := apply(request.Context(), claims.UserID, id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
GET /api/favorites.

Response:
  - 200: {data: []Anime} ordered by title
  - 401: authentication_error
*/
func (handler *Handler) listFavorites(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	items, err := handler.service.Favorites(request.Context(), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, items)
}

// # Helpers

func validateDetails(validator *validate.Validator, streamingURL, dropDate, notes *string) {
	if streamingURL != nil {
		validator.URL(FieldStreamingURL, *streamingURL)
	}
	if dropDate != nil {
		_, err := time.Parse(DateLayout, *dropDate)
		validator.Custom(FieldDropDate, err != nil, "Must be a date in YYYY-MM-DD format")
	}
	if notes != nil {
		validator.MaxLen(FieldExtraNotes, *notes, MaxNotesLength)
	}
}

func blankToNil(value *string) *string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	return pointer.To(strings.TrimSpace(*value))
}
