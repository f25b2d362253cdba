// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/anipulse/internal/platform/middleware"
	requestutil "github.com/taibuivan/anipulse/internal/platform/request"
	"github.com/taibuivan/anipulse/internal/platform/respond"
	"github.com/taibuivan/anipulse/internal/platform/sec"
	"github.com/taibuivan/anipulse/internal/platform/validate"
	"github.com/taibuivan/anipulse/internal/users/auth"
	"github.com/taibuivan/anipulse/pkg/pagination"
)

// Handler implements the HTTP layer for account endpoints.
type Handler struct {
	accountService *Service
	verifier       middleware.TokenVerifier
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service, verifier middleware.TokenVerifier) *Handler {
	return &Handler{accountService: service, verifier: verifier}
}

// Routes returns a [chi.Router] configured with the account endpoints.
//
// # Endpoints
//   - GET   /          : Admin. Paginated account directory.
//   - GET   /me        : Authenticated. The caller's profile.
//   - PATCH /{id}/role : Admin. Promote or demote another account.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth(handler.verifier))

	router.Get("/me", handler.getMe)

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))
		admin.Get("/", handler.list)
		admin.Patch("/{id}/role", handler.changeRole)
	})

	return router
}

/*
GET /api/users/me.

Response:
  - 200: {data: PublicUser}
  - 401: authentication_error
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Me(request.Context(), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
GET /api/users?page=&limit=.

Response:
  - 200: {data: []PublicUser, meta}
  - 401 / 403
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromQuery(request.URL.Query())

	users, total, err := handler.accountService.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

/*
PATCH /api/users/{id}/role.

Request:
  - Body: {role: "viewer" | "admin"}

Response:
  - 200: {data: PublicUser}
  - 400: validation_error for an unknown role
  - 403: authorization_error when targeting oneself
  - 404: not_found
*/
func (handler *Handler) changeRole(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changeRoleRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.OneOf(auth.FieldRole, input.Role, string(sec.RoleViewer), string(sec.RoleAdmin))
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	role, _ := sec.ParseRole(input.Role)

	user, err := handler.accountService.ChangeRole(request.Context(), claims.UserID, requestutil.Param(request, "id"), role)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
