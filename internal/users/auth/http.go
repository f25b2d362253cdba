// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/taibuivan/anipulse/internal/platform/apperr"
	"github.com/taibuivan/anipulse/internal/platform/constants"
	requestutil "github.com/taibuivan/anipulse/internal/platform/request"
	"github.com/taibuivan/anipulse/internal/platform/respond"
	"github.com/taibuivan/anipulse/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the public credential endpoints.
type Handler struct {
	authService *Service

	// attemptsPerWindow bounds register+login calls per client IP.
	attemptsPerWindow int
}

// NewHandler constructs a new [Handler]. attemptsPerWindow is the per-IP
// budget of auth calls per [constants.AuthRateLimitWindow].
func NewHandler(service *Service, attemptsPerWindow int) *Handler {
	return &Handler{authService: service, attemptsPerWindow: attemptsPerWindow}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /register : Creates a viewer account and returns {user, token}.
//   - POST /login    : Verifies credentials and returns {user, token}.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(httprate.Limit(
		handler.attemptsPerWindow,
		constants.AuthRateLimitWindow,
		httprate.WithKeyByIP(),
		httprate.WithLimitHandler(func(writer http.ResponseWriter, request *http.Request) {
			respond.Error(writer, request, apperr.RateLimited(int(constants.AuthRateLimitWindow.Seconds())))
		}),
	))

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)

	return router
}

// # Request Payloads

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

/*
Register handles the creation of a new account.

POST /api/auth/register

Request:
  - Body: registerRequest (username, email, password, optional role hint)

Response:
  - 201: Session: {user, token}
  - 400: validation_error with one entry per failing field
  - 409: conflict when the username or email is taken
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	username := NormalizeUsername(input.Username)
	email := strings.TrimSpace(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldUsername, username).
		MinLen(FieldUsername, username, MinUsernameLength).
		MaxLen(FieldUsername, username, MaxUsernameLength).
		Email(FieldEmail, email).
		MaxLen(FieldEmail, email, MaxEmailLength).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		MaxBytes(FieldPassword, input.Password, MaxPasswordBytes)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Register(request.Context(), RegisterInput{
		Username: username,
		Email:    email,
		Password: input.Password,
		RoleHint: input.Role,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusCreated, session)
}

/*
Login authenticates an account by username and password.

POST /api/auth/login

Request:
  - Body: loginRequest (username, password)

Response:
  - 200: Session: {user, token}
  - 400: validation_error when a field is empty
  - 401: authentication_error, identical for unknown user and wrong password
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, session)
}
