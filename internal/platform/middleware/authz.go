// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"strings"

	"github.com/taibuivan/anipulse/internal/platform/apperr"
	"github.com/taibuivan/anipulse/internal/platform/constants"
	"github.com/taibuivan/anipulse/internal/platform/ctxutil"
	"github.com/taibuivan/anipulse/internal/platform/respond"
	"github.com/taibuivan/anipulse/internal/platform/sec"
)

// Client-facing gate messages.
const (
	msgNoToken      = "No token provided"
	msgInvalidToken = "Invalid or expired token"
	msgAdminsOnly   = "Admins only"
)

// TokenVerifier checks a bearer token and returns its claims.
//
// [*sec.TokenService] satisfies it; tests substitute their own.
type TokenVerifier interface {
	Verify(token string) (*sec.AuthClaims, error)
}

// RequireAuth is the authentication gate.
//
// # Flow
//  1. No Authorization header: 401 "No token provided".
//  2. Header not of the form 'Bearer <token>', or the token fails
//     verification: 401 "Invalid or expired token".
//  3. Otherwise the verified [*sec.AuthClaims] are stored in the request
//     context and the request proceeds.
//
// The gate depends only on the header, the verifier's clock and its secret.
func RequireAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := strings.TrimSpace(request.Header.Get(constants.HeaderAuthorization))

			// ── 1. Missing Credentials ────────────────────────────────────────
			if authHeader == "" {
				respond.Error(writer, request, apperr.Unauthenticated(msgNoToken))
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			token, ok := bearerToken(authHeader)
			if !ok {
				respond.Error(writer, request, apperr.Unauthenticated(msgInvalidToken))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.Verify(token)
			if err != nil {
				ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "token_rejected")
				respond.Error(writer, request, apperr.Unauthenticated(msgInvalidToken))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithClaims(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireRole is the authorization gate.
//
// # Usage
//
// Must be mounted after [RequireAuth]. It only trusts claims that gate put in
// the context; a request that reaches it without claims gets 401.
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetClaims(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthenticated(msgNoToken))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !claims.Role.AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden(msgAdminsOnly))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// bearerToken splits 'Bearer <token>'. The scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, constants.BearerScheme) {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}
