// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey defines typed context keys used by middleware and handlers.
package ctxkey

// key is unexported so no other package can construct a colliding key.
type key string

const (
	// KeyRequestID holds the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyClaims holds the verified token claims ([*sec.AuthClaims]).
	KeyClaims key = "claims"

	// KeyLogger holds the per-request [*log/slog.Logger].
	KeyLogger key = "logger"
)
