// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/anipulse/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")

	// ErrDuplicate marks a unique-constraint violation. Services translate it
	// into a domain-specific conflict message.
	ErrDuplicate = errors.New("dberr: unique constraint violated")

	// ErrMissingReference marks a foreign-key violation (the referenced row is gone).
	ErrMissingReference = errors.New("dberr: referenced row does not exist")
)

// Wrap inspects a database error and wraps it into a meaningful error.
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Unique violations keep the constraint name for logs and callers
	if IsUniqueViolation(err) {
		return &ConstraintError{Action: action, Constraint: constraintName(err), kind: ErrDuplicate}
	}

	// 3. Foreign-key violations usually mean a client referenced a missing row
	if hasCode(err, pgerrcode.ForeignKeyViolation) {
		return &ConstraintError{Action: action, Constraint: constraintName(err), kind: ErrMissingReference}
	}

	// 4. Unknown query errors become Internal Server Errors
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// ConstraintError is a classified constraint violation. It matches
// ErrDuplicate or ErrMissingReference under errors.Is.
type ConstraintError struct {
	Action     string
	Constraint string
	kind       error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s: %v (%s)", e.Action, e.kind, e.Constraint)
}

func (e *ConstraintError) Unwrap() error { return e.kind }

// Constraint returns the name of the violated constraint carried by err, or "".
func Constraint(err error) string {
	var constraintError *ConstraintError
	if errors.As(err, &constraintError) {
		return constraintError.Constraint
	}
	return ""
}

// IsUniqueViolation reports whether err carries SQLSTATE 23505.
func IsUniqueViolation(err error) bool {
	return hasCode(err, pgerrcode.UniqueViolation)
}

func hasCode(err error, code string) bool {
	var pgError *pgconn.PgError
	return errors.As(err, &pgError) && pgError.Code == code
}

func constraintName(err error) string {
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		return pgError.ConstraintName
	}
	return ""
}
