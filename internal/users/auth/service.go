// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/anipulse/internal/platform/apperr"
	"github.com/taibuivan/anipulse/internal/platform/ctxutil"
	"github.com/taibuivan/anipulse/internal/platform/dberr"
	"github.com/taibuivan/anipulse/internal/platform/sec"
	"github.com/taibuivan/anipulse/pkg/uuid"
)

// # Contracts & Types

// PasswordHasher produces and checks password hashes.
type PasswordHasher interface {
	Hash(plainTextPassword string) (string, error)
	Verify(plainTextPassword, existingHash string) bool

	// Burn costs the same as Verify and is used when no account matched.
	Burn(plainTextPassword string)
}

// TokenIssuer signs bearer tokens for an account identity.
type TokenIssuer interface {
	Issue(identity sec.Identity) (string, error)
}

// EventRecorder counts registration and login outcomes.
type EventRecorder interface {
	AuthEvent(event, outcome string)
}

// Event outcomes recorded by the service.
const (
	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeConflict = "conflict"
	outcomeError    = "error"
)

type discardEvents struct{}

func (discardEvents) AuthEvent(string, string) {}

// Service implements the register and login use cases.
//
// It holds no mutable state of its own; concurrent registrations for the same
// identity are resolved by the store's unique constraints.
type Service struct {
	users  UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
	events EventRecorder
}

// NewService constructs a new [Service]. A nil recorder disables metrics.
func NewService(users UserRepository, hasher PasswordHasher, tokens TokenIssuer, events EventRecorder) *Service {
	if events == nil {
		events = discardEvents{}
	}
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		events: events,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string
	Email    string
	Password string

	// RoleHint is whatever the client sent as "role". It never grants anything.
	RoleHint string
}

// NormalizeUsername trims surrounding whitespace. Usernames stay case-sensitive.
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

// NormalizeEmail trims and lower-cases an address so uniqueness ignores case.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

/*
Register creates a viewer account and returns it with a fresh token.

Flow:
 1. Reject early when the username or email is already taken.
 2. Hash the password.
 3. Insert the row with role viewer, whatever the client asked for.
 4. Map a uniqueness race lost at insert time to the same conflict.
 5. Issue a token for the new account.

Parameters:
  - context: context.Context
  - input: RegisterInput (already shape-validated by the handler)

Returns:
  - *Session: Public user projection and token
  - error: conflict, or internal failures
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*Session, error) {
	logger := ctxutil.GetLogger(context)
	username := NormalizeUsername(input.Username)
	email := NormalizeEmail(input.Email)

	// 1. Pre-check so the common duplicate case never pays for a bcrypt hash
	taken, err := service.users.ExistsByUsernameOrEmail(context, username, email)
	if err != nil {
		service.events.AuthEvent(eventRegister, outcomeError)
		return nil, err
	}
	if taken {
		service.events.AuthEvent(eventRegister, outcomeConflict)
		return nil, apperr.Conflict(msgIdentityTaken)
	}

	// 2. Hash
	hashedPassword, err := service.hasher.Hash(input.Password)
	if err != nil {
		service.events.AuthEvent(eventRegister, outcomeError)
		return nil, apperr.Internal(fmt.Errorf("auth_service_hash_failed: %w", err))
	}

	// 3. Self-registration is always a viewer
	if hint := strings.TrimSpace(input.RoleHint); hint != "" && hint != string(sec.RoleViewer) {
		logger.WarnContext(context, "role_hint_ignored",
			slog.String("username", username),
			slog.String("requested_role", hint),
		)
	}

	user := &User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         sec.RoleViewer,
	}

	// 4. The unique constraints settle concurrent registrations
	if err := service.users.Create(context, user); err != nil {
		if errors.Is(err, dberr.ErrDuplicate) {
			service.events.AuthEvent(eventRegister, outcomeConflict)
			return nil, apperr.Conflict(msgIdentityTaken)
		}
		service.events.AuthEvent(eventRegister, outcomeError)
		return nil, err
	}

	// 5. Token
	session, err := service.newSession(user)
	if err != nil {
		service.events.AuthEvent(eventRegister, outcomeError)
		return nil, err
	}

	logger.InfoContext(context, "user_registered", slog.String("user_id", user.ID))
	service.events.AuthEvent(eventRegister, outcomeSuccess)

	return session, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Username string
	Password string
}

/*
Login verifies a username/password pair and issues a token.

An unknown username and a wrong password produce the same error, and both
paths run one bcrypt comparison of equal cost.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *Session: Public user projection and token
  - error: authentication_error, or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Session, error) {
	user, err := service.users.FindByUsername(context, NormalizeUsername(input.Username))
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			service.hasher.Burn(input.Password)
			service.events.AuthEvent(eventLogin, outcomeRejected)
			return nil, apperr.Unauthenticated(msgInvalidCredentials)
		}
		service.events.AuthEvent(eventLogin, outcomeError)
		return nil, err
	}

	if !service.hasher.Verify(input.Password, user.PasswordHash) {
		service.events.AuthEvent(eventLogin, outcomeRejected)
		return nil, apperr.Unauthenticated(msgInvalidCredentials)
	}

	session, err := service.newSession(user)
	if err != nil {
		service.events.AuthEvent(eventLogin, outcomeError)
		return nil, err
	}

	service.events.AuthEvent(eventLogin, outcomeSuccess)
	return session, nil
}

func (service *Service) newSession(user *User) (*Session, error) {
	token, err := service.tokens.Issue(user.Identity())
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_issue_token_failed: %w", err))
	}
	return &Session{User: user.Public(), Token: token}, nil
}
