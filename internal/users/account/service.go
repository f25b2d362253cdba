// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/anipulse/internal/platform/apperr"
	"github.com/taibuivan/anipulse/internal/platform/ctxutil"
	"github.com/taibuivan/anipulse/internal/platform/sec"
	"github.com/taibuivan/anipulse/internal/users/auth"
	"github.com/taibuivan/anipulse/pkg/pagination"
	"github.com/taibuivan/anipulse/pkg/uuid"
)

// # Service Layer

// Service implements profile lookup and account administration.
type Service struct {
	accountRepository AccountRepository
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(accountRepo AccountRepository) *Service {
	return &Service{accountRepository: accountRepo}
}

/*
Me returns the caller's public profile, read fresh from the store.

The role in the response may differ from the role in the caller's token
after an admin changed it.

Parameters:
  - context: context.Context
  - userID: string (token subject)

Returns:
  - *auth.PublicUser: Current projection of the account
  - error: not_found when the account no longer exists
*/
func (service *Service) Me(context context.Context, userID string) (*auth.PublicUser, error) {
	user, err := service.find(context, userID)
	if err != nil {
		return nil, err
	}

	public := user.Public()
	return &public, nil
}

/*
List returns one page of the account directory.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []auth.PublicUser: The page
  - int: Total accounts
  - error: Storage failures
*/
func (service *Service) List(context context.Context, params pagination.Params) ([]auth.PublicUser, int, error) {
	users, total, err := service.accountRepository.List(context, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_list_failed: %w", err)
	}

	page := make([]auth.PublicUser, 0, len(users))
	for _, user := range users {
		page = append(page, user.Public())
	}

	return page, total, nil
}

/*
ChangeRole promotes or demotes another account.

Flow:
 1. Refuse when the admin targets their own account.
 2. Reject roles outside the closed set.
 3. Persist and return the new projection.

Parameters:
  - context: context.Context
  - actorID: string (the admin performing the change)
  - targetID: string
  - role: sec.UserRole

Returns:
  - *auth.PublicUser: The account after the change
  - error: authorization_error, validation_error, not_found or storage failures
*/
func (service *Service) ChangeRole(context context.Context, actorID, targetID string, role sec.UserRole) (*auth.PublicUser, error) {
	// 1. An admin demoting themself could lock everyone out
	if actorID == targetID {
		return nil, apperr.Forbidden(msgOwnRoleChange)
	}

	// 2. Closed role set
	if !role.Valid() {
		return nil, apperr.ValidationError("Invalid input", apperr.FieldError{
			Field:   auth.FieldRole,
			Message: fmt.Sprintf("Must be one of: %s, %s", sec.RoleViewer, sec.RoleAdmin),
		})
	}

	if !uuid.Valid(targetID) {
		return nil, apperr.NotFound(msgUserNotFound)
	}

	// 3. Persist
	user, err := service.accountRepository.UpdateRole(context, targetID, role)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.NotFound(msgUserNotFound)
		}
		return nil, fmt.Errorf("account_service_change_role_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "account_role_changed",
		slog.String("actor_id", actorID),
		slog.String("target_id", targetID),
		slog.String("role", string(role)),
	)

	public := user.Public()
	return &public, nil
}

func (service *Service) find(context context.Context, userID string) (*auth.User, error) {
	if !uuid.Valid(userID) {
		return nil, apperr.NotFound(msgUserNotFound)
	}

	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.NotFound(msgUserNotFound)
		}
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return user, nil
}
