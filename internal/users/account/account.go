// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account exposes the signed-in member's own profile and the admin-only
account directory.

It is also the only path by which a role changes. Self-registration always
creates a viewer; an admin promotes or demotes accounts here.

# Architecture

  - Domain: Depends on the auth package for the User entity and its public projection.
  - Security: Existing tokens keep the role they were issued with until they expire.
*/
package account

import (
	"context"

	"github.com/taibuivan/anipulse/internal/platform/sec"
	"github.com/taibuivan/anipulse/internal/users/auth"
)

// # Repository Contracts

// AccountRepository defines the persistence contract for account administration.
type AccountRepository interface {
	/*
		FindByID retrieves an account by its unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *auth.User: Loaded account entity, without the password hash
		  - error: not_found AppError or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		List returns one page of accounts, oldest first, and the total count.

		Parameters:
		  - context: context.Context
		  - limit: int
		  - offset: int

		Returns:
		  - []*auth.User: The page
		  - int: Total number of accounts
		  - error: Storage failures
	*/
	List(context context.Context, limit, offset int) ([]*auth.User, int, error)

	/*
		UpdateRole sets the role of an account and returns the updated row.

		Parameters:
		  - context: context.Context
		  - id: string
		  - role: sec.UserRole (already validated)

		Returns:
		  - *auth.User: The account after the change
		  - error: not_found AppError when the ID is unknown, or storage failures
	*/
	UpdateRole(context context.Context, id string, role sec.UserRole) (*auth.User, error)
}

const (
	msgUserNotFound  = "User"
	msgOwnRoleChange = "Admins cannot change their own role"
)
