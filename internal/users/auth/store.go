// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "context"

// # User Data Access

// UserRepository defines the data access contract used by registration and login.
//
// Implementations report a unique-constraint violation on Create with an
// error wrapping [dberr.ErrDuplicate]; the service relies on it to turn a lost
// registration race into a conflict.
type UserRepository interface {

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string (exact, case-sensitive match)

		Returns:
		  - *User: Hydrated entity
		  - error: not_found AppError when absent, or storage failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		ExistsByUsernameOrEmail reports whether either identifier is already taken.

		Parameters:
		  - context: context.Context
		  - username: string
		  - email: string (already normalised to lower case)

		Returns:
		  - bool: true when a row matches either value
		  - error: Storage failures
	*/
	ExistsByUsernameOrEmail(context context.Context, username, email string) (bool, error)

	/*
		Create persists a brand-new account.

		Parameters:
		  - context: context.Context
		  - user: *User (timestamps are filled in by the store)

		Returns:
		  - error: dberr.ErrDuplicate on a uniqueness race, or storage failures
	*/
	Create(context context.Context, user *User) error
}
