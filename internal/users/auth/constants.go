// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Credential Constraints

const (
	// MinUsernameLength is the shortest accepted username, in characters.
	MinUsernameLength = 3

	// MaxUsernameLength keeps usernames displayable in the navbar.
	MaxUsernameLength = 50

	// MaxEmailLength is the practical RFC 5321 limit for a mailbox.
	MaxEmailLength = 254

	// MinPasswordLength is the shortest accepted password, in characters.
	MinPasswordLength = 6

	// MaxPasswordBytes is the bcrypt input ceiling. Longer inputs are rejected
	// rather than silently truncated.
	MaxPasswordBytes = 72
)

// # Metric Labels

const (
	eventRegister = "register"
	eventLogin    = "login"
)

// # Client Messages

const (
	msgIdentityTaken      = "Username or email already taken"
	msgInvalidCredentials = "Invalid username or password"
)
