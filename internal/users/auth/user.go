// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the credential boundary of AniPulse: account
registration, password login and token issuance.

# Architecture

  - Handler: JSON transport, input validation, per-IP brute-force limiting.
  - Service: Orchestrates the store, the password hasher and the token issuer.
  - UserRepository: Abstracted account persistence (PostgreSQL in production).

Tokens are stateless. Once issued, a token is honoured by the access
middleware until it expires, without any further store lookup.
*/
package auth

import (
	"time"

	"github.com/taibuivan/anipulse/internal/platform/sec"
)

// # Domain Entities

// User represents a registered AniPulse account.
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	Role         sec.UserRole `json:"role"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// PublicUser is the projection of an account that may leave the API.
type PublicUser struct {
	ID       string       `json:"id"`
	Username string       `json:"username"`
	Email    string       `json:"email"`
	Role     sec.UserRole `json:"role"`
}

// Public returns the client-safe projection of the account.
func (user *User) Public() PublicUser {
	return PublicUser{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
}

// Identity returns the facts bound into a token for this account.
func (user *User) Identity() sec.Identity {
	return sec.Identity{
		SubjectID: user.ID,
		Username:  user.Username,
		Role:      user.Role,
	}
}

// Session is the body returned by register and login.
type Session struct {
	User  PublicUser `json:"user"`
	Token string     `json:"token"`
}

// # Field Identifiers

const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldRole     = "role"
)
