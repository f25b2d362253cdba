// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. Services consume it through small interfaces so tests can
// substitute their own secrets and clocks.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the validity window of an issued token.
const DefaultTokenTTL = 7 * 24 * time.Hour

// ErrInvalidToken is returned for every verification failure: bad signature,
// malformed input, unexpected algorithm or expiry.
var ErrInvalidToken = errors.New("sec: invalid token")

// AuthClaims represents the payload embedded inside a bearer token.
//
// The access middleware reconstructs the caller's identity from these claims
// alone; no account lookup happens per request.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID   string   `json:"userId"`
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
}

// Identity is the set of account facts bound into a new token.
type Identity struct {
	SubjectID string
	Username  string
	Role      UserRole
}

// TokenService signs and verifies HS256 bearer tokens.
//
// It holds no mutable state and is safe for concurrent use.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customises a [TokenService].
type TokenOption func(*TokenService)

// WithClock replaces time.Now, mainly for expiry tests.
func WithClock(now func() time.Time) TokenOption {
	return func(service *TokenService) {
		service.now = now
	}
}

// WithTTL overrides [DefaultTokenTTL].
func WithTTL(ttl time.Duration) TokenOption {
	return func(service *TokenService) {
		service.ttl = ttl
	}
}

// NewTokenService creates a new TokenService for the given signing secret.
func NewTokenService(secret []byte, issuer string, opts ...TokenOption) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, errors.New("sec: empty signing secret")
	}

	service := &TokenService{
		secret: secret,
		issuer: issuer,
		ttl:    DefaultTokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}

	if service.ttl <= 0 {
		return nil, fmt.Errorf("sec: token ttl must be positive, got %s", service.ttl)
	}

	return service, nil
}

// TTL reports the validity window applied to issued tokens.
func (service *TokenService) TTL() time.Duration {
	return service.ttl
}

// Issue creates a signed token for the given identity.
func (service *TokenService) Issue(identity Identity) (string, error) {
	issuedAt := service.now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.SubjectID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(ceilSecond(issuedAt.Add(service.ttl))),
		},
		UserID:   identity.SubjectID,
		Username: identity.Username,
		Role:     identity.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// ceilSecond rounds up to the next whole second. NumericDate truncates, which
// would otherwise end a token's life before issuedAt + ttl.
func ceilSecond(instant time.Time) time.Time {
	rounded := instant.Truncate(time.Second)
	if rounded.Before(instant) {
		rounded = rounded.Add(time.Second)
	}
	return rounded
}

// Verify checks the signature and lifetime of a token string.
//
// A token is rejected at and after its expiry instant. The embedded claims
// are returned unchanged.
func (service *TokenService) Verify(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{},
		func(token *jwt.Token) (any, error) {
			return service.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(service.issuer),
		jwt.WithTimeFunc(service.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
