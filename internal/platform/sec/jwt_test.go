// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/anipulse/internal/platform/sec"
)

// fakeClock is a settable time source. Whole seconds keep NumericDate exact.
type fakeClock struct {
	current time.Time
}

func (clock *fakeClock) Now() time.Time { return clock.current }

func newClock() *fakeClock {
	return &fakeClock{current: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)}
}

func newTokenService(t *testing.T, secret string, clock *fakeClock) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService([]byte(secret), "anipulse.test", sec.WithClock(clock.Now))
	require.NoError(t, err)
	return service
}

var kira = sec.Identity{SubjectID: "0190f3a0-0000-7000-8000-000000000001", Username: "kira", Role: sec.RoleViewer}

func TestNewTokenService_Validation(t *testing.T) {
	_, err := sec.NewTokenService(nil, "iss")
	assert.Error(t, err)

	_, err = sec.NewTokenService([]byte("k"), "iss", sec.WithTTL(0))
	assert.Error(t, err)

	service, err := sec.NewTokenService([]byte("k"), "iss")
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, service.TTL())
}

func TestTokenService_RoundTrip(t *testing.T) {
	clock := newClock()
	service := newTokenService(t, "test-secret", clock)

	token, err := service.Issue(kira)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := service.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, kira.SubjectID, claims.Subject)
	assert.Equal(t, kira.SubjectID, claims.UserID)
	assert.Equal(t, "kira", claims.Username)
	assert.Equal(t, sec.RoleViewer, claims.Role)
	assert.Equal(t, clock.current, claims.IssuedAt.Time.UTC())
	assert.Equal(t, clock.current.Add(sec.DefaultTokenTTL), claims.ExpiresAt.Time.UTC())
}

func TestTokenService_ExpiryBoundary(t *testing.T) {
	clock := newClock()
	issuedAt := clock.current
	service := newTokenService(t, "test-secret", clock)

	token, err := service.Issue(kira)
	require.NoError(t, err)

	clock.current = issuedAt.Add(7*24*time.Hour - time.Second)
	_, err = service.Verify(token)
	assert.NoError(t, err, "token must still verify one second before expiry")

	clock.current = issuedAt.Add(7 * 24 * time.Hour)
	_, err = service.Verify(token)
	assert.ErrorIs(t, err, sec.ErrInvalidToken, "token must fail exactly at expiry")

	clock.current = issuedAt.Add(8 * 24 * time.Hour)
	_, err = service.Verify(token)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

func TestTokenService_ExpiryBoundary_SubSecondIssue(t *testing.T) {
	clock := newClock()
	clock.current = clock.current.Add(900 * time.Millisecond)
	issuedAt := clock.current
	service := newTokenService(t, "test-secret", clock)

	token, err := service.Issue(kira)
	require.NoError(t, err)

	clock.current = issuedAt.Add(7*24*time.Hour - 500*time.Millisecond)
	_, err = service.Verify(token)
	assert.NoError(t, err, "token must verify for the whole seven days")

	clock.current = issuedAt.Add(7*24*time.Hour + time.Second)
	_, err = service.Verify(token)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

func TestTokenService_WrongSecret(t *testing.T) {
	clock := newClock()
	issuer := newTokenService(t, "secret-a", clock)
	verifier := newTokenService(t, "secret-b", clock)

	token, err := issuer.Issue(kira)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

func TestTokenService_TamperedPayload(t *testing.T) {
	clock := newClock()
	service := newTokenService(t, "test-secret", clock)

	token, err := service.Issue(kira)
	require.NoError(t, err)

	// Swap in a payload claiming admin while keeping the original signature.
	forged, err := service.Issue(sec.Identity{SubjectID: kira.SubjectID, Username: "kira", Role: sec.RoleAdmin})
	require.NoError(t, err)
	parts := strings.Split(token, ".")
	forgedParts := strings.Split(forged, ".")
	tampered := parts[0] + "." + forgedParts[1] + "." + parts[2]

	_, err = service.Verify(tampered)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

func TestTokenService_Malformed(t *testing.T) {
	service := newTokenService(t, "test-secret", newClock())

	for _, input := range []string{"", "abc", "a.b.c", "Bearer xyz"} {
		_, err := service.Verify(input)
		assert.ErrorIs(t, err, sec.ErrInvalidToken, "input %q", input)
	}
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	clock := newClock()
	service := newTokenService(t, "test-secret", clock)

	claims := sec.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   kira.SubjectID,
			Issuer:    "anipulse.test",
			ExpiresAt: jwt.NewNumericDate(clock.current.Add(time.Hour)),
		},
		Username: "kira",
		Role:     sec.RoleAdmin,
	}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = service.Verify(unsigned)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = service.Verify(hs512)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

func TestTokenService_RequiresExpiry(t *testing.T) {
	clock := newClock()
	service := newTokenService(t, "test-secret", clock)

	claims := sec.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: kira.SubjectID, Issuer: "anipulse.test"},
		Username:         "kira",
		Role:             sec.RoleViewer,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = service.Verify(token)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}
