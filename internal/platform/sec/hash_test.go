// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/anipulse/internal/platform/sec"
)

func newTestHasher(t *testing.T) *sec.PasswordHasher {
	t.Helper()
	hasher, err := sec.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return hasher
}

func TestNewPasswordHasher_RejectsBadCost(t *testing.T) {
	_, err := sec.NewPasswordHasher(2)
	assert.Error(t, err)

	_, err = sec.NewPasswordHasher(bcrypt.MaxCost + 1)
	assert.Error(t, err)
}

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := newTestHasher(t)

	hashed, err := hasher.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, "secret1", hashed)
	assert.NotContains(t, hashed, "secret1")
	assert.True(t, hasher.Verify("secret1", hashed))
	assert.False(t, hasher.Verify("wrong", hashed))
}

func TestPasswordHasher_SaltPerCall(t *testing.T) {
	hasher := newTestHasher(t)

	first, err := hasher.Hash("secret1")
	require.NoError(t, err)
	second, err := hasher.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("secret1", first))
	assert.True(t, hasher.Verify("secret1", second))
}

func TestPasswordHasher_CostIsApplied(t *testing.T) {
	hasher, err := sec.NewPasswordHasher(sec.DefaultBcryptCost)
	require.NoError(t, err)

	hashed, err := hasher.Hash("secret1")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hashed))
	require.NoError(t, err)
	assert.Equal(t, sec.DefaultBcryptCost, cost)
}

func TestPasswordHasher_MalformedHashIsMismatch(t *testing.T) {
	hasher := newTestHasher(t)

	assert.False(t, hasher.Verify("secret1", ""))
	assert.False(t, hasher.Verify("secret1", "not-a-bcrypt-hash"))
	assert.NotPanics(t, func() { hasher.Burn("anything") })
}

func TestPasswordHasher_TooLong(t *testing.T) {
	hasher := newTestHasher(t)

	_, err := hasher.Hash(strings.Repeat("a", 73))
	assert.Error(t, err)
}
