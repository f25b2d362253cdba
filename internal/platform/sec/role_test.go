// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/anipulse/internal/platform/sec"
)

func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleAdmin))
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleViewer))
	assert.True(t, sec.RoleViewer.AtLeast(sec.RoleViewer))
	assert.False(t, sec.RoleViewer.AtLeast(sec.RoleAdmin))
	assert.False(t, sec.UserRole("guest").AtLeast(sec.RoleViewer))
	assert.False(t, sec.UserRole("").AtLeast(sec.RoleViewer))
}

func TestParseRole(t *testing.T) {
	role, ok := sec.ParseRole("admin")
	assert.True(t, ok)
	assert.Equal(t, sec.RoleAdmin, role)

	_, ok = sec.ParseRole("moderator")
	assert.False(t, ok)

	_, ok = sec.ParseRole("ADMIN")
	assert.False(t, ok)
}
