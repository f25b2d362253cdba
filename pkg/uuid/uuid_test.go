// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/anipulse/pkg/uuid"
)

func TestNew_IsSortableV7(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	assert.True(t, uuid.Valid(first))
	assert.Equal(t, byte('7'), first[14], "version nibble")
	assert.NotEqual(t, first, second)
	assert.LessOrEqual(t, first[:13], second[:13], "millisecond prefix must not go backwards")
}

func TestValid(t *testing.T) {
	assert.False(t, uuid.Valid("not-a-uuid"))
	assert.False(t, uuid.Valid(""))
	assert.True(t, uuid.Valid("0190f3a0-0000-7000-8000-000000000001"))
}
