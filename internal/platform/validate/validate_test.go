// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/anipulse/internal/platform/apperr"
	"github.com/taibuivan/anipulse/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		hasError bool
	}{
		{"valid_string", "kira", false},
		{"empty_string", "", true},
		{"whitespace_only", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required("username", tt.value)

			if tt.hasError {
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, apperr.KindValidation, ae.Kind)
				assert.Equal(t, "username", ae.Fields[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "kira@example.com", true},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "kira@", false},
		{"display_name", "Kira <kira@example.com>", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("email", tt.email)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_URL accepts absolute http(s) links and upload paths.
*/
func TestValidator_URL(t *testing.T) {
	tests := []struct {
		value   string
		isValid bool
	}{
		{"https://cdn.example.com/cover.png", true},
		{"http://example.com", true},
		{"/uploads/abc.png", true},
		{"//evil.example.com/x.png", false},
		{"javascript:alert(1)", false},
		{"ftp://example.com/file", false},
		{"not a url", false},
	}

	for _, tt := range tests {
		v := &validate.Validator{}
		v.URL("cover_image_url", tt.value)
		assert.Equal(t, !tt.isValid, v.HasErrors(), tt.value)
	}
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("username", "").
		MinLen("username", "ab", 3).
		Email("email", "not-an-email").
		MinLen("password", "123", 6).
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Len(t, ae.Fields, 4)
}

/*
TestValidator_Chain_Success verifies a clean chain yields nil.
*/
func TestValidator_Chain_Success(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("username", "kira").
		MinLen("username", "kira", 3).
		MaxLen("username", "kira", 32).
		Email("email", "kira@example.com").
		MaxBytes("password", "secret1", 72).
		OneOf("role", "admin", "viewer", "admin").
		Range("year", 2024, 1900, 2100).
		Err()

	assert.NoError(t, err)
}
