// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/anipulse/internal/platform/apperr"
	"github.com/taibuivan/anipulse/internal/platform/respond"
	"github.com/taibuivan/anipulse/internal/platform/sec"
	"github.com/taibuivan/anipulse/internal/users/account"
	"github.com/taibuivan/anipulse/internal/users/auth"
)

type accountFixture struct {
	repo   *MockAccountRepository
	tokens *sec.TokenService
	server *httptest.Server
}

func newAccountFixture(t *testing.T) *accountFixture {
	t.Helper()

	tokens, err := sec.NewTokenService([]byte("account-test-secret"), "anipulse.test")
	require.NoError(t, err)

	repo := new(MockAccountRepository)
	handler := account.NewHandler(account.NewService(repo), tokens)

	server := httptest.NewServer(handler.Routes())
	t.Cleanup(server.Close)

	return &accountFixture{repo: repo, tokens: tokens, server: server}
}

func (fixture *accountFixture) token(t *testing.T, user *auth.User) string {
	t.Helper()
	token, err := fixture.tokens.Issue(user.Identity())
	require.NoError(t, err)
	return token
}

func (fixture *accountFixture) do(t *testing.T, method, path, token, body string) *http.Response {
	t.Helper()

	request, err := http.NewRequest(method, fixture.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := http.DefaultClient.Do(request)
	require.NoError(t, err)
	t.Cleanup(func() { response.Body.Close() })
	return response
}

func TestHandler_Me(t *testing.T) {
	fixture := newAccountFixture(t)
	user := sampleUser(sec.RoleViewer)
	fixture.repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	response := fixture.do(t, http.MethodGet, "/me", fixture.token(t, user), "")
	require.Equal(t, http.StatusOK, response.StatusCode)

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(response.Body).Decode(&envelope))

	assert.Equal(t, "kira", envelope.Data["username"])
	assert.NotContains(t, envelope.Data, "password_hash")
	assert.NotContains(t, envelope.Data, "PasswordHash")
}

func TestHandler_Me_RequiresToken(t *testing.T) {
	fixture := newAccountFixture(t)

	response := fixture.do(t, http.MethodGet, "/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
}

func TestHandler_List_AdminOnly(t *testing.T) {
	fixture := newAccountFixture(t)
	viewer := sampleUser(sec.RoleViewer)

	response := fixture.do(t, http.MethodGet, "/", fixture.token(t, viewer), "")
	require.Equal(t, http.StatusForbidden, response.StatusCode)

	var envelope respond.ErrorEnvelope
	require.NoError(t, json.NewDecoder(response.Body).Decode(&envelope))
	assert.Equal(t, apperr.KindAuthorization, envelope.Kind)
	assert.Equal(t, "Admins only", envelope.Message)
}

func TestHandler_List(t *testing.T) {
	fixture := newAccountFixture(t)
	admin := sampleUser(sec.RoleAdmin)

	fixture.repo.On("List", mock.Anything, 10, 10).Return([]*auth.User{sampleUser(sec.RoleViewer)}, 11, nil)

	response := fixture.do(t, http.MethodGet, "/?page=2&limit=10", fixture.token(t, admin), "")
	require.Equal(t, http.StatusOK, response.StatusCode)

	var envelope struct {
		Data []auth.PublicUser `json:"data"`
		Meta struct {
			Page       int `json:"page"`
			Total      int `json:"total"`
			TotalPages int `json:"total_pages"`
		} `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(response.Body).Decode(&envelope))

	assert.Len(t, envelope.Data, 1)
	assert.Equal(t, 2, envelope.Meta.Page)
	assert.Equal(t, 11, envelope.Meta.Total)
	assert.Equal(t, 2, envelope.Meta.TotalPages)
}

func TestHandler_ChangeRole(t *testing.T) {
	admin := sampleUser(sec.RoleAdmin)
	target := sampleUser(sec.RoleViewer)

	t.Run("promote", func(t *testing.T) {
		fixture := newAccountFixture(t)
		promoted := *target
		promoted.Role = sec.RoleAdmin
		fixture.repo.On("UpdateRole", mock.Anything, target.ID, sec.RoleAdmin).Return(&promoted, nil)

		response := fixture.do(t, http.MethodPatch, "/"+target.ID+"/role", fixture.token(t, admin), `{"role":"admin"}`)
		assert.Equal(t, http.StatusOK, response.StatusCode)
	})

	t.Run("unknown role", func(t *testing.T) {
		fixture := newAccountFixture(t)

		response := fixture.do(t, http.MethodPatch, "/"+target.ID+"/role", fixture.token(t, admin), `{"role":"guest"}`)
		assert.Equal(t, http.StatusBadRequest, response.StatusCode)
	})

	t.Run("self", func(t *testing.T) {
		fixture := newAccountFixture(t)

		response := fixture.do(t, http.MethodPatch, "/"+admin.ID+"/role", fixture.token(t, admin), `{"role":"viewer"}`)
		assert.Equal(t, http.StatusForbidden, response.StatusCode)
	})

	t.Run("viewer cannot promote", func(t *testing.T) {
		fixture := newAccountFixture(t)
		viewer := sampleUser(sec.RoleViewer)

		response := fixture.do(t, http.MethodPatch, "/"+viewer.ID+"/role", fixture.token(t, viewer), `{"role":"admin"}`)
		assert.Equal(t, http.StatusForbidden, response.StatusCode)
		fixture.repo.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything)
	})
}
