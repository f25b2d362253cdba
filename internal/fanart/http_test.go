// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fanart_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/anipulse/internal/fanart"
	"github.com/taibuivan/anipulse/internal/platform/sec"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type httpFixture struct {
	*serviceFixture
	server   *httptest.Server
	owner    string
	stranger string
}

func newHTTPFixture(t *testing.T) *httpFixture {
	t.Helper()

	fixture := newServiceFixture(t)

	tokens, err := sec.NewTokenService([]byte("fanart-test-secret"), "anipulse.test")
	require.NoError(t, err)

	router := chi.NewRouter()
	router.Mount("/api/fanart", fanart.NewHandler(fixture.service, tokens, 1<<20).Routes())

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	owner, err := tokens.Issue(sec.Identity{SubjectID: ownerID, Username: "kira", Role: sec.RoleViewer})
	require.NoError(t, err)
	stranger, err := tokens.Issue(sec.Identity{SubjectID: strangerID, Username: "sakura", Role: sec.RoleViewer})
	require.NoError(t, err)

	return &httpFixture{serviceFixture: fixture, server: server, owner: owner, stranger: stranger}
}

func (fixture *httpFixture) do(t *testing.T, method, path, token, contentType string, body io.Reader) *http.Response {
	t.Helper()

	request, err := http.NewRequest(method, fixture.server.URL+path, body)
	require.NoError(t, err)
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}

	response, err := http.DefaultClient.Do(request)
	require.NoError(t, err)
	t.Cleanup(func() { response.Body.Close() })
	return response
}

// uploadForm posts a multipart form; a nil image omits the file part.
func (fixture *httpFixture) uploadForm(t *testing.T, token string, fields map[string]string, image []byte) *http.Response {
	t.Helper()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	for name, value := range fields {
		require.NoError(t, form.WriteField(name, value))
	}
	if image != nil {
		part, err := form.CreateFormFile("image", "art.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, form.Close())

	return fixture.do(t, http.MethodPost, "/api/fanart", token, form.FormDataContentType(), &body)
}

func decodeData[T any](t *testing.T, response *http.Response) T {
	t.Helper()
	var envelope struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.NewDecoder(response.Body).Decode(&envelope))
	return envelope.Data
}

func errorFields(t *testing.T, response *http.Response) []string {
	t.Helper()
	var envelope struct {
		Kind   string `json:"kind"`
		Fields []struct {
			Field string `json:"field"`
		} `json:"fields"`
	}
	require.NoError(t, json.NewDecoder(response.Body).Decode(&envelope))
	assert.Equal(t, "validation_error", envelope.Kind)

	names := []string{}
	for _, field := range envelope.Fields {
		names = append(names, field.Field)
	}
	return names
}

func TestHandler_Upload(t *testing.T) {
	fixture := newHTTPFixture(t)

	response := fixture.uploadForm(t, fixture.owner, map[string]string{
		"title":    "Frieren at dusk",
		"anime_id": "7",
	}, pngHeader)
	require.Equal(t, http.StatusCreated, response.StatusCode)

	art := decodeData[fanart.FanArt](t, response)
	assert.Equal(t, ownerID, art.UserID)
	assert.Equal(t, "kira", art.Username)
	assert.Equal(t, "Frieren at dusk", *art.Title)
	assert.Equal(t, int64(7), *art.AnimeID)
	assert.True(t, strings.HasPrefix(art.ImageURL, "/uploads/fanart/"))
	assert.True(t, strings.HasSuffix(art.ImageURL, ".png"))
	assert.Empty(t, art.ImageKey)
}

func TestHandler_UploadRequiresAuth(t *testing.T) {
	fixture := newHTTPFixture(t)

	response := fixture.uploadForm(t, "", nil, pngHeader)
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
	assert.Zero(t, fixture.gallery.count())
}

func TestHandler_UploadValidation(t *testing.T) {
	tests := []struct {
		name      string
		fields    map[string]string
		image     []byte
		wantField string
	}{
		{"missing image", map[string]string{"title": "No file"}, nil, fanart.FieldImage},
		{"not an image", nil, []byte("just some text, definitely not pixels"), fanart.FieldImage},
		{"bad anime id", map[string]string{"anime_id": "seven"}, pngHeader, fanart.FieldAnimeID},
		{"negative anime id", map[string]string{"anime_id": "-3"}, pngHeader, fanart.FieldAnimeID},
		{"unknown anime", map[string]string{"anime_id": "404"}, pngHeader, fanart.FieldAnimeID},
		{"title too long", map[string]string{"title": strings.Repeat("t", fanart.MaxTitleLength+1)}, pngHeader, fanart.FieldTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := newHTTPFixture(t)

			response := fixture.uploadForm(t, fixture.owner, tt.fields, tt.image)
			require.Equal(t, http.StatusBadRequest, response.StatusCode)
			assert.Contains(t, errorFields(t, response), tt.wantField)

			assert.Zero(t, fixture.gallery.count())
			assert.Zero(t, fixture.storedFiles(t))
		})
	}
}

func TestHandler_UploadRejectsJSON(t *testing.T) {
	fixture := newHTTPFixture(t)

	response := fixture.do(t, http.MethodPost, "/api/fanart", fixture.owner, "application/json", strings.NewReader(`{"title":"x"}`))
	require.Equal(t, http.StatusBadRequest, response.StatusCode)
	assert.Contains(t, errorFields(t, response), fanart.FieldImage)
}

func TestHandler_GalleryAndMine(t *testing.T) {
	fixture := newHTTPFixture(t)

	for _, token := range []string{fixture.owner, fixture.stranger, fixture.owner} {
		require.Equal(t, http.StatusCreated, fixture.uploadForm(t, token, nil, pngHeader).StatusCode)
	}

	response := fixture.do(t, http.MethodGet, "/api/fanart?limit=2", "", "", nil)
	require.Equal(t, http.StatusOK, response.StatusCode)

	var page struct {
		Data []fanart.FanArt `json:"data"`
		Meta struct {
			Total int `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(response.Body).Decode(&page))
	assert.Len(t, page.Data, 2)
	assert.Equal(t, 3, page.Meta.Total)

	response = fixture.do(t, http.MethodGet, "/api/fanart/mine", "", "", nil)
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)

	response = fixture.do(t, http.MethodGet, "/api/fanart/mine", fixture.stranger, "", nil)
	require.Equal(t, http.StatusOK, response.StatusCode)
	mine := decodeData[[]fanart.FanArt](t, response)
	require.Len(t, mine, 1)
	assert.Equal(t, strangerID, mine[0].UserID)
}

func TestHandler_DeleteOwnerOnly(t *testing.T) {
	fixture := newHTTPFixture(t)

	created := decodeData[fanart.FanArt](t, fixture.uploadForm(t, fixture.owner, nil, pngHeader))
	path := fmt.Sprintf("/api/fanart/%d", created.ID)

	response := fixture.do(t, http.MethodDelete, path, fixture.stranger, "", nil)
	assert.Equal(t, http.StatusNotFound, response.StatusCode)
	assert.Equal(t, 1, fixture.storedFiles(t))

	response = fixture.do(t, http.MethodDelete, path, fixture.owner, "", nil)
	assert.Equal(t, http.StatusNoContent, response.StatusCode)
	assert.Zero(t, fixture.storedFiles(t))

	response = fixture.do(t, http.MethodDelete, path, fixture.owner, "", nil)
	assert.Equal(t, http.StatusNotFound, response.StatusCode)
}
