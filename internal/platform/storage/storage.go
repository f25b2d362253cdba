// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage persists uploaded images (anime covers and fan art).

Two backends implement [ObjectStore]:

  - LocalStore: files under a directory served by the API at /uploads.
  - S3Store: any S3-compatible bucket (AWS, MinIO, R2).

Callers only ever see the object key and the public URL returned by Put.
*/
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/taibuivan/anipulse/pkg/uuid"
)

// ErrInvalidKey is returned for keys that would escape the store's namespace.
var ErrInvalidKey = errors.New("storage: invalid object key")

// ObjectStore is the minimal blob API the domain packages need.
type ObjectStore interface {
	// Put stores body under key and returns the URL clients should use.
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)

	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}

// allowedExtensions maps image content types to the extension stored in keys.
var allowedExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/avif": ".avif",
}

// NewKey builds a unique key such as "fanart/0190f3a0-....png".
//
// The original filename is never used, only the content type.
func NewKey(prefix, contentType string) string {
	extension, ok := allowedExtensions[strings.ToLower(contentType)]
	if !ok {
		extension = ".bin"
	}
	return path.Join(prefix, uuid.New()+extension)
}

// validKey rejects empty, absolute and parent-relative keys.
func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return false
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return false
		}
	}
	return true
}
