// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps objects on the local filesystem.
type LocalStore struct {
	root      string
	urlPrefix string
}

// NewLocalStore creates root if needed. urlPrefix is where the router serves root (e.g. "/uploads").
func NewLocalStore(root, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: failed to create %s: %w", root, err)
	}
	return &LocalStore{root: root, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

// Root returns the directory backing the store.
func (store *LocalStore) Root() string {
	return store.root
}

// Put writes body to a temporary file and renames it into place, so readers
// never observe a partial image.
func (store *LocalStore) Put(ctx context.Context, key string, body io.Reader, _ string) (string, error) {
	if !validKey(key) {
		return "", ErrInvalidKey
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	target := filepath.Join(store.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("storage: failed to create directory: %w", err)
	}

	temp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("storage: failed to create temp file: %w", err)
	}
	defer os.Remove(temp.Name())

	if _, err := io.Copy(temp, body); err != nil {
		_ = temp.Close()
		return "", fmt.Errorf("storage: failed to write object: %w", err)
	}
	if err := temp.Close(); err != nil {
		return "", fmt.Errorf("storage: failed to close object: %w", err)
	}
	if err := os.Rename(temp.Name(), target); err != nil {
		return "", fmt.Errorf("storage: failed to commit object: %w", err)
	}

	return store.urlPrefix + "/" + key, nil
}

// Delete removes the file behind key.
func (store *LocalStore) Delete(_ context.Context, key string) error {
	if !validKey(key) {
		return ErrInvalidKey
	}

	err := os.Remove(filepath.Join(store.root, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: failed to delete object: %w", err)
	}
	return nil
}

// Ping checks that the root directory still exists.
func (store *LocalStore) Ping(_ context.Context) error {
	info, err := os.Stat(store.root)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage: %s is not a directory", store.root)
	}
	return nil
}
