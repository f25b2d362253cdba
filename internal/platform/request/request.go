// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away the router's parameter extraction and common body decoding
patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/anipulse/internal/platform/apperr"
	"github.com/taibuivan/anipulse/internal/platform/ctxutil"
	"github.com/taibuivan/anipulse/internal/platform/sec"
	"github.com/taibuivan/anipulse/internal/platform/validate"
)

// maxJSONBody caps JSON request bodies. Uploads go through multipart instead.
const maxJSONBody = 1 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - writer: http.ResponseWriter (needed to cap the body size)
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	body := http.MaxBytesReader(writer, request.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Int64Param parses a numeric URL parameter such as an anime or fan-art ID.

Returns:
  - int64: The parsed, positive identifier
  - error: apperr.ValidationError when the segment is not a positive integer
*/
func Int64Param(request *http.Request, name string) (int64, error) {
	raw := chi.URLParam(request, name)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, validate.FieldError(name, "Must be a positive integer")
	}

	return id, nil
}

/*
RequiredClaims ensures the request is authenticated and returns the user claims.

Returns:
  - *sec.AuthClaims: The authenticated user claims
  - error: apperr.Unauthenticated if the request is not authenticated
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetClaims(request.Context())
	if claims == nil {
		return nil, apperr.Unauthenticated("No token provided")
	}
	return claims, nil
}

// # Multipart Uploads

// multipartMemory is how much of a multipart body is kept in memory before
// spilling file parts to disk.
const multipartMemory = 4 << 20

// sniffLength is the prefix http.DetectContentType inspects.
const sniffLength = 512

// IsMultipart reports whether the request carries a multipart/form-data body.
func IsMultipart(request *http.Request) bool {
	return strings.HasPrefix(request.Header.Get("Content-Type"), "multipart/form-data")
}

/*
ParseMultipart caps the body at maxBytes and parses the form.

Returns:
  - error: validation_error when the body is too large or malformed
*/
func ParseMultipart(writer http.ResponseWriter, request *http.Request, maxBytes int64) error {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBytes)

	if err := request.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return validate.FieldError("image", "File is too large")
		}
		return apperr.ValidationError("Invalid multipart form")
	}
	return nil
}

// Image is an uploaded file whose content has been sniffed as an image.
type Image struct {
	File        multipart.File
	ContentType string
	Size        int64
}

/*
FormImage returns the image uploaded under field, or nil when the field is absent.

The declared part header is not trusted; the first bytes of the file decide
the content type. Callers must close Image.File.

Returns:
  - *Image: The opened upload, rewound to its first byte
  - error: validation_error when the file is not an image
*/
func FormImage(request *http.Request, field string) (*Image, error) {
	file, header, err := request.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, validate.FieldError(field, "Could not read the uploaded file")
	}

	prefix := make([]byte, sniffLength)
	n, err := io.ReadFull(file, prefix)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		file.Close()
		return nil, validate.FieldError(field, "Could not read the uploaded file")
	}

	contentType := http.DetectContentType(prefix[:n])
	if !strings.HasPrefix(contentType, "image/") {
		file.Close()
		return nil, validate.FieldError(field, "Only image files are allowed")
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, apperr.Internal(err)
	}

	return &Image{File: file, ContentType: contentType, Size: header.Size}, nil
}

// FormValue returns the trimmed form field, or nil when it is empty.
func FormValue(request *http.Request, field string) *string {
	value := strings.TrimSpace(request.FormValue(field))
	if value == "" {
		return nil
	}
	return &value
}
