// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug turns anime titles into ASCII URL slugs
// (e.g. "Sousou no Frieren" → "sousou-no-frieren").
package slug

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength caps slugs so they fit comfortably in URLs and indexes.
const MaxLength = 80

// From converts an arbitrary Unicode title into a URL-safe ASCII slug.
//
// Accents are stripped after NFD decomposition, anything that is not an
// ASCII letter or digit becomes a single hyphen, and the result is trimmed
// to [MaxLength]. Titles written entirely in non-Latin scripts yield "".
func From(title string) string {
	decomposed, _, _ := transform.String(transform.Chain(norm.NFD, transform.RemoveFunc(isMn)), title)

	var builder strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(decomposed) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingHyphen && builder.Len() > 0 {
				builder.WriteByte('-')
			}
			builder.WriteRune(r)
			pendingHyphen = false
			continue
		}
		pendingHyphen = true
	}

	result := builder.String()
	if len(result) > MaxLength {
		result = strings.TrimRight(result[:MaxLength], "-")
	}
	return result
}

// WithYear disambiguates remakes that share a title ("hunter-x-hunter-2011").
func WithYear(base string, year int) string {
	if year <= 0 {
		return base
	}
	if base == "" {
		return strconv.Itoa(year)
	}
	return base + "-" + strconv.Itoa(year)
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
