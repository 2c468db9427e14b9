// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates URL slugs for tag names.
//
// # Usage
//
// Slugs are the stable, unique identifiers of tags (e.g. "Sci Fi" → "sci-fi").
// Unicode letters and digits are preserved so that non-Latin tags keep a
// readable slug; only punctuation and symbols are dropped.
package slug

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// lower is the language-neutral case mapper.
var lower = cases.Lower(language.Und)

// From converts a display name into a slug.
//
// # Transformation Pipeline
//
//  1. Composes to NFC so accented letters are single runes.
//  2. Lower-cases and trims surrounding whitespace.
//  3. Drops every rune that is not a word character, whitespace or '-'.
//  4. Collapses each run of whitespace and hyphens into a single '-'.
//
// Leading or trailing hyphens that survive step 4 are kept; From is a pure
// function and never consults the store.
func From(s string) string {
	// 1-2. Normalize, lowercase, trim
	result := strings.TrimSpace(lower.String(norm.NFC.String(s)))

	// 3. Strip punctuation and symbols
	result = strings.Map(func(r rune) rune {
		if isWord(r) || unicode.IsSpace(r) || r == '-' {
			return r
		}
		return -1
	}, result)

	// 4. Collapse separators
	var builder strings.Builder
	builder.Grow(len(result))

	inSeparator := false
	for _, r := range result {
		if unicode.IsSpace(r) || r == '-' {
			if !inSeparator {
				builder.WriteRune('-')
				inSeparator = true
			}
			continue
		}
		builder.WriteRune(r)
		inSeparator = false
	}

	return builder.String()
}

// WithSuffix returns the n-th collision candidate for base ("base-1", "base-2", ...).
// n <= 0 yields base itself.
func WithSuffix(base string, n int) string {
	if n <= 0 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}

// isWord reports whether r is a letter, number or underscore.
func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
