// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package mediakind defines the closed set of media kinds shared by the
// catalog, tag associations and tracking entries.
package mediakind

import "strings"

// Kind discriminates a media item. It is fixed at creation.
type Kind string

const (
	Movie  Kind = "movie"
	Series Kind = "series"
	Anime  Kind = "anime"
	Manga  Kind = "manga"
	Book   Kind = "book"
	Game   Kind = "game"
)

// All lists every kind in display order.
var All = []Kind{Movie, Series, Anime, Manga, Book, Game}

// IsValid reports whether k is one of [All].
func (k Kind) IsValid() bool {
	for _, known := range All {
		if k == known {
			return true
		}
	}
	return false
}

// Parse resolves a case-insensitive kind name.
func Parse(raw string) (Kind, bool) {
	kind := Kind(strings.ToLower(strings.TrimSpace(raw)))
	return kind, kind.IsValid()
}

// Strings returns [All] as plain strings, for OneOf validation.
func Strings() []string {
	out := make([]string, len(All))
	for i, kind := range All {
		out[i] = string(kind)
	}
	return out
}
