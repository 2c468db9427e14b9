// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package tag owns free-form tags: slug allocation, case-insensitive
// get-or-create, and the many-to-many association with media items.
package tag

import (
	"strings"
	"time"
)

// Tag is a user-facing label attached to media.
//
// Names are unique case-insensitively; the first spelling wins and is kept
// as the display name. Slugs are unique and never change once allocated.
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"-"`
}

// Normalize trims names, drops blanks and removes case-insensitive duplicates.
// The first spelling and the original order are preserved.
func Normalize(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))

	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}

		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}

		seen[key] = struct{}{}
		out = append(out, name)
	}

	return out
}
