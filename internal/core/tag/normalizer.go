// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/listify/internal/platform/apperr"
	"github.com/taibuivan/listify/internal/platform/constants"
	"github.com/taibuivan/listify/internal/platform/ctxutil"
	"github.com/taibuivan/listify/internal/platform/validate"
	"github.com/taibuivan/listify/pkg/slug"
)

const (
	// fallbackSlug is used when a name has no word characters at all.
	fallbackSlug = "tag"

	// maxCreateAttempts bounds the insert/refetch loop under contention.
	maxCreateAttempts = 5
)

// Normalizer resolves tag names to canonical [Tag] rows, creating them on demand.
type Normalizer struct {
	repo Repository
}

// NewNormalizer constructs a [Normalizer].
func NewNormalizer(repo Repository) *Normalizer {
	return &Normalizer{repo: repo}
}

/*
GetOrCreate returns the tag whose name equals name case-insensitively,
creating it when absent.

Description: A new tag gets the slug of its name, suffixed with "-1", "-2", ...
until it is free. When a concurrent writer claims the name (or the chosen slug)
first, the insert writes nothing and the lookup is retried, so two racing
callers always end up with the same row.

Parameters:
  - context: context.Context
  - name: string (display name, surrounding whitespace ignored)

Returns:
  - *Tag: The existing or newly created tag; nil for a blank name, which is skipped
  - error: VALIDATION_ERROR for oversized names
*/
func (normalizer *Normalizer) GetOrCreate(context context.Context, name string) (*Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	validator := &validate.Validator{}
	validator.MaxLen("tags", name, constants.MaxTagNameLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxCreateAttempts; attempt++ {

		// Case-insensitive lookup
		existing, err := normalizer.repo.FindByName(context, name)
		if err == nil {
			return existing, nil
		}
		if !apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, err
		}

		// Slug allocation
		candidate, err := normalizer.availableSlug(context, name)
		if err != nil {
			return nil, err
		}

		tag := &Tag{Name: name, Slug: candidate}
		inserted, err := normalizer.repo.Insert(context, tag)
		if err != nil {
			return nil, err
		}

		if inserted {
			ctxutil.GetLogger(context).Debug("tag_created",
				slog.Int64("tag_id", tag.ID),
				slog.String("slug", tag.Slug),
			)
			return tag, nil
		}
	}

	return nil, apperr.Internal(fmt.Errorf("tag: gave up creating %q after %d attempts", name, maxCreateAttempts))
}

// availableSlug returns the first unallocated slug derived from name.
func (normalizer *Normalizer) availableSlug(context context.Context, name string) (string, error) {
	base := slug.From(name)
	if base == "" {
		base = fallbackSlug
	}

	for n := 0; ; n++ {
		candidate := slug.WithSuffix(base, n)

		exists, err := normalizer.repo.SlugExists(context, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
}
