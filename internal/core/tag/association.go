// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"

	"github.com/taibuivan/listify/internal/core/mediakind"
	"github.com/taibuivan/listify/internal/platform/apperr"
)

// Associations manages the set of tags linked to each media item.
//
// Every method runs on the caller's context; when that context carries a
// transaction the tag writes join it.
type Associations struct {
	repo       Repository
	normalizer *Normalizer
}

// NewAssociations constructs an [Associations] manager.
func NewAssociations(repo Repository, normalizer *Normalizer) *Associations {
	return &Associations{repo: repo, normalizer: normalizer}
}

/*
Attach links the named tags to a media item, creating tags as needed.

Names are trimmed and deduplicated case-insensitively; blanks are skipped and
links that already exist are left untouched.

Returns:
  - []*Tag: The resolved tags in input order (after deduplication)
*/
func (associations *Associations) Attach(context context.Context, mediaID int64, kind mediakind.Kind, names []string) ([]*Tag, error) {
	normalized := Normalize(names)
	tags := make([]*Tag, 0, len(normalized))

	for _, name := range normalized {
		tag, err := associations.normalizer.GetOrCreate(context, name)
		if err != nil {
			return nil, err
		}

		if err := associations.repo.Attach(context, mediaID, tag.ID, kind); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	return tags, nil
}

// Replace clears every link of a media item and attaches names instead.
// An empty names slice leaves the media untagged.
func (associations *Associations) Replace(context context.Context, mediaID int64, kind mediakind.Kind, names []string) ([]*Tag, error) {
	if err := associations.repo.DetachAll(context, mediaID); err != nil {
		return nil, err
	}
	return associations.Attach(context, mediaID, kind, names)
}

// Remove unlinks the named tags from a media item. Unknown names are ignored.
func (associations *Associations) Remove(context context.Context, mediaID int64, names []string) error {
	tagIDs := make([]int64, 0, len(names))

	for _, name := range Normalize(names) {
		tag, err := associations.repo.FindByName(context, name)
		if apperr.HasCode(err, apperr.CodeNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		tagIDs = append(tagIDs, tag.ID)
	}

	if len(tagIDs) == 0 {
		return nil
	}
	return associations.repo.Detach(context, mediaID, tagIDs)
}

// TagsForMedia returns the tags currently linked to a media item.
func (associations *Associations) TagsForMedia(context context.Context, mediaID int64) ([]*Tag, error) {
	return associations.repo.ListForMedia(context, mediaID)
}

// MediaIDsForTag resolves a slug and returns the linked media ids, optionally
// restricted to one kind.
func (associations *Associations) MediaIDsForTag(context context.Context, tagSlug string, kind *mediakind.Kind) ([]int64, error) {
	tag, err := associations.repo.FindBySlug(context, tagSlug)
	if err != nil {
		return nil, err
	}
	return associations.repo.MediaIDs(context, tag.ID, kind)
}
