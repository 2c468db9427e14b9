// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"

	"github.com/taibuivan/listify/internal/core/mediakind"
)

// # Tag Data Access

// Repository defines the data access contract for tags and media associations.
//
// Implementations must honour a transaction carried by the context so that tag
// writes commit or roll back together with the media write that caused them.
type Repository interface {

	/*
		FindByName returns the tag whose name matches case-insensitively.

		Returns:
		  - *Tag: The stored tag (display name as first written)
		  - error: NOT_FOUND if absent
	*/
	FindByName(context context.Context, name string) (*Tag, error)

	/*
		FindBySlug returns the tag with the exact slug.

		Returns:
		  - error: NOT_FOUND if absent
	*/
	FindBySlug(context context.Context, slug string) (*Tag, error)

	// SlugExists reports whether a slug is already allocated.
	SlugExists(context context.Context, slug string) (bool, error)

	/*
		Insert stores a new tag and sets its ID.

		Returns:
		  - bool: false when the name or slug was taken concurrently (nothing written)
		  - error: Storage failures
	*/
	Insert(context context.Context, tag *Tag) (bool, error)

	// List returns every tag ordered by name.
	List(context context.Context) ([]*Tag, error)

	// Attach links a tag to a media item; an existing link is left as is.
	Attach(context context.Context, mediaID, tagID int64, kind mediakind.Kind) error

	// Detach removes the given links; missing links are ignored.
	Detach(context context.Context, mediaID int64, tagIDs []int64) error

	// DetachAll removes every tag link of a media item.
	DetachAll(context context.Context, mediaID int64) error

	// ListForMedia returns the tags linked to a media item ordered by name.
	ListForMedia(context context.Context, mediaID int64) ([]*Tag, error)

	// MediaIDs returns the media linked to a tag, newest first, optionally filtered by kind.
	MediaIDs(context context.Context, tagID int64, kind *mediakind.Kind) ([]int64, error)
}
