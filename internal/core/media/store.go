// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"context"

	"github.com/taibuivan/listify/internal/core/mediakind"
	"github.com/taibuivan/listify/pkg/date"
)

// # Media Data Access

// Repository defines the persistence contract for catalog entries.
//
// Every method runs on the transaction carried by the context when one is
// active. Reads return media with details and tags hydrated.
type Repository interface {

	/*
		FindByID returns a media item, optionally requiring a specific kind.

		Returns:
		  - error: NOT_FOUND if absent or of another kind
	*/
	FindByID(context context.Context, id int64, kind *mediakind.Kind) (*Media, error)

	// FindByIDs returns the media with the given ids in the order of ids.
	// Unknown ids are skipped.
	FindByIDs(context context.Context, ids []int64) ([]*Media, error)

	// FindByExternalKey returns the provider-sourced item with key, or NOT_FOUND.
	FindByExternalKey(context context.Context, key ExternalKey) (*Media, error)

	// FindCustomDuplicate returns the owner's custom item of kind whose title
	// equals title case-insensitively and whose release date equals releaseDate
	// (both nil counts as equal), or NOT_FOUND.
	FindCustomDuplicate(context context.Context, ownerID string, kind mediakind.Kind, title string, releaseDate *date.Date) (*Media, error)

	/*
		Insert stores the base row and the details variant, setting ID and timestamps.

		Returns:
		  - bool: false when a unique key (external or custom) was taken concurrently; nothing is written
		  - error: Storage failures
	*/
	Insert(context context.Context, media *Media) (bool, error)

	// Update rewrites the mutable base columns and the details variant.
	Update(context context.Context, media *Media) error

	// Delete removes a media item; details, tag links and tracking rows cascade.
	Delete(context context.Context, id int64) error

	// Search matches query case-insensitively against title or description.
	Search(context context.Context, query string, kind *mediakind.Kind, limit int) ([]*Media, error)

	// List returns a page of media, newest first, and the total count.
	List(context context.Context, kind *mediakind.Kind, offset, limit int) ([]*Media, int, error)

	// ListOrphanIDs returns the ids of media referenced by no tracking entry.
	ListOrphanIDs(context context.Context) ([]int64, error)

	/*
		LockIfOrphaned locks the media row for the rest of the transaction and
		reports whether any tracking entry references it.

		Returns:
		  - *Media: The locked item
		  - bool: true when no tracking entry references the item
		  - error: NOT_FOUND if the item is already gone
	*/
	LockIfOrphaned(context context.Context, id int64) (*Media, bool, error)
}
