// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tracking

import (
	"context"

	"github.com/taibuivan/listify/internal/core/mediakind"
)

// # Tracking Data Access

// Repository defines the persistence contract for tracking entries.
//
// Every method runs on the transaction carried by the context when one is active.
type Repository interface {

	// FindByUserAndMedia returns the caller's entry for a media item, or NOT_FOUND.
	FindByUserAndMedia(context context.Context, userID string, mediaID int64) (*Entry, error)

	/*
		Insert stores a new entry and sets its ID and timestamps.

		Returns:
		  - bool: false when the user already tracks the media (nothing written)
		  - error: Storage failures
	*/
	Insert(context context.Context, entry *Entry) (bool, error)

	// Update rewrites the mutable columns of an existing entry.
	Update(context context.Context, entry *Entry) error

	// Delete removes the caller's entry and reports whether one existed.
	Delete(context context.Context, userID string, mediaID int64) (bool, error)

	// CountForMedia returns how many entries (any user) reference a media item.
	CountForMedia(context context.Context, mediaID int64) (int, error)

	// List returns a page of the user's entries in filter order and the total count.
	List(context context.Context, userID string, filter Filter) ([]*Entry, int, error)

	// Statistics aggregates the user's entries per (status, kind).
	Statistics(context context.Context, userID string, kind *mediakind.Kind) ([]StatRow, error)
}
