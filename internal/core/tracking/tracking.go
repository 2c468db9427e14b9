// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package tracking records each user's progress through catalog media.

A user holds at most one entry per media item. Every write passes through
[ApplyIntegrityRules], which keeps priority, rating, progress and the
start/end dates consistent with the entry's status. Deleting the last entry
that references a custom media item deletes that item as well.
*/
package tracking

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/taibuivan/listify/internal/core/media"
	"github.com/taibuivan/listify/internal/core/mediakind"
	"github.com/taibuivan/listify/pkg/date"
)

// # Field Names

const (
	FieldMediaID  = "media_id"
	FieldKind     = "kind"
	FieldStatus   = "status"
	FieldPriority = "priority"
	FieldRating   = "rating"
	FieldProgress = "progress"
	FieldNotes    = "notes"
	FieldSort     = "sort"
)

// MaxNotesLength bounds free-form notes.
const MaxNotesLength = 5000

// # Enumerations

// Status is the lifecycle state of a tracking entry.
type Status string

const (
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusDropped    Status = "dropped"
	StatusOnHold     Status = "on_hold"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusPlanned, StatusInProgress, StatusCompleted, StatusDropped, StatusOnHold}

// Priority orders planned entries.
type Priority string

const (
	PriorityHigh Priority = "high"
	PriorityMid  Priority = "mid"
	PriorityLow  Priority = "low"
)

// Rank maps a priority to its sort weight (high=3 ... none=0).
func (p *Priority) Rank() int {
	if p == nil {
		return 0
	}
	switch *p {
	case PriorityHigh:
		return 3
	case PriorityMid:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Sort selects the ordering of a library listing.
type Sort string

const (
	SortDefault  Sort = ""
	SortPriority Sort = "priority"
	SortRating   Sort = "rating"
	SortTitle    Sort = "title"
	SortCreated  Sort = "created"
)

var (
	statusValues   = []string{"planned", "in_progress", "completed", "dropped", "on_hold"}
	priorityValues = []string{"high", "mid", "low"}
	sortValues     = []string{"priority", "rating", "title", "created"}
)

// # Domain Model

// Entry is one user's tracking state for one media item.
type Entry struct {
	ID        int64          `json:"id"`
	UserID    string         `json:"user_id"`
	MediaID   int64          `json:"media_id"`
	Kind      mediakind.Kind `json:"kind"`
	Status    Status         `json:"status"`
	Priority  *Priority      `json:"priority"`
	Rating    *float64       `json:"rating"`
	Progress  int            `json:"progress"`
	StartDate *date.Date     `json:"start_date"`
	EndDate   *date.Date     `json:"end_date"`
	Favorite  bool           `json:"favorite"`
	Notes     *string        `json:"notes"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	// Media is hydrated on reads and omitted otherwise.
	Media *media.Media `json:"media,omitempty"`
}

// Statistics summarizes a user's library.
type Statistics struct {
	Total         int                    `json:"total"`
	ByStatus      map[Status]int         `json:"by_status"`
	Favorites     int                    `json:"favorites"`
	AverageRating float64                `json:"average_rating"`
	ByKind        map[mediakind.Kind]int `json:"by_kind,omitempty"`
}

// StatRow is one (status, kind) aggregate produced by the repository.
type StatRow struct {
	Status      Status
	Kind        mediakind.Kind
	Count       int
	Favorites   int
	RatingSum   float64
	RatingCount int
}

// Filter narrows and orders a library listing.
type Filter struct {
	Status   *Status
	Kind     *mediakind.Kind
	Favorite *bool
	Sort     Sort
	Offset   int
	Limit    int
}

// # Inputs

// CreateInput is the payload for a new entry.
type CreateInput struct {
	MediaID   int64          `json:"media_id"`
	Kind      mediakind.Kind `json:"kind"`
	Status    Status         `json:"status"`
	Priority  *Priority      `json:"priority"`
	Rating    *float64       `json:"rating"`
	Progress  *int           `json:"progress"`
	StartDate *date.Date     `json:"start_date"`
	EndDate   *date.Date     `json:"end_date"`
	Favorite  bool           `json:"favorite"`
	Notes     *string        `json:"notes"`
}

// Patch is a partial update. Nil pointers are left unchanged; [Nullable]
// fields distinguish "absent" from an explicit null that clears the value.
type Patch struct {
	Status    *Status             `json:"status"`
	Priority  Nullable[Priority]  `json:"priority"`
	Rating    Nullable[float64]   `json:"rating"`
	Progress  *int                `json:"progress"`
	StartDate Nullable[date.Date] `json:"start_date"`
	EndDate   Nullable[date.Date] `json:"end_date"`
	Favorite  *bool               `json:"favorite"`
	Notes     Nullable[string]    `json:"notes"`
}

// Nullable is a patch value for a nullable column.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// Set returns a Nullable that assigns value.
func Set[T any](value T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &value}
}

// Clear returns a Nullable that resets the column to null.
func Clear[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// UnmarshalJSON marks the field as supplied; a JSON null clears it.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	n.Value = &value
	return nil
}

// apply writes the patch value into target when supplied.
func (n Nullable[T]) apply(target **T) {
	if !n.Set {
		return
	}
	if n.Value == nil {
		*target = nil
		return
	}
	copied := *n.Value
	*target = &copied
}
