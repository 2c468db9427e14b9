// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package media implements the catalog of trackable media items.

A media item is either provider-sourced (deduplicated on its external key) or
custom (owned by the user who created it). Each item carries exactly one
per-kind [Details] variant and a set of tags.

Architecture:

  - [Catalog] is the service: validation, ownership, dedup and tag orchestration.
  - [Repository] persists the base row plus one detail table per kind.
  - Side effects (cover file removal, result cache eviction) run after commit.
*/
package media

import (
	"time"

	"github.com/taibuivan/listify/internal/core/mediakind"
	"github.com/taibuivan/listify/internal/core/tag"
	"github.com/taibuivan/listify/pkg/date"
)

// # Field Names

const (
	FieldKind           = "kind"
	FieldTitle          = "title"
	FieldDescription    = "description"
	FieldCoverImageURL  = "cover_image_url"
	FieldExternalID     = "external_id"
	FieldExternalSource = "external_source"
	FieldDetails        = "details"
	FieldQuery          = "q"
)

// # Domain Model

// Media is a catalog entry of any kind.
type Media struct {
	ID             int64          `json:"id"`
	Kind           mediakind.Kind `json:"kind"`
	Title          string         `json:"title"`
	Description    *string        `json:"description"`
	ReleaseDate    *date.Date     `json:"release_date"`
	CoverImageURL  *string        `json:"cover_image_url"`
	ExternalID     *string        `json:"external_id"`
	ExternalSource *string        `json:"external_source"`
	IsCustom       bool           `json:"is_custom"`
	CreatedBy      *string        `json:"created_by,omitempty"`
	Details        Details        `json:"details"`
	Tags           []*tag.Tag     `json:"tags"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// ExternalKey is the provider dedup key of a media item.
type ExternalKey struct {
	ID     string
	Source string
	Kind   mediakind.Kind
}

// Key returns the dedup key, or false for media without an external source.
func (m *Media) Key() (ExternalKey, bool) {
	if m.ExternalID == nil || m.ExternalSource == nil {
		return ExternalKey{}, false
	}
	return ExternalKey{ID: *m.ExternalID, Source: *m.ExternalSource, Kind: m.Kind}, true
}

// CanModify reports whether userID may update or delete m.
//
// Only custom media can be modified, and only by its creator.
func CanModify(m *Media, userID string) bool {
	return m.IsCustom && m.CreatedBy != nil && *m.CreatedBy == userID
}

// # Inputs

// CreateInput is the normalized payload for both creation paths.
type CreateInput struct {
	Kind           mediakind.Kind
	Title          string
	Description    *string
	ReleaseDate    *date.Date
	CoverImageURL  *string
	ExternalID     *string
	ExternalSource *string

	// Details may be nil; an empty variant of Kind is stored instead.
	Details Details
	Tags    []string
}

// UpdateInput carries a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	Title         *string
	Description   *string
	ReleaseDate   *date.Date
	CoverImageURL *string

	// Details must match the stored kind; only its non-nil fields are applied.
	Details Details

	// Tags replaces the full tag set when non-nil, even when empty.
	Tags *[]string
}

// Clone returns a copy of m whose details and tag list can be modified
// without affecting m.
func (m *Media) Clone() *Media {
	copied := *m
	if m.Details != nil {
		copied.Details = NewDetails(m.Details.Kind()).merge(m.Details)
	}
	copied.Tags = append([]*tag.Tag{}, m.Tags...)
	return &copied
}
