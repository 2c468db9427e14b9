// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/taibuivan/listify/internal/core/mediakind"
	"github.com/taibuivan/listify/internal/core/tag"
	"github.com/taibuivan/listify/internal/platform/apperr"
	"github.com/taibuivan/listify/internal/platform/constants"
	"github.com/taibuivan/listify/internal/platform/ctxutil"
	"github.com/taibuivan/listify/internal/platform/postgres"
	"github.com/taibuivan/listify/internal/platform/validate"
	"github.com/taibuivan/listify/pkg/pagination"
	"github.com/taibuivan/listify/pkg/pointer"
)

// # Collaborators

// TagAssigner links tags to media items.
type TagAssigner interface {
	Attach(ctx context.Context, mediaID int64, kind mediakind.Kind, names []string) ([]*tag.Tag, error)
	Replace(ctx context.Context, mediaID int64, kind mediakind.Kind, names []string) ([]*tag.Tag, error)
	Remove(ctx context.Context, mediaID int64, names []string) error
	TagsForMedia(ctx context.Context, mediaID int64) ([]*tag.Tag, error)
	MediaIDsForTag(ctx context.Context, tagSlug string, kind *mediakind.Kind) ([]int64, error)
}

// CacheInvalidator evicts cached provider results. Implementations swallow
// their own failures.
type CacheInvalidator interface {
	InvalidateSearch(ctx context.Context, source string)
	Invalidate(ctx context.Context, source, externalID string)
}

// AssetStore removes locally managed cover files.
type AssetStore interface {
	Owns(url string) bool
	Remove(ctx context.Context, url string) (int64, error)
}

// # Service Layer

// Catalog orchestrates creation, lookup, modification and deletion of media.
type Catalog struct {
	repo   Repository
	tags   TagAssigner
	tx     postgres.Transactor
	cache  CacheInvalidator
	assets AssetStore
}

// NewCatalog constructs a [Catalog] with its collaborators.
func NewCatalog(repo Repository, tags TagAssigner, tx postgres.Transactor, cache CacheInvalidator, assets AssetStore) *Catalog {
	return &Catalog{
		repo:   repo,
		tags:   tags,
		tx:     tx,
		cache:  cache,
		assets: assets,
	}
}

// # Creation

/*
CreateExternal registers a provider-sourced media item.

Description: Provider items are deduplicated on (external_id,
external_source, kind). When a match exists it is returned unchanged, even if
the payload differs. A concurrent import of the same key loses the insert
race silently and returns the winner's row.

Parameters:
  - ctx: context.Context
  - input: CreateInput (ExternalID and ExternalSource required)

Returns:
  - *Media: The stored item with details and tags
  - bool: true when this call created the row
  - error: VALIDATION_ERROR on invalid input
*/
func (catalog *Catalog) CreateExternal(ctx context.Context, input CreateInput) (*Media, bool, error) {
	normalizeCreate(&input)

	// Input validation
	validator := &validate.Validator{}
	validator.Required(FieldExternalID, pointer.Val(input.ExternalID)).Required(FieldExternalSource, pointer.Val(input.ExternalSource))
	validateCreate(validator, input)
	if err := validator.Err(); err != nil {
		return nil, false, err
	}

	key := ExternalKey{ID: *input.ExternalID, Source: *input.ExternalSource, Kind: input.Kind}

	// Dedup fast path
	existing, err := catalog.repo.FindByExternalKey(ctx, key)
	if err == nil {
		return existing, false, nil
	}
	if !apperr.HasCode(err, apperr.CodeNotFound) {
		return nil, false, err
	}

	var (
		stored  *Media
		created bool
	)

	err = catalog.tx.WithinTx(ctx, func(ctx context.Context) error {
		media := newMedia(input)

		inserted, err := catalog.repo.Insert(ctx, media)
		if err != nil {
			return err
		}

		// Lost race: the concurrent writer's row is the result
		if !inserted {
			stored, err = catalog.repo.FindByExternalKey(ctx, key)
			return err
		}

		if _, err := catalog.tags.Attach(ctx, media.ID, media.Kind, input.Tags); err != nil {
			return err
		}

		stored, err = catalog.repo.FindByID(ctx, media.ID, nil)
		if err != nil {
			return err
		}
		created = true

		catalog.tx.AfterCommit(ctx, func(ctx context.Context) {
			catalog.cache.InvalidateSearch(ctx, key.Source)
		})
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		ctxutil.GetLogger(ctx).Info("media_created",
			slog.Int64("media_id", stored.ID),
			slog.String("kind", string(stored.Kind)),
			slog.String("external_source", key.Source),
		)
	}
	return stored, created, nil
}

/*
CreateCustom registers a user-authored media item owned by ownerID.

Description: An owner may not hold two custom items of the same kind whose
titles match case-insensitively and whose release dates are equal. External
identifiers in the payload are ignored.

Returns:
  - *Media: The stored item
  - error: VALIDATION_ERROR, or ALREADY_EXISTS for a duplicate
*/
func (catalog *Catalog) CreateCustom(ctx context.Context, input CreateInput, ownerID string) (*Media, error) {
	normalizeCreate(&input)
	input.ExternalID, input.ExternalSource = nil, nil

	validator := &validate.Validator{}
	validator.Required("created_by", ownerID)
	validateCreate(validator, input)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	var stored *Media
	err := catalog.tx.WithinTx(ctx, func(ctx context.Context) error {

		// Duplicate guard
		_, err := catalog.repo.FindCustomDuplicate(ctx, ownerID, input.Kind, input.Title, input.ReleaseDate)
		if err == nil {
			return apperr.AlreadyExists("Media")
		}
		if !apperr.HasCode(err, apperr.CodeNotFound) {
			return err
		}

		media := newMedia(input)
		media.IsCustom = true
		media.CreatedBy = &ownerID

		inserted, err := catalog.repo.Insert(ctx, media)
		if err != nil {
			return err
		}
		if !inserted {
			return apperr.AlreadyExists("Media")
		}

		if _, err := catalog.tags.Attach(ctx, media.ID, media.Kind, input.Tags); err != nil {
			return err
		}

		stored, err = catalog.repo.FindByID(ctx, media.ID, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).Info("media_created",
		slog.Int64("media_id", stored.ID),
		slog.String("kind", string(stored.Kind)),
		slog.Bool("is_custom", true),
	)
	return stored, nil
}

// # Lookups

// Get returns a media item, optionally requiring a kind.
func (catalog *Catalog) Get(ctx context.Context, id int64, kind *mediakind.Kind) (*Media, error) {
	return catalog.repo.FindByID(ctx, id, kind)
}

// GetMany returns the media with the given ids in the order of ids; unknown
// ids are skipped.
func (catalog *Catalog) GetMany(ctx context.Context, ids []int64) ([]*Media, error) {
	return catalog.repo.FindByIDs(ctx, ids)
}

/*
Search returns media whose title or description contains query
(case-insensitive), newest first.

Parameters:
  - limit: int (clamped to 1..100; non-positive means the default of 20)

Returns:
  - error: VALIDATION_ERROR for a blank query
*/
func (catalog *Catalog) Search(ctx context.Context, query string, kind *mediakind.Kind, limit int) ([]*Media, error) {
	query = strings.TrimSpace(query)

	validator := &validate.Validator{}
	if err := validator.Required(FieldQuery, query).Err(); err != nil {
		return nil, err
	}

	return catalog.repo.Search(ctx, query, kind, pagination.ClampLimit(limit))
}

// List returns a page of media, newest first, with the total count.
func (catalog *Catalog) List(ctx context.Context, kind *mediakind.Kind, offset, limit int) ([]*Media, int, error) {
	if offset < 0 {
		offset = 0
	}
	return catalog.repo.List(ctx, kind, offset, pagination.ClampLimit(limit))
}

// ListByTag returns a page of the media linked to a tag slug, newest first.
func (catalog *Catalog) ListByTag(ctx context.Context, tagSlug string, kind *mediakind.Kind, offset, limit int) ([]*Media, int, error) {
	ids, err := catalog.tags.MediaIDsForTag(ctx, tagSlug, kind)
	if err != nil {
		return nil, 0, err
	}

	total := len(ids)
	limit = pagination.ClampLimit(limit)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []*Media{}, total, nil
	}

	end := min(offset+limit, total)
	items, err := catalog.repo.FindByIDs(ctx, ids[offset:end])
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// # Modification

/*
Update applies a partial update to a media item.

Description: Only custom media can be modified, and only by its creator.
A nil userID is a system caller and bypasses the ownership rule. Supplied
detail fields are merged into the stored variant; a non-nil Tags replaces
the whole tag set.

Parameters:
  - ctx: context.Context
  - id: int64
  - kind: *mediakind.Kind (optional; a mismatch reads as NOT_FOUND)
  - input: UpdateInput
  - userID: *string (nil for system callers)

Returns:
  - *Media: The updated item
  - error: NOT_FOUND, PERMISSION_DENIED or VALIDATION_ERROR
*/
func (catalog *Catalog) Update(ctx context.Context, id int64, kind *mediakind.Kind, input UpdateInput, userID *string) (*Media, error) {
	normalizeUpdate(&input)

	validator := &validate.Validator{}
	validateUpdate(validator, input)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	var updated *Media
	err := catalog.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := catalog.repo.FindByID(ctx, id, kind)
		if err != nil {
			return err
		}

		if userID != nil && !CanModify(current, *userID) {
			return apperr.PermissionDenied("Only the creator of a custom media item can modify it")
		}

		// Details must belong to the stored kind
		if input.Details != nil && input.Details.Kind() != current.Kind {
			return validate.RequiredError(FieldDetails, "Details do not match the media kind "+string(current.Kind))
		}

		next := current.Clone()
		applyUpdate(next, input)

		if err := catalog.repo.Update(ctx, next); err != nil {
			return err
		}

		if input.Tags != nil {
			if _, err := catalog.tags.Replace(ctx, next.ID, next.Kind, *input.Tags); err != nil {
				return err
			}
		}

		updated, err = catalog.repo.FindByID(ctx, id, nil)
		if err != nil {
			return err
		}

		if key, ok := updated.Key(); ok {
			catalog.tx.AfterCommit(ctx, func(ctx context.Context) {
				catalog.cache.Invalidate(ctx, key.Source, key.ID)
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).Info("media_updated", slog.Int64("media_id", updated.ID))
	return updated, nil
}

// # Tags

// Tags returns the tags linked to a media item.
func (catalog *Catalog) Tags(ctx context.Context, id int64) ([]*tag.Tag, error) {
	if _, err := catalog.repo.FindByID(ctx, id, nil); err != nil {
		return nil, err
	}
	return catalog.tags.TagsForMedia(ctx, id)
}

/*
AddTags links additional tags to a media item, creating unknown names.

Description: The ownership rule of [Catalog.Update] applies. Names already
linked are left alone.

Returns:
  - []*tag.Tag: The full tag set after the change
*/
func (catalog *Catalog) AddTags(ctx context.Context, id int64, names []string, userID *string) ([]*tag.Tag, error) {
	return catalog.changeTags(ctx, id, names, userID, func(ctx context.Context, current *Media) error {
		_, err := catalog.tags.Attach(ctx, current.ID, current.Kind, names)
		return err
	})
}

// RemoveTags unlinks the named tags from a media item. Unknown names are ignored.
func (catalog *Catalog) RemoveTags(ctx context.Context, id int64, names []string, userID *string) ([]*tag.Tag, error) {
	return catalog.changeTags(ctx, id, names, userID, func(ctx context.Context, current *Media) error {
		return catalog.tags.Remove(ctx, current.ID, names)
	})
}

func (catalog *Catalog) changeTags(ctx context.Context, id int64, names []string, userID *string, change func(context.Context, *Media) error) ([]*tag.Tag, error) {
	validator := &validate.Validator{}
	validateTagNames(validator, names)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	var tags []*tag.Tag
	err := catalog.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := catalog.repo.FindByID(ctx, id, nil)
		if err != nil {
			return err
		}

		if userID != nil && !CanModify(current, *userID) {
			return apperr.PermissionDenied("Only the creator of a custom media item can modify it")
		}

		if err := change(ctx, current); err != nil {
			return err
		}

		tags, err = catalog.tags.TagsForMedia(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

/*
Delete removes a media item with its details, tag links and tracking rows.

Description: The ownership rule of [Catalog.Update] applies. When the caller
already runs a transaction (e.g. a tracking cascade) the delete joins it.
After commit a locally stored cover file is removed and cached provider
results for the item are evicted; failures there are only logged.

Returns:
  - error: NOT_FOUND or PERMISSION_DENIED
*/
func (catalog *Catalog) Delete(ctx context.Context, id int64, userID *string) error {
	return catalog.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := catalog.repo.FindByID(ctx, id, nil)
		if err != nil {
			return err
		}

		if userID != nil && !CanModify(current, *userID) {
			return apperr.PermissionDenied("Only the creator of a custom media item can delete it")
		}

		if err := catalog.repo.Delete(ctx, id); err != nil {
			return err
		}

		catalog.tx.AfterCommit(ctx, func(ctx context.Context) {
			catalog.releaseResources(ctx, current)
		})
		return nil
	})
}

// releaseResources removes the cover file and evicts caches of a deleted item.
func (catalog *Catalog) releaseResources(ctx context.Context, deleted *Media) {
	logger := ctxutil.GetLogger(ctx)

	if deleted.CoverImageURL != nil && catalog.assets.Owns(*deleted.CoverImageURL) {
		freed, err := catalog.assets.Remove(ctx, *deleted.CoverImageURL)
		if err != nil {
			logger.Warn("cover_removal_failed",
				slog.Int64("media_id", deleted.ID),
				slog.String("cover_image_url", *deleted.CoverImageURL),
				slog.Any("error", err),
			)
		} else {
			logger.Info("cover_removed",
				slog.Int64("media_id", deleted.ID),
				slog.String("freed", humanize.Bytes(uint64(freed))),
			)
		}
	}

	if key, ok := deleted.Key(); ok {
		catalog.cache.Invalidate(ctx, key.Source, key.ID)
	}

	logger.Info("media_deleted", slog.Int64("media_id", deleted.ID), slog.String("kind", string(deleted.Kind)))
}

// # Orphans

// ListOrphans returns the ids of media that no tracking entry references.
func (catalog *Catalog) ListOrphans(ctx context.Context) ([]int64, error) {
	return catalog.repo.ListOrphanIDs(ctx)
}

/*
DeleteIfOrphaned deletes a media item when no tracking entry references it.

Description: The media row is locked before the reference check, so a
tracking entry created concurrently either commits first (and the item
survives) or waits for this transaction.

Returns:
  - bool: true when the item was deleted
  - error: Storage failures; an item that is already gone is not an error
*/
func (catalog *Catalog) DeleteIfOrphaned(ctx context.Context, id int64) (bool, error) {
	var deleted bool

	err := catalog.tx.WithinTx(ctx, func(ctx context.Context) error {
		_, orphaned, err := catalog.repo.LockIfOrphaned(ctx, id)
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if !orphaned {
			return nil
		}

		if err := catalog.Delete(ctx, id, nil); err != nil {
			return err
		}
		deleted = true
		return nil
	})

	return deleted, err
}

// # Helpers

// newMedia builds the unsaved entity for input.
func newMedia(input CreateInput) *Media {
	details := input.Details
	if details == nil {
		details = NewDetails(input.Kind)
	}

	return &Media{
		Kind:           input.Kind,
		Title:          input.Title,
		Description:    input.Description,
		ReleaseDate:    input.ReleaseDate,
		CoverImageURL:  input.CoverImageURL,
		ExternalID:     input.ExternalID,
		ExternalSource: input.ExternalSource,
		Details:        details,
		Tags:           []*tag.Tag{},
	}
}

// applyUpdate copies the supplied fields of input onto media.
func applyUpdate(media *Media, input UpdateInput) {
	if input.Title != nil {
		media.Title = *input.Title
	}
	if input.Description != nil {
		media.Description = input.Description
	}
	if input.ReleaseDate != nil {
		media.ReleaseDate = input.ReleaseDate
	}
	if input.CoverImageURL != nil {
		media.CoverImageURL = input.CoverImageURL
	}
	if input.Details != nil {
		media.Details = mergeDetails(media.Details, input.Details)
	}
}

func normalizeCreate(input *CreateInput) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = trimOptional(input.Description)
	input.CoverImageURL = trimOptional(input.CoverImageURL)
	input.ExternalID = trimOptional(input.ExternalID)
	input.ExternalSource = trimOptional(input.ExternalSource)
}

func normalizeUpdate(input *UpdateInput) {
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		input.Title = &title
	}
}

// trimOptional trims value and maps a blank string to nil.
func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// validateCreate checks every field shared by both creation paths.
func validateCreate(validator *validate.Validator, input CreateInput) {
	validator.OneOf(FieldKind, string(input.Kind), mediakind.Strings()...)
	validator.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, constants.MaxTitleLength)

	if input.CoverImageURL != nil {
		validator.MaxLen(FieldCoverImageURL, *input.CoverImageURL, constants.MaxCoverURLLength).CoverURL(FieldCoverImageURL, *input.CoverImageURL)
	}
	if input.ExternalID != nil {
		validator.MaxLen(FieldExternalID, *input.ExternalID, constants.MaxExternalIDLength)
	}
	if input.ExternalSource != nil {
		validator.MaxLen(FieldExternalSource, *input.ExternalSource, constants.MaxExternalSourceLength)
	}

	if input.Details != nil {
		if input.Details.Kind() != input.Kind {
			validator.Custom(FieldDetails, true, "Details do not match the media kind "+string(input.Kind))
		} else {
			input.Details.validate(validator)
		}
	}

	validateTagNames(validator, input.Tags)
}

// validateUpdate checks the supplied fields of a partial update.
func validateUpdate(validator *validate.Validator, input UpdateInput) {
	if input.Title != nil {
		validator.Required(FieldTitle, *input.Title).MaxLen(FieldTitle, *input.Title, constants.MaxTitleLength)
	}
	if input.CoverImageURL != nil {
		validator.MaxLen(FieldCoverImageURL, *input.CoverImageURL, constants.MaxCoverURLLength).CoverURL(FieldCoverImageURL, *input.CoverImageURL)
	}
	if input.Details != nil {
		input.Details.validate(validator)
	}
	if input.Tags != nil {
		validateTagNames(validator, *input.Tags)
	}
}

func validateTagNames(validator *validate.Validator, names []string) {
	for _, name := range tag.Normalize(names) {
		validator.MaxLen("tags", name, constants.MaxTagNameLength)
	}
}
