// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tracking

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/listify/internal/core/media"
	"github.com/taibuivan/listify/internal/core/mediakind"
	"github.com/taibuivan/listify/internal/platform/apperr"
	"github.com/taibuivan/listify/internal/platform/constants"
	"github.com/taibuivan/listify/internal/platform/ctxutil"
	"github.com/taibuivan/listify/internal/platform/postgres"
	"github.com/taibuivan/listify/internal/platform/validate"
	"github.com/taibuivan/listify/pkg/date"
	"github.com/taibuivan/listify/pkg/pagination"
	"github.com/taibuivan/listify/pkg/slice"
)

// Catalog is the slice of [media.Catalog] the tracking lifecycle depends on.
type Catalog interface {
	Get(ctx context.Context, id int64, kind *mediakind.Kind) (*media.Media, error)
	GetMany(ctx context.Context, ids []int64) ([]*media.Media, error)
	Delete(ctx context.Context, id int64, userID *string) error
}

// # Service Layer

// Service manages the per-user tracking lifecycle.
type Service struct {
	repo    Repository
	catalog Catalog
	tx      postgres.Transactor
	now     func() time.Time
}

// NewService constructs a tracking [Service].
func NewService(repo Repository, catalog Catalog, tx postgres.Transactor) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		tx:      tx,
		now:     time.Now,
	}
}

// WithClock replaces the time source used for default start/end dates.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

func (service *Service) today() date.Date {
	return date.Of(service.now())
}

// # Lifecycle

/*
Create starts tracking a media item for userID.

Description: The media item must exist with the given kind. The integrity
rules run before the insert, so e.g. a "completed" entry without an end date
ends today.

Parameters:
  - ctx: context.Context
  - userID: string
  - input: CreateInput

Returns:
  - *Entry: The stored entry with its media
  - error: VALIDATION_ERROR, NOT_FOUND (media) or ALREADY_EXISTS
*/
func (service *Service) Create(ctx context.Context, userID string, input CreateInput) (*Entry, error) {
	validator := &validate.Validator{}
	validator.Required("user_id", userID)
	validator.Custom(FieldMediaID, input.MediaID <= 0, "Must be a positive integer")
	validator.OneOf(FieldKind, string(input.Kind), mediakind.Strings()...)
	validator.OneOf(FieldStatus, string(input.Status), statusValues...)
	validatePriority(validator, input.Priority)
	validateRating(validator, input.Rating)
	validator.NonNegative(FieldProgress, input.Progress)
	validateNotes(validator, input.Notes)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	entry := &Entry{
		UserID:    userID,
		MediaID:   input.MediaID,
		Kind:      input.Kind,
		Status:    input.Status,
		Priority:  input.Priority,
		Rating:    input.Rating,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Favorite:  input.Favorite,
		Notes:     input.Notes,
	}
	if input.Progress != nil {
		entry.Progress = *input.Progress
	}

	err := service.tx.WithinTx(ctx, func(ctx context.Context) error {
		item, err := service.catalog.Get(ctx, input.MediaID, &input.Kind)
		if err != nil {
			return err
		}

		_, err = service.repo.FindByUserAndMedia(ctx, userID, input.MediaID)
		if err == nil {
			return apperr.AlreadyExists("Tracking entry")
		}
		if !apperr.HasCode(err, apperr.CodeNotFound) {
			return err
		}

		ApplyIntegrityRules(entry, service.today())

		inserted, err := service.repo.Insert(ctx, entry)
		if err != nil {
			return err
		}
		if !inserted {
			return apperr.AlreadyExists("Tracking entry")
		}

		entry.Media = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).Info("tracking_created",
		slog.Int64("media_id", entry.MediaID),
		slog.String("status", string(entry.Status)),
	)
	return entry, nil
}

/*
Update applies a partial update to the caller's entry for mediaID.

Description: Supplied fields are merged first, then the integrity rules
run against the merged state. Nullable fields are cleared with an explicit
null.

Returns:
  - *Entry: The updated entry with its media
  - error: VALIDATION_ERROR or NOT_FOUND
*/
func (service *Service) Update(ctx context.Context, userID string, mediaID int64, patch Patch) (*Entry, error) {
	validator := &validate.Validator{}
	if patch.Status != nil {
		validator.OneOf(FieldStatus, string(*patch.Status), statusValues...)
	}
	validatePriority(validator, patch.Priority.Value)
	validateRating(validator, patch.Rating.Value)
	validator.NonNegative(FieldProgress, patch.Progress)
	validateNotes(validator, patch.Notes.Value)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	var entry *Entry
	err := service.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := service.repo.FindByUserAndMedia(ctx, userID, mediaID)
		if err != nil {
			return err
		}

		applyPatch(current, patch)
		ApplyIntegrityRules(current, service.today())

		if err := service.repo.Update(ctx, current); err != nil {
			return err
		}

		current.Media, err = service.catalog.Get(ctx, mediaID, nil)
		if err != nil {
			return err
		}
		entry = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).Info("tracking_updated",
		slog.Int64("media_id", mediaID),
		slog.String("status", string(entry.Status)),
	)
	return entry, nil
}

/*
Delete stops tracking mediaID for userID.

Description: Runs as one unit of work. When the media item is custom and
no other entry references it, the item itself is deleted on behalf of its
creator; a failure there rolls the whole operation back.

Returns:
  - bool: false when the user did not track the item
  - error: Storage or cascade failures
*/
func (service *Service) Delete(ctx context.Context, userID string, mediaID int64) (bool, error) {
	var (
		deleted  bool
		cascaded bool
	)

	err := service.tx.WithinTx(ctx, func(ctx context.Context) error {
		_, err := service.repo.FindByUserAndMedia(ctx, userID, mediaID)
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		item, err := service.catalog.Get(ctx, mediaID, nil)
		if err != nil {
			return err
		}

		deleted, err = service.repo.Delete(ctx, userID, mediaID)
		if err != nil || !deleted {
			return err
		}

		if !item.IsCustom {
			return nil
		}

		remaining, err := service.repo.CountForMedia(ctx, mediaID)
		if err != nil {
			return err
		}
		if remaining > 0 {
			return nil
		}

		// Last reference to a custom item: remove it on behalf of its creator
		if err := service.catalog.Delete(ctx, mediaID, item.CreatedBy); err != nil {
			return err
		}
		cascaded = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if deleted {
		ctxutil.GetLogger(ctx).Info("tracking_deleted",
			slog.Int64("media_id", mediaID),
			slog.Bool("media_deleted", cascaded),
		)
	}
	return deleted, nil
}

// # Reads

// Get returns the caller's entry for mediaID with its media.
func (service *Service) Get(ctx context.Context, userID string, mediaID int64) (*Entry, error) {
	entry, err := service.repo.FindByUserAndMedia(ctx, userID, mediaID)
	if err != nil {
		return nil, err
	}

	entry.Media, err = service.catalog.Get(ctx, mediaID, nil)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

/*
ListByUser returns a page of the user's library.

Description: Without an explicit sort, entries are listed newest first,
except when filtering on "planned" where priority order applies.

Returns:
  - []*Entry: Entries with media hydrated
  - int: Total matching entries
*/
func (service *Service) ListByUser(ctx context.Context, userID string, filter Filter) ([]*Entry, int, error) {
	validator := &validate.Validator{}
	if filter.Status != nil {
		validator.OneOf(FieldStatus, string(*filter.Status), statusValues...)
	}
	if filter.Sort != SortDefault {
		validator.OneOf(FieldSort, string(filter.Sort), sortValues...)
	}
	if err := validator.Err(); err != nil {
		return nil, 0, err
	}

	filter.Limit = pagination.ClampLimit(filter.Limit)
	filter.Offset = max(filter.Offset, 0)
	filter.Sort = effectiveSort(filter)

	entries, total, err := service.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, 0, err
	}

	if err := service.hydrate(ctx, entries); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// Favorites returns a page of the user's favorite entries, newest first.
func (service *Service) Favorites(ctx context.Context, userID string, kind *mediakind.Kind, offset, limit int) ([]*Entry, int, error) {
	favorite := true
	return service.ListByUser(ctx, userID, Filter{
		Kind:     kind,
		Favorite: &favorite,
		Sort:     SortCreated,
		Offset:   offset,
		Limit:    limit,
	})
}

/*
Statistics summarizes the user's library, optionally for one kind.

Returns:
  - *Statistics: Totals per status, favorites, the mean of the ratings that
    are set (0 when none) and, when kind is nil, totals per kind
*/
func (service *Service) Statistics(ctx context.Context, userID string, kind *mediakind.Kind) (*Statistics, error) {
	rows, err := service.repo.Statistics(ctx, userID, kind)
	if err != nil {
		return nil, err
	}
	return foldStatistics(rows, kind == nil), nil
}

// hydrate attaches media to entries in one batch.
func (service *Service) hydrate(ctx context.Context, entries []*Entry) error {
	if len(entries) == 0 {
		return nil
	}

	ids := slice.Map(entries, func(entry *Entry) int64 { return entry.MediaID })

	items, err := service.catalog.GetMany(ctx, ids)
	if err != nil {
		return err
	}

	byID := slice.IndexBy(items, func(item *media.Media) int64 { return item.ID })
	for _, entry := range entries {
		entry.Media = byID[entry.MediaID]
	}
	return nil
}

// # Helpers

// effectiveSort resolves the default ordering of a listing.
func effectiveSort(filter Filter) Sort {
	if filter.Sort != SortDefault {
		return filter.Sort
	}
	if filter.Status != nil && *filter.Status == StatusPlanned {
		return SortPriority
	}
	return SortCreated
}

func foldStatistics(rows []StatRow, perKind bool) *Statistics {
	stats := &Statistics{ByStatus: make(map[Status]int, len(Statuses))}
	for _, status := range Statuses {
		stats.ByStatus[status] = 0
	}
	if perKind {
		stats.ByKind = make(map[mediakind.Kind]int, len(mediakind.All))
		for _, kind := range mediakind.All {
			stats.ByKind[kind] = 0
		}
	}

	var (
		ratingSum   float64
		ratingCount int
	)
	for _, row := range rows {
		stats.Total += row.Count
		stats.ByStatus[row.Status] += row.Count
		stats.Favorites += row.Favorites
		ratingSum += row.RatingSum
		ratingCount += row.RatingCount
		if perKind {
			stats.ByKind[row.Kind] += row.Count
		}
	}

	if ratingCount > 0 {
		stats.AverageRating = ratingSum / float64(ratingCount)
	}
	return stats
}

func applyPatch(entry *Entry, patch Patch) {
	if patch.Status != nil {
		entry.Status = *patch.Status
	}
	patch.Priority.apply(&entry.Priority)
	patch.Rating.apply(&entry.Rating)
	if patch.Progress != nil {
		entry.Progress = *patch.Progress
	}
	patch.StartDate.apply(&entry.StartDate)
	patch.EndDate.apply(&entry.EndDate)
	if patch.Favorite != nil {
		entry.Favorite = *patch.Favorite
	}
	patch.Notes.apply(&entry.Notes)
}

func validatePriority(validator *validate.Validator, priority *Priority) {
	if priority != nil {
		validator.OneOf(FieldPriority, string(*priority), priorityValues...)
	}
}

func validateRating(validator *validate.Validator, rating *float64) {
	if rating != nil {
		validator.RangeFloat(FieldRating, *rating, constants.MinRating, constants.MaxRating)
	}
}

func validateNotes(validator *validate.Validator, notes *string) {
	if notes != nil {
		validator.MaxLen(FieldNotes, *notes, MaxNotesLength)
	}
}
