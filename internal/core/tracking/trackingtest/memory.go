// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package trackingtest provides an in-memory [tracking.Repository] for tests.
package trackingtest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/listify/internal/core/mediakind"
	"github.com/taibuivan/listify/internal/core/tracking"
	"github.com/taibuivan/listify/internal/platform/apperr"
)

// Repository is a mutex-guarded in-memory tracking store.
type Repository struct {
	mu      sync.Mutex
	nextID  int64
	entries map[int64]*tracking.Entry

	// Titles resolves media titles for title ordering. Unset sorts by id only.
	Titles func(mediaID int64) string

	// BeforeInsert, when set, runs once before the next insert.
	BeforeInsert func(repo *Repository, candidate *tracking.Entry)
}

// NewRepository returns an empty store.
func NewRepository() *Repository {
	return &Repository{entries: make(map[int64]*tracking.Entry)}
}

// Seed stores an entry directly and returns its id.
func (repo *Repository) Seed(entry tracking.Entry) int64 {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return repo.storeLocked(&entry)
}

func (repo *Repository) storeLocked(entry *tracking.Entry) int64 {
	repo.nextID++
	entry.ID = repo.nextID
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = entry.CreatedAt

	stored := *entry
	stored.Media = nil
	repo.entries[stored.ID] = &stored
	return stored.ID
}

// References returns how many entries point at mediaID.
func (repo *Repository) References(mediaID int64) int {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	count := 0
	for _, entry := range repo.entries {
		if entry.MediaID == mediaID {
			count++
		}
	}
	return count
}

// DropMedia removes every entry of a media item, mirroring ON DELETE CASCADE.
func (repo *Repository) DropMedia(mediaID int64) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for id, entry := range repo.entries {
		if entry.MediaID == mediaID {
			delete(repo.entries, id)
		}
	}
}

// Count returns the number of stored entries.
func (repo *Repository) Count() int {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return len(repo.entries)
}

func (repo *Repository) findLocked(userID string, mediaID int64) *tracking.Entry {
	for _, entry := range repo.entries {
		if entry.UserID == userID && entry.MediaID == mediaID {
			return entry
		}
	}
	return nil
}

func (repo *Repository) FindByUserAndMedia(_ context.Context, userID string, mediaID int64) (*tracking.Entry, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	stored := repo.findLocked(userID, mediaID)
	if stored == nil {
		return nil, apperr.NotFound("Tracking entry")
	}
	copied := *stored
	return &copied, nil
}

func (repo *Repository) Insert(_ context.Context, entry *tracking.Entry) (bool, error) {
	repo.mu.Lock()
	hook := repo.BeforeInsert
	repo.BeforeInsert = nil
	repo.mu.Unlock()

	if hook != nil {
		hook(repo, entry)
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	if repo.findLocked(entry.UserID, entry.MediaID) != nil {
		return false, nil
	}
	repo.storeLocked(entry)
	return true, nil
}

func (repo *Repository) Update(_ context.Context, entry *tracking.Entry) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	stored, ok := repo.entries[entry.ID]
	if !ok {
		return apperr.NotFound("Tracking entry")
	}

	updated := *entry
	updated.Media = nil
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = time.Now()
	repo.entries[entry.ID] = &updated

	entry.UpdatedAt = updated.UpdatedAt
	return nil
}

func (repo *Repository) Delete(_ context.Context, userID string, mediaID int64) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	stored := repo.findLocked(userID, mediaID)
	if stored == nil {
		return false, nil
	}
	delete(repo.entries, stored.ID)
	return true, nil
}

func (repo *Repository) CountForMedia(_ context.Context, mediaID int64) (int, error) {
	return repo.References(mediaID), nil
}

func (repo *Repository) List(_ context.Context, userID string, filter tracking.Filter) ([]*tracking.Entry, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	matched := make([]*tracking.Entry, 0)
	for _, entry := range repo.entries {
		if entry.UserID != userID {
			continue
		}
		if filter.Status != nil && entry.Status != *filter.Status {
			continue
		}
		if filter.Kind != nil && entry.Kind != *filter.Kind {
			continue
		}
		if filter.Favorite != nil && entry.Favorite != *filter.Favorite {
			continue
		}
		matched = append(matched, entry)
	}

	sort.Slice(matched, repo.less(matched, filter.Sort))

	out := make([]*tracking.Entry, 0)
	for i := filter.Offset; i < len(matched) && len(out) < filter.Limit; i++ {
		copied := *matched[i]
		out = append(out, &copied)
	}
	return out, len(matched), nil
}

// less mirrors the SQL orderings; every order breaks ties on the newest id.
func (repo *Repository) less(entries []*tracking.Entry, order tracking.Sort) func(i, j int) bool {
	newer := func(i, j int) bool { return entries[i].ID > entries[j].ID }

	switch order {
	case tracking.SortPriority:
		return func(i, j int) bool {
			a, b := entries[i].Priority.Rank(), entries[j].Priority.Rank()
			if a != b {
				return a > b
			}
			return newer(i, j)
		}
	case tracking.SortRating:
		return func(i, j int) bool {
			a, b := entries[i].Rating, entries[j].Rating
			switch {
			case a != nil && b == nil:
				return true
			case a == nil && b != nil:
				return false
			case a != nil && b != nil && *a != *b:
				return *a > *b
			}
			return newer(i, j)
		}
	case tracking.SortTitle:
		return func(i, j int) bool {
			if repo.Titles != nil {
				a := strings.ToLower(repo.Titles(entries[i].MediaID))
				b := strings.ToLower(repo.Titles(entries[j].MediaID))
				if a != b {
					return a < b
				}
			}
			return newer(i, j)
		}
	default:
		return newer
	}
}

func (repo *Repository) Statistics(_ context.Context, userID string, kind *mediakind.Kind) ([]tracking.StatRow, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	type group struct {
		status tracking.Status
		kind   mediakind.Kind
	}
	rows := make(map[group]*tracking.StatRow)

	for _, entry := range repo.entries {
		if entry.UserID != userID || (kind != nil && entry.Kind != *kind) {
			continue
		}

		key := group{status: entry.Status, kind: entry.Kind}
		row, ok := rows[key]
		if !ok {
			row = &tracking.StatRow{Status: entry.Status, Kind: entry.Kind}
			rows[key] = row
		}

		row.Count++
		if entry.Favorite {
			row.Favorites++
		}
		if entry.Rating != nil {
			row.RatingSum += *entry.Rating
			row.RatingCount++
		}
	}

	out := make([]tracking.StatRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	return out, nil
}
