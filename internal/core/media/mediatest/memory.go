// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package mediatest provides an in-memory [media.Repository] for tests of the
// catalog and of the components built on it.
package mediatest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/listify/internal/core/media"
	"github.com/taibuivan/listify/internal/core/mediakind"
	"github.com/taibuivan/listify/internal/core/tag/tagtest"
	"github.com/taibuivan/listify/internal/platform/apperr"
	"github.com/taibuivan/listify/pkg/date"
)

// Repository is a mutex-guarded in-memory catalog store.
type Repository struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*media.Media
	tags   *tagtest.Repository

	// References, when set, reports how many tracking entries point at a media
	// item. Unset means "none".
	References func(mediaID int64) int

	// OnDelete, when set, runs after a media item is removed, mirroring
	// ON DELETE CASCADE into other in-memory stores.
	OnDelete func(mediaID int64)

	// BeforeInsert, when set, runs once before the next insert.
	BeforeInsert func(repo *Repository, candidate *media.Media)
}

// NewRepository returns an empty store hydrating tags from tags (may be nil).
func NewRepository(tags *tagtest.Repository) *Repository {
	return &Repository{
		items: make(map[int64]*media.Media),
		tags:  tags,
	}
}

// Seed stores an item directly and returns its id.
func (repo *Repository) Seed(item *media.Media) int64 {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return repo.storeLocked(item)
}

func (repo *Repository) storeLocked(item *media.Media) int64 {
	repo.nextID++
	stored := item.Clone()
	stored.ID = repo.nextID
	if stored.Details == nil {
		stored.Details = media.NewDetails(stored.Kind)
	}
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	repo.items[stored.ID] = stored

	item.ID = stored.ID
	item.CreatedAt, item.UpdatedAt = stored.CreatedAt, stored.UpdatedAt
	return stored.ID
}

// Count returns the number of stored items.
func (repo *Repository) Count() int {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return len(repo.items)
}

// Exists reports whether id is stored.
func (repo *Repository) Exists(id int64) bool {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	_, ok := repo.items[id]
	return ok
}

// hydrate returns a copy of stored with its current tags.
func (repo *Repository) hydrate(stored *media.Media) *media.Media {
	copied := stored.Clone()
	if repo.tags != nil {
		copied.Tags, _ = repo.tags.ListForMedia(context.Background(), stored.ID)
	}
	return copied
}

func (repo *Repository) FindByID(_ context.Context, id int64, kind *mediakind.Kind) (*media.Media, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	stored, ok := repo.items[id]
	if !ok || (kind != nil && stored.Kind != *kind) {
		return nil, apperr.NotFound("Media")
	}
	return repo.hydrate(stored), nil
}

func (repo *Repository) FindByIDs(_ context.Context, ids []int64) ([]*media.Media, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	out := make([]*media.Media, 0, len(ids))
	for _, id := range ids {
		if stored, ok := repo.items[id]; ok {
			out = append(out, repo.hydrate(stored))
		}
	}
	return out, nil
}

func (repo *Repository) FindByExternalKey(_ context.Context, key media.ExternalKey) (*media.Media, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, stored := range repo.items {
		if storedKey, ok := stored.Key(); ok && storedKey == key {
			return repo.hydrate(stored), nil
		}
	}
	return nil, apperr.NotFound("Media")
}

func (repo *Repository) FindCustomDuplicate(_ context.Context, ownerID string, kind mediakind.Kind, title string, releaseDate *date.Date) (*media.Media, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if stored := repo.customDuplicateLocked(ownerID, kind, title, releaseDate); stored != nil {
		return repo.hydrate(stored), nil
	}
	return nil, apperr.NotFound("Media")
}

func (repo *Repository) customDuplicateLocked(ownerID string, kind mediakind.Kind, title string, releaseDate *date.Date) *media.Media {
	for _, stored := range repo.items {
		if !stored.IsCustom || stored.CreatedBy == nil || *stored.CreatedBy != ownerID || stored.Kind != kind {
			continue
		}
		if strings.EqualFold(stored.Title, title) && date.Equal(stored.ReleaseDate, releaseDate) {
			return stored
		}
	}
	return nil
}

func (repo *Repository) Insert(_ context.Context, candidate *media.Media) (bool, error) {
	repo.mu.Lock()
	hook := repo.BeforeInsert
	repo.BeforeInsert = nil
	repo.mu.Unlock()

	if hook != nil {
		hook(repo, candidate)
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	// Unique indexes: external key and custom key
	if key, ok := candidate.Key(); ok {
		for _, stored := range repo.items {
			if storedKey, ok := stored.Key(); ok && storedKey == key {
				return false, nil
			}
		}
	}
	if candidate.IsCustom && candidate.CreatedBy != nil {
		if repo.customDuplicateLocked(*candidate.CreatedBy, candidate.Kind, candidate.Title, candidate.ReleaseDate) != nil {
			return false, nil
		}
	}

	repo.storeLocked(candidate)
	return true, nil
}

func (repo *Repository) Update(_ context.Context, item *media.Media) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	stored, ok := repo.items[item.ID]
	if !ok {
		return apperr.NotFound("Media")
	}

	updated := item.Clone()
	updated.Kind = stored.Kind
	updated.IsCustom = stored.IsCustom
	updated.CreatedBy = stored.CreatedBy
	updated.ExternalID, updated.ExternalSource = stored.ExternalID, stored.ExternalSource
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = time.Now()
	repo.items[item.ID] = updated

	item.UpdatedAt = updated.UpdatedAt
	return nil
}

func (repo *Repository) Delete(_ context.Context, id int64) error {
	repo.mu.Lock()
	if _, ok := repo.items[id]; !ok {
		repo.mu.Unlock()
		return apperr.NotFound("Media")
	}
	delete(repo.items, id)
	onDelete := repo.OnDelete
	repo.mu.Unlock()

	if repo.tags != nil {
		repo.tags.DropMedia(id)
	}
	if onDelete != nil {
		onDelete(id)
	}
	return nil
}

func (repo *Repository) Search(_ context.Context, query string, kind *mediakind.Kind, limit int) ([]*media.Media, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	needle := strings.ToLower(query)
	out := make([]*media.Media, 0)
	for _, stored := range repo.newestFirstLocked(kind) {
		description := ""
		if stored.Description != nil {
			description = *stored.Description
		}
		if strings.Contains(strings.ToLower(stored.Title), needle) || strings.Contains(strings.ToLower(description), needle) {
			out = append(out, repo.hydrate(stored))
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (repo *Repository) List(_ context.Context, kind *mediakind.Kind, offset, limit int) ([]*media.Media, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	all := repo.newestFirstLocked(kind)
	out := make([]*media.Media, 0)
	for i := offset; i < len(all) && len(out) < limit; i++ {
		out = append(out, repo.hydrate(all[i]))
	}
	return out, len(all), nil
}

func (repo *Repository) newestFirstLocked(kind *mediakind.Kind) []*media.Media {
	out := make([]*media.Media, 0, len(repo.items))
	for _, stored := range repo.items {
		if kind == nil || stored.Kind == *kind {
			out = append(out, stored)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (repo *Repository) ListOrphanIDs(_ context.Context) ([]int64, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	ids := make([]int64, 0)
	for id := range repo.items {
		if repo.referencesLocked(id) == 0 {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (repo *Repository) LockIfOrphaned(_ context.Context, id int64) (*media.Media, bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	stored, ok := repo.items[id]
	if !ok {
		return nil, false, apperr.NotFound("Media")
	}
	return repo.hydrate(stored), repo.referencesLocked(id) == 0, nil
}

func (repo *Repository) referencesLocked(id int64) int {
	if repo.References == nil {
		return 0
	}
	return repo.References(id)
}
