// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package tagtest provides an in-memory [tag.Repository] for tests of the tag
// package and its consumers.
package tagtest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/listify/internal/core/mediakind"
	"github.com/taibuivan/listify/internal/core/tag"
	"github.com/taibuivan/listify/internal/platform/apperr"
)

type link struct {
	mediaID int64
	tagID   int64
}

// Repository is a mutex-guarded in-memory tag store.
type Repository struct {
	mu     sync.Mutex
	nextID int64
	tags   map[int64]*tag.Tag
	links  map[link]mediakind.Kind

	// BeforeInsert, when set, runs once before the next insert. Tests use it to
	// simulate a concurrent writer claiming a name or slug first.
	BeforeInsert func(repo *Repository, candidate *tag.Tag)
}

// NewRepository returns an empty store.
func NewRepository() *Repository {
	return &Repository{
		tags:  make(map[int64]*tag.Tag),
		links: make(map[link]mediakind.Kind),
	}
}

// Seed stores a tag directly, bypassing slug allocation.
func (repo *Repository) Seed(name, slug string) *tag.Tag {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return repo.seedLocked(name, slug)
}

func (repo *Repository) seedLocked(name, slug string) *tag.Tag {
	repo.nextID++
	stored := &tag.Tag{ID: repo.nextID, Name: name, Slug: slug, CreatedAt: time.Now()}
	repo.tags[stored.ID] = stored
	copied := *stored
	return &copied
}

// Count returns the number of stored tags.
func (repo *Repository) Count() int {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return len(repo.tags)
}

// LinkCount returns the number of media-tag links.
func (repo *Repository) LinkCount() int {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return len(repo.links)
}

// DropMedia removes every link of a media item, mirroring ON DELETE CASCADE.
func (repo *Repository) DropMedia(mediaID int64) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for key := range repo.links {
		if key.mediaID == mediaID {
			delete(repo.links, key)
		}
	}
}

func (repo *Repository) FindByName(_ context.Context, name string) (*tag.Tag, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, stored := range repo.tags {
		if strings.EqualFold(stored.Name, name) {
			copied := *stored
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Tag")
}

func (repo *Repository) FindBySlug(_ context.Context, slug string) (*tag.Tag, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, stored := range repo.tags {
		if stored.Slug == slug {
			copied := *stored
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Tag")
}

func (repo *Repository) SlugExists(_ context.Context, slug string) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, stored := range repo.tags {
		if stored.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (repo *Repository) Insert(_ context.Context, candidate *tag.Tag) (bool, error) {
	repo.mu.Lock()
	hook := repo.BeforeInsert
	repo.BeforeInsert = nil
	repo.mu.Unlock()

	if hook != nil {
		hook(repo, candidate)
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, stored := range repo.tags {
		if strings.EqualFold(stored.Name, candidate.Name) || stored.Slug == candidate.Slug {
			return false, nil
		}
	}

	stored := repo.seedLocked(candidate.Name, candidate.Slug)
	candidate.ID = stored.ID
	candidate.CreatedAt = stored.CreatedAt
	return true, nil
}

func (repo *Repository) List(_ context.Context) ([]*tag.Tag, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	out := make([]*tag.Tag, 0, len(repo.tags))
	for _, stored := range repo.tags {
		copied := *stored
		out = append(out, &copied)
	}
	sortByName(out)
	return out, nil
}

func (repo *Repository) Attach(_ context.Context, mediaID, tagID int64, kind mediakind.Kind) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	key := link{mediaID: mediaID, tagID: tagID}
	if _, exists := repo.links[key]; !exists {
		repo.links[key] = kind
	}
	return nil
}

func (repo *Repository) Detach(_ context.Context, mediaID int64, tagIDs []int64) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, tagID := range tagIDs {
		delete(repo.links, link{mediaID: mediaID, tagID: tagID})
	}
	return nil
}

func (repo *Repository) DetachAll(_ context.Context, mediaID int64) error {
	repo.DropMedia(mediaID)
	return nil
}

func (repo *Repository) ListForMedia(_ context.Context, mediaID int64) ([]*tag.Tag, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	out := make([]*tag.Tag, 0)
	for key := range repo.links {
		if key.mediaID == mediaID {
			copied := *repo.tags[key.tagID]
			out = append(out, &copied)
		}
	}
	sortByName(out)
	return out, nil
}

func (repo *Repository) MediaIDs(_ context.Context, tagID int64, kind *mediakind.Kind) ([]int64, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	ids := make([]int64, 0)
	for key, linkKind := range repo.links {
		if key.tagID != tagID {
			continue
		}
		if kind != nil && linkKind != *kind {
			continue
		}
		ids = append(ids, key.mediaID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	return ids, nil
}

func sortByName(tags []*tag.Tag) {
	sort.Slice(tags, func(i, j int) bool {
		return strings.ToLower(tags[i].Name) < strings.ToLower(tags[j].Name)
	})
}
