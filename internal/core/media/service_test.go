// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/listify/internal/core/media"
	"github.com/taibuivan/listify/internal/core/media/mediatest"
	"github.com/taibuivan/listify/internal/core/mediakind"
	"github.com/taibuivan/listify/internal/core/tag"
	"github.com/taibuivan/listify/internal/core/tag/tagtest"
	"github.com/taibuivan/listify/internal/platform/apperr"
	"github.com/taibuivan/listify/internal/platform/postgres/txtest"
	"github.com/taibuivan/listify/pkg/date"
	"github.com/taibuivan/listify/pkg/pointer"
)

// # Fixtures

type recordingCache struct {
	mu       sync.Mutex
	searches []string
	items    []string
}

func (cache *recordingCache) InvalidateSearch(_ context.Context, source string) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.searches = append(cache.searches, source)
}

func (cache *recordingCache) Invalidate(_ context.Context, source, externalID string) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.items = append(cache.items, source+":"+externalID)
}

type fixture struct {
	catalog  *media.Catalog
	repo     *mediatest.Repository
	tags     *tagtest.Repository
	tx       *txtest.Transactor
	cache    *recordingCache
	assetDir string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tags := tagtest.NewRepository()
	repo := mediatest.NewRepository(tags)
	tx := &txtest.Transactor{}
	cache := &recordingCache{}
	dir := t.TempDir()

	associations := tag.NewAssociations(tags, tag.NewNormalizer(tags))
	catalog := media.NewCatalog(repo, associations, tx, cache, media.NewLocalAssets(dir, "/static/images/"))

	return &fixture{catalog: catalog, repo: repo, tags: tags, tx: tx, cache: cache, assetDir: dir}
}

func externalInput(title string) media.CreateInput {
	return media.CreateInput{
		Kind:           mediakind.Movie,
		Title:          title,
		ExternalID:     pointer.To("603"),
		ExternalSource: pointer.To("tmdb"),
		Details:        &media.MovieDetails{Runtime: pointer.To(136)},
		Tags:           []string{"Sci-Fi", "Action", "sci-fi"},
	}
}

func tagNames(tags []*tag.Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.Name
	}
	return out
}

// # Creation

/*
TestCatalog_CreateExternal_Dedup verifies that a provider item is stored once
and that later imports return it unchanged.
*/
func TestCatalog_CreateExternal_Dedup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, created, err := f.catalog.CreateExternal(ctx, externalInput("The Matrix"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.False(t, first.IsCustom)
	assert.Equal(t, []string{"Action", "Sci-Fi"}, tagNames(first.Tags))
	assert.Equal(t, []string{"tmdb"}, f.cache.searches)

	second, created, err := f.catalog.CreateExternal(ctx, externalInput("Matrix (1999)"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "The Matrix", second.Title)

	assert.Equal(t, 1, f.repo.Count())
	assert.Equal(t, []string{"tmdb"}, f.cache.searches)
}

/*
TestCatalog_CreateExternal_SameIDOtherKind keeps kinds apart in the dedup key.
*/
func TestCatalog_CreateExternal_SameIDOtherKind(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, _, err := f.catalog.CreateExternal(ctx, externalInput("The Matrix"))
	require.NoError(t, err)

	series := externalInput("Some Series")
	series.Kind = mediakind.Series
	series.Details = nil

	_, created, err := f.catalog.CreateExternal(ctx, series)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 2, f.repo.Count())
}

/*
TestCatalog_CreateExternal_LostRace returns the concurrent writer's row.
*/
func TestCatalog_CreateExternal_LostRace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var winnerID int64
	f.repo.BeforeInsert = func(repo *mediatest.Repository, candidate *media.Media) {
		winnerID = repo.Seed(&media.Media{
			Kind:           candidate.Kind,
			Title:          "Winner",
			ExternalID:     candidate.ExternalID,
			ExternalSource: candidate.ExternalSource,
		})
	}

	got, created, err := f.catalog.CreateExternal(ctx, externalInput("Loser"))
	require.NoError(t, err)

	assert.False(t, created)
	assert.Equal(t, winnerID, got.ID)
	assert.Equal(t, "Winner", got.Title)
	assert.Equal(t, 0, f.tags.LinkCount())
	assert.Empty(t, f.cache.searches)
}

/*
TestCatalog_CreateExternal_Invalid rejects incomplete payloads before writing.
*/
func TestCatalog_CreateExternal_Invalid(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(input *media.CreateInput)
	}{
		{"missing_external_id", func(input *media.CreateInput) { input.ExternalID = nil }},
		{"blank_source", func(input *media.CreateInput) { input.ExternalSource = pointer.To("  ") }},
		{"blank_title", func(input *media.CreateInput) { input.Title = " " }},
		{"details_of_other_kind", func(input *media.CreateInput) { input.Details = &media.BookDetails{} }},
		{"negative_runtime", func(input *media.CreateInput) { input.Details = &media.MovieDetails{Runtime: pointer.To(-1)} }},
		{"relative_cover", func(input *media.CreateInput) { input.CoverImageURL = pointer.To("covers/a.jpg") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			input := externalInput("The Matrix")
			tt.mutate(&input)

			_, _, err := f.catalog.CreateExternal(ctx, input)
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "got %v", err)
			assert.Equal(t, 0, f.repo.Count())
		})
	}
}

/*
TestCatalog_CreateCustom_Duplicate rejects a second item with the same
owner, kind, title (any casing) and release date.
*/
func TestCatalog_CreateCustom_Duplicate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	released := date.New(2020, 5, 1)
	input := media.CreateInput{Kind: mediakind.Book, Title: "My Notes", ReleaseDate: &released}

	created, err := f.catalog.CreateCustom(ctx, input, "alice")
	require.NoError(t, err)
	assert.True(t, created.IsCustom)
	assert.Equal(t, "alice", *created.CreatedBy)
	assert.IsType(t, &media.BookDetails{}, created.Details)

	input.Title = "MY NOTES"
	_, err = f.catalog.CreateCustom(ctx, input, "alice")
	assert.True(t, apperr.HasCode(err, apperr.CodeAlreadyExists))

	// Another owner, or another release date, is a different item
	_, err = f.catalog.CreateCustom(ctx, input, "bob")
	require.NoError(t, err)

	input.ReleaseDate = nil
	_, err = f.catalog.CreateCustom(ctx, input, "alice")
	require.NoError(t, err)

	assert.Equal(t, 3, f.repo.Count())
}

/*
TestCatalog_CreateCustom_IgnoresExternalKey drops provider identifiers from
user-authored items.
*/
func TestCatalog_CreateCustom_IgnoresExternalKey(t *testing.T) {
	f := newFixture(t)

	created, err := f.catalog.CreateCustom(context.Background(), externalInput("Home Video"), "alice")
	require.NoError(t, err)

	assert.Nil(t, created.ExternalID)
	assert.Nil(t, created.ExternalSource)
	assert.Empty(t, f.cache.searches)
}

// # Modification

/*
TestCatalog_Update_Ownership verifies that only the creator of a custom item
may modify it, and that a system caller bypasses the rule.
*/
func TestCatalog_Update_Ownership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	custom, err := f.catalog.CreateCustom(ctx, media.CreateInput{Kind: mediakind.Game, Title: "Homebrew"}, "alice")
	require.NoError(t, err)
	external, _, err := f.catalog.CreateExternal(ctx, externalInput("The Matrix"))
	require.NoError(t, err)

	patch := media.UpdateInput{Title: pointer.To("Renamed")}

	_, err = f.catalog.Update(ctx, custom.ID, nil, patch, pointer.To("bob"))
	assert.True(t, apperr.HasCode(err, apperr.CodePermissionDenied))

	_, err = f.catalog.Update(ctx, external.ID, nil, patch, pointer.To("alice"))
	assert.True(t, apperr.HasCode(err, apperr.CodePermissionDenied))

	updated, err := f.catalog.Update(ctx, custom.ID, nil, patch, pointer.To("alice"))
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	// System caller
	updated, err = f.catalog.Update(ctx, external.ID, nil, patch, nil)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, []string{"tmdb:603"}, f.cache.items)

	_, err = f.catalog.Update(ctx, 999, nil, patch, nil)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	game := mediakind.Game
	_, err = f.catalog.Update(ctx, external.ID, &game, patch, nil)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestCatalog_Update_PartialDetailsAndTags merges detail fields and replaces
tags only when a tag list is supplied.
*/
func TestCatalog_Update_PartialDetailsAndTags(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.catalog.CreateCustom(ctx, media.CreateInput{
		Kind:    mediakind.Anime,
		Title:   "Fan Cut",
		Details: &media.AnimeDetails{Seasons: pointer.To(1), Studios: []string{"Home"}},
		Tags:    []string{"Edit"},
	}, "alice")
	require.NoError(t, err)

	// Details merge, tags untouched
	updated, err := f.catalog.Update(ctx, created.ID, nil, media.UpdateInput{
		Details: &media.AnimeDetails{TotalEpisodes: pointer.To(12)},
	}, pointer.To("alice"))
	require.NoError(t, err)

	details := updated.Details.(*media.AnimeDetails)
	assert.Equal(t, 1, *details.Seasons)
	assert.Equal(t, 12, *details.TotalEpisodes)
	assert.Equal(t, []string{"Home"}, details.Studios)
	assert.Equal(t, []string{"Edit"}, tagNames(updated.Tags))

	// Explicit empty list clears every tag
	updated, err = f.catalog.Update(ctx, created.ID, nil, media.UpdateInput{Tags: &[]string{}}, pointer.To("alice"))
	require.NoError(t, err)
	assert.Empty(t, updated.Tags)

	// Details of another kind are rejected
	_, err = f.catalog.Update(ctx, created.ID, nil, media.UpdateInput{Details: &media.MangaDetails{}}, pointer.To("alice"))
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

// # Deletion

/*
TestCatalog_Delete_RemovesCoverAfterCommit deletes the local cover file only
once the surrounding unit of work commits.
*/
func TestCatalog_Delete_RemovesCoverAfterCommit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	coverPath := filepath.Join(f.assetDir, "cover.jpg")
	require.NoError(t, os.WriteFile(coverPath, []byte("jpeg"), 0o600))

	created, err := f.catalog.CreateCustom(ctx, media.CreateInput{
		Kind:          mediakind.Movie,
		Title:         "Vacation",
		CoverImageURL: pointer.To("/static/images/cover.jpg"),
		Tags:          []string{"Family"},
	}, "alice")
	require.NoError(t, err)

	err = f.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := f.catalog.Delete(ctx, created.ID, pointer.To("alice")); err != nil {
			return err
		}

		// Still present until the outer unit of work commits
		_, statErr := os.Stat(coverPath)
		assert.NoError(t, statErr)
		return nil
	})
	require.NoError(t, err)

	_, statErr := os.Stat(coverPath)
	assert.True(t, os.IsNotExist(statErr))
	assert.False(t, f.repo.Exists(created.ID))
	assert.Equal(t, 0, f.tags.LinkCount())
}

/*
TestCatalog_Delete_Ownership applies the same rule as updates.
*/
func TestCatalog_Delete_Ownership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	external, _, err := f.catalog.CreateExternal(ctx, externalInput("The Matrix"))
	require.NoError(t, err)

	err = f.catalog.Delete(ctx, external.ID, pointer.To("alice"))
	assert.True(t, apperr.HasCode(err, apperr.CodePermissionDenied))
	assert.True(t, f.repo.Exists(external.ID))

	require.NoError(t, f.catalog.Delete(ctx, external.ID, nil))
	assert.False(t, f.repo.Exists(external.ID))
	assert.Equal(t, []string{"tmdb:603"}, f.cache.items)

	err = f.catalog.Delete(ctx, external.ID, nil)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestCatalog_DeleteIfOrphaned keeps referenced media and removes the rest.
*/
func TestCatalog_DeleteIfOrphaned(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tracked, _, err := f.catalog.CreateExternal(ctx, externalInput("The Matrix"))
	require.NoError(t, err)
	orphan, err := f.catalog.CreateCustom(ctx, media.CreateInput{Kind: mediakind.Book, Title: "Draft"}, "alice")
	require.NoError(t, err)

	f.repo.References = func(mediaID int64) int {
		if mediaID == tracked.ID {
			return 1
		}
		return 0
	}

	orphans, err := f.catalog.ListOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{orphan.ID}, orphans)

	deleted, err := f.catalog.DeleteIfOrphaned(ctx, tracked.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = f.catalog.DeleteIfOrphaned(ctx, orphan.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	// Already gone
	deleted, err = f.catalog.DeleteIfOrphaned(ctx, orphan.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

// # Discovery

/*
TestCatalog_Search matches title or description case-insensitively.
*/
func TestCatalog_Search(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, _, err := f.catalog.CreateExternal(ctx, externalInput("The Matrix"))
	require.NoError(t, err)
	_, err = f.catalog.CreateCustom(ctx, media.CreateInput{
		Kind:        mediakind.Book,
		Title:       "Notes",
		Description: pointer.To("Thoughts on the MATRIX trilogy"),
	}, "alice")
	require.NoError(t, err)

	found, err := f.catalog.Search(ctx, "matrix", nil, 0)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	book := mediakind.Book
	found, err = f.catalog.Search(ctx, "matrix", &book, 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Notes", found[0].Title)

	_, err = f.catalog.Search(ctx, "   ", nil, 0)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestCatalog_ListByTag pages the media of a tag, newest first.
*/
func TestCatalog_ListByTag(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	ids := make([]int64, 0, 3)
	for _, title := range []string{"One", "Two", "Three"} {
		created, err := f.catalog.CreateCustom(ctx, media.CreateInput{Kind: mediakind.Game, Title: title, Tags: []string{"Indie"}}, "alice")
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	page, total, err := f.catalog.ListByTag(ctx, "indie", nil, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, ids[2], page[0].ID)
	assert.Equal(t, ids[1], page[1].ID)

	page, _, err = f.catalog.ListByTag(ctx, "indie", nil, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[0], page[0].ID)

	_, _, err = f.catalog.ListByTag(ctx, "unknown", nil, 0, 2)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestCatalog_AddRemoveTags edits the tag set of a custom item under the
ownership rule.
*/
func TestCatalog_AddRemoveTags(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.catalog.CreateCustom(ctx, media.CreateInput{Kind: mediakind.Book, Title: "Zine", Tags: []string{"Art"}}, "alice")
	require.NoError(t, err)

	tags, err := f.catalog.AddTags(ctx, created.ID, []string{"Comics", "art"}, pointer.To("alice"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Art", "Comics"}, tagNames(tags))

	_, err = f.catalog.AddTags(ctx, created.ID, []string{"Spam"}, pointer.To("bob"))
	assert.True(t, apperr.HasCode(err, apperr.CodePermissionDenied))

	tags, err = f.catalog.RemoveTags(ctx, created.ID, []string{"ART", "Unknown"}, pointer.To("alice"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Comics"}, tagNames(tags))

	tags, err = f.catalog.Tags(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Comics"}, tagNames(tags))

	_, err = f.catalog.Tags(ctx, 999)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}
