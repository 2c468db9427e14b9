// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/listify/internal/core/mediakind"
	"github.com/taibuivan/listify/internal/core/tag"
	"github.com/taibuivan/listify/internal/core/tag/tagtest"
	"github.com/taibuivan/listify/internal/platform/apperr"
)

func newAssociations() (*tag.Associations, *tagtest.Repository) {
	repo := tagtest.NewRepository()
	return tag.NewAssociations(repo, tag.NewNormalizer(repo)), repo
}

func names(tags []*tag.Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.Name
	}
	return out
}

/*
TestAssociations_Attach dedups names and ignores existing links.
*/
func TestAssociations_Attach(t *testing.T) {
	ctx := context.Background()
	associations, repo := newAssociations()

	attached, err := associations.Attach(ctx, 1, mediakind.Anime, []string{"Action", "action", " ", "Isekai"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Action", "Isekai"}, names(attached))

	// Re-attaching is a no-op for existing links
	_, err = associations.Attach(ctx, 1, mediakind.Anime, []string{"ACTION"})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.LinkCount())

	current, err := associations.TagsForMedia(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Action", "Isekai"}, names(current))
}

/*
TestAssociations_Replace swaps the full tag set, including to empty.
*/
func TestAssociations_Replace(t *testing.T) {
	ctx := context.Background()
	associations, _ := newAssociations()

	_, err := associations.Attach(ctx, 7, mediakind.Book, []string{"Classic", "Russian"})
	require.NoError(t, err)

	_, err = associations.Replace(ctx, 7, mediakind.Book, []string{"Drama"})
	require.NoError(t, err)

	current, err := associations.TagsForMedia(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"Drama"}, names(current))

	_, err = associations.Replace(ctx, 7, mediakind.Book, nil)
	require.NoError(t, err)

	current, err = associations.TagsForMedia(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, current)
}

/*
TestAssociations_Remove unlinks known names and ignores unknown ones.
*/
func TestAssociations_Remove(t *testing.T) {
	ctx := context.Background()
	associations, _ := newAssociations()

	_, err := associations.Attach(ctx, 3, mediakind.Game, []string{"RPG", "Open World"})
	require.NoError(t, err)

	require.NoError(t, associations.Remove(ctx, 3, []string{"rpg", "Unknown"}))

	current, err := associations.TagsForMedia(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Open World"}, names(current))
}

/*
TestAssociations_MediaIDsForTag filters by kind and resolves slugs.
*/
func TestAssociations_MediaIDsForTag(t *testing.T) {
	ctx := context.Background()
	associations, _ := newAssociations()

	_, err := associations.Attach(ctx, 1, mediakind.Anime, []string{"Action"})
	require.NoError(t, err)
	_, err = associations.Attach(ctx, 2, mediakind.Movie, []string{"action"})
	require.NoError(t, err)

	all, err := associations.MediaIDsForTag(ctx, "action", nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, all)

	movies := mediakind.Movie
	onlyMovies, err := associations.MediaIDsForTag(ctx, "action", &movies)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, onlyMovies)

	_, err = associations.MediaIDsForTag(ctx, "missing", nil)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}
