// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/listify/internal/core/media"
)

/*
TestLocalAssets_Remove deletes owned files and reports the bytes freed.
*/
func TestLocalAssets_Remove(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	assets := media.NewLocalAssets(dir, "/static/images/")

	path := filepath.Join(dir, "poster.png")
	require.NoError(t, os.WriteFile(path, make([]byte, 2048), 0o600))

	assert.True(t, assets.Owns("/static/images/poster.png"))
	assert.False(t, assets.Owns("https://cdn.example.com/poster.png"))
	assert.False(t, assets.Owns("/static/images/"))

	freed, err := assets.Remove(ctx, "/static/images/poster.png")
	require.NoError(t, err)
	assert.Equal(t, int64(2048), freed)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Idempotent
	freed, err = assets.Remove(ctx, "/static/images/poster.png")
	require.NoError(t, err)
	assert.Zero(t, freed)
}

/*
TestLocalAssets_Remove_Traversal refuses paths outside the asset directory.
*/
func TestLocalAssets_Remove_Traversal(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "images")
	require.NoError(t, os.Mkdir(dir, 0o700))

	outside := filepath.Join(root, "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0o600))

	assets := media.NewLocalAssets(dir, "/static/images/")
	_, err := assets.Remove(context.Background(), "/static/images/../secret.txt")
	assert.Error(t, err)

	_, err = os.Stat(outside)
	assert.NoError(t, err)

	_, err = assets.Remove(context.Background(), "https://cdn.example.com/a.png")
	assert.Error(t, err)
}
