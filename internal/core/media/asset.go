// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalAssets manages cover images stored on local disk and served under a
// URL prefix (e.g. "/static/images/abc.jpg" -> "<dir>/abc.jpg").
type LocalAssets struct {
	dir       string
	urlPrefix string
}

// NewLocalAssets constructs a [LocalAssets] rooted at dir.
func NewLocalAssets(dir, urlPrefix string) *LocalAssets {
	return &LocalAssets{dir: filepath.Clean(dir), urlPrefix: urlPrefix}
}

// Owns reports whether url points at a locally managed asset.
func (assets *LocalAssets) Owns(url string) bool {
	return strings.HasPrefix(url, assets.urlPrefix) && len(url) > len(assets.urlPrefix)
}

/*
Remove deletes the file behind url.

Description: Removal is idempotent: a file that is already gone yields
(0, nil). Paths that would resolve outside the asset directory are refused.

Returns:
  - int64: Bytes freed
  - error: Refused paths or filesystem failures
*/
func (assets *LocalAssets) Remove(_ context.Context, url string) (int64, error) {
	if !assets.Owns(url) {
		return 0, fmt.Errorf("asset: %q is not a local asset", url)
	}

	path, err := assets.resolve(strings.TrimPrefix(url, assets.urlPrefix))
	if err != nil {
		return 0, err
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("asset: failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("asset: %s is a directory", path)
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return 0, fmt.Errorf("asset: failed to remove %s: %w", path, err)
	}
	return info.Size(), nil
}

// resolve maps a URL-relative name to a path inside the asset directory.
func (assets *LocalAssets) resolve(name string) (string, error) {
	path := filepath.Join(assets.dir, filepath.FromSlash(name))

	relative, err := filepath.Rel(assets.dir, path)
	if err != nil || relative == "." || relative == ".." || strings.HasPrefix(relative, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("asset: %q escapes the asset directory", name)
	}
	return path, nil
}
