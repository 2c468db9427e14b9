// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package resultcache evicts cached metadata provider responses.

Provider responses live under "{prefix}:{source}:{endpoint}:..." keys. When a
catalog item changes, search results of its source and every key mentioning
its external id are dropped so the next lookup sees fresh data.

Eviction is fire-and-forget: a failing cache never fails a catalog write, it
only leaves stale entries behind until their TTL expires.
*/
package resultcache

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/listify/internal/platform/constants"
	"github.com/taibuivan/listify/internal/platform/ctxutil"
)

// DefaultPrefix is the first key segment used when none is configured.
const DefaultPrefix = "api"

// Store deletes cache keys matching a glob pattern.
type Store interface {
	DeleteByPattern(context context.Context, pattern string) (int, error)
}

// Coordinator builds eviction patterns and applies them to a [Store].
type Coordinator struct {
	store  Store
	prefix string
}

// NewCoordinator constructs a [Coordinator]; a blank prefix means [DefaultPrefix].
func NewCoordinator(store Store, prefix string) *Coordinator {
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultPrefix
	}
	return &Coordinator{store: store, prefix: prefix}
}

// # Patterns

// SearchPattern matches every cached search of source.
func (coordinator *Coordinator) SearchPattern(source string) string {
	return fmt.Sprintf("%s:%s:%s:*", coordinator.prefix, escapeGlob(source), constants.ResultCacheSearchSegment)
}

// ItemPattern matches every cached response of source mentioning externalID.
func (coordinator *Coordinator) ItemPattern(source, externalID string) string {
	return fmt.Sprintf("%s:%s:*%s*", coordinator.prefix, escapeGlob(source), escapeGlob(externalID))
}

// # Eviction

// InvalidateSearch drops the cached searches of source.
func (coordinator *Coordinator) InvalidateSearch(context context.Context, source string) {
	coordinator.evict(context, coordinator.SearchPattern(source))
}

// InvalidateItem drops the cached responses for one provider item.
func (coordinator *Coordinator) InvalidateItem(context context.Context, source, externalID string) {
	coordinator.evict(context, coordinator.ItemPattern(source, externalID))
}

// Invalidate drops both the searches of source and the item's own responses.
func (coordinator *Coordinator) Invalidate(context context.Context, source, externalID string) {
	coordinator.InvalidateSearch(context, source)
	coordinator.InvalidateItem(context, source, externalID)
}

func (coordinator *Coordinator) evict(context context.Context, pattern string) {
	logger := ctxutil.GetLogger(context)

	removed, err := coordinator.store.DeleteByPattern(context, pattern)
	if err != nil {
		logger.Warn("result_cache_eviction_failed",
			slog.String("pattern", pattern),
			slog.Any("error", err),
		)
		return
	}

	logger.Debug("result_cache_evicted",
		slog.String("pattern", pattern),
		slog.Int("removed", removed),
	)
}

// escapeGlob quotes the characters Redis MATCH treats as wildcards.
func escapeGlob(value string) string {
	var builder strings.Builder
	for _, r := range value {
		switch r {
		case '*', '?', '[', ']', '\\':
			builder.WriteByte('\\')
		}
		builder.WriteRune(r)
	}
	return builder.String()
}

// NopStore discards every eviction. It serves processes without a cache.
type NopStore struct{}

// DeleteByPattern implements [Store].
func (NopStore) DeleteByPattern(context.Context, string) (int, error) {
	return 0, nil
}
