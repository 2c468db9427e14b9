// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/listify/pkg/slug"
)

/*
TestFrom covers the slug transformation pipeline.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Action", "action"},
		{"spaces", "Science Fiction", "science-fiction"},
		{"trimmed", "  Sci-Fi  ", "sci-fi"},
		{"punctuation", "Rom-Com!", "rom-com"},
		{"mixed_separators", "slice -  of _ life", "slice-of-_-life"},
		{"symbols_only_between", "C++ Programming", "c-programming"},
		{"unicode_letters", "Café Noir", "café-noir"},
		{"decomposed_input", "Café", "café"},
		{"cjk", "日本 アニメ", "日本-アニメ"},
		{"digits", "90s Anime", "90s-anime"},
		{"leading_hyphen_kept", "-Indie", "-indie"},
		{"only_symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.in))
		})
	}
}

/*
TestFrom_CaseInsensitive ensures names differing only by case share a slug.
*/
func TestFrom_CaseInsensitive(t *testing.T) {
	assert.Equal(t, slug.From("ACTION"), slug.From("action"))
	assert.Equal(t, slug.From("Sci Fi"), slug.From("sci  FI"))
}

/*
TestWithSuffix builds the collision candidates.
*/
func TestWithSuffix(t *testing.T) {
	assert.Equal(t, "action", slug.WithSuffix("action", 0))
	assert.Equal(t, "action-1", slug.WithSuffix("action", 1))
	assert.Equal(t, "action-12", slug.WithSuffix("action", 12))
}
