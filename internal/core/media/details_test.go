// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/listify/internal/core/media"
	"github.com/taibuivan/listify/internal/core/mediakind"
	"github.com/taibuivan/listify/internal/platform/apperr"
)

/*
TestDecodeDetails picks the variant from the kind and rejects foreign attributes.
*/
func TestDecodeDetails(t *testing.T) {
	details, err := media.DecodeDetails(mediakind.Game, json.RawMessage(`{"platforms":["pc","switch"],"developers":["Team Cherry"]}`))
	require.NoError(t, err)

	game, ok := details.(*media.GameDetails)
	require.True(t, ok)
	assert.Equal(t, []media.Platform{media.PlatformPC, media.PlatformSwitch}, game.Platforms)
	assert.Equal(t, []string{"Team Cherry"}, game.Developers)
	assert.Nil(t, game.Publishers)

	// Movie attributes are not part of a book
	_, err = media.DecodeDetails(mediakind.Book, json.RawMessage(`{"runtime":120}`))
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	// Unknown kind
	_, err = media.DecodeDetails(mediakind.Kind("podcast"), nil)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestDecodeDetails_Empty yields the empty variant for absent payloads.
*/
func TestDecodeDetails_Empty(t *testing.T) {
	for _, raw := range []json.RawMessage{nil, json.RawMessage(`null`), json.RawMessage(`  `)} {
		details, err := media.DecodeDetails(mediakind.Manga, raw)
		require.NoError(t, err)
		assert.Equal(t, &media.MangaDetails{}, details)
	}
}

/*
TestNewDetails returns one variant per kind.
*/
func TestNewDetails(t *testing.T) {
	for _, kind := range mediakind.All {
		details := media.NewDetails(kind)
		require.NotNil(t, details, string(kind))
		assert.Equal(t, kind, details.Kind())
	}
	assert.Nil(t, media.NewDetails(mediakind.Kind("podcast")))
}
