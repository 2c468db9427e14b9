// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mediakind_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/listify/internal/core/mediakind"
)

func TestParse(t *testing.T) {
	kind, ok := mediakind.Parse(" Anime ")
	assert.True(t, ok)
	assert.Equal(t, mediakind.Anime, kind)

	_, ok = mediakind.Parse("podcast")
	assert.False(t, ok)

	assert.Len(t, mediakind.Strings(), 6)
}
