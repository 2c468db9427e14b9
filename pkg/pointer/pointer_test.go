// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/listify/pkg/pointer"
)

func TestPointerHelpers(t *testing.T) {
	value := pointer.To("movie")

	assert.Equal(t, "movie", pointer.Val(value))
	assert.Equal(t, "", pointer.Val[string](nil))
	assert.Equal(t, 7, pointer.Fallback(nil, 7))
	assert.Equal(t, 3, pointer.Fallback(pointer.To(3), 7))
}
