// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/listify/pkg/slice"
)

func TestMap(t *testing.T) {
	assert.Nil(t, slice.Map[int, string](nil, strconv.Itoa))
	assert.Equal(t, []string{"1", "2"}, slice.Map([]int{1, 2}, strconv.Itoa))
}

func TestFilter(t *testing.T) {
	even := func(v int) bool { return v%2 == 0 }

	assert.Equal(t, []int{2, 4}, slice.Filter([]int{1, 2, 3, 4}, even))
	assert.NotNil(t, slice.Filter(nil, even))
	assert.Empty(t, slice.Filter([]int{1, 3}, even))
}

func TestIndexBy(t *testing.T) {
	type item struct {
		id   int
		name string
	}

	index := slice.IndexBy([]item{{1, "a"}, {2, "b"}, {1, "c"}}, func(v item) int { return v.id })

	assert.Len(t, index, 2)
	assert.Equal(t, "c", index[1].name)
	assert.Equal(t, "b", index[2].name)
}
