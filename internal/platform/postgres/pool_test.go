// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

/*
TestPoolOptions_Defaults verifies zero and inconsistent sizing falls back.
*/
func TestPoolOptions_Defaults(t *testing.T) {
	options := PoolOptions{}.withDefaults()
	assert.Equal(t, int32(25), options.MaxConns)
	assert.Equal(t, int32(5), options.MinConns)
	assert.Equal(t, 30*time.Second, options.StatementTimeout)

	options = PoolOptions{MaxConns: 10}.withDefaults()
	assert.Equal(t, int32(5), options.MinConns)

	options = PoolOptions{MaxConns: 3, MinConns: 10, StatementTimeout: time.Second}.withDefaults()
	assert.Equal(t, int32(3), options.MaxConns)
	assert.Equal(t, int32(3), options.MinConns)
	assert.Equal(t, time.Second, options.StatementTimeout)
}
