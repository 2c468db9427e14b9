// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/listify/internal/platform/apperr"
	"github.com/taibuivan/listify/internal/platform/dberr"
)

/*
TestWrap_Classification verifies the pgx to apperr mapping table.
*/
func TestWrap_Classification(t *testing.T) {
	unique := &pgconn.PgError{Code: pgerrcode.UniqueViolation}

	tests := []struct {
		name string
		err  error
		code string
	}{
		{"no_rows", pgx.ErrNoRows, apperr.CodeNotFound},
		{"wrapped_no_rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), apperr.CodeNotFound},
		{"unique_violation", unique, apperr.CodeAlreadyExists},
		{"app_error_passthrough", apperr.PermissionDenied("x"), apperr.CodePermissionDenied},
		{"unknown", errors.New("connection reset"), "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := dberr.Wrap(tt.err, "Tag")
			assert.True(t, apperr.HasCode(wrapped, tt.code))
		})
	}
}

/*
TestWrap_Nil keeps nil errors nil.
*/
func TestWrap_Nil(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "Tag"))
}

/*
TestIsUniqueViolation distinguishes SQLSTATE codes.
*/
func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, dberr.IsUniqueViolation(&pgconn.PgError{Code: pgerrcode.UniqueViolation}))
	assert.False(t, dberr.IsUniqueViolation(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}))
	assert.True(t, dberr.IsForeignKeyViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})))
	assert.False(t, dberr.IsUniqueViolation(errors.New("other")))
}
