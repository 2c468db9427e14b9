// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/listify/internal/platform/apperr"
	"github.com/taibuivan/listify/internal/platform/validate"
	"github.com/taibuivan/listify/pkg/pointer"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "title", "Dune", false},
		{"empty_string", "title", "", true},
		{"whitespace_only", "title", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_CoverURL checks the accepted cover image locations.
*/
func TestValidator_CoverURL(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"local_asset", "/static/images/abc.jpg", true},
		{"https", "https://image.tmdb.org/t/p/w500/x.jpg", true},
		{"http", "http://example.com/a.png", true},
		{"relative", "images/abc.jpg", false},
		{"ftp", "ftp://example.com/a.png", false},
		{"scheme_without_host", "https:///a.png", false},
		{"other_local_root", "/uploads/a.png", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.CoverURL("cover_image_url", tt.value)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Numbers covers the numeric rules used by tracking entries.
*/
func TestValidator_Numbers(t *testing.T) {
	v := &validate.Validator{}
	v.RangeFloat("rating", 7.5, 1, 10).NonNegative("progress", pointer.To(0)).NonNegative("pages", nil)
	assert.False(t, v.HasErrors())

	v = &validate.Validator{}
	v.RangeFloat("rating", 10.5, 1, 10).NonNegative("progress", pointer.To(-1)).Range("seasons", 0, 1, 99)

	ae := apperr.As(v.Err())
	require.NotNil(t, ae)
	assert.Len(t, ae.Details, 3)
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("title", "").               // Fails
		MinLen("title", "a", 5).             // Fails
		OneOf("status", "paused", "a", "b"). // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}
