// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package date_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/listify/pkg/date"
)

/*
TestDate_JSON uses the YYYY-MM-DD layout in both directions.
*/
func TestDate_JSON(t *testing.T) {
	type payload struct {
		Released *date.Date `json:"released"`
	}

	raw, err := json.Marshal(payload{Released: &date.Date{Year: 1999, Month: time.March, Day: 31}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"released":"1999-03-31"}`, string(raw))

	var decoded payload
	require.NoError(t, json.Unmarshal([]byte(`{"released":"2024-02-29"}`), &decoded))
	require.NotNil(t, decoded.Released)
	assert.Equal(t, date.New(2024, time.February, 29), *decoded.Released)

	assert.Error(t, json.Unmarshal([]byte(`{"released":"2024-13-01"}`), &decoded))
	assert.Error(t, json.Unmarshal([]byte(`{"released":20240101}`), &decoded))
}

/*
TestDate_Of ignores the time of day in the value's own zone.
*/
func TestDate_Of(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	late := time.Date(2026, time.October, 18, 23, 30, 0, 0, tokyo)

	assert.Equal(t, "2026-10-18", date.Of(late).String())
	assert.True(t, date.New(2026, 1, 1).Before(date.New(2026, 1, 2)))
}

/*
TestDate_PgType round-trips through the pgtype interfaces.
*/
func TestDate_PgType(t *testing.T) {
	original := date.New(2010, time.July, 4)

	value, err := original.DateValue()
	require.NoError(t, err)
	assert.True(t, value.Valid)

	var scanned date.Date
	require.NoError(t, scanned.ScanDate(value))
	assert.Equal(t, original, scanned)

	assert.Error(t, scanned.ScanDate(pgtype.Date{}))
	assert.Error(t, scanned.ScanDate(pgtype.Date{Valid: true, InfinityModifier: pgtype.Infinity}))
}

/*
TestEqual compares optional dates.
*/
func TestEqual(t *testing.T) {
	a := date.New(2020, 5, 1)
	b := date.New(2020, 5, 1)
	c := date.New(2020, 5, 2)

	assert.True(t, date.Equal(nil, nil))
	assert.True(t, date.Equal(&a, &b))
	assert.False(t, date.Equal(&a, &c))
	assert.False(t, date.Equal(&a, nil))
}

/*
TestFromPG maps NULL and infinite dates to nil.
*/
func TestFromPG(t *testing.T) {
	assert.Nil(t, date.FromPG(pgtype.Date{}))
	assert.Nil(t, date.FromPG(pgtype.Date{Valid: true, InfinityModifier: pgtype.Infinity}))

	got := date.FromPG(pgtype.Date{Valid: true, Time: time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)})
	require.NotNil(t, got)
	assert.Equal(t, "2024-02-29", got.String())
}
