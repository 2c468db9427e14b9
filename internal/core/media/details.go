// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/taibuivan/listify/internal/core/mediakind"
	"github.com/taibuivan/listify/internal/platform/apperr"
	"github.com/taibuivan/listify/internal/platform/validate"
)

// # Enumerations

// ReleaseStatus is the publication state of a series, anime or manga.
type ReleaseStatus string

const (
	ReleaseAiring    ReleaseStatus = "airing"
	ReleaseFinished  ReleaseStatus = "finished"
	ReleaseUpcoming  ReleaseStatus = "upcoming"
	ReleaseCancelled ReleaseStatus = "cancelled"
)

// AgeRating is the audience classification of an anime or manga.
type AgeRating string

const (
	AgeRatingG       AgeRating = "G"
	AgeRatingPG      AgeRating = "PG"
	AgeRatingPG13    AgeRating = "PG-13"
	AgeRatingR       AgeRating = "R"
	AgeRatingRPlus   AgeRating = "R+"
	AgeRatingRx      AgeRating = "Rx"
	AgeRatingNC17    AgeRating = "NC-17"
	AgeRatingUnknown AgeRating = "Unknown"
)

// Platform is a game platform.
type Platform string

const (
	PlatformPC         Platform = "pc"
	PlatformPS5        Platform = "ps5"
	PlatformPS4        Platform = "ps4"
	PlatformPS3        Platform = "ps3"
	PlatformXboxSeries Platform = "xbox_series"
	PlatformXboxOne    Platform = "xbox_one"
	PlatformSwitch     Platform = "switch"
	PlatformMobile     Platform = "mobile"
	PlatformVR         Platform = "vr"
)

var (
	releaseStatuses = []string{"airing", "finished", "upcoming", "cancelled"}
	ageRatings      = []string{"G", "PG", "PG-13", "R", "R+", "Rx", "NC-17", "Unknown"}
	platforms       = []string{"pc", "ps5", "ps4", "ps3", "xbox_series", "xbox_one", "switch", "mobile", "vr"}
)

// # Details Variants

// Details is the per-kind attribute set of a media item.
//
// The interface is sealed: the six variants below are the only
// implementations, one per [mediakind.Kind]. All fields are optional; a nil
// pointer or nil slice means "not supplied".
type Details interface {
	Kind() mediakind.Kind

	validate(validator *validate.Validator)
	merge(patch Details) Details
}

// MovieDetails describes a movie.
type MovieDetails struct {
	Runtime   *int     `json:"runtime,omitempty"`
	Directors []string `json:"directors,omitempty"`
}

// SeriesDetails describes a live-action series.
type SeriesDetails struct {
	TotalEpisodes *int           `json:"total_episodes,omitempty"`
	Seasons       *int           `json:"seasons,omitempty"`
	Status        *ReleaseStatus `json:"status,omitempty"`
	Directors     []string       `json:"directors,omitempty"`
}

// AnimeDetails describes an anime.
type AnimeDetails struct {
	OriginalTitle *string        `json:"original_title,omitempty"`
	AgeRating     *AgeRating     `json:"age_rating,omitempty"`
	Seasons       *int           `json:"seasons,omitempty"`
	TotalEpisodes *int           `json:"total_episodes,omitempty"`
	Studios       []string       `json:"studios,omitempty"`
	Status        *ReleaseStatus `json:"status,omitempty"`
}

// MangaDetails describes a manga.
type MangaDetails struct {
	OriginalTitle *string        `json:"original_title,omitempty"`
	AgeRating     *AgeRating     `json:"age_rating,omitempty"`
	TotalChapters *int           `json:"total_chapters,omitempty"`
	TotalVolumes  *int           `json:"total_volumes,omitempty"`
	Authors       []string       `json:"authors,omitempty"`
	Status        *ReleaseStatus `json:"status,omitempty"`
}

// BookDetails describes a book.
type BookDetails struct {
	Pages   *int     `json:"pages,omitempty"`
	Authors []string `json:"authors,omitempty"`
	ISBN    *string  `json:"isbn,omitempty"`
}

// GameDetails describes a video game.
type GameDetails struct {
	Platforms  []Platform `json:"platforms,omitempty"`
	Developers []string   `json:"developers,omitempty"`
	Publishers []string   `json:"publishers,omitempty"`
}

func (*MovieDetails) Kind() mediakind.Kind  { return mediakind.Movie }
func (*SeriesDetails) Kind() mediakind.Kind { return mediakind.Series }
func (*AnimeDetails) Kind() mediakind.Kind  { return mediakind.Anime }
func (*MangaDetails) Kind() mediakind.Kind  { return mediakind.Manga }
func (*BookDetails) Kind() mediakind.Kind   { return mediakind.Book }
func (*GameDetails) Kind() mediakind.Kind   { return mediakind.Game }

// # Construction

// NewDetails returns the empty variant for kind, or nil for an unknown kind.
func NewDetails(kind mediakind.Kind) Details {
	switch kind {
	case mediakind.Movie:
		return &MovieDetails{}
	case mediakind.Series:
		return &SeriesDetails{}
	case mediakind.Anime:
		return &AnimeDetails{}
	case mediakind.Manga:
		return &MangaDetails{}
	case mediakind.Book:
		return &BookDetails{}
	case mediakind.Game:
		return &GameDetails{}
	default:
		return nil
	}
}

// DecodeDetails decodes a JSON attribute object into the variant of kind.
// An empty or null payload yields the empty variant.
func DecodeDetails(kind mediakind.Kind, raw json.RawMessage) (Details, error) {
	details := NewDetails(kind)
	if details == nil {
		return nil, validate.RequiredError(FieldKind, fmt.Sprintf("Unknown media kind %q", kind))
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return details, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(details); err != nil {
		return nil, apperr.ValidationError("Invalid details payload", apperr.FieldError{
			Field:   FieldDetails,
			Message: err.Error(),
		})
	}

	return details, nil
}

// # Validation

func (d *MovieDetails) validate(validator *validate.Validator) {
	validator.NonNegative("details.runtime", d.Runtime)
}

func (d *SeriesDetails) validate(validator *validate.Validator) {
	validator.NonNegative("details.total_episodes", d.TotalEpisodes).NonNegative("details.seasons", d.Seasons)
	validateStatus(validator, d.Status)
}

func (d *AnimeDetails) validate(validator *validate.Validator) {
	validator.NonNegative("details.total_episodes", d.TotalEpisodes).NonNegative("details.seasons", d.Seasons)
	validateOriginalTitle(validator, d.OriginalTitle)
	validateAgeRating(validator, d.AgeRating)
	validateStatus(validator, d.Status)
}

func (d *MangaDetails) validate(validator *validate.Validator) {
	validator.NonNegative("details.total_chapters", d.TotalChapters).NonNegative("details.total_volumes", d.TotalVolumes)
	validateOriginalTitle(validator, d.OriginalTitle)
	validateAgeRating(validator, d.AgeRating)
	validateStatus(validator, d.Status)
}

func (d *BookDetails) validate(validator *validate.Validator) {
	validator.NonNegative("details.pages", d.Pages)
	if d.ISBN != nil {
		validator.MaxLen("details.isbn", *d.ISBN, 20)
	}
}

func (d *GameDetails) validate(validator *validate.Validator) {
	for _, platform := range d.Platforms {
		validator.OneOf("details.platforms", string(platform), platforms...)
	}
}

func validateStatus(validator *validate.Validator, status *ReleaseStatus) {
	if status != nil {
		validator.OneOf("details.status", string(*status), releaseStatuses...)
	}
}

func validateAgeRating(validator *validate.Validator, rating *AgeRating) {
	if rating != nil {
		validator.OneOf("details.age_rating", string(*rating), ageRatings...)
	}
}

func validateOriginalTitle(validator *validate.Validator, title *string) {
	if title != nil {
		validator.MaxLen("details.original_title", *title, 255)
	}
}

// # Partial Updates

// mergeDetails applies patch onto current. A nil patch or a patch of another
// kind is rejected by the caller before this point.
func mergeDetails(current, patch Details) Details {
	if patch == nil {
		return current
	}
	if current == nil {
		current = NewDetails(patch.Kind())
	}
	return current.merge(patch)
}

func (d *MovieDetails) merge(patch Details) Details {
	p := patch.(*MovieDetails)
	out := *d
	setIf(&out.Runtime, p.Runtime)
	setSliceIf(&out.Directors, p.Directors)
	return &out
}

func (d *SeriesDetails) merge(patch Details) Details {
	p := patch.(*SeriesDetails)
	out := *d
	setIf(&out.TotalEpisodes, p.TotalEpisodes)
	setIf(&out.Seasons, p.Seasons)
	setIf(&out.Status, p.Status)
	setSliceIf(&out.Directors, p.Directors)
	return &out
}

func (d *AnimeDetails) merge(patch Details) Details {
	p := patch.(*AnimeDetails)
	out := *d
	setIf(&out.OriginalTitle, p.OriginalTitle)
	setIf(&out.AgeRating, p.AgeRating)
	setIf(&out.Seasons, p.Seasons)
	setIf(&out.TotalEpisodes, p.TotalEpisodes)
	setSliceIf(&out.Studios, p.Studios)
	setIf(&out.Status, p.Status)
	return &out
}

func (d *MangaDetails) merge(patch Details) Details {
	p := patch.(*MangaDetails)
	out := *d
	setIf(&out.OriginalTitle, p.OriginalTitle)
	setIf(&out.AgeRating, p.AgeRating)
	setIf(&out.TotalChapters, p.TotalChapters)
	setIf(&out.TotalVolumes, p.TotalVolumes)
	setSliceIf(&out.Authors, p.Authors)
	setIf(&out.Status, p.Status)
	return &out
}

func (d *BookDetails) merge(patch Details) Details {
	p := patch.(*BookDetails)
	out := *d
	setIf(&out.Pages, p.Pages)
	setSliceIf(&out.Authors, p.Authors)
	setIf(&out.ISBN, p.ISBN)
	return &out
}

func (d *GameDetails) merge(patch Details) Details {
	p := patch.(*GameDetails)
	out := *d
	setSliceIf(&out.Platforms, p.Platforms)
	setSliceIf(&out.Developers, p.Developers)
	setSliceIf(&out.Publishers, p.Publishers)
	return &out
}

func setIf[T any](target **T, value *T) {
	if value != nil {
		copied := *value
		*target = &copied
	}
}

func setSliceIf[T any](target *[]T, value []T) {
	if value != nil {
		*target = append([]T{}, value...)
	}
}
