// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
PostgreSQL implementation of the catalog store.

Layout: one base table (catalog.media) plus one detail table per kind, joined
by mediaid. Reads fold the detail row and the tag list into JSON columns so a
media item is hydrated in a single round-trip:
  - Details: CASE on mediakind selects the matching detail table through json_build_object.
  - Tags: json_agg over catalog.mediatag, ordered by name.
  - Totals: COUNT(*) OVER() on paged listings.
*/
package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/listify/internal/core/mediakind"
	"github.com/taibuivan/listify/internal/core/tag"
	"github.com/taibuivan/listify/internal/platform/database/schema"
	"github.com/taibuivan/listify/internal/platform/dberr"
	"github.com/taibuivan/listify/internal/platform/postgres"
	"github.com/taibuivan/listify/pkg/date"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed catalog store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// db returns the active transaction or the pool.
func (repository *PostgresRepository) db(context context.Context) postgres.DBTX {
	return postgres.Executor(context, repository.pool)
}

// # Projections

// detailTables maps each kind to its detail table.
var detailTables = map[mediakind.Kind]schema.CatalogDetailTable{
	mediakind.Movie:  schema.CatalogMovie,
	mediakind.Series: schema.CatalogSeries,
	mediakind.Anime:  schema.CatalogAnime,
	mediakind.Manga:  schema.CatalogManga,
	mediakind.Book:   schema.CatalogBook,
	mediakind.Game:   schema.CatalogGame,
}

var (
	base = schema.CatalogMedia

	// selectMedia hydrates base columns, details and tags for rows aliased "m".
	selectMedia = fmt.Sprintf(`
		SELECT m.%s, m.%s, m.%s, m.%s, m.%s, m.%s, m.%s, m.%s, m.%s, m.%s, m.%s, m.%s,
		       %s AS details,
		       %s AS tags
		FROM %s m`,
		base.ID, base.Kind, base.Title, base.Description, base.ReleaseDate, base.CoverImageURL,
		base.ExternalID, base.ExternalSource, base.IsCustom, base.CreatedBy, base.CreatedAt, base.UpdatedAt,
		detailsProjection(), tagsProjection(), base.Table,
	)
)

// detailsProjection renders the kind-specific detail row of "m" as a JSON object.
func detailsProjection() string {
	var builder strings.Builder
	builder.WriteString("CASE m." + schema.CatalogMedia.Kind)

	for _, kind := range mediakind.All {
		table := detailTables[kind]

		pairs := make([]string, 0, len(table.Fields))
		for _, field := range table.Fields {
			pairs = append(pairs, fmt.Sprintf("'%s', d.%s", field.JSON, field.Column))
		}

		fmt.Fprintf(&builder, " WHEN '%s' THEN (SELECT json_strip_nulls(json_build_object(%s)) FROM %s d WHERE d.%s = m.%s)",
			kind, strings.Join(pairs, ", "), table.Table, table.MediaID, schema.CatalogMedia.ID)
	}

	builder.WriteString(" END")
	return builder.String()
}

// tagsProjection aggregates the tags of "m" into a JSON array.
func tagsProjection() string {
	t, mt := schema.CatalogTag, schema.CatalogMediaTag
	return fmt.Sprintf(`COALESCE((
			SELECT json_agg(json_build_object('id', t.%s, 'name', t.%s, 'slug', t.%s) ORDER BY lower(t.%s))
			FROM %s mt JOIN %s t ON t.%s = mt.%s
			WHERE mt.%s = m.%s
		), '[]'::json)`,
		t.ID, t.Name, t.Slug, t.Name,
		mt.Table, t.Table, t.ID, mt.TagID,
		mt.MediaID, schema.CatalogMedia.ID,
	)
}

// scanMedia reads one row produced by selectMedia. Trailing destinations
// (e.g. a window total) are scanned after the media columns.
func scanMedia(row pgx.Row, extra ...any) (*Media, error) {
	var (
		media       Media
		kind        string
		releaseDate pgtype.Date
		details     []byte
		tags        []byte
	)

	destinations := []any{
		&media.ID, &kind, &media.Title, &media.Description, &releaseDate, &media.CoverImageURL,
		&media.ExternalID, &media.ExternalSource, &media.IsCustom, &media.CreatedBy, &media.CreatedAt, &media.UpdatedAt,
		&details, &tags,
	}

	if err := row.Scan(append(destinations, extra...)...); err != nil {
		return nil, err
	}

	media.Kind = mediakind.Kind(kind)
	media.ReleaseDate = date.FromPG(releaseDate)

	decoded, err := DecodeDetails(media.Kind, details)
	if err != nil {
		return nil, fmt.Errorf("postgres: corrupt details for media %d: %v", media.ID, err)
	}
	media.Details = decoded

	media.Tags = make([]*tag.Tag, 0)
	if err := json.Unmarshal(tags, &media.Tags); err != nil {
		return nil, fmt.Errorf("postgres: corrupt tags for media %d: %w", media.ID, err)
	}

	return &media, nil
}

// collectMedia drains rows produced by selectMedia.
func collectMedia(rows pgx.Rows) ([]*Media, error) {
	defer rows.Close()

	items := make([]*Media, 0)
	for rows.Next() {
		media, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan media: %w", err)
		}
		items = append(items, media)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: media rows: %w", err)
	}
	return items, nil
}

// # Lookups

func (repository *PostgresRepository) FindByID(context context.Context, id int64, kind *mediakind.Kind) (*Media, error) {
	query := selectMedia + fmt.Sprintf(` WHERE m.%s = $1`, base.ID)
	args := []any{id}

	if kind != nil {
		query += fmt.Sprintf(` AND m.%s = $2`, base.Kind)
		args = append(args, string(*kind))
	}

	media, err := scanMedia(repository.db(context).QueryRow(context, query, args...))
	if err != nil {
		return nil, dberr.Wrap(err, "Media")
	}
	return media, nil
}

func (repository *PostgresRepository) FindByIDs(context context.Context, ids []int64) ([]*Media, error) {
	if len(ids) == 0 {
		return []*Media{}, nil
	}

	query := selectMedia + fmt.Sprintf(` WHERE m.%s = ANY($1) ORDER BY array_position($1::bigint[], m.%s)`, base.ID, base.ID)

	rows, err := repository.db(context).Query(context, query, ids)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to load media by ids: %w", err)
	}
	return collectMedia(rows)
}

func (repository *PostgresRepository) FindByExternalKey(context context.Context, key ExternalKey) (*Media, error) {
	query := selectMedia + fmt.Sprintf(` WHERE m.%s = $1 AND m.%s = $2 AND m.%s = $3`,
		base.ExternalID, base.ExternalSource, base.Kind)

	media, err := scanMedia(repository.db(context).QueryRow(context, query, key.ID, key.Source, string(key.Kind)))
	if err != nil {
		return nil, dberr.Wrap(err, "Media")
	}
	return media, nil
}

func (repository *PostgresRepository) FindCustomDuplicate(context context.Context, ownerID string, kind mediakind.Kind, title string, releaseDate *date.Date) (*Media, error) {
	query := selectMedia + fmt.Sprintf(`
		WHERE m.%s AND m.%s = $1 AND m.%s = $2
		  AND lower(m.%s) = lower($3)
		  AND m.%s IS NOT DISTINCT FROM $4
		LIMIT 1`,
		base.IsCustom, base.CreatedBy, base.Kind, base.Title, base.ReleaseDate)

	media, err := scanMedia(repository.db(context).QueryRow(context, query, ownerID, string(kind), title, releaseDate))
	if err != nil {
		return nil, dberr.Wrap(err, "Media")
	}
	return media, nil
}

// # Writes

func (repository *PostgresRepository) Insert(context context.Context, media *Media) (bool, error) {

	// ON CONFLICT without a target absorbs both the external and custom keys,
	// so a lost race leaves the surrounding transaction usable.
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT DO NOTHING
		RETURNING %s, %s, %s`,
		base.Table, base.Kind, base.Title, base.Description, base.ReleaseDate, base.CoverImageURL,
		base.ExternalID, base.ExternalSource, base.IsCustom, base.CreatedBy,
		base.ID, base.CreatedAt, base.UpdatedAt,
	)

	err := repository.db(context).QueryRow(context, query,
		string(media.Kind), media.Title, media.Description, media.ReleaseDate, media.CoverImageURL,
		media.ExternalID, media.ExternalSource, media.IsCustom, media.CreatedBy,
	).Scan(&media.ID, &media.CreatedAt, &media.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("postgres: failed to insert media: %w", err)
	}

	if err := repository.upsertDetails(context, media.ID, media.Details); err != nil {
		return false, err
	}
	return true, nil
}

func (repository *PostgresRepository) Update(context context.Context, media *Media) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = now()
		WHERE %s = $1
		RETURNING %s`,
		base.Table, base.Title, base.Description, base.ReleaseDate, base.CoverImageURL, base.UpdatedAt,
		base.ID,
		base.UpdatedAt,
	)

	err := repository.db(context).QueryRow(context, query,
		media.ID, media.Title, media.Description, media.ReleaseDate, media.CoverImageURL,
	).Scan(&media.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "Media")
	}

	return repository.upsertDetails(context, media.ID, media.Details)
}

// upsertDetails writes the detail row of the variant's table.
func (repository *PostgresRepository) upsertDetails(context context.Context, mediaID int64, details Details) error {
	table, ok := detailTables[details.Kind()]
	if !ok {
		return fmt.Errorf("postgres: no detail table for kind %q", details.Kind())
	}

	columns := table.Columns()
	placeholders := make([]string, len(columns))
	assignments := make([]string, len(columns))
	for i, column := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		assignments[i] = fmt.Sprintf("%s = EXCLUDED.%s", column, column)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s) VALUES ($1, %s)
		ON CONFLICT (%s) DO UPDATE SET %s`,
		table.Table, table.MediaID, strings.Join(columns, ", "), strings.Join(placeholders, ", "),
		table.MediaID, strings.Join(assignments, ", "),
	)

	args := append([]any{mediaID}, detailValues(details)...)
	if _, err := repository.db(context).Exec(context, query, args...); err != nil {
		return fmt.Errorf("postgres: failed to write %s details: %w", details.Kind(), err)
	}
	return nil
}

// detailValues returns the variant's column values in schema field order.
func detailValues(details Details) []any {
	switch d := details.(type) {
	case *MovieDetails:
		return []any{d.Runtime, d.Directors}
	case *SeriesDetails:
		return []any{d.TotalEpisodes, d.Seasons, asText(d.Status), d.Directors}
	case *AnimeDetails:
		return []any{d.OriginalTitle, asText(d.AgeRating), d.Seasons, d.TotalEpisodes, d.Studios, asText(d.Status)}
	case *MangaDetails:
		return []any{d.OriginalTitle, asText(d.AgeRating), d.TotalChapters, d.TotalVolumes, d.Authors, asText(d.Status)}
	case *BookDetails:
		return []any{d.Pages, d.Authors, d.ISBN}
	case *GameDetails:
		platforms := make([]string, len(d.Platforms))
		for i, platform := range d.Platforms {
			platforms[i] = string(platform)
		}
		if d.Platforms == nil {
			platforms = nil
		}
		return []any{platforms, d.Developers, d.Publishers}
	default:
		return nil
	}
}

// asText converts a named string enum pointer into a plain *string for pgx.
func asText[T ~string](value *T) *string {
	if value == nil {
		return nil
	}
	text := string(*value)
	return &text
}

func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, base.Table, base.ID)

	result, err := repository.db(context).Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete media: %w", err)
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Media")
	}
	return nil
}

// # Discovery

func (repository *PostgresRepository) Search(context context.Context, query string, kind *mediakind.Kind, limit int) ([]*Media, error) {
	sql := selectMedia + fmt.Sprintf(` WHERE (m.%s ILIKE $1 OR m.%s ILIKE $1)`, base.Title, base.Description)
	args := []any{likePattern(query)}

	if kind != nil {
		sql += fmt.Sprintf(` AND m.%s = $2`, base.Kind)
		args = append(args, string(*kind))
	}
	sql += fmt.Sprintf(` ORDER BY m.%s DESC LIMIT %d`, base.ID, limit)

	rows, err := repository.db(context).Query(context, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to search media: %w", err)
	}
	return collectMedia(rows)
}

// likePattern wraps query for a substring ILIKE match, escaping wildcards.
func likePattern(query string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(query)
	return "%" + escaped + "%"
}

func (repository *PostgresRepository) List(context context.Context, kind *mediakind.Kind, offset, limit int) ([]*Media, int, error) {
	query := strings.Replace(selectMedia, "AS tags", "AS tags, COUNT(*) OVER() AS total_count", 1)
	args := []any{}

	if kind != nil {
		query += fmt.Sprintf(` WHERE m.%s = $1`, base.Kind)
		args = append(args, string(*kind))
	}
	query += fmt.Sprintf(` ORDER BY m.%s DESC LIMIT %d OFFSET %d`, base.ID, limit, offset)

	rows, err := repository.db(context).Query(context, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list media: %w", err)
	}
	defer rows.Close()

	var total int
	items := make([]*Media, 0)
	for rows.Next() {
		media, err := scanMedia(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan media: %w", err)
		}
		items = append(items, media)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: media rows: %w", err)
	}
	return items, total, nil
}

// # Orphans

func (repository *PostgresRepository) ListOrphanIDs(context context.Context) ([]int64, error) {
	tracking := schema.LibraryTracking
	query := fmt.Sprintf(`
		SELECT m.%s FROM %s m
		WHERE NOT EXISTS (SELECT 1 FROM %s t WHERE t.%s = m.%s)
		ORDER BY m.%s`,
		base.ID, base.Table,
		tracking.Table, tracking.MediaID, base.ID,
		base.ID,
	)

	rows, err := repository.db(context).Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list orphaned media: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to scan orphan ids: %w", err)
	}
	return ids, nil
}

func (repository *PostgresRepository) LockIfOrphaned(context context.Context, id int64) (*Media, bool, error) {

	// Row lock first: a concurrent tracking insert must wait on the FK check
	lock := fmt.Sprintf(`SELECT 1 FROM %s WHERE %s = $1 FOR UPDATE`, base.Table, base.ID)

	var locked int
	if err := repository.db(context).QueryRow(context, lock, id).Scan(&locked); err != nil {
		return nil, false, dberr.Wrap(err, "Media")
	}

	media, err := repository.FindByID(context, id, nil)
	if err != nil {
		return nil, false, err
	}

	tracking := schema.LibraryTracking
	check := fmt.Sprintf(`SELECT NOT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, tracking.Table, tracking.MediaID)

	var orphaned bool
	if err := repository.db(context).QueryRow(context, check, id).Scan(&orphaned); err != nil {
		return nil, false, fmt.Errorf("postgres: failed to check media references: %w", err)
	}
	return media, orphaned, nil
}
