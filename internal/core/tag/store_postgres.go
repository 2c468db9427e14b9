// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/listify/internal/core/mediakind"
	"github.com/taibuivan/listify/internal/platform/database/schema"
	"github.com/taibuivan/listify/internal/platform/dberr"
	"github.com/taibuivan/listify/internal/platform/postgres"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed tag store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// db returns the active transaction or the pool.
func (repository *PostgresRepository) db(context context.Context) postgres.DBTX {
	return postgres.Executor(context, repository.pool)
}

// selectTag is the shared projection for single-tag lookups.
var selectTag = fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s`,
	schema.CatalogTag.ID, schema.CatalogTag.Name, schema.CatalogTag.Slug, schema.CatalogTag.CreatedAt,
	schema.CatalogTag.Table,
)

func (repository *PostgresRepository) FindByName(context context.Context, name string) (*Tag, error) {
	query := selectTag + fmt.Sprintf(` WHERE lower(%s) = lower($1)`, schema.CatalogTag.Name)
	return repository.scanOne(context, query, name)
}

func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Tag, error) {
	query := selectTag + fmt.Sprintf(` WHERE %s = $1`, schema.CatalogTag.Slug)
	return repository.scanOne(context, query, slug)
}

func (repository *PostgresRepository) scanOne(context context.Context, query string, arg any) (*Tag, error) {
	tag := &Tag{}
	err := repository.db(context).QueryRow(context, query, arg).Scan(&tag.ID, &tag.Name, &tag.Slug, &tag.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "Tag")
	}
	return tag, nil
}

func (repository *PostgresRepository) SlugExists(context context.Context, slug string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, schema.CatalogTag.Table, schema.CatalogTag.Slug)

	var exists bool
	if err := repository.db(context).QueryRow(context, query, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres: failed to check tag slug: %w", err)
	}
	return exists, nil
}

func (repository *PostgresRepository) Insert(context context.Context, tag *Tag) (bool, error) {

	// ON CONFLICT without a target absorbs both the lower(name) and slug indexes,
	// so a lost race never aborts the surrounding transaction.
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
		RETURNING %s, %s`,
		schema.CatalogTag.Table, schema.CatalogTag.Name, schema.CatalogTag.Slug,
		schema.CatalogTag.ID, schema.CatalogTag.CreatedAt,
	)

	err := repository.db(context).QueryRow(context, query, tag.Name, tag.Slug).Scan(&tag.ID, &tag.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("postgres: failed to insert tag: %w", err)
	}
	return true, nil
}

func (repository *PostgresRepository) List(context context.Context) ([]*Tag, error) {
	query := selectTag + fmt.Sprintf(` ORDER BY lower(%s) ASC`, schema.CatalogTag.Name)

	rows, err := repository.db(context).Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list tags: %w", err)
	}
	return collectTags(rows)
}

func (repository *PostgresRepository) Attach(context context.Context, mediaID, tagID int64, kind mediakind.Kind) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)
		ON CONFLICT (%s, %s) DO NOTHING`,
		schema.CatalogMediaTag.Table, schema.CatalogMediaTag.MediaID, schema.CatalogMediaTag.TagID, schema.CatalogMediaTag.Kind,
		schema.CatalogMediaTag.MediaID, schema.CatalogMediaTag.TagID,
	)

	if _, err := repository.db(context).Exec(context, query, mediaID, tagID, string(kind)); err != nil {
		return fmt.Errorf("postgres: failed to attach tag: %w", err)
	}
	return nil
}

func (repository *PostgresRepository) Detach(context context.Context, mediaID int64, tagIDs []int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = ANY($2)`,
		schema.CatalogMediaTag.Table, schema.CatalogMediaTag.MediaID, schema.CatalogMediaTag.TagID)

	if _, err := repository.db(context).Exec(context, query, mediaID, tagIDs); err != nil {
		return fmt.Errorf("postgres: failed to detach tags: %w", err)
	}
	return nil
}

func (repository *PostgresRepository) DetachAll(context context.Context, mediaID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CatalogMediaTag.Table, schema.CatalogMediaTag.MediaID)

	if _, err := repository.db(context).Exec(context, query, mediaID); err != nil {
		return fmt.Errorf("postgres: failed to clear media tags: %w", err)
	}
	return nil
}

func (repository *PostgresRepository) ListForMedia(context context.Context, mediaID int64) ([]*Tag, error) {
	query := fmt.Sprintf(`
		SELECT t.%s, t.%s, t.%s, t.%s
		FROM %s t
		JOIN %s mt ON mt.%s = t.%s
		WHERE mt.%s = $1
		ORDER BY lower(t.%s) ASC`,
		schema.CatalogTag.ID, schema.CatalogTag.Name, schema.CatalogTag.Slug, schema.CatalogTag.CreatedAt,
		schema.CatalogTag.Table,
		schema.CatalogMediaTag.Table, schema.CatalogMediaTag.TagID, schema.CatalogTag.ID,
		schema.CatalogMediaTag.MediaID,
		schema.CatalogTag.Name,
	)

	rows, err := repository.db(context).Query(context, query, mediaID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list media tags: %w", err)
	}
	return collectTags(rows)
}

func (repository *PostgresRepository) MediaIDs(context context.Context, tagID int64, kind *mediakind.Kind) ([]int64, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.CatalogMediaTag.MediaID, schema.CatalogMediaTag.Table, schema.CatalogMediaTag.TagID)
	args := []any{tagID}

	// Optional kind filter
	if kind != nil {
		query += fmt.Sprintf(` AND %s = $2`, schema.CatalogMediaTag.Kind)
		args = append(args, string(*kind))
	}
	query += fmt.Sprintf(` ORDER BY %s DESC`, schema.CatalogMediaTag.MediaID)

	rows, err := repository.db(context).Query(context, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list media for tag: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to scan media ids: %w", err)
	}
	return ids, nil
}

// collectTags drains rows of (id, name, slug, createdat).
func collectTags(rows pgx.Rows) ([]*Tag, error) {
	defer rows.Close()

	tags := make([]*Tag, 0)
	for rows.Next() {
		tag := &Tag{}
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Slug, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: tag rows: %w", err)
	}
	return tags, nil
}
