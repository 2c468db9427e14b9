// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tracking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/listify/internal/core/mediakind"
	"github.com/taibuivan/listify/internal/platform/database/schema"
	"github.com/taibuivan/listify/internal/platform/dberr"
	"github.com/taibuivan/listify/internal/platform/postgres"
	"github.com/taibuivan/listify/pkg/date"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed tracking store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// db returns the active transaction or the pool.
func (repository *PostgresRepository) db(context context.Context) postgres.DBTX {
	return postgres.Executor(context, repository.pool)
}

var (
	lt = schema.LibraryTracking

	// entryColumns is the projection for rows aliased "t".
	entryColumns = fmt.Sprintf(`t.%s, t.%s, t.%s, t.%s, t.%s, t.%s, t.%s, t.%s, t.%s, t.%s, t.%s, t.%s, t.%s, t.%s`,
		lt.ID, lt.UserID, lt.MediaID, lt.Kind, lt.Status, lt.Priority, lt.Rating, lt.Progress,
		lt.StartDate, lt.EndDate, lt.Favorite, lt.Notes, lt.CreatedAt, lt.UpdatedAt,
	)
)

// sortClauses maps each listing order to its ORDER BY clause. Ties always
// break on the newest entry.
var sortClauses = map[Sort]string{
	SortPriority: fmt.Sprintf(`CASE t.%s WHEN 'high' THEN 3 WHEN 'mid' THEN 2 WHEN 'low' THEN 1 ELSE 0 END DESC, t.%s DESC`, lt.Priority, lt.ID),
	SortRating:   fmt.Sprintf(`t.%s DESC NULLS LAST, t.%s DESC`, lt.Rating, lt.ID),
	SortTitle:    fmt.Sprintf(`lower(m.%s) ASC, t.%s DESC`, schema.CatalogMedia.Title, lt.ID),
	SortCreated:  fmt.Sprintf(`t.%s DESC`, lt.ID),
}

// scanEntry reads one row of entryColumns plus optional trailing destinations.
func scanEntry(row pgx.Row, extra ...any) (*Entry, error) {
	var (
		entry     Entry
		kind      string
		status    string
		priority  *string
		startDate pgtype.Date
		endDate   pgtype.Date
	)

	destinations := []any{
		&entry.ID, &entry.UserID, &entry.MediaID, &kind, &status, &priority, &entry.Rating, &entry.Progress,
		&startDate, &endDate, &entry.Favorite, &entry.Notes, &entry.CreatedAt, &entry.UpdatedAt,
	}
	if err := row.Scan(append(destinations, extra...)...); err != nil {
		return nil, err
	}

	entry.Kind = mediakind.Kind(kind)
	entry.Status = Status(status)
	if priority != nil {
		value := Priority(*priority)
		entry.Priority = &value
	}
	entry.StartDate = date.FromPG(startDate)
	entry.EndDate = date.FromPG(endDate)

	return &entry, nil
}

// priorityText converts the priority enum into a plain *string for pgx.
func priorityText(priority *Priority) *string {
	if priority == nil {
		return nil
	}
	text := string(*priority)
	return &text
}

func (repository *PostgresRepository) FindByUserAndMedia(context context.Context, userID string, mediaID int64) (*Entry, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s t WHERE t.%s = $1 AND t.%s = $2`,
		entryColumns, lt.Table, lt.UserID, lt.MediaID)

	entry, err := scanEntry(repository.db(context).QueryRow(context, query, userID, mediaID))
	if err != nil {
		return nil, dberr.Wrap(err, "Tracking entry")
	}
	return entry, nil
}

func (repository *PostgresRepository) Insert(context context.Context, entry *Entry) (bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (%s, %s) DO NOTHING
		RETURNING %s, %s, %s`,
		lt.Table, lt.UserID, lt.MediaID, lt.Kind, lt.Status, lt.Priority, lt.Rating, lt.Progress,
		lt.StartDate, lt.EndDate, lt.Favorite, lt.Notes,
		lt.UserID, lt.MediaID,
		lt.ID, lt.CreatedAt, lt.UpdatedAt,
	)

	err := repository.db(context).QueryRow(context, query,
		entry.UserID, entry.MediaID, string(entry.Kind), string(entry.Status), priorityText(entry.Priority),
		entry.Rating, entry.Progress, entry.StartDate, entry.EndDate, entry.Favorite, entry.Notes,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, dberr.Wrap(err, "Tracking entry")
	}
	return true, nil
}

func (repository *PostgresRepository) Update(context context.Context, entry *Entry) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9, %s = now()
		WHERE %s = $1
		RETURNING %s`,
		lt.Table, lt.Status, lt.Priority, lt.Rating, lt.Progress, lt.StartDate, lt.EndDate, lt.Favorite, lt.Notes, lt.UpdatedAt,
		lt.ID,
		lt.UpdatedAt,
	)

	err := repository.db(context).QueryRow(context, query,
		entry.ID, string(entry.Status), priorityText(entry.Priority), entry.Rating, entry.Progress,
		entry.StartDate, entry.EndDate, entry.Favorite, entry.Notes,
	).Scan(&entry.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "Tracking entry")
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, userID string, mediaID int64) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`, lt.Table, lt.UserID, lt.MediaID)

	result, err := repository.db(context).Exec(context, query, userID, mediaID)
	if err != nil {
		return false, fmt.Errorf("postgres: failed to delete tracking entry: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (repository *PostgresRepository) CountForMedia(context context.Context, mediaID int64) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, lt.Table, lt.MediaID)

	var count int
	if err := repository.db(context).QueryRow(context, query, mediaID).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres: failed to count tracking entries: %w", err)
	}
	return count, nil
}

/*
List returns a page of the user's entries.

Description: The media table is joined for title ordering; COUNT(*) OVER()
carries the unpaged total on every row.
*/
func (repository *PostgresRepository) List(context context.Context, userID string, filter Filter) ([]*Entry, int, error) {
	conditions := []string{fmt.Sprintf(`t.%s = $1`, lt.UserID)}
	args := []any{userID}

	// Dynamic filter composition
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf(`t.%s = $%d`, lt.Status, len(args)))
	}
	if filter.Kind != nil {
		args = append(args, string(*filter.Kind))
		conditions = append(conditions, fmt.Sprintf(`t.%s = $%d`, lt.Kind, len(args)))
	}
	if filter.Favorite != nil {
		args = append(args, *filter.Favorite)
		conditions = append(conditions, fmt.Sprintf(`t.%s = $%d`, lt.Favorite, len(args)))
	}

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s t
		JOIN %s m ON m.%s = t.%s
		WHERE %s
		ORDER BY %s
		LIMIT %d OFFSET %d`,
		entryColumns,
		lt.Table,
		schema.CatalogMedia.Table, schema.CatalogMedia.ID, lt.MediaID,
		strings.Join(conditions, " AND "),
		sortClauses[effectiveSort(filter)],
		filter.Limit, filter.Offset,
	)

	rows, err := repository.db(context).Query(context, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list tracking entries: %w", err)
	}
	defer rows.Close()

	var total int
	entries := make([]*Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan tracking entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: tracking rows: %w", err)
	}
	return entries, total, nil
}

func (repository *PostgresRepository) Statistics(context context.Context, userID string, kind *mediakind.Kind) ([]StatRow, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, COUNT(*), COUNT(*) FILTER (WHERE %s), COALESCE(SUM(%s), 0), COUNT(%s)
		FROM %s
		WHERE %s = $1`,
		lt.Status, lt.Kind, lt.Favorite, lt.Rating, lt.Rating,
		lt.Table,
		lt.UserID,
	)
	args := []any{userID}

	if kind != nil {
		query += fmt.Sprintf(` AND %s = $2`, lt.Kind)
		args = append(args, string(*kind))
	}
	query += fmt.Sprintf(` GROUP BY %s, %s`, lt.Status, lt.Kind)

	rows, err := repository.db(context).Query(context, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to aggregate tracking entries: %w", err)
	}

	stats, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (StatRow, error) {
		var (
			stat   StatRow
			status string
			kind   string
		)
		err := row.Scan(&status, &kind, &stat.Count, &stat.Favorites, &stat.RatingSum, &stat.RatingCount)
		stat.Status, stat.Kind = Status(status), mediakind.Kind(kind)
		return stat, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to scan tracking aggregates: %w", err)
	}
	return stats, nil
}
