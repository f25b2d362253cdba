// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package anime

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/anipulse/internal/platform/database/schema"
	"github.com/taibuivan/anipulse/internal/platform/dberr"
	"github.com/taibuivan/anipulse/internal/platform/postgres"
	"github.com/taibuivan/anipulse/pkg/pointer"
)

// PostgresRepository implements [Repository] on core.anime and core.animefavorite.
type PostgresRepository struct {
	db  postgres.DBTX
	now func() time.Time
}

// NewPostgresRepository creates a new PostgreSQL catalogue repository.
func NewPostgresRepository(db postgres.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db, now: time.Now}
}

// selectList renders the anime columns for a SELECT, formatting the drop
// date as text so it round-trips as YYYY-MM-DD.
func selectList(alias string) string {
	table := schema.CoreAnime
	columns := table.Columns()
	if alias != "" {
		columns = table.Qualified(alias)
	}

	for i, column := range columns {
		if strings.HasSuffix(column, table.DropDate) {
			columns[i] = fmt.Sprintf("to_char(%s, 'YYYY-MM-DD')", column)
		}
	}
	return schema.List(columns)
}

func scanAnime(row pgx.Row) (*Anime, error) {
	anime := &Anime{}
	err := row.Scan(
		&anime.ID,
		&anime.Slug,
		&anime.Title,
		&anime.CoverImageURL,
		&anime.Year,
		&anime.Season,
		&anime.StreamingURL,
		&anime.DropDate,
		&anime.ExtraNotes,
		&anime.CreatedAt,
		&anime.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return anime, nil
}

func collect(rows pgx.Rows, action string) ([]*Anime, error) {
	defer rows.Close()

	items := []*Anime{}
	for rows.Next() {
		anime, err := scanAnime(rows)
		if err != nil {
			return nil, dberr.Wrap(err, action)
		}
		items = append(items, anime)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return items, nil
}

// List returns a page of entries, newest first.
func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*Anime, int, error) {
	table := schema.CoreAnime

	var total int
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s`, table.Table)
	if err := repository.db.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_anime")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY %s DESC, %s DESC
		LIMIT $1 OFFSET $2`,
		selectList(""), table.Table, table.CreatedAt, table.ID,
	)

	rows, err := repository.db.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_anime")
	}

	items, err := collect(rows, "scan_anime")
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// FindByID returns a single entry.
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Anime, error) {
	table := schema.CoreAnime
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectList(""), table.Table, table.ID)

	anime, err := scanAnime(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_anime")
	}
	return anime, nil
}

// SlugExists reports whether a slug is taken.
func (repository *PostgresRepository) SlugExists(context context.Context, slug string) (bool, error) {
	table := schema.CoreAnime
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, table.Table, table.Slug)

	var exists bool
	if err := repository.db.QueryRow(context, query, slug).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "check_anime_slug")
	}
	return exists, nil
}

// Create inserts a new entry.
func (repository *PostgresRepository) Create(context context.Context, anime *Anime) error {
	table := schema.CoreAnime
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7::date, $8, $9, $10, $10)
		RETURNING %s`,
		table.Table, table.Slug, table.Title, table.CoverImageURL, table.Year, table.Season,
		table.StreamingURL, table.DropDate, table.ExtraNotes, table.CoverKey, table.CreatedAt, table.UpdatedAt,
		table.ID,
	)

	now := repository.now().UTC()
	err := repository.db.QueryRow(context, query,
		anime.Slug,
		anime.Title,
		anime.CoverImageURL,
		anime.Year,
		anime.Season,
		anime.StreamingURL,
		anime.DropDate,
		anime.ExtraNotes,
		anime.CoverKey,
		now,
	).Scan(&anime.ID)
	if err != nil {
		return dberr.Wrap(err, "create_anime")
	}

	anime.CreatedAt = now
	anime.UpdatedAt = now
	return nil
}

// UpdateDetails replaces streaming url, drop date and notes.
func (repository *PostgresRepository) UpdateDetails(context context.Context, id int64, details Details) (*Anime, error) {
	table := schema.CoreAnime
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3::date, %s = $4, %s = $5
		WHERE %s = $1
		RETURNING %s`,
		table.Table, table.StreamingURL, table.DropDate, table.ExtraNotes, table.UpdatedAt,
		table.ID, selectList(""),
	)

	anime, err := scanAnime(repository.db.QueryRow(context, query,
		id, details.StreamingURL, details.DropDate, details.ExtraNotes, repository.now().UTC(),
	))
	if err != nil {
		return nil, dberr.Wrap(err, "update_anime")
	}
	return anime, nil
}

// Delete removes an entry and returns its cover key.
func (repository *PostgresRepository) Delete(context context.Context, id int64) (string, error) {
	table := schema.CoreAnime
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 RETURNING %s`, table.Table, table.ID, table.CoverKey)

	var coverKey *string
	if err := repository.db.QueryRow(context, query, id).Scan(&coverKey); err != nil {
		return "", dberr.Wrap(err, "delete_anime")
	}
	return pointer.Val(coverKey), nil
}

// AddFavorite records a favorite; repeating it changes nothing.
func (repository *PostgresRepository) AddFavorite(context context.Context, userID string, animeID int64) error {
	table := schema.CoreAnimeFavorite
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		ON CONFLICT (%s, %s) DO NOTHING`,
		table.Table, table.UserID, table.AnimeID, table.CreatedAt,
		table.UserID, table.AnimeID,
	)

	_, err := repository.db.Exec(context, query, userID, animeID, repository.now().UTC())
	return dberr.Wrap(err, "add_favorite")
}

// RemoveFavorite deletes a favorite if present.
func (repository *PostgresRepository) RemoveFavorite(context context.Context, userID string, animeID int64) error {
	table := schema.CoreAnimeFavorite
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`, table.Table, table.UserID, table.AnimeID)

	_, err := repository.db.Exec(context, query, userID, animeID)
	return dberr.Wrap(err, "remove_favorite")
}

// ListFavorites returns the member's favorites ordered by title.
func (repository *PostgresRepository) ListFavorites(context context.Context, userID string) ([]*Anime, error) {
	favorite := schema.CoreAnimeFavorite
	anime := schema.CoreAnime

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s f
		JOIN %s a ON a.%s = f.%s
		WHERE f.%s = $1
		ORDER BY a.%s ASC, a.%s ASC`,
		selectList("a"),
		favorite.Table,
		anime.Table, anime.ID, favorite.AnimeID,
		favorite.UserID,
		anime.Title, anime.ID,
	)

	rows, err := repository.db.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_favorites")
	}
	return collect(rows, "scan_favorite")
}
