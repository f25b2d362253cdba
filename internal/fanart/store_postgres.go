// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fanart

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/anipulse/internal/platform/database/schema"
	"github.com/taibuivan/anipulse/internal/platform/dberr"
	"github.com/taibuivan/anipulse/internal/platform/postgres"
)

// PostgresRepository implements [Repository] on core.fanart.
type PostgresRepository struct {
	db  postgres.DBTX
	now func() time.Time
}

// NewPostgresRepository creates a new PostgreSQL fan-art repository.
func NewPostgresRepository(db postgres.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db, now: time.Now}
}

// joinedSelect reads fan art with the uploader's username and the anime title.
func joinedSelect() string {
	art := schema.CoreFanArt
	account := schema.UserAccount
	anime := schema.CoreAnime

	return fmt.Sprintf(`
		SELECT f.%s, f.%s, u.%s, f.%s, a.%s, f.%s, f.%s, f.%s, f.%s, f.%s
		FROM %s f
		JOIN %s u ON u.%s = f.%s
		LEFT JOIN %s a ON a.%s = f.%s`,
		art.ID, art.UserID, account.Username, art.AnimeID, anime.Title,
		art.Title, art.Description, art.ImageKey, art.ImageURL, art.CreatedAt,
		art.Table,
		account.Table, account.ID, art.UserID,
		anime.Table, anime.ID, art.AnimeID,
	)
}

func scanFanArt(row pgx.Row) (*FanArt, error) {
	art := &FanArt{}
	err := row.Scan(
		&art.ID,
		&art.UserID,
		&art.Username,
		&art.AnimeID,
		&art.AnimeTitle,
		&art.Title,
		&art.Description,
		&art.ImageKey,
		&art.ImageURL,
		&art.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return art, nil
}

func collect(rows pgx.Rows) ([]*FanArt, error) {
	defer rows.Close()

	items := []*FanArt{}
	for rows.Next() {
		art, err := scanFanArt(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_fanart")
		}
		items = append(items, art)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "scan_fanart")
	}
	return items, nil
}

// Create inserts a new upload.
func (repository *PostgresRepository) Create(context context.Context, art *FanArt) error {
	table := schema.CoreFanArt
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s`,
		table.Table, table.UserID, table.AnimeID, table.Title, table.Description,
		table.ImageKey, table.ImageURL, table.CreatedAt,
		table.ID,
	)

	now := repository.now().UTC()
	err := repository.db.QueryRow(context, query,
		art.UserID, art.AnimeID, art.Title, art.Description, art.ImageKey, art.ImageURL, now,
	).Scan(&art.ID)
	if err != nil {
		return dberr.Wrap(err, "create_fanart")
	}

	art.CreatedAt = now
	return nil
}

// Gallery returns a page of all uploads.
func (repository *PostgresRepository) Gallery(context context.Context, limit, offset int) ([]*FanArt, int, error) {
	table := schema.CoreFanArt

	var total int
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s`, table.Table)
	if err := repository.db.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_fanart")
	}

	query := joinedSelect() + fmt.Sprintf(`
		ORDER BY f.%s DESC, f.%s DESC
		LIMIT $1 OFFSET $2`, table.CreatedAt, table.ID)

	rows, err := repository.db.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_fanart")
	}

	items, err := collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListByUser returns a member's uploads.
func (repository *PostgresRepository) ListByUser(context context.Context, userID string) ([]*FanArt, error) {
	table := schema.CoreFanArt
	query := joinedSelect() + fmt.Sprintf(`
		WHERE f.%s = $1
		ORDER BY f.%s DESC, f.%s DESC`, table.UserID, table.CreatedAt, table.ID)

	rows, err := repository.db.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_user_fanart")
	}
	return collect(rows)
}

// DeleteOwned deletes an upload owned by userID.
func (repository *PostgresRepository) DeleteOwned(context context.Context, id int64, userID string) (string, error) {
	table := schema.CoreFanArt
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2 RETURNING %s`,
		table.Table, table.ID, table.UserID, table.ImageKey,
	)

	var key string
	if err := repository.db.QueryRow(context, query, id, userID).Scan(&key); err != nil {
		return "", dberr.Wrap(err, "delete_fanart")
	}
	return key, nil
}
