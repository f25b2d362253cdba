// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/anipulse/internal/platform/database/schema"
	"github.com/taibuivan/anipulse/internal/platform/dberr"
	"github.com/taibuivan/anipulse/internal/platform/postgres"
	"github.com/taibuivan/anipulse/internal/platform/sec"
	"github.com/taibuivan/anipulse/internal/users/auth"
)

// PostgresAccountRepository implements [AccountRepository] on users.account.
type PostgresAccountRepository struct {
	db  postgres.DBTX
	now func() time.Time
}

// NewAccountRepository creates a new PostgreSQL implementation of the AccountRepository.
func NewAccountRepository(db postgres.DBTX) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db, now: time.Now}
}

// FindByID retrieves an account by ID. The password hash is never selected.
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	table := schema.UserAccount
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.List(table.PublicColumns()), table.Table, table.ID,
	)

	user, err := scanUser(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_account_by_id")
	}

	return user, nil
}

// List returns a page of accounts ordered by creation time.
func (repository *PostgresAccountRepository) List(context context.Context, limit, offset int) ([]*auth.User, int, error) {
	table := schema.UserAccount

	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s`, table.Table)
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s ASC, %s ASC LIMIT $1 OFFSET $2`,
		schema.List(table.PublicColumns()), table.Table, table.CreatedAt, table.ID,
	)

	var total int
	if err := repository.db.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_accounts")
	}

	rows, err := repository.db.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_accounts")
	}
	defer rows.Close()

	users := []*auth.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_account")
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_accounts")
	}

	return users, total, nil
}

// UpdateRole changes an account's role and bumps its update timestamp.
func (repository *PostgresAccountRepository) UpdateRole(context context.Context, id string, role sec.UserRole) (*auth.User, error) {
	table := schema.UserAccount
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1 RETURNING %s`,
		table.Table, table.Role, table.UpdatedAt, table.ID, schema.List(table.PublicColumns()),
	)

	user, err := scanUser(repository.db.QueryRow(context, query, id, role, repository.now().UTC()))
	if err != nil {
		return nil, dberr.Wrap(err, "update_account_role")
	}

	return user, nil
}

func scanUser(row pgx.Row) (*auth.User, error) {
	user := &auth.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}
