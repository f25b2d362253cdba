// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pgtest provides an in-memory [postgres.DBTX] for repository tests.
//
// It does not parse SQL. Tests script the result of each call and then
// inspect the recorded statements and arguments.
package pgtest

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Call is one recorded statement.
type Call struct {
	SQL  string
	Args []any
}

// DB implements postgres.DBTX with scripted responses.
type DB struct {
	mu    sync.Mutex
	calls []Call

	// ExecFunc answers Exec. A nil func reports "INSERT 0 1".
	ExecFunc func(sql string, args []any) (pgconn.CommandTag, error)

	// QueryFunc answers Query. A nil func returns no rows.
	QueryFunc func(sql string, args []any) (pgx.Rows, error)

	// QueryRowFunc answers QueryRow. A nil func returns pgx.ErrNoRows.
	QueryRowFunc func(sql string, args []any) pgx.Row
}

func (db *DB) record(sql string, args []any) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.calls = append(db.calls, Call{SQL: sql, Args: args})
}

// Calls returns a copy of every recorded statement.
func (db *DB) Calls() []Call {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]Call(nil), db.calls...)
}

// Exec implements postgres.DBTX.
func (db *DB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.record(sql, args)
	if db.ExecFunc == nil {
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	}
	return db.ExecFunc(sql, args)
}

// Query implements postgres.DBTX.
func (db *DB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	db.record(sql, args)
	if db.QueryFunc == nil {
		return NewRows(), nil
	}
	return db.QueryFunc(sql, args)
}

// QueryRow implements postgres.DBTX.
func (db *DB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	db.record(sql, args)
	if db.QueryRowFunc == nil {
		return Row{Err: pgx.ErrNoRows}
	}
	return db.QueryRowFunc(sql, args)
}

// Row is a scripted pgx.Row.
type Row struct {
	Values []any
	Err    error
}

// Scan copies Values into dest, converting between compatible kinds
// (string into a named string type, int into int64).
func (row Row) Scan(dest ...any) error {
	if row.Err != nil {
		return row.Err
	}
	return assign(row.Values, dest)
}

// Rows is a scripted pgx.Rows.
type Rows struct {
	data    [][]any
	current int
	err     error
	closed  bool
}

// NewRows builds a result set, one slice per row.
func NewRows(rows ...[]any) *Rows {
	return &Rows{data: rows, current: -1}
}

// FailWith makes Err report err after iteration.
func (rows *Rows) FailWith(err error) *Rows {
	rows.err = err
	return rows
}

func (rows *Rows) Close()                                       { rows.closed = true }
func (rows *Rows) Err() error                                   { return rows.err }
func (rows *Rows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (rows *Rows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (rows *Rows) RawValues() [][]byte                          { return nil }
func (rows *Rows) Conn() *pgx.Conn                              { return nil }

// Next advances to the next row.
func (rows *Rows) Next() bool {
	if rows.closed || rows.current+1 >= len(rows.data) {
		rows.closed = true
		return false
	}
	rows.current++
	return true
}

// Scan copies the current row into dest.
func (rows *Rows) Scan(dest ...any) error {
	if rows.current < 0 || rows.current >= len(rows.data) {
		return errors.New("pgtest: scan outside of a row")
	}
	return assign(rows.data[rows.current], dest)
}

// Values returns the current row.
func (rows *Rows) Values() ([]any, error) {
	if rows.current < 0 || rows.current >= len(rows.data) {
		return nil, errors.New("pgtest: no current row")
	}
	return rows.data[rows.current], nil
}

func assign(values []any, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("pgtest: %d values for %d destinations", len(values), len(dest))
	}

	for i, value := range values {
		target := reflect.ValueOf(dest[i])
		if target.Kind() != reflect.Pointer || target.IsNil() {
			return fmt.Errorf("pgtest: destination %d is not a pointer", i)
		}
		element := target.Elem()

		if value == nil {
			element.Set(reflect.Zero(element.Type()))
			continue
		}

		source := reflect.ValueOf(value)
		switch {
		case source.Type().AssignableTo(element.Type()):
			element.Set(source)
		case element.Kind() == reflect.Pointer && source.Type().ConvertibleTo(element.Type().Elem()):
			holder := reflect.New(element.Type().Elem())
			holder.Elem().Set(source.Convert(element.Type().Elem()))
			element.Set(holder)
		case source.Type().ConvertibleTo(element.Type()):
			element.Set(source.Convert(element.Type()))
		default:
			return fmt.Errorf("pgtest: cannot assign %T to %s", value, element.Type())
		}
	}
	return nil
}
