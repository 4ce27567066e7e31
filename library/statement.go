package library

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"
)

// Conn is the part of a store handle repositories need. *sql.DB and *sql.Tx
// both satisfy it.
type Conn interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// table runs single-use prepared statements against one table. Every
// statement is closed before the call returns, failed or not.
type table struct {
	conn Conn
	name string
	log  zerolog.Logger
}

func newTable(conn Conn, log zerolog.Logger, name string) table {
	return table{
		conn: conn,
		name: name,
		log:  log.With().Str("component", "repository").Str("table", name).Logger(),
	}
}

func (t table) fail(op string, err error) error {
	wrapped := newError(t.name, op, err)
	if errors.Is(wrapped, ErrNotFound) {
		t.log.Debug().Str("op", op).Msg("no rows")
		return wrapped
	}
	t.log.Error().Err(err).Str("op", op).Str("code", ErrCode(wrapped).String()).Msg("statement failed")
	return wrapped
}

func (t table) exec(ctx context.Context, op, query string, args ...any) (sql.Result, error) {
	stmt, err := t.conn.PrepareContext(ctx, query)
	if err != nil {
		return nil, t.fail(op, err)
	}
	defer stmt.Close()

	t.log.Debug().Str("op", op).Msg("exec")
	res, err := stmt.ExecContext(ctx, args...)
	if err != nil {
		return nil, t.fail(op, err)
	}
	return res, nil
}

// insert runs an INSERT and returns the store-assigned row id.
func (t table) insert(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := t.exec(ctx, "insert", query, args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, t.fail("insert", err)
	}
	return id, nil
}

func (t table) update(ctx context.Context, query string, args ...any) error {
	_, err := t.exec(ctx, "update", query, args...)
	return err
}

// deleteByID does not report whether a row matched.
func (t table) deleteByID(ctx context.Context, pk string, id int64) error {
	_, err := t.exec(ctx, "delete", "DELETE FROM "+t.name+" WHERE "+pk+" = ?", id)
	return err
}

func queryOne[T any](ctx context.Context, t table, op, query string, scan func(rowScanner) (T, error), args ...any) (*T, error) {
	stmt, err := t.conn.PrepareContext(ctx, query)
	if err != nil {
		return nil, t.fail(op, err)
	}
	defer stmt.Close()

	v, err := scan(stmt.QueryRowContext(ctx, args...))
	if err != nil {
		return nil, t.fail(op, err)
	}
	return &v, nil
}

func queryAll[T any](ctx context.Context, t table, op, query string, scan func(rowScanner) (T, error), args ...any) ([]T, error) {
	stmt, err := t.conn.PrepareContext(ctx, query)
	if err != nil {
		return nil, t.fail(op, err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, t.fail(op, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, t.fail(op, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, t.fail(op, err)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Column mapping
// ---------------------------------------------------------------------------

// text scans a TEXT column, mapping NULL to "".
func text(dst *string) sql.Scanner { return textColumn{dst} }

type textColumn struct{ dst *string }

func (c textColumn) Scan(src any) error {
	var ns sql.NullString
	if err := ns.Scan(src); err != nil {
		return err
	}
	*c.dst = ns.String
	return nil
}

// flag scans a 0/1 INTEGER column; only 1 is true.
func flag(dst *bool) sql.Scanner { return flagColumn{dst} }

type flagColumn struct{ dst *bool }

func (c flagColumn) Scan(src any) error {
	var n sql.NullInt64
	if err := n.Scan(src); err != nil {
		return err
	}
	*c.dst = n.Int64 == 1
	return nil
}

// number scans a nullable INTEGER column, mapping NULL to 0.
func number[T ~int | ~int64](dst *T) sql.Scanner { return numberColumn[T]{dst} }

type numberColumn[T ~int | ~int64] struct{ dst *T }

func (c numberColumn[T]) Scan(src any) error {
	var n sql.NullInt64
	if err := n.Scan(src); err != nil {
		return err
	}
	*c.dst = T(n.Int64)
	return nil
}

// money scans a nullable REAL column, mapping NULL to 0.
func money(dst *float64) sql.Scanner { return moneyColumn{dst} }

type moneyColumn struct{ dst *float64 }

func (c moneyColumn) Scan(src any) error {
	var f sql.NullFloat64
	if err := f.Scan(src); err != nil {
		return err
	}
	*c.dst = f.Float64
	return nil
}

func rowID(dst *Identity) sql.Scanner { return identityColumn{dst} }

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// optionalID stores 0 as NULL.
func optionalID(v int64) any {
	if v == 0 {
		return nil
	}
	return v
}
