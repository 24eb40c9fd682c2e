// Package postgres implements crud.Store over pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"bookseller/internal/crud"
	"bookseller/internal/entity"
	"bookseller/internal/paging"
	"bookseller/internal/query"
)

// DB is the subset of *pgxpool.Pool the stores use.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Table maps one entity onto SQL.
type Table[T any] struct {
	// Name is the table written to; Alias qualifies its columns in reads.
	Name  string
	Alias string
	// From is the read source, including any joins for eager association.
	From string
	// Select lists the read columns in the order Scan expects them.
	Select string
	Scan   func(row pgx.Row, item *T) error
	// Columns are written by Add and Replace, taking their values from Values.
	Columns []string
	Values  func(item T) []any
}

type Store[T any, PT entity.Record[T]] struct {
	db      DB
	table   Table[T]
	timeout time.Duration
}

func New[T any, PT entity.Record[T]](db DB, table Table[T], timeout time.Duration) *Store[T, PT] {
	return &Store[T, PT]{db: db, table: table, timeout: timeout}
}

func (s *Store[T, PT]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Store[T, PT]) idColumn() string {
	return s.table.Alias + ".id"
}

func (s *Store[T, PT]) Find(ctx context.Context, id int64) (T, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var item T
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", s.table.Select, s.table.From, s.idColumn())
	err := s.table.Scan(s.db.QueryRow(ctx, sql, id), &item)
	if err != nil {
		var zero T
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, crud.ErrNotFound
		}
		return zero, fmt.Errorf("find %s %d: %w", s.table.Name, id, err)
	}
	return item, nil
}

func (s *Store[T, PT]) Exists(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var ok bool
	sql := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)", s.table.Name)
	if err := s.db.QueryRow(ctx, sql, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("exists %s %d: %w", s.table.Name, id, err)
	}
	return ok, nil
}

// Add inserts item and stores the generated id back into it.
func (s *Store[T, PT]) Add(ctx context.Context, item *T) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.db.QueryRow(ctx, s.insertSQL(), s.table.Values(*item)...).Scan(PT(item).Identity())
}

// Replace overwrites every written column. Zero affected rows is reported
// as crud.ErrConflict.
func (s *Store[T, PT]) Replace(ctx context.Context, item T) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	args := append(s.table.Values(item), *PT(&item).Identity())
	tag, err := s.db.Exec(ctx, s.updateSQL(), args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return crud.ErrConflict
	}
	return nil
}

func (s *Store[T, PT]) Remove(ctx context.Context, id int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tag, err := s.db.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.table.Name), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return crud.ErrNotFound
	}
	return nil
}

func (s *Store[T, PT]) insertSQL() string {
	placeholders := make([]string, len(s.table.Columns))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		s.table.Name, strings.Join(s.table.Columns, ", "), strings.Join(placeholders, ", "))
}

func (s *Store[T, PT]) updateSQL() string {
	sets := make([]string, len(s.table.Columns))
	for i, col := range s.table.Columns {
		sets[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d",
		s.table.Name, strings.Join(sets, ", "), len(s.table.Columns)+1)
}

func (s *Store[T, PT]) Select(spec query.Spec[T]) paging.Source[T] {
	return source[T, PT]{store: s, spec: spec}
}

type source[T any, PT entity.Record[T]] struct {
	store *Store[T, PT]
	spec  query.Spec[T]
}

func (src source[T, PT]) fetchSQL() (string, []any) {
	t := src.store.table
	where, args := src.spec.SQL(1)
	n := len(args)
	parts := []string{"SELECT", t.Select, "FROM", t.From}
	if where != "" {
		parts = append(parts, where)
	}
	parts = append(parts, src.spec.OrderSQL(src.store.idColumn()), fmt.Sprintf("LIMIT $%d OFFSET $%d", n+1, n+2))
	return strings.Join(parts, " "), args
}

func (src source[T, PT]) countSQL() (string, []any) {
	where, args := src.spec.SQL(1)
	sql := "SELECT COUNT(*) FROM " + src.store.table.From
	if where != "" {
		sql += " " + where
	}
	return sql, args
}

func (src source[T, PT]) Fetch(ctx context.Context, offset, limit int) ([]T, error) {
	ctx, cancel := src.store.withTimeout(ctx)
	defer cancel()

	sql, args := src.fetchSQL()
	rows, err := src.store.db.Query(ctx, sql, append(args, limit, offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		var item T
		if err := src.store.table.Scan(rows, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (src source[T, PT]) Count(ctx context.Context) (int, error) {
	ctx, cancel := src.store.withTimeout(ctx)
	defer cancel()

	sql, args := src.countSQL()
	var total int
	if err := src.store.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
