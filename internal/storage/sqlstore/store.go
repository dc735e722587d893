// Package sqlstore implements storage.Store on database/sql. The sqlite and
// postgres packages share it and differ only in their Dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/daystreak/internal/calendar"
	"github.com/julianstephens/daystreak/internal/constants"
	apperrors "github.com/julianstephens/daystreak/internal/errors"
	"github.com/julianstephens/daystreak/internal/logger"
	"github.com/julianstephens/daystreak/internal/storage"
)

// Dialect captures the SQL differences between backends.
type Dialect struct {
	Name string
	// Numbered rewrites ? placeholders to $1, $2, ...
	Numbered bool
	// Greatest is the two-argument scalar returning the larger value
	Greatest string
	// IsUniqueViolation reports whether err came from a unique constraint
	IsUniqueViolation func(err error) bool
}

// Rebind rewrites a query written with ? placeholders for the dialect.
// Queries must not contain a literal question mark.
func (d Dialect) Rebind(query string) string {
	if !d.Numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

// Store is a storage.Store over a *sql.DB or an open transaction.
type Store struct {
	db      *sql.DB // nil inside a transaction
	q       dbtx
	dialect Dialect
}

var _ storage.Store = (*Store)(nil)

func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, q: db, dialect: dialect}
}

// DB returns the underlying connection pool, nil for a transactional view.
func (s *Store) DB() *sql.DB {
	return s.db
}

// WithTx runs fn inside a transaction. Calling it on a store that is already
// transactional joins the outer transaction.
func (s *Store) WithTx(ctx context.Context, fn func(storage.Store) error) error {
	if s.db == nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Internal("begin transaction", err)
	}

	txStore := &Store{q: tx, dialect: s.dialect}
	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Warn("Failed to roll back transaction", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Internal("commit transaction", err)
	}
	return nil
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.q.ExecContext(ctx, s.dialect.Rebind(query), args...)
}

func (s *Store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.q.QueryContext(ctx, s.dialect.Rebind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.q.QueryRowContext(ctx, s.dialect.Rebind(query), args...)
}

func (s *Store) isUniqueViolation(err error) bool {
	return err != nil && s.dialect.IsUniqueViolation != nil && s.dialect.IsUniqueViolation(err)
}

// classify maps driver errors onto the application taxonomy.
func (s *Store) classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return apperrors.NotFound("%s", op)
	case s.isUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, apperrors.Conflict("%v", err))
	default:
		return apperrors.Internal(op, err)
	}
}

func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Internal(op, err)
	}
	if n == 0 {
		return apperrors.NotFound("%s", op)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(constants.TimestampFormat)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(constants.TimestampFormat, s)
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseNullTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullDay(d *calendar.DayKey) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*d), Valid: true}
}

func dayPtr(ns sql.NullString) *calendar.DayKey {
	if !ns.Valid {
		return nil
	}
	d := calendar.DayKey(ns.String)
	return &d
}
