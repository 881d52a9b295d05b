package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"blog-backend/internal/shared/query"
)

// SQLSTATE codes the repositories translate.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	invalidTextRep      = "22P02"
)

// IsNoRows reports whether err is pgx's "no rows in result set".
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation reports whether err is a unique constraint violation,
// optionally restricted to a named constraint.
func IsUniqueViolation(err error, constraint ...string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	if len(constraint) == 0 {
		return true
	}
	for _, c := range constraint {
		if pgErr.ConstraintName == c {
			return true
		}
	}
	return false
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}

// IsInvalidInput reports a malformed literal, e.g. a non-UUID id.
func IsInvalidInput(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidTextRep
}

// Columns maps field names used in query.Query to SQL column names.
// Anything not listed is rejected so callers can never inject identifiers.
type Columns map[string]string

// Translate renders q as a WHERE clause, ORDER BY and LIMIT/OFFSET suffix
// with positional arguments starting at $1. The returned where clause is
// empty when q has no filters.
func (cols Columns) Translate(q query.Query) (where string, suffix string, args []interface{}, err error) {
	clauses := make([]string, 0, len(q.Filters))
	for _, f := range q.Filters {
		column, ok := cols[f.Field]
		if !ok {
			return "", "", nil, fmt.Errorf("unsupported filter field %q", f.Field)
		}
		args = append(args, f.Value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, " AND ")
	}

	var b strings.Builder
	if q.OrderBy != "" {
		column, ok := cols[q.OrderBy]
		if !ok {
			return "", "", nil, fmt.Errorf("unsupported order field %q", q.OrderBy)
		}
		direction := "ASC"
		if q.Desc {
			direction = "DESC"
		}
		fmt.Fprintf(&b, "ORDER BY %s %s", column, direction)
	}
	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	if q.Offset > 0 {
		args = append(args, q.Offset)
		fmt.Fprintf(&b, " OFFSET $%d", len(args))
	}

	return where, strings.TrimSpace(b.String()), args, nil
}

// PoolStats is the subset of pgxpool statistics reported by /health.
type PoolStats struct {
	TotalConns    int32 `json:"totalConns"`
	IdleConns     int32 `json:"idleConns"`
	AcquiredConns int32 `json:"acquiredConns"`
	MaxConns      int32 `json:"maxConns"`
}

// Stats returns a snapshot of the pool statistics.
func (db *PostgresDB) Stats() (*PoolStats, error) {
	if db.Pool == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}
	s := db.Pool.Stat()
	return &PoolStats{
		TotalConns:    s.TotalConns(),
		IdleConns:     s.IdleConns(),
		AcquiredConns: s.AcquiredConns(),
		MaxConns:      s.MaxConns(),
	}, nil
}
