package profiles

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dimitrije/gabay-admin-api/internal/database"
	"github.com/dimitrije/gabay-admin-api/internal/models"
	"github.com/jackc/pgx/v5"
)

// PgStore reads and writes the table over a direct database connection.
// It runs with the pool's role, so callerToken is not used for reads.
type PgStore struct {
	db    *database.DB
	table string
}

func NewPgStore(db *database.DB, table string) *PgStore {
	return &PgStore{db: db, table: table}
}

func (s *PgStore) AdminFlag(ctx context.Context, _ string, userID string) (any, bool, error) {
	var value any
	err := s.db.Pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT is_admin FROM %s WHERE id = $1`, pgx.Identifier{s.table}.Sanitize()),
		userID,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read profile: %w", err)
	}
	return value, true, nil
}

func (s *PgStore) Insert(ctx context.Context, record models.ProfileRecord) error {
	query, args := buildInsert(s.table, record)
	if _, err := s.db.Pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return nil
}

// ErrProfileNotFound is returned when no profile row matches.
var ErrProfileNotFound = errors.New("profile not found")

// SetAdmin sets is_admin on the profile with the given email.
func (s *PgStore) SetAdmin(ctx context.Context, email string, isAdmin bool) error {
	tag, err := s.db.Pool.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET is_admin = $1 WHERE email = $2`, pgx.Identifier{s.table}.Sanitize()),
		isAdmin, email,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// buildInsert renders an INSERT for the record's columns in sorted order so
// the statement is stable for a given column set.
func buildInsert(table string, record models.ProfileRecord) (string, []any) {
	columns := make([]string, 0, len(record))
	for column := range record {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, column := range columns {
		quoted[i] = pgx.Identifier{column}.Sanitize()
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = record[column]
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		pgx.Identifier{table}.Sanitize(),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
	)
	return query, args
}
