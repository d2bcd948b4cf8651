// Package profiles reads and writes rows of the profile table, either
// through PostgREST or directly through Postgres.
package profiles

import (
	"context"

	"github.com/dimitrije/gabay-admin-api/internal/models"
)

// Store is the profile table as seen by the admin service.
type Store interface {
	// AdminFlag returns the raw is_admin value for userID. found is false
	// when no row exists. callerToken is the admitting caller's credential;
	// stores that enforce row-level security read under it.
	AdminFlag(ctx context.Context, callerToken, userID string) (value any, found bool, err error)

	// Insert writes one row. Columns unknown to the table are reported as
	// errors, never silently dropped.
	Insert(ctx context.Context, record models.ProfileRecord) error
}
