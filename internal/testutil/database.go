package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dimitrije/gabay-admin-api/internal/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	profileDBName = "admin_test"
	profileDBUser = "admin"
)

// ProfileDB is a throwaway Postgres holding the migrated profile table.
type ProfileDB struct {
	DB    *database.DB
	Table string
}

// SetupProfileDB starts Postgres, applies the profile migrations and tears
// everything down when the test ends.
func SetupProfileDB(t *testing.T) *ProfileDB {
	t.Helper()
	ctx := context.Background()

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     profileDBUser,
				"POSTGRES_PASSWORD": profileDBUser,
				"POSTGRES_DB":       profileDBName,
			},
			// The entrypoint restarts postgres once after init.
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err, "start postgres")

	endpoint, err := ctr.PortEndpoint(ctx, "5432/tcp", "")
	require.NoError(t, err, "resolve postgres endpoint")

	dsn := fmt.Sprintf("postgres://%[1]s:%[1]s@%s/%s?sslmode=disable", profileDBUser, endpoint, profileDBName)
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err, "connect profile db")
	t.Cleanup(pool.Close)

	db := &database.DB{Pool: pool}
	require.NoError(t, db.Migrate(ctx), "migrate profile db")

	return &ProfileDB{DB: db, Table: "profiles"}
}

// Reset empties the profile table.
func (p *ProfileDB) Reset(t *testing.T) {
	t.Helper()
	_, err := p.DB.Pool.Exec(context.Background(), "TRUNCATE TABLE "+p.Table)
	require.NoError(t, err)
}

// DropColumn makes the profile table lag behind the record the service
// writes, the way an unmigrated deployment does.
func (p *ProfileDB) DropColumn(t *testing.T, column string) {
	t.Helper()
	_, err := p.DB.Pool.Exec(context.Background(),
		fmt.Sprintf("ALTER TABLE %s DROP COLUMN IF EXISTS %s", p.Table, column))
	require.NoError(t, err, "drop %s.%s", p.Table, column)
}
