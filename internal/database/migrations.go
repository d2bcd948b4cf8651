package database

import (
	"context"
	"fmt"
)

// migrations bootstraps the profile table for local and test databases.
// Hosted projects manage their own schema; the service tolerates drift
// between these columns and what it writes.
var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS profiles (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		created_by VARCHAR(255),
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`ALTER TABLE profiles ADD COLUMN IF NOT EXISTS course VARCHAR(255)`,
	`ALTER TABLE profiles ADD COLUMN IF NOT EXISTS department VARCHAR(255)`,

	`CREATE INDEX IF NOT EXISTS idx_profiles_email ON profiles(email)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
