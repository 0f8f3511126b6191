package sqlite

import (
	"context"
	"database/sql"
)

// schema sets up the participant table. It runs on startup to ensure the
// table exists.
const schema = `
CREATE TABLE IF NOT EXISTS tb_participant (
    id_participant INTEGER PRIMARY KEY AUTOINCREMENT,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    percentage REAL NOT NULL CHECK (percentage >= 0 AND percentage <= 100)
);
`

// runMigrations executes the schema setup.
func runMigrations(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
