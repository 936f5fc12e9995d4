package records

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/adityaanikam/AI-agent-project/pkg/database"
)

//go:embed schema.sql
var sqliteSchema string

// EnsureSchema creates the records table on embedded SQLite databases.
// PostgreSQL schemas are owned by the migrate command and are left alone.
func EnsureSchema(ctx context.Context, db *sql.DB, driver string) error {
	if driver != database.DriverSQLite {
		return nil
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("apply records schema: %w", err)
	}
	return nil
}
