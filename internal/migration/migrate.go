// Package migration owns the schema for the tables this service writes.
// The read-side tables (users, alert events, sources) belong to the web
// application and are never migrated from here.
package migration

import (
	"database/sql"
	"embed"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Run applies any pending migrations on an already-open connection.
func Run(db *sql.DB) error {
	goose.SetBaseFS(embeddedMigrations)
	goose.SetTableName("notification_queue_goose_version")

	if err := goose.Up(db, "migrations"); err != nil {
		return errors.Wrap(err, "apply migrations")
	}
	return nil
}
