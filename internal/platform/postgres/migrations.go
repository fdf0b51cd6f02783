package postgres

import "embed"

// MigrationsFS holds the embedded goose migration files so deployments
// never depend on an on-disk migrations directory.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS

// MigrationsDir is the path of the migration files inside MigrationsFS.
const MigrationsDir = "migrations"
