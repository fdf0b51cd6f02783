// Package postgres implements the store interfaces on PostgreSQL via the
// pgx stdlib driver, including the entity-to-row mapping and translation of
// driver errors into store sentinels.
package postgres
