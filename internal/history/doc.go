// Package history persists one row per generate run in a small SQLite
// database so past results can be listed from the CLI.
//
// The schema is applied through embedded, ordered SQL migrations tracked in
// a schema_migrations table.
package history
