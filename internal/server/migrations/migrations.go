// Package migrations embeds the goose SQL migrations for the entity store.
// The SQL is kept portable so the same files run on PostgreSQL and SQLite.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
