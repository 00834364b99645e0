// Package migrations embeds the goose SQL migrations of the user store. The
// statements are valid for both PostgreSQL and SQLite.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
