// Package migrations embeds the goose SQL migrations of the development
// server database, including the seeded exercise catalogue.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
