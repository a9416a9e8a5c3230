// Package migrations embeds the SQL schema the auth store needs.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
