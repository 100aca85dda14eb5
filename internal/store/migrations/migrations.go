// Package migrations embeds the SQL schema for local.db.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
