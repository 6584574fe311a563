// Package migrations embeds the versioned PostgreSQL schema migrations.
//
// Files follow the golang-migrate naming convention:
// NNNN_description.up.sql / NNNN_description.down.sql
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
