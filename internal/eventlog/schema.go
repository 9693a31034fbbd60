package eventlog

import "embed"

// sqlSchemas embeds this package's migration files at compile time, the
// same way db/schemas.go embeds the mail app's migrations.
//
//go:embed migrations/*.sql
var sqlSchemas embed.FS
