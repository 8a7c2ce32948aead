package db

import "embed"

// Migrations holds the goose migrations applied by Connect.
//
//go:embed migrations/*.sql
var Migrations embed.FS
