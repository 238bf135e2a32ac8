// Package db holds the SQL migrations of the IAM schema.
package db

import "embed"

// Migrations holds the golang-migrate files under migrations/
//
//go:embed migrations/*.sql
var Migrations embed.FS
