// Package db provides embedded database schema and migration files.
package db

import _ "embed"

// Schema contains the DDL statements for the products, customers, and
// orders tables, including the cascade foreign keys from orders.
//
//go:embed migrations/001_schema.sql
var Schema string
