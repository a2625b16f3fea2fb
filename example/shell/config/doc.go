// Package config provides configuration loading and database connection
// helpers for the example: a library catalog read API.
//
// This package contains the YAML-backed application configuration and
// factory functions for creating database connections using different
// PostgreSQL drivers (pgxpool.Pool, sql.DB, sqlx.DB).
//
// This package is part of the shell (infrastructure) layer.
package config
