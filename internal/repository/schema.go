package repository

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// The schema is created on startup. Two dialects only differ in the
// auto-increment id column; everything the queries touch is shared.
const schemaPostgres = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS stocks (
	id     BIGSERIAL PRIMARY KEY,
	symbol TEXT NOT NULL UNIQUE,
	name   TEXT
);

CREATE TABLE IF NOT EXISTS favorites (
	id       BIGSERIAL PRIMARY KEY,
	user_id  BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	stock_id BIGINT NOT NULL REFERENCES stocks(id) ON DELETE CASCADE,
	UNIQUE (user_id, stock_id)
);

CREATE INDEX IF NOT EXISTS idx_favorites_user ON favorites(user_id);
`

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	username      TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS stocks (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	symbol TEXT NOT NULL UNIQUE,
	name   TEXT
);

CREATE TABLE IF NOT EXISTS favorites (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id  INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	stock_id INTEGER NOT NULL REFERENCES stocks(id) ON DELETE CASCADE,
	UNIQUE (user_id, stock_id)
);

CREATE INDEX IF NOT EXISTS idx_favorites_user ON favorites(user_id);
`

// EnsureSchema creates the tables if they do not exist yet.
func EnsureSchema(db *sqlx.DB) error {
	var ddl string
	switch db.DriverName() {
	case "sqlite3":
		ddl = schemaSQLite
	default:
		ddl = schemaPostgres
	}
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
