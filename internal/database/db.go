package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens the session journal sqlite file with sensible defaults.
func Open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)
	return db, nil
}

// Now returns UTC time truncated to seconds (consistent with SQLite default).
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
