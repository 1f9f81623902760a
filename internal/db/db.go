// Package db is the panel's preference store: namespaced key/value rows in
// a single SQLite file shared by the daemons and ckbctl.
package db

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/b0ase/ckb-s3/internal/logging"
)

//go:embed schema.sql
var schemaSQL string

var (
	// ErrNotOpen is returned when the store is used before Open.
	ErrNotOpen = errors.New("preference store not open")
	// ErrOtherStore is returned by Open while a different file is open.
	ErrOtherStore = errors.New("another preference store is open")
)

var log = logging.For("db")

// store is the single open preference file.
type store struct {
	conn *sql.DB
	path string
}

var (
	mu  sync.Mutex
	cur *store
)

// Open opens the preference file at path and ensures the prefs table.
// Opening the file that is already open is a no-op. Writers wait up to
// 5s on a lock held by another process.
func Open(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if cur != nil {
		if cur.path == path {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrOtherStore, cur.path)
	}

	conn, err := sql.Open("sqlite3", "file:"+path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return fmt.Errorf("prefs schema: %w", err)
	}

	cur = &store{conn: conn, path: path}
	log.WithField("path", path).Debug("preference store open")
	return nil
}

// Close releases the open store, if any.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if cur == nil {
		return
	}
	cur.conn.Close()
	log.WithField("path", cur.path).Debug("preference store closed")
	cur = nil
}

// Path is the file of the open store, or "" when closed.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	if cur == nil {
		return ""
	}
	return cur.path
}

func conn() (*sql.DB, error) {
	mu.Lock()
	defer mu.Unlock()
	if cur == nil {
		return nil, ErrNotOpen
	}
	return cur.conn, nil
}
