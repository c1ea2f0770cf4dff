// Package sqlite implements the repository interfaces on SQLite via the
// pure-Go modernc.org/sqlite driver: no separate database server, and tests
// run against ":memory:" databases.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements the repository
// interfaces. The server owns it and closes it on shutdown.
type DB struct {
	conn *sql.DB
}

// New opens the SQLite database at dbPath (":memory:" for tests), enables
// WAL and foreign keys, and runs the idempotent migrations. The schema is
// guaranteed to exist before any service touches the store.
//
// The pragmas go in the DSN rather than a one-off Exec because sql.DB is a
// pool: the driver replays them on every new connection, so foreign keys
// (off by default in SQLite, and required for the programs ON DELETE
// CASCADE) hold no matter which connection serves a query. WAL lets reads
// proceed while a write is in flight.
func New(dbPath string) (*DB, error) {
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. Every statement is idempotent, so running it
// on an existing database is a no-op apart from the column adds.
func (db *DB) migrate() error {
	// Accounts. The NOCASE collation on email backstops case-only duplicate
	// registrations even if a caller bypasses normalization. student_number
	// is NULL until assigned; UNIQUE ignores NULLs, so incomplete profiles
	// don't collide with each other.
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS accounts (
			id                    INTEGER PRIMARY KEY AUTOINCREMENT,
			email                 TEXT NOT NULL UNIQUE COLLATE NOCASE,
			password_hash         TEXT NOT NULL,
			role                  TEXT NOT NULL DEFAULT 'student',
			first_name            TEXT,
			middle_name           TEXT,
			last_name             TEXT,
			student_number        TEXT UNIQUE,
			college               TEXT,
			major                 TEXT,
			phone                 TEXT,
			must_change_password  INTEGER NOT NULL DEFAULT 0,
			must_complete_profile INTEGER NOT NULL DEFAULT 0,
			created_at            DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_accounts_created_at ON accounts(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating accounts table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS colleges (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			name          TEXT NOT NULL,
			short_name    TEXT NOT NULL,
			slug          TEXT NOT NULL UNIQUE,
			tagline       TEXT,
			description   TEXT,
			badge_1_label TEXT,
			badge_1_icon  TEXT DEFAULT 'check',
			badge_2_label TEXT,
			badge_2_icon  TEXT DEFAULT 'users',
			stat_1        TEXT,
			stat_2        TEXT,
			stat_3        TEXT,
			stat_4        TEXT,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_colleges_slug ON colleges(slug);
	`)
	if err != nil {
		return fmt.Errorf("creating colleges table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS academic_programs (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			college_id        INTEGER NOT NULL REFERENCES colleges(id) ON DELETE CASCADE,
			name              TEXT NOT NULL,
			slug              TEXT NOT NULL,
			credits           INTEGER,
			duration          TEXT,
			description       TEXT,
			sort_order        INTEGER NOT NULL DEFAULT 0,
			department        TEXT,
			required_gpa      TEXT,
			high_school_track TEXT,
			degree_type       TEXT,
			about_text        TEXT,
			created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (college_id, slug)
		);
		CREATE INDEX IF NOT EXISTS idx_academic_programs_college ON academic_programs(college_id);
	`)
	if err != nil {
		return fmt.Errorf("creating academic_programs table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			title       TEXT NOT NULL,
			date        TEXT NOT NULL,
			time        TEXT,
			location    TEXT,
			tag         TEXT,
			description TEXT,
			image_url   TEXT,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating events table: %w", err)
	}

	// Columns added after the original tables shipped. ALTER TABLE errors
	// if the column exists, so addColumnIfNotExists checks pragma_table_info
	// first and is safe on both fresh and existing databases.
	for _, col := range []struct {
		table, name, def string
	}{
		{"colleges", "image_url", "TEXT"},
		{"academic_programs", "image_url", "TEXT"},
		{"academic_programs", "degree_level", "TEXT DEFAULT 'UNDERGRADUATE'"},
	} {
		if err := db.addColumnIfNotExists(col.table, col.name, col.def); err != nil {
			return fmt.Errorf("adding %s.%s: %w", col.table, col.name, err)
		}
	}

	return nil
}

// addColumnIfNotExists adds a column to a table only if it doesn't already
// exist, making ALTER TABLE migrations idempotent.
func (db *DB) addColumnIfNotExists(table, column, definition string) error {
	var count int
	err := db.conn.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`,
		table, column,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking column %s.%s: %w", table, column, err)
	}
	if count > 0 {
		return nil
	}
	_, err = db.conn.Exec(fmt.Sprintf(
		`ALTER TABLE %s ADD COLUMN %s %s`, table, column, definition,
	))
	return err
}

// uniqueViolation reports which column a UNIQUE constraint failure hit.
// modernc/sqlite errors read "...UNIQUE constraint failed: accounts.email...";
// the column name is what the caller turns into a field-specific Conflict.
func uniqueViolation(err error) (column string, ok bool) {
	const marker = "UNIQUE constraint failed: "
	msg := err.Error()
	i := strings.Index(msg, marker)
	if i < 0 {
		return "", false
	}
	rest := msg[i+len(marker):]
	// rest starts with "table.column"; cut at the first non-identifier rune.
	end := strings.IndexFunc(rest, func(r rune) bool {
		return !(r == '.' || r == '_' || (r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
	})
	if end >= 0 {
		rest = rest[:end]
	}
	if j := strings.LastIndexByte(rest, '.'); j >= 0 {
		rest = rest[j+1:]
	}
	if rest == "" {
		return "", false
	}
	return rest, true
}

// nullIfEmpty stores optional text columns as NULL rather than "".
// This matters for student_number, where UNIQUE treats NULLs as distinct
// but would reject a second empty string.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// orEmpty unwraps a nullable text column to its string value.
func orEmpty(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// Accounts returns the account store backed by this database.
func (db *DB) Accounts() *AccountStore {
	return &AccountStore{conn: db.conn}
}

// Colleges returns the college store backed by this database.
func (db *DB) Colleges() *CollegeStore {
	return &CollegeStore{conn: db.conn}
}

// Programs returns the academic-program store backed by this database.
func (db *DB) Programs() *ProgramStore {
	return &ProgramStore{conn: db.conn}
}

// Events returns the event store backed by this database.
func (db *DB) Events() *EventStore {
	return &EventStore{conn: db.conn}
}
