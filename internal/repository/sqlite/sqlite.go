// Package sqlite persists snapshots of the placement repository in SQLite.
//
// The engine works on the in-memory store; after every successful mutation
// it hands the store to DB.Save, which rewrites the tables in one
// transaction. On startup DB.Load fills an empty store from the last
// snapshot, so a restart resumes where the previous process stopped.
//
// modernc.org/sqlite is a pure Go translation of SQLite, so no C compiler
// is needed to build the server.
package sqlite

import (
	"database/sql"
	"fmt"

	// registers the "sqlite" driver with database/sql
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/placement.db"  → file-based database (persistent)
//   - ":memory:"           → in-memory database (tests)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// One writer at a time is all SQLite allows anyway, and with ":memory:"
	// every extra connection would see its own empty database.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
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

// migrate creates the snapshot tables.
//
// Every entity table carries a seq column holding the entity's position in
// the store's insertion order; Load replays rows ORDER BY seq. List-valued
// fields live in child tables with their own position column.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id                     TEXT PRIMARY KEY,
			seq                    INTEGER NOT NULL,
			password               TEXT NOT NULL,
			name                   TEXT NOT NULL,
			email                  TEXT NOT NULL DEFAULT '',
			year_of_study          INTEGER NOT NULL,
			major                  TEXT NOT NULL,
			accepted_internship_id TEXT NOT NULL DEFAULT ''
		);
		CREATE TABLE IF NOT EXISTS student_applications (
			student_id     TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
			position       INTEGER NOT NULL,
			application_id TEXT NOT NULL,
			PRIMARY KEY (student_id, position)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating student tables: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS company_reps (
			id            TEXT PRIMARY KEY,
			seq           INTEGER NOT NULL,
			password      TEXT NOT NULL,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL DEFAULT '',
			company_name  TEXT NOT NULL,
			department    TEXT NOT NULL DEFAULT '',
			position      TEXT NOT NULL DEFAULT '',
			approval      TEXT NOT NULL,
			next_sequence INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS rep_internships (
			rep_id        TEXT NOT NULL REFERENCES company_reps(id) ON DELETE CASCADE,
			position      INTEGER NOT NULL,
			internship_id TEXT NOT NULL,
			PRIMARY KEY (rep_id, position)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating company rep tables: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS career_staff (
			id         TEXT PRIMARY KEY,
			seq        INTEGER NOT NULL,
			password   TEXT NOT NULL,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL DEFAULT '',
			department TEXT NOT NULL DEFAULT '',
			staff_role TEXT NOT NULL DEFAULT ''
		);
	`)
	if err != nil {
		return fmt.Errorf("creating career staff table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS internships (
			id                TEXT PRIMARY KEY,
			seq               INTEGER NOT NULL,
			title             TEXT NOT NULL,
			description       TEXT NOT NULL DEFAULT '',
			level             TEXT NOT NULL,
			major             TEXT NOT NULL,
			open_date         TEXT NOT NULL DEFAULT '',
			close_date        TEXT NOT NULL DEFAULT '',
			total_slots       INTEGER NOT NULL,
			slots_left        INTEGER NOT NULL,
			status            TEXT NOT NULL,
			visible           INTEGER NOT NULL,
			representative_id TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_internships_rep ON internships(representative_id);
		CREATE TABLE IF NOT EXISTS internship_confirmed (
			internship_id TEXT NOT NULL REFERENCES internships(id) ON DELETE CASCADE,
			position      INTEGER NOT NULL,
			student_id    TEXT NOT NULL,
			PRIMARY KEY (internship_id, position)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating internship tables: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS applications (
			id                TEXT PRIMARY KEY,
			seq               INTEGER NOT NULL,
			student_id        TEXT NOT NULL,
			internship_id     TEXT NOT NULL,
			representative_id TEXT NOT NULL,
			company_decision  TEXT NOT NULL,
			student_decision  TEXT NOT NULL,
			withdrawal        TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_applications_student ON applications(student_id);
	`)
	if err != nil {
		return fmt.Errorf("creating applications table: %w", err)
	}

	return nil
}
