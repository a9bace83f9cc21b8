package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"fundacion-api/models"

	_ "github.com/mattn/go-sqlite3"
)

// openTestDB gives each test its own in-memory sqlite database with the
// production schema's shape: same columns, same unique keys, same foreign
// keys. A single connection keeps sqlite from returning busy errors under
// the concurrency tests; the contention the tests care about happens in the
// goroutines racing for it.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	schema := []string{
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE programs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			long_description TEXT NOT NULL DEFAULT '',
			requirements TEXT NOT NULL DEFAULT '[]',
			benefits TEXT NOT NULL DEFAULT '[]',
			specific_information TEXT NOT NULL DEFAULT '{}',
			min_age INTEGER,
			max_age INTEGER,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE registrations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			type_document TEXT NOT NULL DEFAULT 'CC',
			num_document TEXT NOT NULL,
			full_name TEXT NOT NULL DEFAULT '',
			gender TEXT NOT NULL DEFAULT '',
			birth_date TEXT NOT NULL DEFAULT '',
			comune TEXT NOT NULL DEFAULT '',
			social_stratum TEXT NOT NULL DEFAULT '',
			age INTEGER NOT NULL DEFAULT 0,
			etnical_group TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			motivation TEXT NOT NULL DEFAULT '',
			expectations TEXT NOT NULL DEFAULT '',
			accept_terms INTEGER NOT NULL DEFAULT 0,
			specific_information TEXT NOT NULL DEFAULT '{}',
			program_id INTEGER NOT NULL REFERENCES programs(id),
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			UNIQUE (program_id, num_document)
		)`,
		`CREATE TABLE events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			date TEXT NOT NULL,
			location TEXT NOT NULL DEFAULT '',
			duration INTEGER NOT NULL DEFAULT 0,
			capacity INTEGER NOT NULL,
			registered INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'Programado',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE event_registrations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			full_name TEXT NOT NULL,
			num_document TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			event_id INTEGER NOT NULL REFERENCES events(id),
			created_at TEXT NOT NULL,
			UNIQUE (event_id, num_document)
		)`,
		`CREATE TABLE news (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '[]',
			important INTEGER NOT NULL DEFAULT 0,
			is_active INTEGER NOT NULL DEFAULT 1,
			images TEXT NOT NULL DEFAULT '[]',
			author_id INTEGER NOT NULL REFERENCES users(id),
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE contact_messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			subject TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("create schema: %v\n%s", err, stmt)
		}
	}
	return db
}

func seedProgram(t *testing.T, db *sql.DB, p models.Program) models.Program {
	t.Helper()
	created, err := NewProgramStore(db).Create(context.Background(), p)
	if err != nil {
		t.Fatalf("seed program: %v", err)
	}
	return created
}

func seedUser(t *testing.T, db *sql.DB, name, email string) models.User {
	t.Helper()
	id, err := NewUserStore(db).Create(context.Background(), models.User{
		Name: name, Email: email, Password: "x",
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return models.User{ID: id, Name: name, Email: email}
}

func intPtr(v int) *int   { return &v }
func boolPtr(v bool) *bool { return &v }
