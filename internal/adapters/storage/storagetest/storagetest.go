// Package storagetest opens throwaway migrated databases for tests.
package storagetest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"fitclub/internal/adapters/storage"
)

// OpenDB creates a migrated SQLite database in a temp directory.
// A file is used instead of :memory: so every pooled connection sees the
// same data and concurrent tests exercise real locking.
func OpenDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fitclub_test.db")
	db, err := storage.Open(context.Background(), storage.DialectSQLite, path)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db, storage.DialectSQLite); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

// SeedMember inserts an active member row.
func SeedMember(t *testing.T, db *sql.DB, id string) {
	t.Helper()
	if _, err := db.Exec("INSERT INTO member (id, name, status) VALUES (?, ?, 'active')", id, "Member "+id); err != nil {
		t.Fatalf("failed to seed member %s: %v", id, err)
	}
}

// SeedCourse inserts a course with the given capacity, scheduled in a week.
func SeedCourse(t *testing.T, db *sql.DB, id string, capacity int) {
	t.Helper()
	at := storage.FormatTime(time.Now().Add(7 * 24 * time.Hour))
	if _, err := db.Exec("INSERT INTO course (id, name, employee_id, course_time, max_capacity) VALUES (?, ?, 'e1', ?, ?)",
		id, "Course "+id, at, capacity); err != nil {
		t.Fatalf("failed to seed course %s: %v", id, err)
	}
}
