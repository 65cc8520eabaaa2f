package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // sqlite driver
)

// Dialect names the SQL flavour behind a connection.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ParseDialect maps a configured driver name to a Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "", "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "postgres", "postgresql", "pq":
		return DialectPostgres, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", driver)
}

// sqlitePragmas serialise writers: BEGIN IMMEDIATE takes the write lock up
// front and the busy timeout queues competing transactions instead of failing.
const sqlitePragmas = "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)&_txlock=immediate"

// SQLiteDSN appends the standard pragmas to a file path or file: URI.
func SQLiteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + sqlitePragmas
	}
	return path + "?" + sqlitePragmas
}

// Open connects to the database for the given dialect and verifies it.
// PRE: dsn is a sqlite path or a postgres connection string
// POST: Returns a pinged *sql.DB with pool limits applied
func Open(ctx context.Context, dialect Dialect, dsn string) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch dialect {
	case DialectSQLite:
		db, err = sql.Open("sqlite", SQLiteDSN(dsn))
	case DialectPostgres:
		db, err = sql.Open("postgres", dsn)
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	return db, nil
}

// migration is one forward-only schema step.
type migration struct {
	version int
	name    string
	sql     string
}

// migrations are applied in order. Statements stay within the subset of SQL
// shared by SQLite and PostgreSQL (TEXT timestamps, partial indexes).
var migrations = []migration{
	{
		version: 1,
		name:    "core tables",
		sql: `
	CREATE TABLE IF NOT EXISTS member (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		status TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS membership_card (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL REFERENCES member(id),
		card_type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		status TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS course (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		course_time TEXT NOT NULL,
		max_capacity INTEGER NOT NULL CHECK (max_capacity > 0),
		confirmed_count INTEGER NOT NULL DEFAULT 0 CHECK (confirmed_count >= 0),
		CHECK (confirmed_count <= max_capacity)
	);

	CREATE TABLE IF NOT EXISTS booking (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL REFERENCES member(id),
		course_id TEXT NOT NULL REFERENCES course(id),
		status TEXT NOT NULL,
		booking_time TEXT NOT NULL,
		confirmed_at TEXT,
		cancelled_at TEXT,
		cancel_reason TEXT
	);

	CREATE TABLE IF NOT EXISTS checkin (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL REFERENCES member(id),
		check_in_time TEXT NOT NULL,
		check_out_time TEXT,
		auto_closed INTEGER NOT NULL DEFAULT 0
	);
	`,
	},
	{
		version: 2,
		name:    "lookup and uniqueness indexes",
		sql: `
	CREATE INDEX IF NOT EXISTS idx_card_member_status ON membership_card(member_id, status);
	CREATE INDEX IF NOT EXISTS idx_booking_course_status ON booking(course_id, status);
	CREATE INDEX IF NOT EXISTS idx_booking_member ON booking(member_id);
	CREATE INDEX IF NOT EXISTS idx_booking_time ON booking(booking_time);
	CREATE UNIQUE INDEX IF NOT EXISTS ux_booking_active ON booking(member_id, course_id) WHERE status <> 'cancelled';
	CREATE INDEX IF NOT EXISTS idx_checkin_member_time ON checkin(member_id, check_in_time);
	CREATE UNIQUE INDEX IF NOT EXISTS ux_checkin_open ON checkin(member_id) WHERE check_out_time IS NULL;
	`,
	},
}

// LatestSchemaVersion returns the version reached after all migrations.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion returns the highest applied migration, 0 for a fresh database.
// PRE: schema_version table exists (MigrateDB creates it)
func SchemaVersion(db *sql.DB) (int, error) {
	var v sql.NullInt64
	if err := db.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return int(v.Int64), nil
}

// MigrateDB applies pending migrations, each in its own transaction.
// PRE: db is a valid database connection
// POST: schema is at LatestSchemaVersion
func MigrateDB(db *sql.DB, dialect Dialect) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("failed to create schema_version: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		insert := Rebind(dialect, "INSERT INTO schema_version (version, name, applied_at) VALUES (?, ?, ?)")
		if _, err := tx.Exec(insert, m.version, m.name, FormatTime(time.Now())); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: record version: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d: commit: %w", m.version, err)
		}
	}
	return nil
}

// Rebind rewrites '?' placeholders to '$n' for PostgreSQL.
// Queries in this module never contain a literal '?'.
func Rebind(dialect Dialect, query string) string {
	if dialect != DialectPostgres || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
