package store

import (
	"database/sql"
	"fmt"
)

// Migration is one schema evolution step. Migrations are embedded rather
// than loaded from disk so the binary is self-contained.
type Migration struct {
	Version     string
	Description string
	SQL         string
}

var migrations = []Migration{
	{
		Version:     "001_students",
		Description: "student and admin account records",
		SQL: `
			CREATE TABLE IF NOT EXISTS students (
				id            TEXT PRIMARY KEY,
				name          TEXT NOT NULL,
				email         TEXT NOT NULL UNIQUE,
				role          TEXT NOT NULL,
				domain        TEXT NOT NULL DEFAULT '',
				password_hash BLOB NOT NULL,
				created_at    DATETIME NOT NULL,
				updated_at    DATETIME NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_students_email ON students(email);
		`,
	},
	{
		Version:     "002_articles",
		Description: "articles with optional student assignment",
		SQL: `
			CREATE TABLE IF NOT EXISTS articles (
				id          TEXT PRIMARY KEY,
				title       TEXT NOT NULL,
				content     TEXT NOT NULL,
				file_path   TEXT NOT NULL DEFAULT '',
				assigned_to TEXT NOT NULL DEFAULT '',
				created_at  DATETIME NOT NULL,
				updated_at  DATETIME NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_articles_assigned_to ON articles(assigned_to);
		`,
	},
	{
		Version:     "003_reports",
		Description: "student report submissions",
		SQL: `
			CREATE TABLE IF NOT EXISTS reports (
				id         TEXT PRIMARY KEY,
				article_id TEXT NOT NULL,
				student_id TEXT NOT NULL,
				title      TEXT NOT NULL,
				content    TEXT NOT NULL DEFAULT '',
				file_path  TEXT NOT NULL DEFAULT '',
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_reports_student ON reports(student_id);
			CREATE INDEX IF NOT EXISTS idx_reports_article ON reports(article_id);
		`,
	},
	{
		Version:     "004_comments",
		Description: "admin comments on reports",
		SQL: `
			CREATE TABLE IF NOT EXISTS comments (
				id         TEXT PRIMARY KEY,
				report_id  TEXT NOT NULL,
				author_id  TEXT NOT NULL,
				text       TEXT NOT NULL,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_comments_report ON comments(report_id);
		`,
	},
}

// applyMigrations applies pending migrations in version order. Each migration
// runs in its own transaction together with its tracking row.
func applyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create migration table: %w", err)
	}

	applied := make(map[string]bool)
	rows, err := db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[version] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating migration rows: %w", err)
	}

	for _, migration := range migrations {
		if applied[migration.Version] {
			continue
		}
		if err := applyMigration(db, migration); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", migration.Version, err)
		}
	}

	return nil
}

func applyMigration(db *sql.DB, migration Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(migration.SQL); err != nil {
		return fmt.Errorf("migration SQL failed: %w", err)
	}

	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", migration.Version); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	return tx.Commit()
}
