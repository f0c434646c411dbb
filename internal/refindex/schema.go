package refindex

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaVersion is stored in PRAGMA user_version.
const schemaVersion = 1

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS notes (
		id         INTEGER PRIMARY KEY,
		path       TEXT NOT NULL UNIQUE,
		hash       TEXT NOT NULL,
		indexed_at TEXT NOT NULL,
		run_id     TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS refs (
		id         INTEGER PRIMARY KEY,
		note_id    INTEGER NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
		position   INTEGER NOT NULL,
		book       TEXT NOT NULL,
		book_id    TEXT NOT NULL,
		book_order INTEGER NOT NULL,
		chapter    INTEGER NOT NULL,
		verse      INTEGER NOT NULL,
		verse_end  INTEGER NOT NULL,
		text       TEXT NOT NULL,
		canonical  TEXT NOT NULL,
		osis       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_refs_book_chapter ON refs(book, chapter)`,
	`CREATE INDEX IF NOT EXISTS idx_refs_note ON refs(note_id)`,
	`CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		root        TEXT NOT NULL,
		started_at  TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		scanned     INTEGER NOT NULL,
		indexed     INTEGER NOT NULL,
		skipped     INTEGER NOT NULL,
		failed      INTEGER NOT NULL,
		removed     INTEGER NOT NULL,
		refs        INTEGER NOT NULL
	)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version > schemaVersion {
		return fmt.Errorf("index schema version %d is newer than supported version %d", version, schemaVersion)
	}
	if version == schemaVersion {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range migrations {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d`, schemaVersion)); err != nil {
		return fmt.Errorf("set schema version: %w", err)
	}
	return tx.Commit()
}
