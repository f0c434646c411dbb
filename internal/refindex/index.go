// Package refindex stores the scripture references found in a directory of
// notes in SQLite so they can be looked up by book and chapter.
//
// An index covers one notes directory: note paths are stored relative to
// the directory given to Build, and notes missing from a build are removed.
package refindex

import (
	"context"
	"database/sql"
	"encoding/hex"
	"time"

	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/versefind/core/errors"
	"github.com/FocuswithJustin/versefind/core/scripture"
	"github.com/FocuswithJustin/versefind/core/sqlite"
	"github.com/FocuswithJustin/versefind/internal/logging"
)

// Index is a reference index backed by SQLite. It is safe for concurrent
// use.
type Index struct {
	db      *sql.DB
	path    string
	matcher *scripture.Matcher

	// now is replaced in tests.
	now func() time.Time
}

// Open opens or creates the index database at path and migrates its
// schema.
func Open(ctx context.Context, path string) (*Index, error) {
	db, err := sqlite.OpenFile(ctx, path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "index %s", path)
	}

	return &Index{
		db:      db,
		path:    path,
		matcher: scripture.DefaultMatcher(),
		now:     time.Now,
	}, nil
}

// Close closes the database.
func (x *Index) Close() error {
	return x.db.Close()
}

// Path returns the database path.
func (x *Index) Path() string {
	return x.path
}

// NoteResult describes one IndexNote call.
type NoteResult struct {
	Path       string `json:"path"`
	Hash       string `json:"hash"`
	Skipped    bool   `json:"skipped"`
	References int    `json:"references"`
}

// ContentHash returns the hex BLAKE3 hash of a note's text.
func ContentHash(text string) string {
	sum := blake3.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// IndexNote stores the references found in text under path, replacing
// any earlier references for that path. A note whose content hash is
// unchanged is skipped.
func (x *Index) IndexNote(ctx context.Context, path, text string) (NoteResult, error) {
	return x.indexNote(ctx, path, text, "")
}

func (x *Index) indexNote(ctx context.Context, path, text, runID string) (NoteResult, error) {
	res := NoteResult{Path: path, Hash: ContentHash(text)}

	var existing string
	err := x.db.QueryRowContext(ctx, `SELECT hash FROM notes WHERE path = ?`, path).Scan(&existing)
	switch {
	case err == nil && existing == res.Hash:
		res.Skipped = true
		if runID != "" {
			return res, x.touch(ctx, path, runID)
		}
		return res, nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return res, err
	}

	refs := x.matcher.FindReferences(text)
	res.References = len(refs)

	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return res, err
	}
	defer tx.Rollback()

	var noteID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO notes (path, hash, indexed_at, run_id) VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET hash = excluded.hash, indexed_at = excluded.indexed_at, run_id = excluded.run_id
		RETURNING id`,
		path, res.Hash, x.now().UTC().Format(time.RFC3339), nullString(runID),
	).Scan(&noteID)
	if err != nil {
		return res, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM refs WHERE note_id = ?`, noteID); err != nil {
		return res, err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO refs (note_id, position, book, book_id, book_order, chapter, verse, verse_end, text, canonical, osis)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return res, err
	}
	defer stmt.Close()

	for i, ref := range refs {
		order := 0
		if b, ok := x.matcher.Catalog().Lookup(ref.Book); ok {
			order = b.Order
		}
		if _, err := stmt.ExecContext(ctx, noteID, i, ref.Book, ref.BookID, order,
			ref.Chapter, ref.Verse, ref.VerseEnd, ref.Text, ref.Canonical, ref.OSIS()); err != nil {
			return res, err
		}
	}

	if err := tx.Commit(); err != nil {
		return res, err
	}
	return res, nil
}

// RemoveNote deletes a note and its references.
func (x *Index) RemoveNote(ctx context.Context, path string) error {
	res, err := x.db.ExecContext(ctx, `DELETE FROM notes WHERE path = ?`, path)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFound("note", path)
	}
	logging.IndexEvent("removed", path)
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
