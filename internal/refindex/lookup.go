package refindex

import (
	"context"
	"fmt"

	"github.com/FocuswithJustin/versefind/core/errors"
)

// Entry is one stored reference.
type Entry struct {
	Path      string `json:"path"`
	Book      string `json:"book"`
	BookID    string `json:"book_id"`
	Chapter   int    `json:"chapter"`
	Verse     int    `json:"verse"`
	VerseEnd  int    `json:"verse_end,omitempty"`
	Text      string `json:"reference"`
	Canonical string `json:"canonical"`
	OSIS      string `json:"osis"`
}

const entryColumns = `n.path, r.book, r.book_id, r.chapter, r.verse, r.verse_end, r.text, r.canonical, r.osis`

// Lookup returns the stored references to a book, optionally limited to
// one chapter (chapter 0 means every chapter). The book may be any name
// the catalog resolves ("Rom", "romans", "1 Cor").
func (x *Index) Lookup(ctx context.Context, book string, chapter int) ([]Entry, error) {
	if chapter < 0 {
		return nil, errors.NewValidation("chapter", "must not be negative")
	}
	b, ok := x.matcher.Catalog().Resolve(book)
	if !ok {
		return nil, errors.NewNotFound("book", book)
	}
	if chapter > 0 && !b.HasChapter(chapter) {
		return nil, errors.NewValidation("chapter", fmt.Sprintf("%s has %d chapters", b.Name, b.Chapters))
	}

	query := `SELECT ` + entryColumns + ` FROM refs r JOIN notes n ON n.id = r.note_id WHERE r.book = ?`
	args := []any{b.Name}
	if chapter > 0 {
		query += ` AND r.chapter = ?`
		args = append(args, chapter)
	}
	query += ` ORDER BY r.chapter, r.verse, n.path, r.position`

	return x.queryEntries(ctx, query, args...)
}

// NoteReferences returns the references stored for one note in the order
// they appear.
func (x *Index) NoteReferences(ctx context.Context, path string) ([]Entry, error) {
	return x.queryEntries(ctx,
		`SELECT `+entryColumns+` FROM refs r JOIN notes n ON n.id = r.note_id WHERE n.path = ? ORDER BY r.position`,
		path)
}

func (x *Index) queryEntries(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := x.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Path, &e.Book, &e.BookID, &e.Chapter, &e.Verse, &e.VerseEnd, &e.Text, &e.Canonical, &e.OSIS); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// BookCount is the number of stored references to one book.
type BookCount struct {
	Book       string `json:"book"`
	References int    `json:"references"`
}

// Stats summarizes the index.
type Stats struct {
	Notes      int         `json:"notes"`
	References int         `json:"references"`
	Books      []BookCount `json:"books"`
	LastRun    *Run        `json:"last_run,omitempty"`
}

// Stats returns note and reference counts, per-book counts in canonical
// order and the last build run.
func (x *Index) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	if err := x.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes`).Scan(&s.Notes); err != nil {
		return s, err
	}
	if err := x.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM refs`).Scan(&s.References); err != nil {
		return s, err
	}

	rows, err := x.db.QueryContext(ctx, `
		SELECT book, COUNT(*) FROM refs GROUP BY book, book_order ORDER BY book_order`)
	if err != nil {
		return s, err
	}
	defer rows.Close()

	s.Books = []BookCount{}
	for rows.Next() {
		var bc BookCount
		if err := rows.Scan(&bc.Book, &bc.References); err != nil {
			return s, err
		}
		s.Books = append(s.Books, bc)
	}
	if err := rows.Err(); err != nil {
		return s, err
	}

	run, err := x.LastRun(ctx)
	switch {
	case err == nil:
		s.LastRun = run
	case !errors.Is(err, errors.ErrNotFound):
		return s, err
	}
	return s, nil
}
