package refindex

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	verrors "github.com/FocuswithJustin/versefind/core/errors"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Open(context.Background(), filepath.Join(t.TempDir(), "refs.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	idx.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { idx.Close() })
	return idx
}

func writeNotes(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
}

func TestOpenMigratesOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "refs.db")

	for i := 0; i < 2; i++ {
		idx, err := Open(ctx, path)
		if err != nil {
			t.Fatalf("Open() #%d error = %v", i+1, err)
		}
		var v int
		if err := idx.db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&v); err != nil {
			t.Fatal(err)
		}
		if v != schemaVersion {
			t.Errorf("user_version = %d, want %d", v, schemaVersion)
		}
		if idx.Path() != path {
			t.Errorf("Path() = %q, want %q", idx.Path(), path)
		}
		idx.Close()
	}
}

func TestOpenRejectsNewerSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "refs.db")

	idx, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := idx.db.ExecContext(ctx, `PRAGMA user_version = 99`); err != nil {
		t.Fatal(err)
	}
	idx.Close()

	if _, err := Open(ctx, path); err == nil {
		t.Error("Open() should refuse a newer schema")
	}
}

func TestContentHash(t *testing.T) {
	a := ContentHash("John 3:16")
	if len(a) != 64 {
		t.Errorf("ContentHash length = %d, want 64", len(a))
	}
	if a != ContentHash("John 3:16") {
		t.Error("ContentHash is not deterministic")
	}
	if a == ContentHash("John 3:17") {
		t.Error("different text produced the same hash")
	}
}

func TestIndexNote(t *testing.T) {
	ctx := context.Background()
	idx := openTestIndex(t)

	res, err := idx.IndexNote(ctx, "week1.md", "Read Rom 8:28 and John 3:16-17.")
	if err != nil {
		t.Fatalf("IndexNote() error = %v", err)
	}
	if res.Skipped || res.References != 2 {
		t.Errorf("IndexNote() = %+v, want 2 references, not skipped", res)
	}

	entries, err := idx.NoteReferences(ctx, "week1.md")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("NoteReferences() = %d entries, want 2", len(entries))
	}
	first := entries[0]
	if first.Book != "Romans" || first.Text != "Rom 8:28" || first.Canonical != "Romans 8:28" || first.OSIS != "Rom.8.28" {
		t.Errorf("first entry = %+v", first)
	}
	if entries[1].VerseEnd != 17 {
		t.Errorf("second VerseEnd = %d, want 17", entries[1].VerseEnd)
	}

	res, err = idx.IndexNote(ctx, "week1.md", "Read Rom 8:28 and John 3:16-17.")
	if err != nil || !res.Skipped {
		t.Errorf("unchanged IndexNote() = %+v, %v, want skipped", res, err)
	}

	res, err = idx.IndexNote(ctx, "week1.md", "Only Gen 1:1 now.")
	if err != nil || res.Skipped || res.References != 1 {
		t.Errorf("changed IndexNote() = %+v, %v", res, err)
	}
	entries, _ = idx.NoteReferences(ctx, "week1.md")
	if len(entries) != 1 || entries[0].Book != "Genesis" {
		t.Errorf("references not replaced: %+v", entries)
	}
}

func TestRemoveNote(t *testing.T) {
	ctx := context.Background()
	idx := openTestIndex(t)

	if _, err := idx.IndexNote(ctx, "a.txt", "John 3:16"); err != nil {
		t.Fatal(err)
	}
	if err := idx.RemoveNote(ctx, "a.txt"); err != nil {
		t.Fatalf("RemoveNote() error = %v", err)
	}
	if entries, _ := idx.Lookup(ctx, "John", 0); len(entries) != 0 {
		t.Errorf("references survived note removal: %v", entries)
	}
	if err := idx.RemoveNote(ctx, "a.txt"); !errors.Is(err, verrors.ErrNotFound) {
		t.Errorf("RemoveNote(missing) error = %v, want ErrNotFound", err)
	}
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	idx := openTestIndex(t)

	notes := map[string]string{
		"a.md": "Rom 8:28 and Romans 12:1",
		"b.md": "Romans 8:1, John 3:16",
	}
	for path, text := range notes {
		if _, err := idx.IndexNote(ctx, path, text); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		book    string
		chapter int
		want    []string // canonical
	}{
		{"Romans", 0, []string{"Romans 8:1", "Romans 8:28", "Romans 12:1"}},
		{"rom", 8, []string{"Romans 8:1", "Romans 8:28"}},
		{"Rom.", 12, []string{"Romans 12:1"}},
		{"John", 3, []string{"John 3:16"}},
		{"Genesis", 0, []string{}},
	}

	for _, tt := range tests {
		entries, err := idx.Lookup(ctx, tt.book, tt.chapter)
		if err != nil {
			t.Fatalf("Lookup(%q, %d) error = %v", tt.book, tt.chapter, err)
		}
		var got []string
		for _, e := range entries {
			got = append(got, e.Canonical)
		}
		if len(got) != len(tt.want) {
			t.Errorf("Lookup(%q, %d) = %v, want %v", tt.book, tt.chapter, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Lookup(%q, %d)[%d] = %q, want %q", tt.book, tt.chapter, i, got[i], tt.want[i])
			}
		}
	}

	if _, err := idx.Lookup(ctx, "Hezekiah", 0); !errors.Is(err, verrors.ErrNotFound) {
		t.Errorf("Lookup(unknown) error = %v, want ErrNotFound", err)
	}
	if _, err := idx.Lookup(ctx, "John", -1); !errors.Is(err, verrors.ErrInvalidInput) {
		t.Errorf("Lookup(negative chapter) error = %v, want ErrInvalidInput", err)
	}
	if _, err := idx.Lookup(ctx, "Jude", 2); !errors.Is(err, verrors.ErrInvalidInput) {
		t.Errorf("Lookup(chapter past end) error = %v, want ErrInvalidInput", err)
	}
}

func TestBuild(t *testing.T) {
	ctx := context.Background()
	idx := openTestIndex(t)
	dir := t.TempDir()

	writeNotes(t, dir, map[string]string{
		"week1.md":          "# Week 1\n\nRead *John 3:16*.",
		"week2.txt":         "Hebrews 13:2, 1 Peter 4:9",
		"sub/page.html":     "<p>Rom&nbsp;8:28</p>",
		"bad.xml":           "<a><b></a>",
		"ignored.pdf":       "Gen 1:1",
		".hidden/secret.md": "Rev 1:1",
	})

	run, err := idx.Build(ctx, dir, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if run.ID == "" {
		t.Error("run ID is empty")
	}
	if run.Scanned != 4 || run.Indexed != 3 || run.Failed != 1 || run.Skipped != 0 {
		t.Errorf("run = %+v, want scanned 4, indexed 3, failed 1", run)
	}
	if run.References != 4 {
		t.Errorf("run.References = %d, want 4", run.References)
	}

	if entries, _ := idx.NoteReferences(ctx, "sub/page.html"); len(entries) != 1 || entries[0].Book != "Romans" {
		t.Errorf("sub/page.html references = %v", entries)
	}
	if entries, _ := idx.Lookup(ctx, "Revelation", 0); len(entries) != 0 {
		t.Errorf("hidden directory was indexed: %v", entries)
	}

	again, err := idx.Build(ctx, dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if again.Skipped != 3 || again.Indexed != 0 || again.Removed != 0 {
		t.Errorf("second run = %+v, want 3 skipped", again)
	}

	if err := os.Remove(filepath.Join(dir, "week2.txt")); err != nil {
		t.Fatal(err)
	}
	third, err := idx.Build(ctx, dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if third.Removed != 1 {
		t.Errorf("third.Removed = %d, want 1", third.Removed)
	}
	if entries, _ := idx.Lookup(ctx, "Hebrews", 0); len(entries) != 0 {
		t.Errorf("references of removed note survived: %v", entries)
	}

	last, err := idx.LastRun(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if last.ID != third.ID {
		t.Errorf("LastRun().ID = %q, want %q", last.ID, third.ID)
	}
}

func TestBuildExtensionFilter(t *testing.T) {
	ctx := context.Background()
	idx := openTestIndex(t)
	dir := t.TempDir()
	writeNotes(t, dir, map[string]string{
		"a.md":  "John 3:16",
		"b.txt": "Rom 8:28",
	})

	run, err := idx.Build(ctx, dir, []string{"md"})
	if err != nil {
		t.Fatal(err)
	}
	if run.Scanned != 1 {
		t.Errorf("Scanned = %d, want 1", run.Scanned)
	}
}

func TestBuildCancelled(t *testing.T) {
	idx := openTestIndex(t)
	dir := t.TempDir()
	writeNotes(t, dir, map[string]string{"a.md": "John 3:16"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := idx.Build(ctx, dir, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Build() error = %v, want context.Canceled", err)
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	idx := openTestIndex(t)

	s, err := idx.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() on empty index error = %v", err)
	}
	if s.Notes != 0 || s.References != 0 || s.LastRun != nil {
		t.Errorf("empty Stats() = %+v", s)
	}

	dir := t.TempDir()
	writeNotes(t, dir, map[string]string{
		"a.md": "John 3:16, Gen 1:1 and John 1:1",
	})
	if _, err := idx.Build(ctx, dir, nil); err != nil {
		t.Fatal(err)
	}

	s, err = idx.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if s.Notes != 1 || s.References != 3 {
		t.Errorf("Stats() = %+v, want 1 note, 3 references", s)
	}
	if len(s.Books) != 2 || s.Books[0].Book != "Genesis" || s.Books[1].Book != "John" || s.Books[1].References != 2 {
		t.Errorf("Stats().Books = %+v, want Genesis then John(2)", s.Books)
	}
	if s.LastRun == nil {
		t.Error("Stats().LastRun = nil after a build")
	}
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	idx := openTestIndex(t)
	if _, err := idx.IndexNote(ctx, "b.md", "Rom 8:28"); err != nil {
		t.Fatal(err)
	}
	if _, err := idx.IndexNote(ctx, "a.md", "John 3:16 and Jude 1:3"); err != nil {
		t.Fatal(err)
	}

	for _, compress := range []bool{false, true} {
		var buf bytes.Buffer
		if err := idx.Export(ctx, &buf, compress); err != nil {
			t.Fatalf("Export(compress=%v) error = %v", compress, err)
		}

		if compress && !bytes.HasPrefix(buf.Bytes(), []byte(xzMagic)) {
			t.Error("compressed export lacks xz header")
		}
		if !compress && !bytes.HasPrefix(bytes.TrimSpace(buf.Bytes()), []byte("{")) {
			t.Error("plain export is not JSON")
		}

		doc, err := ReadExport(&buf)
		if err != nil {
			t.Fatalf("ReadExport(compress=%v) error = %v", compress, err)
		}
		if doc.Version != ExportVersion {
			t.Errorf("Version = %d, want %d", doc.Version, ExportVersion)
		}
		if len(doc.Notes) != 2 || doc.Notes[0].Path != "a.md" {
			t.Fatalf("Notes = %+v, want a.md then b.md", doc.Notes)
		}
		if len(doc.Notes[0].References) != 2 || doc.Notes[0].References[1].Book != "Jude" {
			t.Errorf("a.md references = %+v", doc.Notes[0].References)
		}
		if doc.Notes[1].Hash != ContentHash("Rom 8:28") {
			t.Errorf("b.md hash = %q", doc.Notes[1].Hash)
		}
	}
}

func TestReadExportInvalid(t *testing.T) {
	if _, err := ReadExport(bytes.NewReader([]byte("not json"))); !errors.Is(err, verrors.ErrInvalidInput) {
		t.Errorf("ReadExport(garbage) error = %v, want ErrInvalidInput", err)
	}
}
