package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func TestDriverInfo(t *testing.T) {
	info := GetInfo()

	if info.DriverName == "" || info.DriverType == "" || info.Package == "" {
		t.Errorf("GetInfo() has empty fields: %+v", info)
	}
	if info.DriverName != DriverName() {
		t.Errorf("DriverName mismatch: info=%s, func=%s", info.DriverName, DriverName())
	}
	if info.DriverType != DriverType() {
		t.Errorf("DriverType mismatch: info=%s, func=%s", info.DriverType, DriverType())
	}
	if info.IsCGO != IsCGO() {
		t.Errorf("IsCGO mismatch: info=%v, func=%v", info.IsCGO, IsCGO())
	}

	t.Logf("SQLite driver: %s (%s) from %s", info.DriverName, info.DriverType, info.Package)
}

func TestOpenFile(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "refs.db")

	db, err := OpenFile(ctx, dbPath)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, `CREATE TABLE refs (id INTEGER PRIMARY KEY, book TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO refs (book) VALUES (?)`, "Romans"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	var book string
	if err := db.QueryRowContext(ctx, `SELECT book FROM refs WHERE id = 1`).Scan(&book); err != nil {
		t.Fatalf("select: %v", err)
	}
	if book != "Romans" {
		t.Errorf("book = %q, want Romans", book)
	}

	var mode string
	if err := db.QueryRowContext(ctx, `PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}

	var fk int
	if err := db.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk); err != nil {
		t.Fatalf("foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}
}

func TestOpenFileMemory(t *testing.T) {
	ctx := context.Background()
	db, err := OpenFile(ctx, ":memory:")
	if err != nil {
		t.Fatalf("OpenFile(:memory:) error = %v", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, `CREATE TABLE t (v INTEGER)`); err != nil {
		t.Fatal(err)
	}
	// A second statement must see the same database.
	if _, err := db.ExecContext(ctx, `INSERT INTO t VALUES (1)`); err != nil {
		t.Fatalf("insert into memory table: %v", err)
	}
}

func TestOpenFileBadPath(t *testing.T) {
	_, err := OpenFile(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "x.db"))
	if err == nil {
		t.Error("OpenFile() in a missing directory should fail")
	}
}
