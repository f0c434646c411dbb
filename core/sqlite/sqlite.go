// Package sqlite opens SQLite databases through one of two drivers:
//
//   - Default: pure Go modernc.org/sqlite (CGO_ENABLED=0 friendly)
//   - -tags cgo_sqlite: github.com/mattn/go-sqlite3 (requires CGO_ENABLED=1)
//
// Use Open or OpenFile instead of sql.Open so the driver name matches the
// build.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// DriverName returns the database/sql driver name for this build.
func DriverName() string {
	return driverName
}

// DriverType returns "cgo" for mattn/go-sqlite3 and "purego" for
// modernc.org/sqlite.
func DriverType() string {
	return driverType
}

// IsCGO reports whether the CGO driver is linked in.
func IsCGO() bool {
	return driverType == "cgo"
}

// Open opens a SQLite database using the build's driver.
func Open(dataSourceName string) (*sql.DB, error) {
	return sql.Open(driverName, dataSourceName)
}

// OpenFile opens the database at path and applies the connection settings
// used by versefind: WAL journaling, a busy timeout and foreign keys.
// The special path ":memory:" opens a private in-memory database held on a
// single connection.
func OpenFile(ctx context.Context, path string) (*sql.DB, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}

	if path == ":memory:" {
		// Every new connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	if path != ":memory:" {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", p, err)
		}
	}
	return db, nil
}

// Info describes the linked SQLite driver.
type Info struct {
	DriverName string `json:"driver_name"`
	DriverType string `json:"driver_type"`
	IsCGO      bool   `json:"is_cgo"`
	Package    string `json:"package"`
}

// GetInfo returns information about the current SQLite configuration.
func GetInfo() Info {
	return Info{
		DriverName: driverName,
		DriverType: driverType,
		IsCGO:      IsCGO(),
		Package:    driverPackage,
	}
}
