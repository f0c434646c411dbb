package refindex

import (
	"context"
	"database/sql"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/versefind/core/errors"
	"github.com/FocuswithJustin/versefind/internal/logging"
	"github.com/FocuswithJustin/versefind/internal/notes"
)

// Run records one Build over a notes directory.
type Run struct {
	ID         string    `json:"id"`
	Root       string    `json:"root"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Scanned    int       `json:"scanned"`
	Indexed    int       `json:"indexed"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	Removed    int       `json:"removed"`
	References int       `json:"references"`
}

// Build indexes every note under dir whose extension is in exts (all
// supported extensions when exts is empty). Unreadable notes are counted
// as failed and logged; they do not stop the build. Notes indexed earlier
// but no longer present are removed.
func (x *Index) Build(ctx context.Context, dir string, exts []string) (*Run, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.NewIO("resolve", dir, err)
	}

	allowed := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = true
	}

	run := &Run{
		ID:        uuid.NewString(),
		Root:      root,
		StartedAt: x.now().UTC(),
	}
	logging.IndexEvent("build_started", root, "run_id", run.ID)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !notes.Supported(path) || (len(allowed) > 0 && !allowed[ext]) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		run.Scanned++

		text, err := notes.ExtractFile(path)
		if err != nil {
			run.Failed++
			logging.Warn("note extraction failed", "path", rel, "error", err)
			// Keep what an earlier build found rather than pruning it.
			return x.touch(ctx, rel, run.ID)
		}

		res, err := x.indexNote(ctx, rel, text, run.ID)
		if err != nil {
			return errors.Wrapf(err, "index %s", rel)
		}
		if res.Skipped {
			run.Skipped++
			return nil
		}
		run.Indexed++
		run.References += res.References
		logging.IndexEvent("indexed", rel, "references", res.References)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	removed, err := x.pruneRun(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	run.Removed = removed
	run.FinishedAt = x.now().UTC()

	if err := x.recordRun(ctx, run); err != nil {
		return nil, err
	}

	logging.IndexEvent("build_finished", root,
		"run_id", run.ID,
		"scanned", run.Scanned,
		"indexed", run.Indexed,
		"skipped", run.Skipped,
		"failed", run.Failed,
		"removed", run.Removed,
		"references", run.References,
	)
	return run, nil
}

func (x *Index) touch(ctx context.Context, path, runID string) error {
	_, err := x.db.ExecContext(ctx, `UPDATE notes SET run_id = ? WHERE path = ?`, runID, path)
	return err
}

// pruneRun deletes notes not touched by the run.
func (x *Index) pruneRun(ctx context.Context, runID string) (int, error) {
	res, err := x.db.ExecContext(ctx, `DELETE FROM notes WHERE run_id IS NULL OR run_id != ?`, runID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (x *Index) recordRun(ctx context.Context, run *Run) error {
	_, err := x.db.ExecContext(ctx, `
		INSERT INTO runs (id, root, started_at, finished_at, scanned, indexed, skipped, failed, removed, refs)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Root,
		run.StartedAt.Format(time.RFC3339Nano), run.FinishedAt.Format(time.RFC3339Nano),
		run.Scanned, run.Indexed, run.Skipped, run.Failed, run.Removed, run.References,
	)
	return err
}

// LastRun returns the most recent build run.
func (x *Index) LastRun(ctx context.Context) (*Run, error) {
	var (
		run             Run
		started, finish string
	)
	err := x.db.QueryRowContext(ctx, `
		SELECT id, root, started_at, finished_at, scanned, indexed, skipped, failed, removed, refs
		FROM runs ORDER BY rowid DESC LIMIT 1`,
	).Scan(&run.ID, &run.Root, &started, &finish,
		&run.Scanned, &run.Indexed, &run.Skipped, &run.Failed, &run.Removed, &run.References)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFound("run", "")
	}
	if err != nil {
		return nil, err
	}

	run.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
	run.FinishedAt, _ = time.Parse(time.RFC3339Nano, finish)
	return &run, nil
}
