package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/FocuswithJustin/versefind/core/errors"
	"github.com/FocuswithJustin/versefind/internal/refindex"
)

// IndexGroup contains reference index operations.
type IndexGroup struct {
	Build   IndexBuildCmd   `cmd:"" help:"Index every note under a directory"`
	Lookup  IndexLookupCmd  `cmd:"" help:"List notes citing a book or chapter"`
	Stats   IndexStatsCmd   `cmd:"" help:"Show index statistics"`
	Export  IndexExportCmd  `cmd:"" help:"Export the index as JSON"`
	Inspect IndexInspectCmd `cmd:"" help:"Summarize an export file"`
}

// dbFlag selects the index database; it overrides index.path.
type dbFlag struct {
	DB string `name:"db" help:"Index database path (default from config)" type:"path"`
}

func (f dbFlag) path(app *App) string {
	if f.DB != "" {
		return f.DB
	}
	return app.Config.Index.Path
}

func (f dbFlag) open(ctx context.Context, app *App) (*refindex.Index, error) {
	return refindex.Open(ctx, f.path(app))
}

type IndexBuildCmd struct {
	Store      dbFlag   `embed:""`
	Dir        string   `arg:"" help:"Notes directory" type:"existingdir"`
	Extensions []string `name:"ext" help:"Note extensions to index (default from config)"`
	JSON       bool     `help:"Output the run summary as JSON"`
}

func (c *IndexBuildCmd) Run(app *App) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	idx, err := c.Store.open(ctx, app)
	if err != nil {
		return err
	}
	defer idx.Close()

	exts := c.Extensions
	if len(exts) == 0 {
		exts = app.Config.Index.Extensions
	}

	run, err := idx.Build(ctx, c.Dir, exts)
	if err != nil {
		return err
	}

	if c.JSON {
		return app.printJSON(run)
	}
	app.printf("Indexed %s into %s\n", run.Root, idx.Path())
	app.printf("  scanned:    %d\n", run.Scanned)
	app.printf("  indexed:    %d\n", run.Indexed)
	app.printf("  unchanged:  %d\n", run.Skipped)
	app.printf("  failed:     %d\n", run.Failed)
	app.printf("  removed:    %d\n", run.Removed)
	app.printf("  references: %d\n", run.References)
	return nil
}

type IndexLookupCmd struct {
	Store   dbFlag `embed:""`
	Book    string `arg:"" help:"Book name or abbreviation"`
	Chapter int    `arg:"" optional:"" help:"Chapter (all chapters when omitted)"`
	JSON    bool   `help:"Output as JSON"`
}

func (c *IndexLookupCmd) Run(app *App) error {
	ctx := context.Background()
	idx, err := c.Store.open(ctx, app)
	if err != nil {
		return err
	}
	defer idx.Close()

	entries, err := idx.Lookup(ctx, c.Book, c.Chapter)
	if err != nil {
		return err
	}

	if c.JSON {
		return app.printJSON(entries)
	}
	for _, e := range entries {
		app.printf("%s\t%s\n", e.Canonical, e.Path)
	}
	return nil
}

type IndexStatsCmd struct {
	Store dbFlag `embed:""`
	JSON  bool   `help:"Output as JSON"`
}

func (c *IndexStatsCmd) Run(app *App) error {
	ctx := context.Background()
	idx, err := c.Store.open(ctx, app)
	if err != nil {
		return err
	}
	defer idx.Close()

	stats, err := idx.Stats(ctx)
	if err != nil {
		return err
	}

	if c.JSON {
		return app.printJSON(stats)
	}
	app.printf("Index: %s\n", idx.Path())
	app.printf("  notes:      %d\n", stats.Notes)
	app.printf("  references: %d\n", stats.References)
	if stats.LastRun != nil {
		app.printf("  last build: %s (%s)\n", stats.LastRun.FinishedAt.Format("2006-01-02 15:04:05"), stats.LastRun.Root)
	}
	for _, b := range stats.Books {
		app.printf("  %-16s %d\n", b.Book, b.References)
	}
	return nil
}

type IndexExportCmd struct {
	Store  dbFlag `embed:""`
	Out    string `name:"out" short:"o" help:"Output file (stdout when omitted)" type:"path"`
	XZ     bool   `name:"xz" help:"Compress the export with xz"`
}

func (c *IndexExportCmd) Run(app *App) error {
	ctx := context.Background()
	idx, err := c.Store.open(ctx, app)
	if err != nil {
		return err
	}
	defer idx.Close()

	var w io.Writer = app.Stdout
	if c.Out != "" {
		f, err := os.Create(c.Out)
		if err != nil {
			return errors.NewIO("create", c.Out, err)
		}
		defer f.Close()
		w = f
	}

	if err := idx.Export(ctx, w, c.XZ); err != nil {
		return err
	}
	if c.Out != "" {
		app.printf("Exported %s to %s\n", idx.Path(), c.Out)
	}
	return nil
}

type IndexInspectCmd struct {
	File string `arg:"" help:"Export file (plain or xz)" type:"existingfile"`
}

func (c *IndexInspectCmd) Run(app *App) error {
	f, err := os.Open(c.File)
	if err != nil {
		return errors.NewIO("open", c.File, err)
	}
	defer f.Close()

	doc, err := refindex.ReadExport(f)
	if err != nil {
		return err
	}

	refs := 0
	for _, n := range doc.Notes {
		refs += len(n.References)
	}
	app.printf("Export version %d, generated %s\n", doc.Version, doc.GeneratedAt.Format("2006-01-02 15:04:05"))
	app.printf("  notes:      %d\n", len(doc.Notes))
	app.printf("  references: %d\n", refs)
	return nil
}
