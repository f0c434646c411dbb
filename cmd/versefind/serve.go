package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/FocuswithJustin/versefind/internal/api"
	"github.com/FocuswithJustin/versefind/internal/logging"
	"github.com/FocuswithJustin/versefind/internal/mcp"
	"github.com/FocuswithJustin/versefind/internal/refindex"
)

// indexFlags select the index used by long-running commands.
type indexFlags struct {
	Store   dbFlag `embed:""`
	NoIndex bool   `name:"no-index" help:"Run without a reference index"`
}

// openOptional opens the index unless --no-index was given; a nil index
// is returned in that case.
func (f indexFlags) openOptional(ctx context.Context, app *App) (*refindex.Index, error) {
	if f.NoIndex {
		return nil, nil
	}
	return f.Store.open(ctx, app)
}

type ServeCmd struct {
	Index indexFlags `embed:""`
	Port  int        `help:"HTTP server port (default from config)"`
}

func (c *ServeCmd) Run(app *App) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	idx, err := c.Index.openOptional(ctx, app)
	if err != nil {
		return err
	}
	if idx != nil {
		defer idx.Close()
	}

	cfg := app.Config.Server
	if c.Port != 0 {
		cfg.Port = c.Port
	}

	srv := api.NewServer(cfg, version, idx)
	return srv.ListenAndServe(ctx)
}

type MCPCmd struct {
	Index indexFlags `embed:""`
}

func (c *MCPCmd) Run(app *App) error {
	idx, err := c.Index.openOptional(context.Background(), app)
	if err != nil {
		return err
	}
	if idx != nil {
		defer idx.Close()
	}

	logging.Info("serving MCP tools on stdio", "index", idx != nil)
	return mcp.Run(idx, version)
}
