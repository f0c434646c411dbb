// Command versefind finds and normalizes scripture references in text and
// indexes the references cited across a directory of notes.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/versefind/internal/config"
)

const version = "0.1.0"

// CLI defines the command-line interface for versefind.
type CLI struct {
	// Global flags
	Config    string `name:"config" short:"c" help:"YAML configuration file" type:"path" env:"VERSEFIND_CONFIG"`
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error); overrides the config file"`
	LogFormat string `name:"log-format" help:"Log format (text, json); overrides the config file"`

	// Command groups (noun-first organization)
	Ref     RefGroup   `cmd:"" help:"Detect, normalize and format references"`
	Books   BooksGroup `cmd:"" help:"Book catalog"`
	Index   IndexGroup `cmd:"" help:"Reference index over a notes directory"`
	Serve   ServeCmd   `cmd:"" help:"Start the REST and WebSocket API server"`
	MCP     MCPCmd     `cmd:"" name:"mcp" help:"Serve MCP tools over stdio"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// App carries what every command needs once flags are parsed.
type App struct {
	Config config.Config
	Stdin  io.Reader
	Stdout io.Writer
}

// newApp loads the configuration named by the global flags, applies the
// log overrides and initializes logging.
func newApp(cli *CLI) (*App, error) {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, err
	}
	if cli.LogLevel != "" {
		cfg.Log.Level = cli.LogLevel
	}
	if cli.LogFormat != "" {
		cfg.Log.Format = cli.LogFormat
	}
	if err := cfg.InitLogging(); err != nil {
		return nil, err
	}

	return &App{
		Config: cfg,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
	}, nil
}

// printf writes formatted output to the app's stdout.
func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.Stdout, format, args...)
}

// printJSON writes v as indented JSON.
func (a *App) printJSON(v any) error {
	enc := json.NewEncoder(a.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type VersionCmd struct{}

func (c *VersionCmd) Run(app *App) error {
	app.printf("versefind version %s\n", version)
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("versefind"),
		kong.Description("Scripture reference detection, normalization and note indexing"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	app, err := newApp(&cli)
	ctx.FatalIfErrorf(err)

	err = ctx.Run(app)
	ctx.FatalIfErrorf(err)
}
