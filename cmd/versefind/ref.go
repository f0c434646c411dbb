package main

import (
	"context"
	"io"
	"strings"

	"github.com/FocuswithJustin/versefind/core/errors"
	"github.com/FocuswithJustin/versefind/core/scripture"
	"github.com/FocuswithJustin/versefind/internal/logging"
	"github.com/FocuswithJustin/versefind/internal/notes"
)

// RefGroup contains single-reference and free-text operations.
type RefGroup struct {
	Detect    RefDetectCmd    `cmd:"" help:"Find references in text (arguments, --file or stdin)"`
	Normalize RefNormalizeCmd `cmd:"" help:"Print the canonical form of a reference"`
	Display   RefDisplayCmd   `cmd:"" help:"Convert a reference to display form"`
	API       RefAPICmd       `cmd:"" name:"api" help:"Convert a display-form reference back to API form"`
	OSIS      RefOSISCmd      `cmd:"" name:"osis" help:"Print a reference as OSIS"`
}

type RefDetectCmd struct {
	Text []string `arg:"" optional:"" help:"Text to scan; read from --file or stdin when omitted"`
	File string   `short:"f" help:"Note file to scan (any supported note format)" type:"existingfile"`
	JSON bool     `help:"Output the full detection as JSON"`
}

func (c *RefDetectCmd) Run(app *App) error {
	text, err := c.input(app)
	if err != nil {
		return err
	}

	d := scripture.Detect(text)
	logging.DetectionEvent(context.Background(), "cli", len(text), len(d.References))

	if c.JSON {
		return app.printJSON(d)
	}
	for _, ref := range d.References {
		app.printf("%s\t%s\n", ref.Canonical, ref.Text)
	}
	return nil
}

// input returns the text to scan: the arguments, the extracted text of
// --file, or stdin.
func (c *RefDetectCmd) input(app *App) (string, error) {
	switch {
	case len(c.Text) > 0 && c.File != "":
		return "", errors.NewValidation("file", "cannot be combined with text arguments")
	case len(c.Text) > 0:
		return strings.Join(c.Text, " "), nil
	case c.File != "":
		return notes.ExtractFile(c.File)
	}

	b, err := io.ReadAll(app.Stdin)
	if err != nil {
		return "", errors.NewIO("read", "stdin", err)
	}
	return string(b), nil
}

type RefNormalizeCmd struct {
	Reference []string `arg:"" help:"Reference to normalize"`
}

func (c *RefNormalizeCmd) Run(app *App) error {
	app.printf("%s\n", scripture.NormalizeReference(strings.Join(c.Reference, " ")))
	return nil
}

type RefDisplayCmd struct {
	Reference []string `arg:"" help:"Reference in API form"`
}

func (c *RefDisplayCmd) Run(app *App) error {
	app.printf("%s\n", scripture.FormatForDisplay(strings.Join(c.Reference, " ")))
	return nil
}

type RefAPICmd struct {
	Display []string `arg:"" help:"Reference in display form"`
}

func (c *RefAPICmd) Run(app *App) error {
	app.printf("%s\n", scripture.FormatForAPI(strings.Join(c.Display, " ")))
	return nil
}

type RefOSISCmd struct {
	Reference []string `arg:"" help:"Reference to convert"`
}

func (c *RefOSISCmd) Run(app *App) error {
	raw := strings.Join(c.Reference, " ")
	ref, ok := scripture.ParseReference(scripture.NormalizeReference(raw))
	if !ok {
		return errors.NewReference(raw, "")
	}
	app.printf("%s\n", ref.OSIS())
	return nil
}
