package main

import (
	"strings"

	"github.com/FocuswithJustin/versefind/core/canon"
	"github.com/FocuswithJustin/versefind/core/errors"
)

// BooksGroup contains catalog operations.
type BooksGroup struct {
	List BooksListCmd `cmd:"" help:"List the canonical books"`
}

type BooksListCmd struct {
	Testament string `help:"Only list books of this testament (OT or NT)"`
	Synonyms  bool   `help:"Include abbreviations and alternate names"`
	JSON      bool   `help:"Output as JSON"`
}

func (c *BooksListCmd) Run(app *App) error {
	testament := canon.Testament(strings.ToUpper(c.Testament))
	if testament != "" && testament != canon.OldTestament && testament != canon.NewTestament {
		return errors.NewValidation("testament", `must be "OT" or "NT"`)
	}

	var books []canon.Book
	for _, b := range canon.Default().Books() {
		if testament != "" && b.Testament != testament {
			continue
		}
		if !c.Synonyms {
			b.Synonyms = nil
		}
		books = append(books, b)
	}
	if c.JSON {
		return app.printJSON(books)
	}
	for _, b := range books {
		app.printf("%2d  %-16s %-6s %3d", b.Order, b.Name, b.OSIS, b.Chapters)
		if c.Synonyms && len(b.Synonyms) > 0 {
			app.printf("  %s", strings.Join(b.Synonyms, ", "))
		}
		app.printf("\n")
	}
	return nil
}
