package refindex

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/versefind/core/errors"
)

// ExportVersion identifies the export document layout.
const ExportVersion = 1

// ExportNote is one note in an export document.
type ExportNote struct {
	Path       string  `json:"path"`
	Hash       string  `json:"hash"`
	IndexedAt  string  `json:"indexed_at"`
	References []Entry `json:"references"`
}

// ExportDocument is the JSON written by Export.
type ExportDocument struct {
	Version     int          `json:"version"`
	GeneratedAt time.Time    `json:"generated_at"`
	Notes       []ExportNote `json:"notes"`
}

// Export writes every note and its references as one JSON document,
// xz-compressed when compress is set.
func (x *Index) Export(ctx context.Context, w io.Writer, compress bool) error {
	doc, err := x.exportDocument(ctx)
	if err != nil {
		return err
	}

	if !compress {
		return encodeExport(w, doc)
	}

	xw, err := xz.NewWriter(w)
	if err != nil {
		return errors.NewIO("export", "", err)
	}
	if err := encodeExport(xw, doc); err != nil {
		xw.Close()
		return err
	}
	if err := xw.Close(); err != nil {
		return errors.NewIO("export", "", err)
	}
	return nil
}

func encodeExport(w io.Writer, doc *ExportDocument) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.NewIO("export", "", err)
	}
	return nil
}

func (x *Index) exportDocument(ctx context.Context) (*ExportDocument, error) {
	rows, err := x.db.QueryContext(ctx, `SELECT path, hash, indexed_at FROM notes ORDER BY path`)
	if err != nil {
		return nil, err
	}

	doc := &ExportDocument{
		Version:     ExportVersion,
		GeneratedAt: x.now().UTC(),
		Notes:       []ExportNote{},
	}
	for rows.Next() {
		var n ExportNote
		if err := rows.Scan(&n.Path, &n.Hash, &n.IndexedAt); err != nil {
			rows.Close()
			return nil, err
		}
		doc.Notes = append(doc.Notes, n)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range doc.Notes {
		refs, err := x.NoteReferences(ctx, doc.Notes[i].Path)
		if err != nil {
			return nil, err
		}
		doc.Notes[i].References = refs
	}
	return doc, nil
}

// ReadExport decodes an export document written by Export, detecting xz
// compression from the stream header.
func ReadExport(r io.Reader) (*ExportDocument, error) {
	br := bufio.NewReader(r)
	header, err := br.Peek(len(xzMagic))
	if err != nil && err != io.EOF {
		return nil, errors.NewIO("read", "export", err)
	}

	var src io.Reader = br
	if string(header) == xzMagic {
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, errors.NewParse("xz", "", err.Error())
		}
		src = xr
	}

	var doc ExportDocument
	if err := json.NewDecoder(src).Decode(&doc); err != nil {
		return nil, errors.NewParse("JSON", "", err.Error())
	}
	return &doc, nil
}

const xzMagic = "\xfd7zXZ\x00"
