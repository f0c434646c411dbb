// Package notes turns note files into plain text for reference detection.
//
// Supported formats by extension:
//
//	.txt                  as is
//	.md .markdown         goldmark AST text, code blocks skipped
//	.html .htm            tags stripped, entities decoded
//	.xml .xhtml .osis     document-order text of <body> (or the whole
//	                      document), script and style skipped
package notes

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/FocuswithJustin/versefind/core/errors"
	"github.com/FocuswithJustin/versefind/core/textnorm"
)

// Format identifies how a note file is read.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatXML      Format = "xml"
)

var formatsByExt = map[string]Format{
	".txt":      FormatText,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".html":     FormatHTML,
	".htm":      FormatHTML,
	".xml":      FormatXML,
	".xhtml":    FormatXML,
	".osis":     FormatXML,
}

// DetectFormat returns the format for a file name.
func DetectFormat(name string) (Format, bool) {
	f, ok := formatsByExt[strings.ToLower(filepath.Ext(name))]
	return f, ok
}

// Supported reports whether name has a handled extension.
func Supported(name string) bool {
	_, ok := DetectFormat(name)
	return ok
}

// Extensions returns the handled extensions.
func Extensions() []string {
	exts := make([]string, 0, len(formatsByExt))
	for ext := range formatsByExt {
		exts = append(exts, ext)
	}
	return exts
}

// Extract returns the plain text of a note. name is only used to pick
// the format.
func Extract(name string, data []byte) (string, error) {
	format, ok := DetectFormat(name)
	if !ok {
		return "", errors.NewUnsupported("note format", filepath.Ext(name))
	}

	switch format {
	case FormatMarkdown:
		return markdownText(data), nil
	case FormatHTML:
		return textnorm.StripHTML(string(data)), nil
	case FormatXML:
		s, err := xmlText(data)
		if err != nil {
			return "", errors.NewParse("XML", name, err.Error())
		}
		return s, nil
	default:
		return string(data), nil
	}
}

// ExtractFile reads and extracts the note at path.
func ExtractFile(path string) (string, error) {
	if !Supported(path) {
		return "", errors.NewUnsupported("note format", filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.NewIO("read", path, err)
	}
	return Extract(path, data)
}

var markdown = goldmark.New()

// markdownText walks the goldmark AST and collects text segments. Each
// block ends a line so references in adjacent paragraphs stay apart.
func markdownText(src []byte) string {
	doc := markdown.Parser().Parse(text.NewReader(src))

	var sb strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock && sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			sb.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				sb.WriteByte('\n')
			}
		case *ast.String:
			sb.Write(node.Value)
		case *ast.AutoLink:
			sb.Write(node.Label(src))
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(sb.String())
}

// bodyRoot selects the XHTML body. Documents without one are read whole.
var bodyRoot = xpath.MustCompile(`//*[local-name()='body']`)

// blockElements end a line in extracted XML text.
var blockElements = map[string]bool{
	"p": true, "div": true, "li": true, "br": true, "td": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"title": true, "verse": true, "chapter": true, "l": true, "lg": true,
	"note": true, "item": true, "head": true, "section": true, "blockquote": true,
}

func xmlText(data []byte) (string, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	root := doc
	if body := xmlquery.QuerySelector(doc, bodyRoot); body != nil {
		root = body
	}

	var sb strings.Builder
	writeXMLText(&sb, root)
	return strings.TrimSpace(collapseLines(sb.String())), nil
}

// writeXMLText appends the text under n in document order. Block elements
// are set on their own lines.
func writeXMLText(sb *strings.Builder, n *xmlquery.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.TextNode, xmlquery.CharDataNode:
			sb.WriteString(c.Data)
		case xmlquery.ElementNode:
			name := strings.ToLower(c.Data)
			if name == "script" || name == "style" {
				continue
			}
			block := blockElements[name]
			if block {
				sb.WriteByte('\n')
			}
			writeXMLText(sb, c)
			if block {
				sb.WriteByte('\n')
			}
		}
	}
}

// collapseLines collapses whitespace within each line and drops blank lines.
func collapseLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = textnorm.CollapseSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
