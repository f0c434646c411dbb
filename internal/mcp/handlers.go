package mcp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/FocuswithJustin/versefind/core/canon"
	"github.com/FocuswithJustin/versefind/core/errors"
	"github.com/FocuswithJustin/versefind/core/scripture"
	"github.com/FocuswithJustin/versefind/internal/logging"
	"github.com/FocuswithJustin/versefind/internal/refindex"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	matcher *scripture.Matcher
	index   *refindex.Index
}

// NewHandlers creates handlers over the default matcher. idx may be nil.
func NewHandlers(idx *refindex.Index) *Handlers {
	return &Handlers{matcher: scripture.DefaultMatcher(), index: idx}
}

// DetectRequest represents the arguments for scripture_detect.
type DetectRequest struct {
	Text string `json:"text"`
}

// NormalizeRequest represents the arguments for scripture_normalize.
type NormalizeRequest struct {
	Reference string `json:"reference"`
}

// FormatRequest represents the arguments for scripture_format.
type FormatRequest struct {
	Text      string `json:"text"`
	Direction string `json:"direction"`
}

// BooksRequest represents the arguments for scripture_books.
type BooksRequest struct {
	Testament string `json:"testament,omitempty"`
	Synonyms  bool   `json:"synonyms,omitempty"`
}

// LookupRequest represents the arguments for scripture_lookup.
type LookupRequest struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapter,omitempty"`
}

// NormalizeOutput is the result of scripture_normalize.
type NormalizeOutput struct {
	Input      string `json:"input"`
	Normalized string `json:"normalized"`
	Display    string `json:"display"`
	OSIS       string `json:"osis,omitempty"`
	Parsed     bool   `json:"parsed"`
}

// FormatOutput is the result of scripture_format.
type FormatOutput struct {
	Direction string `json:"direction"`
	Result    string `json:"result"`
}

// HandleDetect handles the scripture_detect tool call.
func (h *Handlers) HandleDetect(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DetectRequest](req)
	if err != nil {
		return errorResult(errors.NewValidation("arguments", err.Error())), nil
	}

	d := h.matcher.Detect(input.Text)
	logging.DetectionEvent(ctx, "mcp", len(input.Text), len(d.References))
	return successResult(d)
}

// HandleNormalize handles the scripture_normalize tool call.
func (h *Handlers) HandleNormalize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NormalizeRequest](req)
	if err != nil {
		return errorResult(errors.NewValidation("arguments", err.Error())), nil
	}
	if strings.TrimSpace(input.Reference) == "" {
		return errorResult(errors.NewValidation("reference", "must not be empty")), nil
	}

	out := NormalizeOutput{
		Input:      input.Reference,
		Normalized: h.matcher.NormalizeReference(input.Reference),
	}
	out.Display = scripture.FormatForDisplay(out.Normalized)
	if ref, ok := h.matcher.ParseReference(out.Normalized); ok {
		out.OSIS = ref.OSIS()
		out.Parsed = true
	}
	return successResult(out)
}

// HandleFormat handles the scripture_format tool call.
func (h *Handlers) HandleFormat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FormatRequest](req)
	if err != nil {
		return errorResult(errors.NewValidation("arguments", err.Error())), nil
	}

	out := FormatOutput{Direction: input.Direction}
	switch input.Direction {
	case "display":
		out.Result = scripture.FormatForDisplay(input.Text)
	case "api":
		out.Result = scripture.FormatForAPI(input.Text)
	default:
		return errorResult(errors.NewValidation("direction", `must be "display" or "api"`)), nil
	}
	return successResult(out)
}

// HandleBooks handles the scripture_books tool call.
func (h *Handlers) HandleBooks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[BooksRequest](req)
	if err != nil {
		return errorResult(errors.NewValidation("arguments", err.Error())), nil
	}

	testament := canon.Testament(strings.ToUpper(input.Testament))
	if testament != "" && testament != canon.OldTestament && testament != canon.NewTestament {
		return errorResult(errors.NewValidation("testament", `must be "OT" or "NT"`)), nil
	}

	books := make([]canon.Book, 0, h.matcher.Catalog().Len())
	for _, b := range h.matcher.Catalog().Books() {
		if testament != "" && b.Testament != testament {
			continue
		}
		if !input.Synonyms {
			b.Synonyms = nil
		}
		books = append(books, b)
	}
	return successResult(map[string]any{"books": books, "count": len(books)})
}

// HandleLookup handles the scripture_lookup tool call.
func (h *Handlers) HandleLookup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[LookupRequest](req)
	if err != nil {
		return errorResult(errors.NewValidation("arguments", err.Error())), nil
	}
	if h.index == nil {
		return errorResult(errors.NewUnsupported("scripture_lookup", "no reference index is configured")), nil
	}
	if strings.TrimSpace(input.Book) == "" {
		return errorResult(errors.NewValidation("book", "is required")), nil
	}

	entries, err := h.index.Lookup(ctx, input.Book, input.Chapter)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"references": entries, "count": len(entries)})
}

// errorResult maps err to an error payload. Internal errors are reported
// without detail.
func errorResult(err error) *mcp.CallToolResult {
	code, message := "INTERNAL", "an internal error occurred"
	switch {
	case errors.Is(err, errors.ErrInvalidInput):
		code, message = "INVALID_INPUT", err.Error()
	case errors.Is(err, errors.ErrNotFound):
		code, message = "NOT_FOUND", err.Error()
	case errors.Is(err, errors.ErrUnsupported):
		code, message = "UNSUPPORTED", err.Error()
	default:
		logging.Error("mcp tool failed", "error", err)
	}

	content, _ := json.Marshal(map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
