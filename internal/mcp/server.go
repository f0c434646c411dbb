// Package mcp exposes reference detection as Model Context Protocol tools
// over stdio.
package mcp

import (
	"slices"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/FocuswithJustin/versefind/internal/refindex"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
	// needsIndex marks tools that are only registered with an index.
	needsIndex bool
}

var toolRegistry = map[string]toolEntry{
	"scripture_detect": {
		def:     detectToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDetect },
	},
	"scripture_normalize": {
		def:     normalizeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNormalize },
	},
	"scripture_format": {
		def:     formatToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFormat },
	},
	"scripture_books": {
		def:     booksToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBooks },
	},
	"scripture_lookup": {
		def:        lookupToolDef,
		handler:    func(h *Handlers) server.ToolHandlerFunc { return h.HandleLookup },
		needsIndex: true,
	},
}

// AllToolNames returns the names of every tool, sorted.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NewServer creates an MCP server with the scripture tools registered.
// idx may be nil, in which case scripture_lookup is not offered.
func NewServer(idx *refindex.Index, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"versefind",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(idx)
	for _, entry := range toolRegistry {
		if entry.needsIndex && idx == nil {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run serves the tools on stdin and stdout until stdin closes.
func Run(idx *refindex.Index, version string) error {
	return server.ServeStdio(NewServer(idx, version))
}
