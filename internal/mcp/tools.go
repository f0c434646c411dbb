package mcp

import "github.com/mark3labs/mcp-go/mcp"

var detectToolDef = mcp.NewTool("scripture_detect",
	mcp.WithDescription("Find every scripture reference in a piece of text. "+
		"Returns is_scripture, type, confidence and the references with canonical book names."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("Text to scan, plain or HTML"),
	),
)

var normalizeToolDef = mcp.NewTool("scripture_normalize",
	mcp.WithDescription("Normalize a single reference such as \"Rom 8: 28\" to its canonical form \"Romans 8:28\"."),
	mcp.WithString("reference",
		mcp.Required(),
		mcp.Description("Reference to normalize"),
	),
)

var formatToolDef = mcp.NewTool("scripture_format",
	mcp.WithDescription("Convert a reference between API form (\"Matthew 26:6-13,17-30\") "+
		"and display form (\"Matthew 26:6-13 | 17-30\")."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("Reference to convert"),
	),
	mcp.WithString("direction",
		mcp.Required(),
		mcp.Enum("display", "api"),
		mcp.Description("Target form: display or api"),
	),
)

var booksToolDef = mcp.NewTool("scripture_books",
	mcp.WithDescription("List the 66 canonical books with OSIS IDs and chapter counts."),
	mcp.WithString("testament",
		mcp.Enum("OT", "NT"),
		mcp.Description("Only list books of this testament"),
	),
	mcp.WithBoolean("synonyms",
		mcp.Description("Include accepted abbreviations and alternate names"),
	),
)

var lookupToolDef = mcp.NewTool("scripture_lookup",
	mcp.WithDescription("List the indexed notes that cite a book, optionally limited to one chapter."),
	mcp.WithString("book",
		mcp.Required(),
		mcp.Description("Book name or abbreviation"),
	),
	mcp.WithNumber("chapter",
		mcp.Description("Chapter number; omit or 0 for every chapter"),
	),
)
