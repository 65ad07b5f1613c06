package mcp

import "github.com/mark3labs/mcp-go/mcp"

var analyzeToolDef = mcp.NewTool("strings_analyze",
	mcp.WithDescription("Analyze a string and store it. Returns the record and an outcome of "+
		"\"created\", or \"conflict\" with the previously stored record when the content already exists."),
	mcp.WithReadOnlyHintAnnotation(false),
	mcp.WithDestructiveHintAnnotation(false),
	mcp.WithIdempotentHintAnnotation(true),
	mcp.WithString("value",
		mcp.Required(),
		mcp.Description("The string to analyze. Must be non-blank."),
	),
)

var getToolDef = mcp.NewTool("strings_get",
	mcp.WithDescription("Fetch the stored analysis for an exact string value."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("value",
		mcp.Required(),
		mcp.Description("Exact string value (case and whitespace sensitive)"),
	),
)

var listToolDef = mcp.NewTool("strings_list",
	mcp.WithDescription("List stored strings, newest first, optionally filtered. All filters combine with AND."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithBoolean("is_palindrome",
		mcp.Description("Only palindromes (true) or only non-palindromes (false)"),
	),
	mcp.WithNumber("min_length",
		mcp.Description("Minimum length in characters, inclusive"),
	),
	mcp.WithNumber("max_length",
		mcp.Description("Maximum length in characters, inclusive"),
	),
	mcp.WithNumber("word_count",
		mcp.Description("Exact number of whitespace-separated words"),
	),
	mcp.WithString("contains_character",
		mcp.Description("Substring that must occur in the value (case-sensitive)"),
	),
)

var queryToolDef = mcp.NewTool("strings_query",
	mcp.WithDescription("List stored strings matching a plain-English query such as "+
		"\"all single word palindromic strings\" or \"strings longer than 10 characters\". "+
		"Returns the interpreted filters alongside the results."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural-language query"),
	),
)

var deleteToolDef = mcp.NewTool("strings_delete",
	mcp.WithDescription("Delete the stored analysis for an exact string value. "+
		"Reports deleted=false when nothing was stored."),
	mcp.WithDestructiveHintAnnotation(true),
	mcp.WithIdempotentHintAnnotation(true),
	mcp.WithString("value",
		mcp.Required(),
		mcp.Description("Exact string value to delete"),
	),
)

var exportToolDef = mcp.NewTool("strings_export",
	mcp.WithDescription("Export stored strings to a JSONL file. Defaults to "+
		"~/.strindex/exports/strindex-<timestamp>.jsonl. Accepts the same filters as strings_list."),
	mcp.WithReadOnlyHintAnnotation(false),
	mcp.WithDestructiveHintAnnotation(false),
	mcp.WithString("path",
		mcp.Description("Output .jsonl path, directly inside the exports directory or an allowed path"),
	),
	mcp.WithBoolean("is_palindrome",
		mcp.Description("Only export palindromes (true) or non-palindromes (false)"),
	),
	mcp.WithNumber("min_length",
		mcp.Description("Minimum length in characters, inclusive"),
	),
	mcp.WithNumber("max_length",
		mcp.Description("Maximum length in characters, inclusive"),
	),
	mcp.WithNumber("word_count",
		mcp.Description("Exact number of words"),
	),
	mcp.WithString("contains_character",
		mcp.Description("Substring that must occur in the value"),
	),
)

var importToolDef = mcp.NewTool("strings_import",
	mcp.WithDescription("Import strings from a JSONL export. Properties are recomputed; "+
		"values already stored are skipped. Creation times are preserved."),
	mcp.WithReadOnlyHintAnnotation(false),
	mcp.WithDestructiveHintAnnotation(false),
	mcp.WithIdempotentHintAnnotation(true),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Path to a .jsonl file produced by strings_export"),
	),
)
