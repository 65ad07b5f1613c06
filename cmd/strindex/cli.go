package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/hpungsan/strindex/internal/analysis"
	"github.com/hpungsan/strindex/internal/api"
	"github.com/hpungsan/strindex/internal/config"
	"github.com/hpungsan/strindex/internal/errors"
	"github.com/hpungsan/strindex/internal/filter"
	"github.com/hpungsan/strindex/internal/ops"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "strindex",
		Usage:   "Analyze strings and query the stored results",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "json", Usage: "Output format: json|yaml"},
		},
		Before: func(c *cli.Context) error {
			switch c.String("format") {
			case "json", "yaml":
				return nil
			default:
				return outputError(errors.NewInvalidRequest(
					fmt.Sprintf("format must be json or yaml, got %q", c.String("format"))))
			}
		},
		Commands: []*cli.Command{
			analyzeCmd(db),
			getCmd(db),
			deleteCmd(db),
			listCmd(db),
			queryCmd(db),
			exportCmd(db, cfg),
			importCmd(db, cfg),
			serveCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// analyzeCmd creates the analyze command.
func analyzeCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Analyze and store a string (reads stdin when no argument is given)",
		ArgsUsage: "[value]",
		Action: func(c *cli.Context) error {
			var value string
			if c.NArg() > 0 {
				value = strings.Join(c.Args().Slice(), " ")
			} else {
				v, err := readInput(c)
				if err != nil {
					return outputError(err)
				}
				value = v
			}

			result, err := ops.Create(c.Context, db, ops.CreateInput{Value: value})
			if err != nil {
				return outputError(err)
			}

			return output(c, analyzeResult{Outcome: result.Outcome, Record: result.Record})
		},
	}
}

// getCmd creates the get command.
func getCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Show the stored analysis for an exact value",
		ArgsUsage: "<value>",
		Action: func(c *cli.Context) error {
			record, err := ops.Get(c.Context, db, ops.GetInput{Value: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return output(c, record)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete the stored analysis for an exact value",
		ArgsUsage: "<value>",
		Action: func(c *cli.Context) error {
			value := c.Args().First()
			result, err := ops.Delete(c.Context, db, ops.DeleteInput{Value: value})
			if err != nil {
				return outputError(err)
			}
			if !result.Deleted {
				return outputError(errors.NewNotFound(value))
			}

			return output(c, result)
		},
	}
}

// filterFlags are shared by list and export.
func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "palindrome", Usage: "Only palindromes (--palindrome=false for non-palindromes)"},
		&cli.IntFlag{Name: "min-length", Usage: "Minimum length in characters"},
		&cli.IntFlag{Name: "max-length", Usage: "Maximum length in characters"},
		&cli.IntFlag{Name: "word-count", Usage: "Exact number of words"},
		&cli.StringFlag{Name: "contains", Aliases: []string{"c"}, Usage: "Substring the value must contain"},
	}
}

// filterFromFlags builds a filter from the flags the user actually set.
func filterFromFlags(c *cli.Context) filter.Filter {
	var f filter.Filter
	if c.IsSet("palindrome") {
		f.IsPalindrome = filter.Bool(c.Bool("palindrome"))
	}
	if c.IsSet("min-length") {
		f.MinLength = filter.Int(c.Int("min-length"))
	}
	if c.IsSet("max-length") {
		f.MaxLength = filter.Int(c.Int("max-length"))
	}
	if c.IsSet("word-count") {
		f.WordCount = filter.Int(c.Int("word-count"))
	}
	if c.IsSet("contains") {
		f.ContainsCharacter = filter.String(c.String("contains"))
	}
	return f
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List stored strings, newest first",
		Flags: filterFlags(),
		Action: func(c *cli.Context) error {
			result, err := ops.List(c.Context, db, ops.ListInput{Filter: filterFromFlags(c)})
			if err != nil {
				return outputError(err)
			}

			return output(c, result)
		},
	}
}

// queryCmd creates the query command.
func queryCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "List stored strings matching a plain-English query",
		ArgsUsage: "<text>",
		Action: func(c *cli.Context) error {
			text := strings.Join(c.Args().Slice(), " ")
			result, err := ops.Query(c.Context, db, ops.QueryInput{Query: text})
			if err != nil {
				return outputError(err)
			}

			return output(c, result)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	flags := append([]cli.Flag{
		&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: ~/.strindex/exports/strindex-<timestamp>.jsonl)"},
	}, filterFlags()...)

	return &cli.Command{
		Name:  "export",
		Usage: "Export stored strings to a JSONL file",
		Flags: flags,
		Action: func(c *cli.Context) error {
			result, err := ops.Export(c.Context, db, cfg, ops.ExportInput{
				Path:   c.String("path"),
				Filter: filterFromFlags(c),
			})
			if err != nil {
				return outputError(err)
			}

			return output(c, result)
		},
	}
}

// importCmd creates the import command.
func importCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import strings from a JSONL export",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Import file path"},
		},
		Action: func(c *cli.Context) error {
			result, err := ops.Import(c.Context, db, cfg, ops.ImportInput{Path: c.String("path")})
			if err != nil {
				return outputError(err)
			}

			return output(c, result)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Interface to listen on (default from config: 127.0.0.1)"},
			&cli.IntFlag{Name: "port", Usage: "Port to listen on (default from config: 8080)"},
		},
		Action: func(c *cli.Context) error {
			serveCfg := *cfg
			if c.IsSet("bind") {
				serveCfg.HTTPBind = c.String("bind")
			}
			if c.IsSet("port") {
				serveCfg.HTTPPort = c.Int("port")
			}
			if serveCfg.HTTPPort < 1 || serveCfg.HTTPPort > 65535 {
				return outputError(errors.NewInvalidRequest(
					fmt.Sprintf("port must be between 1 and 65535, got %d", serveCfg.HTTPPort)))
			}

			if err := api.Run(api.NewServer(db, &serveCfg, Version)); err != nil {
				return outputError(err)
			}
			return nil
		},
	}
}

// Helper functions

// analyzeResult is the analyze command payload.
type analyzeResult struct {
	Outcome ops.Outcome      `json:"outcome"`
	Record  *analysis.Record `json:"record"`
}

// output writes v to the app writer in the selected format.
func output(c *cli.Context, v any) error {
	w := c.App.Writer
	if w == nil {
		w = os.Stdout
	}
	if c.String("format") == "yaml" {
		return outputYAML(w, v)
	}
	return outputJSON(w, v)
}

// outputJSON writes v as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// outputYAML writes v as YAML with the same keys as the JSON form.
func outputYAML(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(b, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}

// outputError formats error for CLI.
func outputError(err error) error {
	if sErr, ok := errors.As(err); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", sErr.Code, sErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// readInput reads the value from the app reader, refusing an interactive terminal.
func readInput(c *cli.Context) (string, error) {
	r := c.App.Reader
	if r == nil {
		r = os.Stdin
	}
	if f, ok := r.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil || stat.Mode()&os.ModeCharDevice != 0 {
			return "", errors.NewInvalidRequest("value must be given as an argument or piped via stdin")
		}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.NewInternal(err)
	}
	// A single trailing newline comes from echo or a heredoc, not the value.
	value := strings.TrimSuffix(string(data), "\n")
	value = strings.TrimSuffix(value, "\r")
	return value, nil
}
