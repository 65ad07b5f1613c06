package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/hpungsan/strindex/internal/config"
	"github.com/hpungsan/strindex/internal/db"
	"github.com/hpungsan/strindex/internal/logger"
	"github.com/hpungsan/strindex/internal/mcp"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"analyze": true, "get": true, "delete": true,
	"list": true, "query": true,
	"export": true, "import": true, "serve": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode(args []string) bool {
	if len(args) < 2 {
		return false // No args → MCP server
	}
	arg := args[1]
	if cliCommands[arg] || isHelpOrVersion(args) {
		return true
	}
	// Global flags such as --format precede the subcommand.
	for _, a := range args[2:] {
		if cliCommands[a] {
			return true
		}
	}
	return false
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion(args []string) bool {
	if len(args) < 2 {
		return false
	}
	arg := args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
       _       _           _
   ___| |_ _ _(_)_ _  __| |_____ __
  (_-<  _| '_| | ' \/ _' / -_) \ /
  /__/\__|_| |_|_||_\__,_\___/_\_\

  String analysis store

  Usage: strindex <command> [options]
         strindex --help

  MCP server mode requires piped input.`)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion(os.Args) {
		app := newCLIApp(nil, nil)
		if err := app.Run(os.Args); err != nil {
			fatal("%v", err)
		}
		return
	}

	baseDir, err := config.BaseDir()
	if err != nil {
		fatal("%v", err)
	}

	cfg, err := config.Load(baseDir)
	if err != nil {
		fatal("failed to load config: %v", err)
	}

	if err := logger.Init(cfg.LogEnv); err != nil {
		fatal("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	database, err := db.Init(baseDir)
	if err != nil {
		fatal("failed to initialize database: %v", err)
	}
	defer database.Close()
	db.ConfigurePool(database, cfg)

	// CLI mode: known subcommand
	if isCLIMode(os.Args) {
		app := newCLIApp(database, cfg)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintln(os.Stderr, err)
			logger.Sync()
			database.Close()
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'strindex --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	logger.Get().Info("starting MCP server", zap.String("version", Version), zap.String("base_dir", baseDir))
	if err := mcp.Run(database, cfg, Version); err != nil {
		logger.Get().Error("MCP server stopped", zap.Error(err))
		os.Exit(1)
	}
}
