package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/outreach/internal/config"
	"github.com/hpungsan/outreach/internal/db"
	"github.com/hpungsan/outreach/internal/logging"
	"github.com/hpungsan/outreach/internal/mcp"
	"github.com/hpungsan/outreach/internal/ops"
	"github.com/hpungsan/outreach/internal/store"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"add": true, "edit": true, "show": true, "delete": true,
	"list": true, "alerts": true,
	"bulk-status": true, "bulk-delete": true,
	"export": true, "import": true,
	"serve": true, "signup": true, "signin": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode(args []string) bool {
	if len(args) < 2 {
		return false // No args → MCP server
	}
	arg := args[1]
	if cliCommands[arg] {
		return true
	}
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
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
   ___  _   _ _____ ____  _____    _    ____ _   _
  / _ \| | | |_   _|  _ \| ____|  / \  / ___| | | |
 | | | | | | | | | | |_) |  _|   / _ \| |   | |_| |
 | |_| | |_| | | | |  _ <| |___ / ___ \ |___|  _  |
  \___/ \___/  |_| |_| \_\_____/_/   \_\____|_| |_|

  Contact outreach tracker

  Usage: outreach <command> [options]
         outreach serve        start the web UI
         outreach --help

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

	// Handle --help/--version before any storage is opened
	if isHelpOrVersion(os.Args) {
		app := newCLIApp(nil)
		if err := app.Run(os.Args); err != nil {
			fatal("%v", err)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && !isCLIMode(os.Args) && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'outreach --help' for usage.\n")
		os.Exit(1)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fatal("could not determine home directory: %v", err)
	}
	baseDir := filepath.Join(homeDir, ".outreach")

	database, err := db.Init(baseDir)
	if err != nil {
		fatal("failed to initialize database: %v", err)
	}
	defer database.Close()

	var cfg *config.Config
	if wd, wdErr := os.Getwd(); wdErr == nil {
		cfg, err = config.LoadWithRepo(baseDir, wd)
	} else {
		cfg, err = config.Load(baseDir)
	}
	if err != nil {
		fatal("failed to load config: %v", err)
	}
	db.ConfigurePool(database, cfg)

	log := logging.New(os.Stderr, cfg.LogLevel)
	ctx := context.Background()

	provider, err := store.New(ctx, cfg, baseDir, database)
	if err != nil {
		fatal("failed to open storage: %v", err)
	}
	tr, err := ops.Open(ctx, provider, cfg, log)
	if err != nil {
		fatal("failed to open tracker: %v", err)
	}

	env := &appEnv{tracker: tr, cfg: cfg, db: database, log: log}

	if isCLIMode(os.Args) {
		app := newCLIApp(env)
		if err := app.Run(os.Args); err != nil {
			database.Close()
			fatal("%v", err)
		}
		return
	}

	// MCP server mode (default)
	if err := mcp.Run(tr, cfg, log, Version); err != nil {
		database.Close()
		fatal("%v", err)
	}
}
