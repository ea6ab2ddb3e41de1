package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/fwojciec/linkcrawl/crawl"
	"github.com/fwojciec/linkcrawl/rod"
	lcslog "github.com/fwojciec/linkcrawl/slog"
	"github.com/fwojciec/linkcrawl/sources"
	"github.com/fwojciec/linkcrawl/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Browser automation engine, launched only for commands that extract.
	Browser *rod.Browser
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.Browser != nil {
		_ = m.Browser.Close()
	}
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	logger := slog.New(slog.NewTextHandler(stderr, nil))

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("linkcrawl"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'linkcrawl --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// The article store backs serve, list, delete, and crawl --store.
	needsDB := cmd == "serve" || cmd == "list" || cmd == "delete" || (cmd == "crawl" && cli.Crawl.Store)
	if needsDB {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set LINKCRAWL_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		deps.DB = m.DB
		deps.Articles = lcslog.NewLoggingArticleService(sqlite.NewArticleService(m.DB), logger)
	}
	defer m.Close()

	// Extraction commands need a browser and the full strategy set.
	if cmd == "crawl" || cmd == "serve" {
		browser, err := rod.NewBrowser()
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		m.Browser = browser

		deps.Crawler = crawl.New(browser,
			crawl.WithStrategies(sources.Defaults(logger)...),
			crawl.WithHeadfulHosts(sources.HeadfulHosts()...),
			crawl.WithDomainLimiter(1.0),
			crawl.WithLogger(logger),
		)
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("LINKCRAWL_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "linkcrawl.db"
	}
	dir := filepath.Join(home, ".linkcrawl")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "linkcrawl.db")
}
