package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/webhist"
	"github.com/fwojciec/webhist/goquery"
	webhisthttp "github.com/fwojciec/webhist/http"
	"github.com/fwojciec/webhist/search"
	webhistslog "github.com/fwojciec/webhist/slog"
	"github.com/fwojciec/webhist/sqlite"
	"github.com/google/uuid"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		stop()
		if webhist.ErrorCode(err) == webhist.EINVALID {
			fmt.Fprintf(os.Stderr, "error: %s\n", webhist.ErrorMessage(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
	stop()
}

// Main represents the program.
type Main struct {
	// Database path, used unless --db or WEBHIST_DB is given. Set before calling Run().
	DBPath string

	// Config file consulted for flag defaults. Missing files are ignored.
	ConfigPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	WebsiteService webhist.WebsiteService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:     defaultDBPath(),
		ConfigPath: defaultConfigPath,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run parses flags, opens the database and runs the interactive menu.
// Cancellation of ctx ends the menu without an error.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("webhist"),
		kong.Description("Keep a history of websites and search the text of their pages."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Configuration(YAMLConfig, m.ConfigPath),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			_, _ = parser.Parse([]string{"--help"})
			return nil
		}
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	if cli.Concurrency < 1 {
		return webhist.Errorf(webhist.EINVALID, "concurrency must be at least 1")
	}
	if cli.MatchLimit < 1 {
		return webhist.Errorf(webhist.EINVALID, "match limit must be at least 1")
	}
	if cli.Timeout < 0 {
		return webhist.Errorf(webhist.EINVALID, "timeout must not be negative")
	}
	if cli.Retries < 0 {
		return webhist.Errorf(webhist.EINVALID, "retries must not be negative")
	}

	if cli.DB != "" {
		m.DBPath = cli.DB
	}

	logger := newLogger(stderr, cli.Verbose)

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set WEBHIST_DB or --db to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.WebsiteService = webhistslog.NewLoggingWebsiteService(sqlite.NewWebsiteService(m.DB), logger)

	fetcher := webhistslog.NewLoggingFetcher(webhisthttp.NewFetcher(webhisthttp.WithTimeout(cli.Timeout)), logger)
	defer fetcher.Close()

	searcher := &search.Searcher{
		Websites:    m.WebsiteService,
		Fetcher:     fetcher,
		Extractor:   goquery.NewExtractor(),
		Logger:      logger,
		MatchLimit:  cli.MatchLimit,
		Concurrency: cli.Concurrency,
		RetryDelays: search.RetryDelays(cli.Retries),
	}
	if cli.Rate > 0 {
		searcher.RateLimiter = search.NewDomainLimiter(cli.Rate)
	}

	deps := &Dependencies{
		Ctx:      ctx,
		Stdin:    stdin,
		Stdout:   stdout,
		Stderr:   stderr,
		Websites: m.WebsiteService,
		Searcher: searcher,
	}

	if err := NewMenu(deps).Run(); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	return nil
}

// newLogger returns a text logger tagged with a per-run session ID.
// Only warnings are shown unless verbose is set.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("session", uuid.NewString())
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "websites.db"
	}
	dir := filepath.Join(home, ".webhist")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "websites.db")
}
