package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/fpx"
	"github.com/fwojciec/fpx/fs"
	"github.com/fwojciec/fpx/goquery"
	"github.com/fwojciec/fpx/htmltomarkdown"
	fpxhttp "github.com/fwojciec/fpx/http"
	fpxlru "github.com/fwojciec/fpx/lru"
	"github.com/fwojciec/fpx/paging"
	fpxprom "github.com/fwojciec/fpx/prometheus"
	fpxslog "github.com/fwojciec/fpx/slog"
	"github.com/fwojciec/fpx/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()
	m.Stdin = os.Stdin

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Overrides the configured cache path when set.
	DBPath string

	// Interactive input for the browse command.
	Stdin io.Reader

	// SQLite database backing the page cache.
	DB *sqlite.DB

	// Metrics collected during the run.
	Metrics *fpxprom.Metrics
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) (err error) {
	stdin := m.Stdin
	if stdin == nil {
		stdin = eofReader{}
	}
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("fpx"),
		kong.Description("Browse 500px photo feeds from the terminal."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'fpx --help' to see available commands")
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

	cfg, err := LoadConfig(cli.Config)
	if err != nil {
		return err
	}
	cfg.apply(cli)

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	m.Metrics = fpxprom.NewMetrics(nil)
	if cli.MetricsFile != "" {
		defer func() {
			if werr := m.Metrics.WriteTextfile(cli.MetricsFile); werr != nil && err == nil {
				err = fmt.Errorf("failed to write metrics: %w", werr)
			}
		}()
	}

	client := fpxhttp.NewClient(
		fpxhttp.WithBaseURL(cfg.BaseURL),
		fpxhttp.WithConsumerKey(cfg.ConsumerKey),
		fpxhttp.WithTimeout(cfg.Timeout),
		fpxhttp.WithRateLimit(cfg.RateLimit),
	)

	var fetcher fpx.PhotoFetcher = fpxprom.NewPhotoFetcher(client, m.Metrics)
	fetcher = fpxslog.NewLoggingPhotoFetcher(fetcher, logger)
	fetcher = &paging.BackoffFetcher{Fetcher: fetcher, Logger: logger}

	finder, err := fpxlru.NewPhotoFinder(
		fpxslog.NewLoggingPhotoFinder(fpxprom.NewPhotoFinder(client, m.Metrics), logger),
		fpxlru.DefaultSize,
	)
	if err != nil {
		return err
	}

	usesCache := strings.HasPrefix(kongCtx.Command(), "cache ")
	if !cli.NoCache || usesCache {
		dbPath := m.DBPath
		if dbPath == "" {
			dbPath = cfg.Cache.Path
		}
		m.DB = sqlite.NewDB(dbPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set FPX_DB or --no-cache to avoid the page cache\n")
			return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
		}
		defer m.Close()

		cache := sqlite.NewPageCache(m.DB)
		deps.Cache = cache
		if !cli.NoCache {
			fetcher = &paging.CachingFetcher{
				Fetcher: fetcher,
				Cache:   cache,
				MaxAge:  cfg.Cache.MaxAge,
				Logger:  logger,
			}
		}
	}

	converter := htmltomarkdown.NewConverter()
	deps.Logger = logger
	deps.Feed = cfg.Feed
	deps.PageSize = cfg.PageSize
	deps.Dedupe = cfg.Dedupe
	deps.Fetcher = fetcher
	deps.Finder = finder
	deps.Converter = converter
	deps.TextConverter = goquery.NewTextConverter()
	deps.NewStore = func(dir, name string) fpx.PhotoStore {
		return fs.NewFileStore(dir, name, converter)
	}

	return kongCtx.Run(deps)
}

// eofReader is an empty stdin.
type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }
