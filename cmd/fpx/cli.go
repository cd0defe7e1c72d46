package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/fpx"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Feed     string
	PageSize int
	Dedupe   bool

	Fetcher       fpx.PhotoFetcher
	Finder        fpx.PhotoFinder
	Cache         fpx.PageCache
	Converter     fpx.Converter
	TextConverter fpx.Converter
	NewStore      func(dir, name string) fpx.PhotoStore
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config      string  `help:"Config file path" type:"path"`
	ConsumerKey string  `name:"consumer-key" help:"500px API consumer key"`
	BaseURL     string  `name:"base-url" help:"API base URL"`
	PageSize    int     `name:"page-size" help:"Photos per page"`
	RateLimit   float64 `name:"rate-limit" help:"Maximum API requests per second (0 disables)"`
	Verbose     bool    `short:"v" help:"Enable debug logging"`
	NoCache     bool    `name:"no-cache" help:"Bypass the local page cache"`
	MetricsFile string  `name:"metrics-file" type:"path" help:"Write Prometheus metrics to this file on exit"`

	Browse BrowseCmd `cmd:"" help:"Browse a feed interactively"`
	Pages  PagesCmd  `cmd:"" help:"Print the photos of the first pages of a feed"`
	Show   ShowCmd   `cmd:"" help:"Show photo details"`
	Export ExportCmd `cmd:"" help:"Export a feed as markdown files"`
	Cache  CacheCmd  `cmd:"" help:"Manage the local page cache"`
}

// BrowseCmd is the "browse" subcommand.
type BrowseCmd struct {
	Feed     string `arg:"" optional:"" help:"Feed name (popular, upcoming, editors, fresh_today, ...)"`
	Prefetch int    `default:"-1" help:"Load the next page when this close to the end (default: page size)"`
}

// PagesCmd is the "pages" subcommand.
type PagesCmd struct {
	Feed  string `arg:"" optional:"" help:"Feed name"`
	Pages int    `short:"n" default:"1" help:"Number of pages to load"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	IDs         []int64 `arg:"" name:"id" help:"Photo IDs"`
	Concurrency int     `short:"c" default:"4" help:"Concurrent lookup limit"`
	Plain       bool    `help:"Print descriptions as plain text instead of markdown"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Dir   string `arg:"" type:"path" help:"Output directory"`
	Feed  string `arg:"" optional:"" help:"Feed name"`
	Pages int    `short:"n" default:"1" help:"Number of pages to export"`
}

// CacheCmd is the "cache" subcommand group.
type CacheCmd struct {
	Clear CacheClearCmd `cmd:"" help:"Remove cached pages"`
	Stats CacheStatsCmd `cmd:"" help:"Show cached pages per feed"`
}

// CacheClearCmd is the "cache clear" subcommand.
type CacheClearCmd struct {
	Feed string `arg:"" optional:"" help:"Only clear this feed"`
}

// CacheStatsCmd is the "cache stats" subcommand.
type CacheStatsCmd struct{}

func (d *Dependencies) feedOr(feed string) string {
	if feed != "" {
		return feed
	}
	if d.Feed != "" {
		return d.Feed
	}
	return fpx.DefaultFeed
}
