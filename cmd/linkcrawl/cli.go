package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/linkcrawl"
	"github.com/fwojciec/linkcrawl/crawl"
	"github.com/fwojciec/linkcrawl/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	DB       *sqlite.DB
	Articles linkcrawl.ArticleService
	Crawler  *crawl.Crawler
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Crawl  CrawlCmd  `cmd:"" help:"Extract article lists from one or more URLs"`
	Serve  ServeCmd  `cmd:"" help:"Run the HTTP API"`
	List   ListCmd   `cmd:"" help:"List stored articles"`
	Delete DeleteCmd `cmd:"" help:"Delete a stored article by URL"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URLs        []string `arg:"" help:"Target URLs"`
	MaxItems    int      `short:"n" default:"20" help:"Maximum articles per URL"`
	Concurrency int      `short:"c" default:"3" help:"Concurrent extraction limit"`
	Store       bool     `short:"s" help:"Persist extracted articles to the database"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:":8080" help:"Listen address"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Source string `help:"Filter by source strategy name"`
	Limit  int    `default:"50" help:"Maximum articles to list"`
	Offset int    `help:"Listing offset"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	URL string `arg:"" help:"Article URL"`
}
