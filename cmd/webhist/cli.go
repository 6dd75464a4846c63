package main

import (
	"context"
	"io"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/webhist"
	"github.com/fwojciec/webhist/search"
)

// Dependencies holds all services and I/O for the interactive menu.
type Dependencies struct {
	Ctx      context.Context
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	Websites webhist.WebsiteService
	Searcher *search.Searcher
}

// CLI defines the command-line flags for Kong. Every flag can also be set
// through its environment variable or the YAML config file.
type CLI struct {
	DB          string          `name:"db" env:"WEBHIST_DB" placeholder:"PATH" help:"Database path (default: ~/.webhist/websites.db)"`
	Timeout     time.Duration   `default:"10s" env:"WEBHIST_TIMEOUT" help:"Fetch timeout per page"`
	Retries     int             `default:"0" env:"WEBHIST_RETRIES" help:"Retry attempts per failed fetch"`
	Rate        float64         `default:"0" env:"WEBHIST_RATE" help:"Maximum requests per second per host (0 = unlimited)"`
	Concurrency int             `short:"c" default:"1" env:"WEBHIST_CONCURRENCY" help:"Websites fetched at once during search"`
	MatchLimit  int             `default:"3" env:"WEBHIST_MATCH_LIMIT" help:"Matches shown per website during search"`
	Verbose     bool            `short:"v" env:"WEBHIST_VERBOSE" help:"Log fetches and database calls to stderr"`
	Config      kong.ConfigFlag `placeholder:"FILE" help:"Load flag defaults from a YAML file"`
}
