package scraper

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/JakeFAU/bbref-scraper/internal/document"
	"github.com/JakeFAU/bbref-scraper/internal/metrics"
)

// Fetcher retrieves raw page bytes for a URL or file path.
type Fetcher interface {
	Fetch(ctx context.Context, locator string) ([]byte, error)
}

// DefaultWorkers bounds bulk retrieval when Options.Workers is unset.
const DefaultWorkers = 10

// Options configures a Client.
type Options struct {
	Site    Site
	Workers int
	Logger  *zap.Logger
}

// Client runs the fetch and parse pipeline for every entity. Records it
// returns carry the client so their lazy relations can fetch more pages.
type Client struct {
	fetcher Fetcher
	site    Site
	workers int
	logger  *zap.Logger
}

// NewClient builds a Client. A zero Options.Site uses DefaultBaseURL.
func NewClient(fetcher Fetcher, opts Options) *Client {
	if opts.Site.base == nil {
		opts.Site = MustSite(DefaultBaseURL)
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Client{
		fetcher: fetcher,
		site:    opts.Site,
		workers: opts.Workers,
		logger:  opts.Logger,
	}
}

// Site returns the client's URL builder.
func (c *Client) Site() Site {
	return c.site
}

func (c *Client) load(ctx context.Context, locator string) (*document.Document, error) {
	body, err := c.fetcher.Fetch(ctx, locator)
	if err != nil {
		return nil, err
	}
	doc, err := document.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", locator, err)
	}
	return doc, nil
}

// observe records a parse outcome and logs failures.
func (c *Client) observe(entity, locator string, err error) {
	metrics.ObserveParse(entity, err)
	if err != nil {
		c.logger.Debug("parse failed",
			zap.String("entity", entity),
			zap.String("locator", locator),
			zap.Error(err),
		)
	}
}
