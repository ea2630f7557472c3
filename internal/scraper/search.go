package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/JakeFAU/bbref-scraper/internal/document"
)

// SearchKind selects a section of the search results page.
type SearchKind string

const (
	// SearchPlayers selects player matches.
	SearchPlayers SearchKind = "players"
	// SearchTeams selects franchise matches.
	SearchTeams SearchKind = "teams"
)

// ParseSearchKind accepts "players", "teams" or "" (players).
func ParseSearchKind(s string) (SearchKind, error) {
	switch SearchKind(s) {
	case "", SearchPlayers:
		return SearchPlayers, nil
	case SearchTeams:
		return SearchTeams, nil
	default:
		return "", fmt.Errorf("unknown search kind %q", s)
	}
}

// SearchResult is one hit on the search page.
type SearchResult struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Search queries the site and returns the hits of one kind. A query that
// matches a single page exactly is redirected there by the site; that page
// comes back as the only result.
func (c *Client) Search(ctx context.Context, query string, kind SearchKind) ([]SearchResult, error) {
	results, err := c.search(ctx, query, kind)
	c.observe("search", query, err)
	return results, err
}

// SearchPlayers is Search restricted to players.
func (c *Client) SearchPlayers(ctx context.Context, query string) ([]SearchResult, error) {
	return c.Search(ctx, query, SearchPlayers)
}

// SearchTeams is Search restricted to franchises.
func (c *Client) SearchTeams(ctx context.Context, query string) ([]SearchResult, error) {
	return c.Search(ctx, query, SearchTeams)
}

func (c *Client) search(ctx context.Context, query string, kind SearchKind) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty search query", ErrMissingIdentity)
	}
	doc, err := c.load(ctx, c.site.Search(strings.TrimSpace(query)))
	if err != nil {
		return nil, err
	}
	return c.searchResults(doc, kind), nil
}

func (c *Client) searchResults(doc *document.Document, kind SearchKind) []SearchResult {
	results := make([]SearchResult, 0)
	if doc.Find("div#info").Length() > 0 {
		canonical, ok := doc.CanonicalURL()
		if !ok {
			return results
		}
		name, _ := doc.ItemProperty("name", "", "h1")
		return append(results, SearchResult{Name: name, URL: canonical})
	}
	doc.Find(fmt.Sprintf("div#%s div.search-item", kind)).Each(func(_ int, item *goquery.Selection) {
		a := item.Find("div.search-item-name a").First()
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		results = append(results, SearchResult{
			Name: strings.TrimSpace(a.Text()),
			URL:  c.site.Abs(href),
		})
	})
	return results
}

// PlayerByName returns the first player the search finds for name.
func (c *Client) PlayerByName(ctx context.Context, name string) (*Player, error) {
	results, err := c.Search(ctx, name, SearchPlayers)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("player %q: %w", name, ErrNoSearchResult)
	}
	return c.Player(ctx, results[0].URL)
}

// TeamByName returns the first franchise the search finds for name.
func (c *Client) TeamByName(ctx context.Context, name string) (*Team, error) {
	results, err := c.Search(ctx, name, SearchTeams)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("team %q: %w", name, ErrNoSearchResult)
	}
	return c.Team(ctx, results[0].URL)
}
