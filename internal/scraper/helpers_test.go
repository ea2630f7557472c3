package scraper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeFAU/bbref-scraper/internal/document"
	"github.com/JakeFAU/bbref-scraper/internal/fetch"
)

// siteFetcher serves site URLs from testdata/site, mirroring the site's
// path layout. Pages addressed with a query string are looked up in pages.
type siteFetcher struct {
	root  string
	pages map[string]string

	mu   sync.Mutex
	hits map[string]int
}

func newSiteFetcher(pages map[string]string) *siteFetcher {
	return &siteFetcher{
		root:  filepath.Join("testdata", "site"),
		pages: pages,
		hits:  make(map[string]int),
	}
}

func (f *siteFetcher) Fetch(ctx context.Context, locator string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.hits[locator]++
	f.mu.Unlock()

	path, ok := f.pages[locator]
	if !ok {
		rel, found := strings.CutPrefix(locator, DefaultBaseURL)
		if !found {
			return nil, fmt.Errorf("%w: %s", fetch.ErrInvalidLocator, locator)
		}
		if rel == "" || strings.HasSuffix(rel, "/") {
			rel += "index.html"
		}
		path = filepath.Join(f.root, filepath.FromSlash(rel))
	}
	body, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", fetch.ErrNotFound, locator)
	}
	return body, err
}

func (f *siteFetcher) Hits(locator string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[locator]
}

func newTestClient(t *testing.T, pages map[string]string) (*Client, *siteFetcher) {
	t.Helper()
	f := newSiteFetcher(pages)
	return NewClient(f, Options{Logger: zap.NewNop()}), f
}

func loadPlayer(t *testing.T, c *Client, id string) *Player {
	t.Helper()
	p, err := c.PlayerByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func ptr[T any](v T) *T {
	return &v
}

func mustDocument(t *testing.T, body string) *document.Document {
	t.Helper()
	doc, err := document.Parse([]byte(body))
	require.NoError(t, err)
	return doc
}
