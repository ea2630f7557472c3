// Package fetch retrieves raw page bytes from the reference site or from
// saved copies on disk.
//
// A Fetcher is shared by every parser in the process. It keeps a bounded LRU
// cache of remote pages, collapses concurrent requests for the same URL, and
// spaces the start of requests to each host by a minimum interval.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/JakeFAU/bbref-scraper/internal/metrics"
)

// Defaults applied by New for zero Config fields.
const (
	DefaultCacheSize   = 100
	DefaultMinInterval = 100 * time.Millisecond
	DefaultTimeout     = 30 * time.Second
	DefaultUserAgent   = "bbref-scraper/0.1"
)

// Config controls a Fetcher.
type Config struct {
	UserAgent      string
	Timeout        time.Duration
	MinInterval    time.Duration
	CacheSize      int
	MaxRetries     int
	BackoffInitial time.Duration
	BackoffMax     time.Duration
}

// Fetcher reads locators. It is safe for concurrent use.
type Fetcher struct {
	cfg    Config
	logger *zap.Logger
	base   *colly.Collector
	cache  *lru.Cache[string, []byte]
	group  singleflight.Group
	pacer  *pacer
	retry  *retryPolicy
}

// New builds a Fetcher.
func New(cfg Config, logger *zap.Logger) (*Fetcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	if cfg.MinInterval < 0 {
		cfg.MinInterval = 0
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	cache, err := lru.New[string, []byte](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("build page cache: %w", err)
	}
	metrics.Init()

	c := colly.NewCollector(
		colly.Async(false),
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
		colly.MaxBodySize(32<<20),
	)
	c.WithTransport(newHTTPTransport())
	c.SetRequestTimeout(cfg.Timeout)

	return &Fetcher{
		cfg:    cfg,
		logger: logger,
		base:   c,
		cache:  cache,
		pacer:  newPacer(cfg.MinInterval),
		retry:  newRetryPolicy(cfg.MaxRetries, cfg.BackoffInitial, cfg.BackoffMax),
	}, nil
}

// Fetch returns the bytes behind locator: an http(s) URL or a file path.
// Remote bodies are cached and shared between callers, who must not modify
// them.
func (f *Fetcher) Fetch(ctx context.Context, locator string) ([]byte, error) {
	loc := strings.TrimSpace(locator)
	if loc == "" {
		return nil, fmt.Errorf("%w: empty locator", ErrInvalidLocator)
	}
	if strings.HasPrefix(loc, "http") {
		return f.fetchRemote(ctx, loc)
	}
	return f.readFile(loc)
}

// Cached reports whether rawURL is in the page cache.
func (f *Fetcher) Cached(rawURL string) bool {
	return f.cache.Contains(rawURL)
}

func (f *Fetcher) readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		metrics.ObserveFetch(metrics.SourceFile, "error", 0)
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		metrics.ObserveFetch(metrics.SourceFile, "error", 0)
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidLocator, path)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		metrics.ObserveFetch(metrics.SourceFile, "error", 0)
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	metrics.ObserveFetch(metrics.SourceFile, "ok", len(body))
	return body, nil
}

func (f *Fetcher) fetchRemote(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLocator, rawURL)
	}
	key := u.String()
	if body, ok := f.cache.Get(key); ok {
		metrics.ObserveCacheHit()
		metrics.ObserveFetch(metrics.SourceCache, "ok", len(body))
		f.logger.Debug("page cache hit", zap.String("url", key))
		return body, nil
	}

	// The shared fetch outlives any one caller; the collector timeout bounds it.
	detached := context.WithoutCancel(ctx)
	ch := f.group.DoChan(key, func() (any, error) {
		if body, ok := f.cache.Get(key); ok {
			return body, nil
		}
		body, err := f.fetchWithRetry(detached, key, u.Hostname())
		if err != nil {
			return nil, err
		}
		f.cache.Add(key, body)
		return body, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("fetch %s: %w", key, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			f.logger.Debug("joined in-flight fetch", zap.String("url", key))
		}
		body, _ := res.Val.([]byte)
		return body, nil
	}
}

func (f *Fetcher) fetchWithRetry(ctx context.Context, rawURL, host string) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		if err := f.pacer.Wait(ctx, host); err != nil {
			return nil, err
		}
		start := time.Now()
		f.logger.Debug("fetching page", zap.String("url", rawURL), zap.Int("attempt", attempt+1))
		body, err := f.visit(ctx, rawURL)
		if err == nil {
			metrics.ObserveFetch(metrics.SourceRemote, "ok", len(body))
			f.logger.Debug("fetched page",
				zap.String("url", rawURL),
				zap.Int("bytes", len(body)),
				zap.Duration("duration", time.Since(start)),
			)
			return body, nil
		}
		if !f.retry.ShouldRetry(err, attempt) {
			metrics.ObserveFetch(metrics.SourceRemote, "error", 0)
			return nil, err
		}
		backoff := f.retry.Backoff(attempt)
		metrics.ObserveRetry()
		f.logger.Warn("retrying fetch",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		if err := sleep(ctx, backoff); err != nil {
			return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
		}
	}
}

// visit runs one GET through a cloned collector.
func (f *Fetcher) visit(ctx context.Context, rawURL string) ([]byte, error) {
	var (
		body   []byte
		status int
	)
	collector := f.base.Clone()
	collector.AllowURLRevisit = true
	collector.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(r *colly.Response, _ error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(rawURL)
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("fetch %s: %w", rawURL, ctx.Err())
	case err := <-done:
		if status != 0 && (status < http.StatusOK || status >= http.StatusMultipleChoices) {
			return nil, &RemoteError{URL: rawURL, StatusCode: status}
		}
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
		}
		return body, nil
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
