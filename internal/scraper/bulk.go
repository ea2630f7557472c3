package scraper

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/JakeFAU/bbref-scraper/internal/metrics"
)

type bulkResult struct {
	player *Player
	err    error
}

// Players fetches every distinct locator with at most Options.Workers
// pages in flight and yields players as they complete, so the first
// results arrive before the batch is done. Order follows completion, not
// input. A failed page yields a nil player and an error naming its
// locator; the rest of the batch continues. Breaking out of the loop
// cancels the outstanding fetches.
func (c *Client) Players(ctx context.Context, locators []string) iter.Seq2[*Player, error] {
	return func(yield func(*Player, error) bool) {
		urls := dedupe(locators)
		if len(urls) == 0 {
			return
		}
		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		out := make(chan bulkResult)
		go func() {
			defer close(out)
			var g errgroup.Group
			g.SetLimit(c.workers)
			for _, u := range urls {
				if runCtx.Err() != nil {
					break
				}
				g.Go(func() error {
					metrics.IncBulkInflight()
					defer metrics.DecBulkInflight()
					p, err := c.Player(runCtx, u)
					if err != nil {
						c.logger.Warn("bulk player fetch failed", zap.String("locator", u), zap.Error(err))
						err = fmt.Errorf("player %s: %w", u, err)
					}
					select {
					case out <- bulkResult{player: p, err: err}:
					case <-runCtx.Done():
					}
					return nil
				})
			}
			_ = g.Wait()
		}()

		for r := range out {
			if !yield(r.player, r.err) {
				cancel()
				for range out {
				}
				return
			}
		}
		if err := ctx.Err(); err != nil {
			yield(nil, err)
		}
	}
}

// SeasonPlayers reads every player on the league totals page for the
// season ending in year.
func (c *Client) SeasonPlayers(ctx context.Context, year int) iter.Seq2[*Player, error] {
	return func(yield func(*Player, error) bool) {
		urls, err := c.SeasonPlayerURLs(ctx, year)
		if err != nil {
			yield(nil, err)
			return
		}
		for p, err := range c.Players(ctx, urls) {
			if !yield(p, err) {
				return
			}
		}
	}
}

// PlayersFromList reads every player linked from a list page.
func (c *Client) PlayersFromList(ctx context.Context, locator string) iter.Seq2[*Player, error] {
	return func(yield func(*Player, error) bool) {
		urls, err := c.PlayerURLs(ctx, locator)
		if err != nil {
			yield(nil, err)
			return
		}
		for p, err := range c.Players(ctx, urls) {
			if !yield(p, err) {
				return
			}
		}
	}
}

// dedupe drops blank and repeated locators, keeping first-seen order.
func dedupe(locators []string) []string {
	seen := make(map[string]struct{}, len(locators))
	out := make([]string, 0, len(locators))
	for _, l := range locators {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
