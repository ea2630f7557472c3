package scraper

import (
	"context"
	"iter"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeFAU/bbref-scraper/internal/fetch"
)

const (
	meloURL   = "https://www.basketball-reference.com/players/a/anthoca01.html"
	ervingURL = "https://www.basketball-reference.com/players/e/ervinju01.html"
)

func collectPlayers(t *testing.T, seq iter.Seq2[*Player, error]) ([]*Player, []error) {
	t.Helper()
	var players []*Player
	var errs []error
	for p, err := range seq {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		players = append(players, p)
	}
	return players, errs
}

func TestPlayersDeduplicates(t *testing.T) {
	t.Parallel()

	c, f := newTestClient(t, nil)
	players, errs := collectPlayers(t, c.Players(context.Background(), []string{meloURL, meloURL}))
	require.Empty(t, errs)
	require.Len(t, players, 1)
	assert.Equal(t, "anthoca01", players[0].ID)
	assert.Equal(t, 1, f.Hits(meloURL))
}

func TestPlayersReportsFailuresAndContinues(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, nil)
	missing := "https://www.basketball-reference.com/players/j/jordami01.html"
	players, errs := collectPlayers(t, c.Players(context.Background(), []string{meloURL, missing, " ", ervingURL}))

	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], fetch.ErrNotFound)
	assert.Contains(t, errs[0].Error(), missing)

	ids := make([]string, 0, len(players))
	for _, p := range players {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []string{"anthoca01", "ervinju01"}, ids)
}

func TestPlayersEmptyInput(t *testing.T) {
	t.Parallel()

	c, f := newTestClient(t, nil)
	players, errs := collectPlayers(t, c.Players(context.Background(), nil))
	assert.Empty(t, players)
	assert.Empty(t, errs)
	assert.Zero(t, f.Hits(meloURL))
}

// gateFetcher blocks every fetch of a gated locator until release is
// closed, so a test can observe results arriving before the batch ends.
type gateFetcher struct {
	*siteFetcher
	gated   string
	release chan struct{}
}

func (g *gateFetcher) Fetch(ctx context.Context, locator string) ([]byte, error) {
	if locator == g.gated {
		select {
		case <-g.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return g.siteFetcher.Fetch(ctx, locator)
}

func TestPlayersStreamsBeforeBatchCompletes(t *testing.T) {
	t.Parallel()

	g := &gateFetcher{siteFetcher: newSiteFetcher(nil), gated: ervingURL, release: make(chan struct{})}
	c := NewClient(g, Options{Workers: 2, Logger: zap.NewNop()})

	next, stop := iter.Pull2(c.Players(context.Background(), []string{ervingURL, meloURL}))
	defer stop()

	p, err, ok := next()
	require.True(t, ok)
	require.NoError(t, err)
	assert.Equal(t, "anthoca01", p.ID, "the ungated page arrives while the other is still blocked")

	close(g.release)
	p, err, ok = next()
	require.True(t, ok)
	require.NoError(t, err)
	assert.Equal(t, "ervinju01", p.ID)

	_, _, ok = next()
	assert.False(t, ok)
}

func TestPlayersStopEarlyCancelsOutstanding(t *testing.T) {
	t.Parallel()

	g := &gateFetcher{siteFetcher: newSiteFetcher(nil), gated: ervingURL, release: make(chan struct{})}
	c := NewClient(g, Options{Workers: 1, Logger: zap.NewNop()})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for p, err := range c.Players(context.Background(), []string{meloURL, ervingURL}) {
			assert.NoError(t, err)
			assert.Equal(t, "anthoca01", p.ID)
			break
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("breaking out of the loop did not release the gated fetch")
	}
}

func TestPlayersHonorsContext(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	players, errs := collectPlayers(t, c.Players(ctx, []string{meloURL, ervingURL}))
	assert.Empty(t, players)
	require.NotEmpty(t, errs)
	require.ErrorIs(t, errs[len(errs)-1], context.Canceled)
}

func TestSeasonPlayers(t *testing.T) {
	t.Parallel()

	c, f := newTestClient(t, nil)
	urls, err := c.SeasonPlayerURLs(context.Background(), 2011)
	require.NoError(t, err)
	assert.Equal(t, []string{meloURL, meloURL, meloURL}, urls)

	players, errs := collectPlayers(t, c.SeasonPlayers(context.Background(), 2011))
	require.Empty(t, errs)
	require.Len(t, players, 1)
	assert.Equal(t, 1, f.Hits(meloURL))
}

func TestPlayersFromList(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, nil)
	list := "https://www.basketball-reference.com/leaders/pts_career.html"

	urls, err := c.PlayerURLs(context.Background(), list)
	require.NoError(t, err)
	require.Len(t, urls, 3)
	assert.Equal(t, meloURL, urls[0])

	players, errs := collectPlayers(t, c.PlayersFromList(context.Background(), list))
	assert.Len(t, players, 2)
	assert.Len(t, errs, 1)
}

func TestPlayersFromMissingList(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, nil)
	players, errs := collectPlayers(t, c.PlayersFromList(context.Background(), "https://www.basketball-reference.com/leaders/none.html"))
	assert.Empty(t, players)
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], fetch.ErrNotFound)
}

func TestDedupe(t *testing.T) {
	t.Parallel()

	got := dedupe([]string{"b", "a", " b ", "", "c", "a"})
	assert.Equal(t, []string{"b", "a", "c"}, got)
}
