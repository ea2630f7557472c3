package cmd

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/JakeFAU/bbref-scraper/internal/scraper"
)

// playerIDExpr matches site ids such as anthoca01.
var playerIDExpr = regexp.MustCompile(`^[a-z'.]{2,8}\d{2}$`)

// isLocator reports whether arg is a URL or a saved page rather than an id
// or a name.
func isLocator(arg string) bool {
	return strings.HasPrefix(arg, "http") || strings.HasSuffix(arg, ".html") || strings.ContainsAny(arg, `/\`)
}

// findPlayer accepts a URL or file path, a site id, or a name to search for.
func findPlayer(ctx context.Context, c *scraper.Client, arg string) (*scraper.Player, error) {
	arg = strings.TrimSpace(arg)
	switch {
	case isLocator(arg):
		return c.Player(ctx, arg)
	case playerIDExpr.MatchString(arg):
		return c.PlayerByID(ctx, arg)
	default:
		return c.PlayerByName(ctx, arg)
	}
}

// playerPage returns the page URL for a player argument without fetching
// it when the argument already identifies the page.
func playerPage(ctx context.Context, c *scraper.Client, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	switch {
	case strings.HasPrefix(arg, "http"):
		return arg, nil
	case playerIDExpr.MatchString(arg):
		return c.Site().Player(arg), nil
	}
	p, err := findPlayer(ctx, c, arg)
	if err != nil {
		return "", err
	}
	if p.URL == "" {
		return "", fmt.Errorf("player %q: %w", arg, scraper.ErrMissingIdentity)
	}
	return p.URL, nil
}

// findTeam accepts a team code, a URL or file path, or a name to search for.
func findTeam(ctx context.Context, c *scraper.Client, arg string) (*scraper.Team, error) {
	arg = strings.TrimSpace(arg)
	if isLocator(arg) || len(arg) <= 3 {
		return c.Team(ctx, arg)
	}
	return c.TeamByName(ctx, arg)
}
