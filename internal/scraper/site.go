package scraper

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultBaseURL is the reference site root.
const DefaultBaseURL = "https://www.basketball-reference.com/"

// Site builds page URLs and normalizes hrefs against a base URL.
type Site struct {
	base *url.URL
}

// NewSite parses base, which must be an absolute http(s) URL.
func NewSite(base string) (Site, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return Site{}, fmt.Errorf("parse base url: %w", err)
	}
	if u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return Site{}, fmt.Errorf("base url %q must be absolute http(s)", base)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return Site{base: u}, nil
}

// MustSite is NewSite for constants.
func MustSite(base string) Site {
	s, err := NewSite(base)
	if err != nil {
		panic(err)
	}
	return s
}

// Base returns the base URL.
func (s Site) Base() string {
	return s.base.String()
}

// Abs resolves href against the base. Absolute hrefs are returned unchanged.
func (s Site) Abs(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if ref.IsAbs() {
		return ref.String()
	}
	// Site-relative paths hang off the base so a base with a path prefix
	// keeps it.
	ref.Path = strings.TrimPrefix(ref.Path, "/")
	return s.base.ResolveReference(ref).String()
}

// Player returns the page for a player id, e.g. /players/a/anthoca01.html.
func (s Site) Player(id string) string {
	if id == "" {
		return ""
	}
	return s.Abs(fmt.Sprintf("/players/%s/%s.html", id[:1], id))
}

// Team returns the franchise page for a team code.
func (s Site) Team(code string) string {
	return s.Abs("/teams/" + strings.ToUpper(code) + "/")
}

// TeamSeason returns a team's season page, which carries the roster.
func (s Site) TeamSeason(code string, year int) string {
	return s.Abs(fmt.Sprintf("/teams/%s/%d.html", strings.ToUpper(code), year))
}

// Draft returns the draft class page for year.
func (s Site) Draft(year int) string {
	return s.Abs(fmt.Sprintf("/draft/NBA_%d.html", year))
}

// Search returns the search page for query.
func (s Site) Search(query string) string {
	return s.Abs("/search/search.fcgi?search=" + url.QueryEscape(query))
}

// SeasonTotals returns the league totals page for the season ending in year.
func (s Site) SeasonTotals(year int) string {
	return s.Abs(fmt.Sprintf("/leagues/NBA_%d_totals.html", year))
}

// BoxScore returns the box score page for a game id such as 201611010CLE.
func (s Site) BoxScore(gameID string) string {
	return s.Abs("/boxscores/" + gameID + ".html")
}

// GameLogURL derives a player's season game log page from the player's page.
func GameLogURL(playerURL string, season int) string {
	return strings.TrimSuffix(playerURL, ".html") + "/gamelog/" + strconv.Itoa(season)
}

// idFromLocator returns the last path segment of locator without its .html
// suffix. A locator ending in a slash has no id.
func idFromLocator(locator string) string {
	s := strings.TrimSpace(locator)
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndexAny(s, `/\`); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSuffix(s, ".html")
}
