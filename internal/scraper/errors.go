package scraper

import "errors"

var (
	// ErrMissingIdentity reports a page whose locator yields no id or team
	// code. Nothing can be built without one.
	ErrMissingIdentity = errors.New("scraper: no identity in locator")
	// ErrNoSearchResult is returned by the name lookups when a search
	// matches nothing.
	ErrNoSearchResult = errors.New("scraper: search returned no results")
	// ErrNoGameURL is returned when a game log row has no box score link.
	ErrNoGameURL = errors.New("scraper: game log has no box score link")

	errDetached = errors.New("not bound to a client")
)
