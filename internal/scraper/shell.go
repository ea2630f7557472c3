package scraper

import (
	"context"
	"fmt"
)

// PlayerShell names a player without fetching the player's page.
type PlayerShell struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Number *int   `json:"number,omitempty"`

	client *Client
}

// AsPlayer fetches and parses the full player record.
func (p PlayerShell) AsPlayer(ctx context.Context) (*Player, error) {
	if p.client == nil {
		return nil, fmt.Errorf("player shell %q: %w", p.Name, errDetached)
	}
	return p.client.Player(ctx, p.URL)
}

// TeamShell names a team without fetching the team's page.
type TeamShell struct {
	Name string `json:"name"`
	URL  string `json:"url"`

	client *Client
}

// AsTeam fetches and parses the full team record.
func (t TeamShell) AsTeam(ctx context.Context) (*Team, error) {
	if t.client == nil {
		return nil, fmt.Errorf("team shell %q: %w", t.Name, errDetached)
	}
	return t.client.Team(ctx, t.URL)
}

// NewPlayerShell returns a shell bound to c.
func (c *Client) NewPlayerShell(name, url string) PlayerShell {
	return PlayerShell{Name: name, URL: url, client: c}
}

// NewTeamShell returns a shell bound to c.
func (c *Client) NewTeamShell(name, url string) TeamShell {
	return TeamShell{Name: name, URL: url, client: c}
}
