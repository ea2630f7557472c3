package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/JakeFAU/bbref-scraper/internal/document"
	"github.com/JakeFAU/bbref-scraper/internal/lazy"
)

// GameLog is a player's line for one game. When Played is false every
// counting field is nil, which is how a DNP differs from a scoreless game.
type GameLog struct {
	Date     *time.Time `json:"date"`
	Age      *string    `json:"age"`
	Team     *string    `json:"team"`
	Opponent *string    `json:"opponent"`
	Result   *string    `json:"result"`
	Played   bool       `json:"played"`
	Started  bool       `json:"started"`
	GameURL  string     `json:"game_url"`

	SecondsPlayed          *int     `json:"seconds_played"`
	FieldGoalsMade         *int     `json:"field_goals_made"`
	FieldGoalsAttempted    *int     `json:"field_goals_attempted"`
	ThreePointersMade      *int     `json:"three_pointers_made"`
	ThreePointersAttempted *int     `json:"three_pointers_attempted"`
	FreeThrowsMade         *int     `json:"free_throws_made"`
	FreeThrowsAttempted    *int     `json:"free_throws_attempted"`
	OffensiveRebounds      *int     `json:"offensive_rebounds"`
	DefensiveRebounds      *int     `json:"defensive_rebounds"`
	Assists                *int     `json:"assists"`
	Steals                 *int     `json:"steals"`
	Blocks                 *int     `json:"blocks"`
	Turnovers              *int     `json:"turnovers"`
	PersonalFouls          *int     `json:"personal_fouls"`
	Points                 *int     `json:"points"`
	GameScore              *float64 `json:"game_score"`
	PlusMinus              *int     `json:"plus_minus"`

	game *lazy.Cell[*Game]
}

// Rebounds is offensive plus defensive rebounds, or nil if either is missing.
func (g *GameLog) Rebounds() *int {
	return sumInts(g.OffensiveRebounds, g.DefensiveRebounds)
}

// ToGame fetches and memoizes the box score this line came from.
func (g *GameLog) ToGame(ctx context.Context) (*Game, error) {
	if g.game == nil {
		return nil, ErrNoGameURL
	}
	game, err := g.game.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("box score %s: %w", g.GameURL, err)
	}
	return game, nil
}

// GameState reports whether the box score has been fetched.
func (g *GameLog) GameState() lazy.State {
	if g.game == nil {
		return lazy.Unresolved
	}
	return g.game.State()
}

// GameLogs fetches a season game log page and returns one entry per game in
// the table kind selects. A page without that table yields no entries.
func (c *Client) GameLogs(ctx context.Context, locator string, kind SeasonKind) ([]*GameLog, error) {
	logs, err := c.gameLogs(ctx, locator, kind)
	c.observe("gamelog", locator, err)
	return logs, err
}

// PlayerGameLogs fetches a player's game logs by player id and season year.
func (c *Client) PlayerGameLogs(ctx context.Context, playerID string, season int, kind SeasonKind) ([]*GameLog, error) {
	if strings.TrimSpace(playerID) == "" {
		return nil, fmt.Errorf("%w: empty player id", ErrMissingIdentity)
	}
	return c.GameLogs(ctx, GameLogURL(c.site.Player(playerID), season), kind)
}

func (c *Client) gameLogs(ctx context.Context, locator string, kind SeasonKind) ([]*GameLog, error) {
	doc, err := c.load(ctx, locator)
	if err != nil {
		return nil, err
	}
	table := doc.Table(kind.tables().gameLog)
	if table == nil {
		return nil, nil
	}
	var logs []*GameLog
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		// Repeated header and separator rows carry a class; game rows do not.
		if _, hasClass := row.Attr("class"); hasClass {
			return
		}
		logs = append(logs, c.newGameLog(row))
	})
	return logs, nil
}

func (c *Client) newGameLog(row *goquery.Selection) *GameLog {
	g := &GameLog{
		Age:      textCell("age", row),
		Team:     textCell("team_id", row),
		Opponent: textCell("opp_id", row),
		Result:   textCell("game_result", row),
		Played:   document.Cell("reason", row) == nil,
	}
	if date := document.CellValue("date_game", row); !date.IsNull() {
		if t, err := time.Parse(time.DateOnly, date.String()); err == nil {
			g.Date = &t
		}
	}
	if a := document.Cell("date_game", row); a != nil {
		if href, ok := a.Find("a").First().Attr("href"); ok && href != "" {
			g.GameURL = c.site.Abs(href)
			g.game = lazy.NewCell[*Game](g.GameURL, c.Game)
		}
	}
	if !g.Played {
		return g
	}
	if gs := intCell("gs", row); gs != nil && *gs == 1 {
		g.Started = true
	}
	g.SecondsPlayed = document.CellAttr("mp", row, "csk").Int()
	g.FieldGoalsMade = intCell("fg", row)
	g.FieldGoalsAttempted = intCell("fga", row)
	g.ThreePointersMade = intCell("fg3", row)
	g.ThreePointersAttempted = intCell("fg3a", row)
	g.FreeThrowsMade = intCell("ft", row)
	g.FreeThrowsAttempted = intCell("fta", row)
	g.OffensiveRebounds = intCell("orb", row)
	g.DefensiveRebounds = intCell("drb", row)
	g.Assists = intCell("ast", row)
	g.Steals = intCell("stl", row)
	g.Blocks = intCell("blk", row)
	g.Turnovers = intCell("tov", row)
	g.PersonalFouls = intCell("pf", row)
	g.Points = intCell("pts", row)
	g.GameScore = floatCell("game_score", row)
	g.PlusMinus = intCell("plus_minus", row)
	return g
}
