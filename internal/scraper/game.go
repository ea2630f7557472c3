package scraper

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/JakeFAU/bbref-scraper/internal/document"
)

// boxScoreDateLayout is how the score box prints tip-off.
const boxScoreDateLayout = "3:04 PM, January 2, 2006"

// startersPerTeam is how many leading box score rows count as starters.
const startersPerTeam = 5

// ScorePair is an away and home score.
type ScorePair struct {
	Away int `json:"away"`
	Home int `json:"home"`
}

// Game is one box score. Away comes first on the page and in every pair.
type Game struct {
	ID             string             `json:"id"`
	URL            string             `json:"url"`
	AwayTeam       string             `json:"away_team"`
	HomeTeam       string             `json:"home_team"`
	Date           *time.Time         `json:"date"`
	Score          *ScorePair         `json:"score"`
	ScoreByQuarter []ScorePair        `json:"score_by_quarter"`
	AwayStats      []CondensedGameLog `json:"away_stats"`
	HomeStats      []CondensedGameLog `json:"home_stats"`
}

// CondensedGameLog is one player's row in a box score.
type CondensedGameLog struct {
	PlayerID   string  `json:"player_id"`
	PlayerName *string `json:"player_name"`
	Played     bool    `json:"played"`
	Started    bool    `json:"started"`

	SecondsPlayed          *int `json:"seconds_played"`
	FieldGoalsMade         *int `json:"field_goals_made"`
	FieldGoalsAttempted    *int `json:"field_goals_attempted"`
	ThreePointersMade      *int `json:"three_pointers_made"`
	ThreePointersAttempted *int `json:"three_pointers_attempted"`
	FreeThrowsMade         *int `json:"free_throws_made"`
	FreeThrowsAttempted    *int `json:"free_throws_attempted"`
	OffensiveRebounds      *int `json:"offensive_rebounds"`
	DefensiveRebounds      *int `json:"defensive_rebounds"`
	Assists                *int `json:"assists"`
	Steals                 *int `json:"steals"`
	Blocks                 *int `json:"blocks"`
	Turnovers              *int `json:"turnovers"`
	PersonalFouls          *int `json:"personal_fouls"`
	Points                 *int `json:"points"`
	PlusMinus              *int `json:"plus_minus"`
}

// Rebounds is offensive plus defensive rebounds, or nil if either is missing.
func (g *CondensedGameLog) Rebounds() *int {
	return sumInts(g.OffensiveRebounds, g.DefensiveRebounds)
}

// Game fetches and parses a box score page.
func (c *Client) Game(ctx context.Context, locator string) (*Game, error) {
	g, err := c.game(ctx, locator)
	c.observe("game", locator, err)
	return g, err
}

// BoxScore fetches a box score by game id, such as 201611010CLE.
func (c *Client) BoxScore(ctx context.Context, gameID string) (*Game, error) {
	if strings.TrimSpace(gameID) == "" {
		return nil, fmt.Errorf("%w: empty game id", ErrMissingIdentity)
	}
	return c.Game(ctx, c.site.BoxScore(strings.TrimSpace(gameID)))
}

func (c *Client) game(ctx context.Context, locator string) (*Game, error) {
	id := idFromLocator(locator)
	if id == "" {
		return nil, fmt.Errorf("%w: %q", ErrMissingIdentity, locator)
	}
	doc, err := c.load(ctx, locator)
	if err != nil {
		return nil, err
	}
	g := &Game{ID: id, URL: pageURL(doc, locator)}

	teams := doc.Find(`div[itemprop="performer"]`).Map(func(_ int, s *goquery.Selection) string {
		return strings.TrimSpace(s.Find(`a[itemprop="name"]`).First().Text())
	})
	if len(teams) >= 2 {
		g.AwayTeam, g.HomeTeam = teams[0], teams[1]
	}
	g.Score = parseFinalScore(doc)
	g.Date = parseGameDate(doc)
	g.ScoreByQuarter = parseLineScore(doc)

	var sides [][]CondensedGameLog
	doc.Find(`table[id$="game-basic"]`).Each(func(_ int, table *goquery.Selection) {
		sides = append(sides, parseBoxScoreTable(table))
	})
	if len(sides) >= 2 {
		g.AwayStats, g.HomeStats = sides[0], sides[1]
	}
	return g, nil
}

func parseFinalScore(doc *document.Document) *ScorePair {
	scores := doc.Find("div.score")
	if scores.Length() < 2 {
		return nil
	}
	away, err := strconv.Atoi(strings.TrimSpace(scores.Eq(0).Text()))
	if err != nil {
		return nil
	}
	home, err := strconv.Atoi(strings.TrimSpace(scores.Eq(1).Text()))
	if err != nil {
		return nil
	}
	return &ScorePair{Away: away, Home: home}
}

func parseGameDate(doc *document.Document) *time.Time {
	div := doc.Find("div.scorebox_meta > div").First()
	if div.Length() == 0 {
		return nil
	}
	t, err := time.Parse(boxScoreDateLayout, strings.TrimSpace(div.Text()))
	if err != nil {
		return nil
	}
	return &t
}

// parseLineScore pairs the numeric cells of the line score's last two rows.
// Totals are wrapped in strong and dropped.
func parseLineScore(doc *document.Document) []ScorePair {
	table := doc.Table("line_score")
	if table == nil {
		return nil
	}
	rows := table.Find("tr")
	if rows.Length() < 2 {
		return nil
	}
	away := quarterScores(rows.Eq(rows.Length() - 2))
	home := quarterScores(rows.Eq(rows.Length() - 1))
	n := min(len(away), len(home))
	pairs := make([]ScorePair, 0, n)
	for i := range n {
		pairs = append(pairs, ScorePair{Away: away[i], Home: home[i]})
	}
	return pairs
}

func quarterScores(row *goquery.Selection) []int {
	var scores []int
	row.Find("td").Each(func(_ int, td *goquery.Selection) {
		if td.Find("strong").Length() > 0 {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(td.Text()))
		if err != nil || n < 0 {
			return
		}
		scores = append(scores, n)
	})
	return scores
}

// parseBoxScoreTable reads the player rows of one team's basic box score.
// Starters are inferred from position: the first rows of the body.
func parseBoxScoreTable(table *goquery.Selection) []CondensedGameLog {
	var lines []CondensedGameLog
	table.Find("tbody").First().Children().Filter("tr").Each(func(i int, row *goquery.Selection) {
		if row.Find(`th[scope="row"]`).Length() == 0 {
			return
		}
		lines = append(lines, newCondensedGameLog(row, i < startersPerTeam))
	})
	return lines
}

func newCondensedGameLog(row *goquery.Selection, starter bool) CondensedGameLog {
	g := CondensedGameLog{
		PlayerID:   document.CellAttr("player", row, "data-append-csv").String(),
		PlayerName: textCell("player", row),
		Played:     document.Cell("reason", row) == nil,
	}
	if !g.Played {
		return g
	}
	g.Started = starter
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
	g.PlusMinus = intCell("plus_minus", row)
	return g
}
