package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/JakeFAU/bbref-scraper/internal/document"
	"github.com/JakeFAU/bbref-scraper/internal/lazy"
)

// CareerSeason is the season key of a career aggregate row.
const CareerSeason = 0

// SeasonKey normalizes a season label to the year the season ends:
// "2003-04" is 2004 and "Career" is 0.
func SeasonKey(label string) (int, bool) {
	s := strings.TrimSpace(label)
	if s == "Career" {
		return CareerSeason, true
	}
	if len(s) < 4 {
		return 0, false
	}
	start, err := strconv.Atoi(s[:4])
	if err != nil {
		return 0, false
	}
	return start + 1, true
}

// StatLine is one row of a totals table: a season, or the career aggregate
// when Season is 0.
type StatLine struct {
	Season   int        `json:"season"`
	Kind     SeasonKind `json:"kind"`
	Age      *int       `json:"age"`
	AllStar  bool       `json:"all_star"`
	Team     *string    `json:"team"`
	Position *string    `json:"position"`

	GamesPlayed   *int `json:"games_played"`
	GamesStarted  *int `json:"games_started"`
	MinutesPlayed *int `json:"minutes_played"`

	FieldGoalsMade         *int `json:"field_goals_made"`
	FieldGoalsAttempted    *int `json:"field_goals_attempted"`
	ThreePointersMade      *int `json:"three_pointers_made"`
	ThreePointersAttempted *int `json:"three_pointers_attempted"`
	TwoPointersMade        *int `json:"two_pointers_made"`
	TwoPointersAttempted   *int `json:"two_pointers_attempted"`
	FreeThrowsMade         *int `json:"free_throws_made"`
	FreeThrowsAttempted    *int `json:"free_throws_attempted"`

	OffensiveRebounds *int `json:"offensive_rebounds"`
	DefensiveRebounds *int `json:"defensive_rebounds"`
	Assists           *int `json:"assists"`
	Steals            *int `json:"steals"`
	Blocks            *int `json:"blocks"`
	Turnovers         *int `json:"turnovers"`
	PersonalFouls     *int `json:"personal_fouls"`
	Points            *int `json:"points"`

	EffectiveFGPercentage *float64 `json:"effective_fg_percentage"`

	Advanced *AdvancedStatLine `json:"advanced"`
	Shooting *ShootingStatLine `json:"shooting"`

	gameLogs *lazy.Cell[[]*GameLog]
}

// Rebounds is offensive plus defensive rebounds, or nil if either is missing.
func (s *StatLine) Rebounds() *int {
	return sumInts(s.OffensiveRebounds, s.DefensiveRebounds)
}

// FGPercentage is field goals made over attempted, rounded to 3 places.
func (s *StatLine) FGPercentage() *float64 {
	return ratio(s.FieldGoalsMade, s.FieldGoalsAttempted)
}

// TwoFGPercentage is two-pointers made over attempted.
func (s *StatLine) TwoFGPercentage() *float64 {
	return ratio(s.TwoPointersMade, s.TwoPointersAttempted)
}

// ThreeFGPercentage is three-pointers made over attempted.
func (s *StatLine) ThreeFGPercentage() *float64 {
	return ratio(s.ThreePointersMade, s.ThreePointersAttempted)
}

// FreeThrowPercentage is free throws made over attempted.
func (s *StatLine) FreeThrowPercentage() *float64 {
	return ratio(s.FreeThrowsMade, s.FreeThrowsAttempted)
}

// GameLogURL is the page GameLogs reads, or "" for career rows.
func (s *StatLine) GameLogURL() string {
	if s.gameLogs == nil {
		return ""
	}
	return s.gameLogs.Locator()
}

// GameLogs fetches and memoizes the season's game logs. Career rows have
// none.
func (s *StatLine) GameLogs(ctx context.Context) ([]*GameLog, error) {
	if s.gameLogs == nil {
		return nil, nil
	}
	logs, err := s.gameLogs.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("game logs for %d: %w", s.Season, err)
	}
	return logs, nil
}

// GameLogsState reports whether the game logs have been fetched.
func (s *StatLine) GameLogsState() lazy.State {
	if s.gameLogs == nil {
		return lazy.Unresolved
	}
	return s.gameLogs.State()
}

func (s *StatLine) String() string {
	team := ""
	if s.Team != nil {
		team = *s.Team
	}
	return fmt.Sprintf("StatLine(%d, %s, %s)", s.Season, team, s.Kind)
}

// MarshalJSON adds the derived totals and percentages.
func (s *StatLine) MarshalJSON() ([]byte, error) {
	type plain StatLine
	b, err := json.Marshal(struct {
		*plain
		Rebounds            *int     `json:"rebounds"`
		FGPercentage        *float64 `json:"fg_percentage"`
		TwoFGPercentage     *float64 `json:"two_fg_percentage"`
		ThreeFGPercentage   *float64 `json:"three_fg_percentage"`
		FreeThrowPercentage *float64 `json:"free_throw_percentage"`
	}{
		plain:               (*plain)(s),
		Rebounds:            s.Rebounds(),
		FGPercentage:        s.FGPercentage(),
		TwoFGPercentage:     s.TwoFGPercentage(),
		ThreeFGPercentage:   s.ThreeFGPercentage(),
		FreeThrowPercentage: s.FreeThrowPercentage(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal stat line: %w", err)
	}
	return b, nil
}

// statTables holds the per-season lookups for one SeasonKind of a player
// page.
type statTables struct {
	kind      SeasonKind
	playerURL string
	advanced  map[int]*goquery.Selection
	shooting  map[int]*goquery.Selection
}

func (c *Client) newStatLine(row *goquery.Selection, season int, t *statTables) *StatLine {
	s := &StatLine{
		Season:   season,
		Kind:     t.kind,
		Age:      intCell("age", row),
		AllStar:  row.Find("span.sr_star").Length() > 0,
		Team:     textCell("team_id", row),
		Position: textCell("pos", row),

		GamesPlayed:   intCell("g", row),
		GamesStarted:  intCell("gs", row),
		MinutesPlayed: intCell("mp", row),

		FieldGoalsMade:         intCell("fg", row),
		FieldGoalsAttempted:    intCell("fga", row),
		ThreePointersMade:      intCell("fg3", row),
		ThreePointersAttempted: intCell("fg3a", row),
		TwoPointersMade:        intCell("fg2", row),
		TwoPointersAttempted:   intCell("fg2a", row),
		FreeThrowsMade:         intCell("ft", row),
		FreeThrowsAttempted:    intCell("fta", row),

		OffensiveRebounds: intCell("orb", row),
		DefensiveRebounds: intCell("drb", row),
		Assists:           intCell("ast", row),
		Steals:            intCell("stl", row),
		Blocks:            intCell("blk", row),
		Turnovers:         intCell("tov", row),
		PersonalFouls:     intCell("pf", row),
		Points:            intCell("pts", row),

		EffectiveFGPercentage: floatCell("efg_pct", row),
	}
	if adv, ok := t.advanced[season]; ok {
		s.Advanced = newAdvancedStatLine(adv, season)
	}
	if sh, ok := t.shooting[season]; ok {
		s.Shooting = newShootingStatLine(sh, season)
	}
	if season != CareerSeason && t.playerURL != "" {
		kind := t.kind
		s.gameLogs = lazy.NewCell[[]*GameLog](GameLogURL(t.playerURL, season), func(ctx context.Context, loc string) ([]*GameLog, error) {
			return c.GameLogs(ctx, loc, kind)
		})
	}
	return s
}

// seasonRows returns the full-season NBA rows of a totals-style table in
// page order. Partial rows for players traded mid-season and rows from
// other leagues are dropped here, before anything is built from them.
func seasonRows(table *goquery.Selection) []*goquery.Selection {
	if table == nil {
		return nil
	}
	var rows []*goquery.Selection
	table.Find("tr.full_table").Each(func(_ int, row *goquery.Selection) {
		if !nbaRow(row) {
			return
		}
		rows = append(rows, row)
	})
	return rows
}

// careerRow returns the row whose season cell reads "Career".
func careerRow(table *goquery.Selection) *goquery.Selection {
	if table == nil {
		return nil
	}
	var found *goquery.Selection
	table.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if strings.TrimSpace(document.CellValue("season", row).String()) == "Career" {
			found = row
			return false
		}
		return true
	})
	return found
}

// indexBySeason maps season keys to the first matching NBA row, including
// the career row under key 0.
func indexBySeason(table *goquery.Selection) map[int]*goquery.Selection {
	idx := make(map[int]*goquery.Selection)
	for _, row := range seasonRows(table) {
		key, ok := SeasonKey(document.CellValue("season", row).String())
		if !ok {
			continue
		}
		if _, seen := idx[key]; !seen {
			idx[key] = row
		}
	}
	if row := careerRow(table); row != nil {
		idx[CareerSeason] = row
	}
	return idx
}

// nbaRow keeps rows without a league cell and rows whose league is NBA.
func nbaRow(row *goquery.Selection) bool {
	lg := document.CellValue("lg_id", row)
	return lg.IsNull() || lg.String() == "NBA"
}

func intCell(key string, row *goquery.Selection) *int {
	return document.CellValue(key, row).Int()
}

func floatCell(key string, row *goquery.Selection) *float64 {
	return document.CellValue(key, row).Float()
}

func textCell(key string, row *goquery.Selection) *string {
	return document.CellValue(key, row).Text()
}

func sumInts(a, b *int) *int {
	if a == nil || b == nil {
		return nil
	}
	n := *a + *b
	return &n
}

func ratio(made, attempted *int) *float64 {
	if made == nil || attempted == nil || *attempted == 0 {
		return nil
	}
	r := round3(float64(*made) / float64(*attempted))
	return &r
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
