package scraper

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/JakeFAU/bbref-scraper/internal/document"
	"github.com/JakeFAU/bbref-scraper/internal/lazy"
)

const wonFinals = "won finals"

var (
	recordLabel = regexp.MustCompile(`Record:`)
	recordExpr  = regexp.MustCompile(`(\d{1,5})-(\d{1,5})`)
)

// Team is a franchise page: its all-time record and one TeamSeason per
// season, oldest first.
type Team struct {
	Name               string        `json:"name"`
	Code               string        `json:"code"`
	URL                string        `json:"url"`
	Wins               int           `json:"wins"`
	Losses             int           `json:"losses"`
	Seasons            []*TeamSeason `json:"seasons"`
	Championships      int           `json:"championships"`
	PlayoffAppearances int           `json:"playoff_appearances"`
}

// Season returns the season whose label is exactly label, e.g. "2015-16".
func (t *Team) Season(label string) *TeamSeason {
	for _, s := range t.Seasons {
		if s.Season == label {
			return s
		}
	}
	return nil
}

func (t *Team) String() string {
	return fmt.Sprintf("Team(%s, %s)", t.Code, t.Name)
}

// TeamSeason is one row of a franchise history table.
type TeamSeason struct {
	Season          string   `json:"season"`
	TeamCode        string   `json:"team_code"`
	Wins            *int     `json:"wins"`
	Losses          *int     `json:"losses"`
	Pace            *float64 `json:"pace"`
	RelPace         *float64 `json:"rel_pace"`
	OffRtg          *float64 `json:"off_rtg"`
	RelOffRtg       *float64 `json:"rel_off_rtg"`
	DefRtg          *float64 `json:"def_rtg"`
	RelDefRtg       *float64 `json:"rel_def_rtg"`
	PlayoffResult   string   `json:"playoff_result"`
	MadePlayoffs    bool     `json:"made_playoffs"`
	WonChampionship bool     `json:"won_championship"`

	roster *lazy.Cell[[]PlayerShell]
}

// Year is the calendar year the season ends in, or 0 when the label does
// not start with a year.
func (s *TeamSeason) Year() int {
	y, ok := SeasonKey(s.Season)
	if !ok {
		return 0
	}
	return y
}

// RosterURL is the season page Roster reads.
func (s *TeamSeason) RosterURL() string {
	if s.roster == nil {
		return ""
	}
	return s.roster.Locator()
}

// Roster fetches and memoizes the players listed for the season.
func (s *TeamSeason) Roster(ctx context.Context) ([]PlayerShell, error) {
	if s.roster == nil {
		return nil, fmt.Errorf("roster for %s %s: %w", s.TeamCode, s.Season, errDetached)
	}
	players, err := s.roster.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("roster for %s %s: %w", s.TeamCode, s.Season, err)
	}
	return players, nil
}

// RosterState reports whether the roster has been fetched.
func (s *TeamSeason) RosterState() lazy.State {
	if s.roster == nil {
		return lazy.Unresolved
	}
	return s.roster.State()
}

// Team fetches a franchise page. codeOrURL is either a three-letter team
// code or a page locator.
func (c *Client) Team(ctx context.Context, codeOrURL string) (*Team, error) {
	t, err := c.team(ctx, codeOrURL)
	c.observe("team", codeOrURL, err)
	return t, err
}

// TeamByCode fetches a franchise by code, such as CLE.
func (c *Client) TeamByCode(ctx context.Context, code string) (*Team, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: empty team code", ErrMissingIdentity)
	}
	return c.Team(ctx, c.site.Team(code))
}

func (c *Client) team(ctx context.Context, codeOrURL string) (*Team, error) {
	locator := strings.TrimSpace(codeOrURL)
	code := ""
	if locator != "" && len(locator) <= 3 {
		code = strings.ToUpper(locator)
		locator = c.site.Team(code)
	}
	doc, err := c.load(ctx, locator)
	if err != nil {
		return nil, err
	}
	if code == "" {
		code = teamCode(doc, locator)
	}
	if code == "" {
		return nil, fmt.Errorf("%w: %q", ErrMissingIdentity, codeOrURL)
	}
	t := &Team{Code: code, URL: pageURL(doc, locator)}
	t.Name, _ = doc.ItemProperty("name", "", "h1")
	if record, ok := doc.FirstTextAfterLabel("strong", recordLabel); ok {
		if m := recordExpr.FindStringSubmatch(record); m != nil {
			t.Wins = *atoiPtr(m[1])
			t.Losses = *atoiPtr(m[2])
		}
	}
	if table := doc.Table(regexp.QuoteMeta(code)); table != nil {
		table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
			t.Seasons = append(t.Seasons, c.newTeamSeason(row, code))
		})
	}
	slices.Reverse(t.Seasons)
	if t.Seasons == nil {
		t.Seasons = make([]*TeamSeason, 0)
	}
	for _, s := range t.Seasons {
		if s.MadePlayoffs {
			t.PlayoffAppearances++
		}
		if s.WonChampionship {
			t.Championships++
		}
	}
	return t, nil
}

// teamCode reads the code from the canonical link, falling back to the
// locator. Both end in /teams/{CODE}/.
func teamCode(doc *document.Document, locator string) string {
	src := locator
	if canonical, ok := doc.CanonicalURL(); ok {
		src = canonical
	}
	if u, err := url.Parse(src); err == nil && u.Path != "" {
		src = u.Path
	}
	parts := strings.Split(strings.ReplaceAll(src, `\`, "/"), "/")
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[len(parts)-2])
}

func (c *Client) newTeamSeason(row *goquery.Selection, code string) *TeamSeason {
	s := &TeamSeason{
		Season:    document.CellValue("season", row).String(),
		TeamCode:  code,
		Wins:      intCell("wins", row),
		Losses:    intCell("losses", row),
		Pace:      floatCell("pace", row),
		RelPace:   floatCell("pace_rel", row),
		OffRtg:    floatCell("off_rtg", row),
		RelOffRtg: floatCell("off_rtg_rel", row),
		DefRtg:    floatCell("def_rtg", row),
		RelDefRtg: floatCell("def_rtg_rel", row),
	}
	s.PlayoffResult = playoffResult(row)
	s.MadePlayoffs = s.PlayoffResult != ""
	s.WonChampionship = strings.EqualFold(s.PlayoffResult, wonFinals)
	if year := s.Year(); year != 0 {
		s.roster = lazy.NewCell[[]PlayerShell](c.site.TeamSeason(code, year), c.Roster)
	}
	return s
}

// playoffResult prefers the bold text of the playoff cell, which holds the
// round reached when the cell also lists the series opponent.
func playoffResult(row *goquery.Selection) string {
	cell := document.Cell("rank_team_playoffs", row)
	if cell == nil {
		return ""
	}
	if strong := cell.Find("strong").First(); strong.Length() > 0 {
		return strings.TrimSpace(strong.Text())
	}
	return strings.TrimSpace(cell.Text())
}

// Roster fetches a team season page and lists its players.
func (c *Client) Roster(ctx context.Context, locator string) ([]PlayerShell, error) {
	players, err := c.roster(ctx, locator)
	c.observe("roster", locator, err)
	return players, err
}

// TeamRoster fetches the roster of code for the season ending in year.
func (c *Client) TeamRoster(ctx context.Context, code string, year int) ([]PlayerShell, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: empty team code", ErrMissingIdentity)
	}
	return c.Roster(ctx, c.site.TeamSeason(code, year))
}

func (c *Client) roster(ctx context.Context, locator string) ([]PlayerShell, error) {
	doc, err := c.load(ctx, locator)
	if err != nil {
		return nil, err
	}
	players := make([]PlayerShell, 0)
	table := doc.Table("roster")
	if table == nil {
		return players, nil
	}
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cell := document.Cell("player", row)
		if cell == nil {
			return
		}
		a := cell.Find("a").First()
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		p := c.NewPlayerShell(strings.TrimSpace(a.Text()), c.site.Abs(href))
		p.Number = intCell("number", row)
		players = append(players, p)
	})
	return players, nil
}
