package scraper

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/JakeFAU/bbref-scraper/internal/document"
	"github.com/JakeFAU/bbref-scraper/internal/lazy"
)

// Contract option kinds.
const (
	OptionPlayer           = "player"
	OptionTeam             = "team"
	OptionEarlyTermination = "early termination"
)

var (
	collegeLabel  = regexp.MustCompile(`College:`)
	shootsLabel   = regexp.MustCompile(`Shoots:`)
	draftLabel    = regexp.MustCompile(`Draft:`)
	draftSlotExpr = regexp.MustCompile(`(\d+)\w{2} round \((\d+)\w{2} pick, (\d+)\w{2} overall\)`)
	draftYearExpr = regexp.MustCompile(`(\d{4}) [A-Z]{3} Draft`)
	currencyChars = strings.NewReplacer("$", "", ",", "", " ", "")
	// Checked in order; the first class present wins.
	optionClasses = []struct{ class, option string }{
		{"salary-pl", OptionPlayer},
		{"salary-tm", OptionTeam},
		{"salary-et", OptionEarlyTermination},
	}
)

// Player is everything a player page says about one player. Two Players
// are the same player when their IDs match; see Equal.
type Player struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	URL          string     `json:"url"`
	DateOfBirth  *time.Time `json:"date_of_birth"`
	College      *string    `json:"college"`
	HeightInches *int       `json:"height_inches"`
	WeightPounds *int       `json:"weight_pounds"`
	Position     *string    `json:"position"`
	ShootingHand *string    `json:"shooting_hand"`
	DraftPick    *DraftPick `json:"draft_pick"`

	Seasons     *lazy.Seq[*StatLine] `json:"seasons"`
	Playoffs    *lazy.Seq[*StatLine] `json:"playoffs"`
	CareerStats *StatLine            `json:"career_stats"`

	Salaries []Salary `json:"salaries"`
	Contract *Contract `json:"contract"`
}

// Equal reports whether p and o describe the same player.
func (p *Player) Equal(o *Player) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.ID == o.ID
}

// HeightCM converts the listed height to whole centimetres.
func (p *Player) HeightCM() *int {
	if p.HeightInches == nil {
		return nil
	}
	cm := int(math.Round(float64(*p.HeightInches) * 2.54))
	return &cm
}

// WeightKG converts the listed weight to whole kilograms.
func (p *Player) WeightKG() *int {
	if p.WeightPounds == nil {
		return nil
	}
	kg := int(math.Round(float64(*p.WeightPounds) * 0.4536))
	return &kg
}

// Season returns the regular-season line for the season ending in year.
func (p *Player) Season(year int) *StatLine {
	for s := range p.Seasons.All() {
		if s.Season == year {
			return s
		}
	}
	return nil
}

func (p *Player) String() string {
	return fmt.Sprintf("Player(%s, %s)", p.ID, p.Name)
}

// DraftPick is where and when a player was drafted. Any of the slot numbers
// can be missing on older or special drafts.
type DraftPick struct {
	Round   *int       `json:"round"`
	Pick    *int       `json:"pick"`
	Overall *int       `json:"overall"`
	Year    *int       `json:"year"`
	Team    *TeamShell `json:"team"`
}

// Salary is one season of salary history.
type Salary struct {
	Season   string `json:"season"`
	TeamName string `json:"team_name"`
	TeamURL  string `json:"team_url"`
	Amount   int    `json:"amount"`
}

// Contract is the player's current contract, one entry per season.
type Contract struct {
	Team  string         `json:"team"`
	Years []ContractYear `json:"years"`
}

// ContractYear is one season of a contract. Option is nil for guaranteed
// years.
type ContractYear struct {
	Season string  `json:"season"`
	Amount int     `json:"amount"`
	Option *string `json:"option"`
}

// Player fetches and parses a player page. The locator's last path segment,
// minus .html, is the player id.
func (c *Client) Player(ctx context.Context, locator string) (*Player, error) {
	p, err := c.player(ctx, locator)
	c.observe("player", locator, err)
	return p, err
}

// PlayerByID fetches a player by site id, such as anthoca01.
func (c *Client) PlayerByID(ctx context.Context, id string) (*Player, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: empty player id", ErrMissingIdentity)
	}
	return c.Player(ctx, c.site.Player(strings.TrimSpace(id)))
}

func (c *Client) player(ctx context.Context, locator string) (*Player, error) {
	id := idFromLocator(locator)
	if id == "" {
		return nil, fmt.Errorf("%w: %q", ErrMissingIdentity, locator)
	}
	doc, err := c.load(ctx, locator)
	if err != nil {
		return nil, err
	}
	return c.parsePlayer(doc, id, pageURL(doc, locator)), nil
}

// pageURL is the URL relations hang off: the locator when it is remote,
// otherwise the canonical link of a saved page.
func pageURL(doc *document.Document, locator string) string {
	if strings.HasPrefix(locator, "http") {
		return locator
	}
	if canonical, ok := doc.CanonicalURL(); ok {
		return canonical
	}
	return locator
}

func (c *Client) parsePlayer(doc *document.Document, id, url string) *Player {
	p := &Player{ID: id, URL: url}
	p.Name, _ = doc.ItemProperty("name", "", "h1")

	if dob, ok := doc.ItemProperty("birthDate", "data-birth", ""); ok {
		if t, err := time.Parse(time.DateOnly, dob); err == nil {
			p.DateOfBirth = &t
		}
	}
	if label := doc.Label("strong", collegeLabel); label != nil {
		if a := label.NextAllFiltered("a").First(); a.Length() > 0 {
			college := strings.TrimSpace(a.Text())
			p.College = &college
		}
	}
	if hand, ok := doc.FirstTextAfterLabel("strong", shootsLabel); ok && hand != "" {
		p.ShootingHand = &hand
	}
	if h, ok := doc.ItemProperty("height", "", ""); ok {
		p.HeightInches = parseHeight(h)
	}
	if w, ok := doc.ItemProperty("weight", "", ""); ok {
		p.WeightPounds = parseWeight(w)
	}
	p.DraftPick = c.parseDraftPick(doc)

	regular := c.statTables(doc, RegularSeason, url)
	rows := keyedRows(doc.Table(RegularSeason.tables().totals))
	p.Seasons = c.statLineSeq(rows, regular)
	p.Position = modePosition(rows)
	if row := careerRow(doc.Table(RegularSeason.tables().totals)); row != nil {
		p.CareerStats = c.newStatLine(row, CareerSeason, regular)
	}

	playoffs := c.statTables(doc, Playoffs, url)
	p.Playoffs = c.statLineSeq(keyedRows(doc.Table(Playoffs.tables().totals)), playoffs)

	p.Salaries = c.parseSalaries(doc)
	p.Contract = parseContract(doc)
	return p
}

func (c *Client) statTables(doc *document.Document, kind SeasonKind, playerURL string) *statTables {
	ts := kind.tables()
	return &statTables{
		kind:      kind,
		playerURL: playerURL,
		advanced:  indexBySeason(doc.Table(ts.advanced)),
		shooting:  indexBySeason(doc.Table(ts.shooting)),
	}
}

type keyedRow struct {
	season int
	row    *goquery.Selection
}

// keyedRows returns the NBA season rows of a totals table with their keys.
func keyedRows(table *goquery.Selection) []keyedRow {
	var out []keyedRow
	for _, row := range seasonRows(table) {
		key, ok := SeasonKey(document.CellValue("season", row).String())
		if !ok || key == CareerSeason {
			continue
		}
		out = append(out, keyedRow{season: key, row: row})
	}
	return out
}

func (c *Client) statLineSeq(rows []keyedRow, t *statTables) *lazy.Seq[*StatLine] {
	return lazy.NewSeq(len(rows), func(i int) *StatLine {
		return c.newStatLine(rows[i].row, rows[i].season, t)
	})
}

// modePosition returns the most common listed position, preferring the
// first seen on ties.
func modePosition(rows []keyedRow) *string {
	counts := make(map[string]int)
	var order []string
	for _, r := range rows {
		pos := textCell("pos", r.row)
		if pos == nil {
			continue
		}
		if counts[*pos] == 0 {
			order = append(order, *pos)
		}
		counts[*pos]++
	}
	var best string
	for _, pos := range order {
		if counts[pos] > counts[best] {
			best = pos
		}
	}
	if best == "" {
		return nil
	}
	return &best
}

func (c *Client) parseDraftPick(doc *document.Document) *DraftPick {
	label := doc.Label("strong", draftLabel)
	if label == nil {
		return nil
	}
	dp := &DraftPick{}
	if a := label.NextAllFiltered(`a[href*="/teams/"]`).First(); a.Length() > 0 {
		href, _ := a.Attr("href")
		href = strings.TrimSuffix(href, "draft.html")
		team := c.NewTeamShell(strings.TrimSpace(a.Text()), c.site.Abs(href))
		dp.Team = &team
	}
	text := label.Parent().Text()
	if m := draftSlotExpr.FindStringSubmatch(text); m != nil {
		dp.Round = atoiPtr(m[1])
		dp.Pick = atoiPtr(m[2])
		dp.Overall = atoiPtr(m[3])
	}
	if m := draftYearExpr.FindStringSubmatch(text); m != nil {
		dp.Year = atoiPtr(m[1])
	}
	return dp
}

func (c *Client) parseSalaries(doc *document.Document) []Salary {
	salaries := make([]Salary, 0)
	table := doc.Table("all_salaries")
	if table == nil {
		return salaries
	}
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		amount := document.CellAttr("salary", row, "csk").Int()
		if amount == nil {
			return
		}
		s := Salary{
			Season: document.CellValue("season", row).String(),
			Amount: *amount,
		}
		if a := document.CellFirstChild("team_name", row); a != nil {
			href, _ := a.Attr("href")
			s.TeamURL = c.site.Abs(href)
			s.TeamName = strings.TrimSpace(a.Text())
		}
		salaries = append(salaries, s)
	})
	return salaries
}

// parseContract reads the contract table. The header row lists season
// labels and the single data row holds the team then one amount per season.
func parseContract(doc *document.Document) *Contract {
	table := doc.Table("contracts_.*")
	if table == nil {
		return nil
	}
	rows := table.Find("tr")
	if rows.Length() < 2 {
		return nil
	}
	header := rows.Eq(0).Children()
	if header.Length() <= 1 {
		return nil
	}
	seasons := header.Map(func(_ int, s *goquery.Selection) string {
		return strings.TrimSpace(s.Text())
	})
	cells := rows.Eq(1).Children()
	contract := &Contract{Team: strings.TrimSpace(cells.First().Text())}
	cells.Each(func(i int, cell *goquery.Selection) {
		if i == 0 || i >= len(seasons) {
			return
		}
		amount, err := strconv.Atoi(currencyChars.Replace(strings.TrimSpace(cell.Text())))
		if err != nil {
			return
		}
		contract.Years = append(contract.Years, ContractYear{
			Season: seasons[i],
			Amount: amount,
			Option: contractOption(cell),
		})
	})
	if len(contract.Years) == 0 {
		return nil
	}
	return contract
}

func contractOption(cell *goquery.Selection) *string {
	candidates := cell.Find("[class]").AddSelection(cell)
	for _, oc := range optionClasses {
		if candidates.HasClass(oc.class) {
			o := oc.option
			return &o
		}
	}
	return nil
}

func parseHeight(s string) *int {
	feet, inches, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return nil
	}
	f, err := strconv.Atoi(feet)
	if err != nil {
		return nil
	}
	in, err := strconv.Atoi(inches)
	if err != nil {
		return nil
	}
	total := f*12 + in
	return &total
}

func parseWeight(s string) *int {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "lbs")
	s = strings.TrimSuffix(s, "lb")
	return atoiPtr(strings.TrimSpace(s))
}

func atoiPtr(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &n
}
