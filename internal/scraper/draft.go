package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/JakeFAU/bbref-scraper/internal/document"
	"github.com/JakeFAU/bbref-scraper/internal/lazy"
)

// noCollege is what the draft table sorts players without a college under.
const noCollege = "Zzz"

// PlayerInDraft is one pick of a draft class.
type PlayerInDraft struct {
	Year          int         `json:"year"`
	Player        PlayerShell `json:"player"`
	Pick          *int        `json:"pick"`
	College       *string     `json:"college"`
	Team          *TeamShell  `json:"team"`
	YearsInLeague *int        `json:"years_in_league"`
}

// Draft fetches the draft class for year. Entries are built as the
// sequence is read.
func (c *Client) Draft(ctx context.Context, year int) (*lazy.Seq[*PlayerInDraft], error) {
	return c.DraftPage(ctx, c.site.Draft(year), year)
}

// DraftPage reads a draft class from any locator.
func (c *Client) DraftPage(ctx context.Context, locator string, year int) (*lazy.Seq[*PlayerInDraft], error) {
	seq, err := c.draft(ctx, locator, year)
	c.observe("draft", locator, err)
	return seq, err
}

func (c *Client) draft(ctx context.Context, locator string, year int) (*lazy.Seq[*PlayerInDraft], error) {
	doc, err := c.load(ctx, locator)
	if err != nil {
		return nil, err
	}
	var rows []*goquery.Selection
	if table := doc.Table("stats"); table != nil {
		table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
			// Round separators and repeated headers have no player link.
			if a := document.CellFirstChild("player", row); a != nil && a.Is("a") {
				rows = append(rows, row)
			}
		})
	}
	return lazy.NewSeq(len(rows), func(i int) *PlayerInDraft {
		return c.newPlayerInDraft(rows[i], year)
	}), nil
}

func (c *Client) newPlayerInDraft(row *goquery.Selection, year int) *PlayerInDraft {
	link := document.CellFirstChild("player", row)
	href, _ := link.Attr("href")
	d := &PlayerInDraft{
		Year:          year,
		Player:        c.NewPlayerShell(strings.TrimSpace(link.Text()), c.site.Abs(href)),
		Pick:          document.CellAttr("pick_overall", row, "csk").Int(),
		YearsInLeague: intCell("seasons", row),
	}
	if college := document.CellAttr("college_name", row, "csk"); !college.IsNull() && college.String() != noCollege {
		name := college.String()
		d.College = &name
	}
	if a := document.CellFirstChild("team_id", row); a != nil {
		href, _ := a.Attr("href")
		name, ok := a.Attr("title")
		if !ok {
			name = strings.TrimSpace(a.Text())
		}
		team := c.NewTeamShell(name, c.site.Abs(strings.TrimSuffix(href, "draft.html")))
		d.Team = &team
	}
	return d
}

func (d *PlayerInDraft) String() string {
	pick := "?"
	if d.Pick != nil {
		pick = fmt.Sprint(*d.Pick)
	}
	return fmt.Sprintf("PlayerInDraft(%d #%s, %s)", d.Year, pick, d.Player.Name)
}
