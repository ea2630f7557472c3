package scraper

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

// PlayerURLs lists the player links of a page whose player column is the
// row header, such as a career leaders page.
func (c *Client) PlayerURLs(ctx context.Context, locator string) ([]string, error) {
	urls, err := c.playerLinks(ctx, locator, `th[data-stat="player"][scope="row"]`)
	c.observe("player_list", locator, err)
	return urls, err
}

// SeasonPlayerURLs lists everyone on the league totals page for the season
// ending in year. Players traded mid-season appear once per team there;
// the bulk reader removes the repeats.
func (c *Client) SeasonPlayerURLs(ctx context.Context, year int) ([]string, error) {
	locator := c.site.SeasonTotals(year)
	urls, err := c.playerLinks(ctx, locator, `td[data-stat="player"]`)
	c.observe("player_list", locator, err)
	return urls, err
}

func (c *Client) playerLinks(ctx context.Context, locator, cellSelector string) ([]string, error) {
	doc, err := c.load(ctx, locator)
	if err != nil {
		return nil, err
	}
	urls := make([]string, 0)
	doc.Find(cellSelector).Each(func(_ int, cell *goquery.Selection) {
		href, ok := cell.Find("a").First().Attr("href")
		if !ok || href == "" {
			return
		}
		urls = append(urls, c.site.Abs(href))
	})
	return urls, nil
}
