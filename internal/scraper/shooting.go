package scraper

import (
	"github.com/PuerkitoBio/goquery"
)

// ShootingStatLine breaks a season's field goal attempts down by distance.
// The site only publishes it for seasons since 1996-97.
type ShootingStatLine struct {
	Season          int      `json:"season"`
	AverageDistance *float64 `json:"average_distance"`

	PercentFGATwoPoint    *float64 `json:"percent_fga_two_point"`
	PercentFGA0To3        *float64 `json:"percent_fga_0_3"`
	PercentFGA3To10       *float64 `json:"percent_fga_3_10"`
	PercentFGA10To16      *float64 `json:"percent_fga_10_16"`
	PercentFGA16ToThree   *float64 `json:"percent_fga_16_three"`
	PercentFGAThreePoint  *float64 `json:"percent_fga_three_point"`
	FGPercentageTwoPoint  *float64 `json:"fg_percentage_two_point"`
	FGPercentage0To3      *float64 `json:"fg_percentage_0_3"`
	FGPercentage3To10     *float64 `json:"fg_percentage_3_10"`
	FGPercentage10To16    *float64 `json:"fg_percentage_10_16"`
	FGPercentage16ToThree *float64 `json:"fg_percentage_16_three"`
	FGPercentageThreePt   *float64 `json:"fg_percentage_three_point"`

	PercentAssistedTwoPoint   *float64 `json:"percent_assisted_two_point"`
	PercentAssistedThreePoint *float64 `json:"percent_assisted_three_point"`
	PercentFGADunks           *float64 `json:"percent_fga_dunks"`
	DunksMade                 *int     `json:"dunks_made"`
	PercentCornerThrees       *float64 `json:"percent_corner_threes"`
	CornerThreePercentage     *float64 `json:"corner_three_percentage"`
}

func newShootingStatLine(row *goquery.Selection, season int) *ShootingStatLine {
	return &ShootingStatLine{
		Season:          season,
		AverageDistance: floatCell("avg_dist", row),

		PercentFGATwoPoint:    floatCell("fg2a_pct_fga", row),
		PercentFGA0To3:        floatCell("pct_fga_00_03", row),
		PercentFGA3To10:       floatCell("pct_fga_03_10", row),
		PercentFGA10To16:      floatCell("pct_fga_10_16", row),
		PercentFGA16ToThree:   floatCell("pct_fga_16_xx", row),
		PercentFGAThreePoint:  floatCell("fg3a_pct_fga", row),
		FGPercentageTwoPoint:  floatCell("fg2_pct", row),
		FGPercentage0To3:      floatCell("fg_pct_00_03", row),
		FGPercentage3To10:     floatCell("fg_pct_03_10", row),
		FGPercentage10To16:    floatCell("fg_pct_10_16", row),
		FGPercentage16ToThree: floatCell("fg_pct_16_xx", row),
		FGPercentageThreePt:   floatCell("fg3_pct", row),

		PercentAssistedTwoPoint:   floatCell("fg2_pct_ast", row),
		PercentAssistedThreePoint: floatCell("fg3_pct_ast", row),
		PercentFGADunks:           floatCell("pct_fga_dunk", row),
		DunksMade:                 intCell("fg_dunk", row),
		PercentCornerThrees:       floatCell("pct_fg3a_corner", row),
		CornerThreePercentage:     floatCell("fg3_pct_corner", row),
	}
}
