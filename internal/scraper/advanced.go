package scraper

import (
	"github.com/PuerkitoBio/goquery"
)

// AdvancedStatLine holds a season's advanced metrics.
type AdvancedStatLine struct {
	Season int `json:"season"`

	PlayerEfficiencyRating *float64 `json:"player_efficiency_rating"`
	TrueShootingPercentage *float64 `json:"true_shooting_percentage"`
	ThreePointAttemptRate  *float64 `json:"three_point_attempt_rate"`
	FreeThrowAttemptRate   *float64 `json:"free_throw_attempt_rate"`

	OffensiveReboundPercentage *float64 `json:"offensive_rebound_percentage"`
	DefensiveReboundPercentage *float64 `json:"defensive_rebound_percentage"`
	TotalReboundPercentage     *float64 `json:"total_rebound_percentage"`
	AssistPercentage           *float64 `json:"assist_percentage"`
	StealPercentage            *float64 `json:"steal_percentage"`
	BlockPercentage            *float64 `json:"block_percentage"`
	TurnoverPercentage         *float64 `json:"turnover_percentage"`
	UsagePercentage            *float64 `json:"usage_percentage"`

	OffensiveWinShares *float64 `json:"offensive_win_shares"`
	DefensiveWinShares *float64 `json:"defensive_win_shares"`
	WinShares          *float64 `json:"win_shares"`
	WinSharesPer48     *float64 `json:"win_shares_per_48"`

	OffensiveBoxPlusMinus *float64 `json:"offensive_box_plus_minus"`
	DefensiveBoxPlusMinus *float64 `json:"defensive_box_plus_minus"`
	BoxPlusMinus          *float64 `json:"box_plus_minus"`

	ValueOverReplacement *float64 `json:"value_over_replacement"`
}

func newAdvancedStatLine(row *goquery.Selection, season int) *AdvancedStatLine {
	a := &AdvancedStatLine{
		Season: season,

		PlayerEfficiencyRating: floatCell("per", row),
		TrueShootingPercentage: floatCell("ts_pct", row),
		ThreePointAttemptRate:  floatCell("fg3a_per_fga_pct", row),
		FreeThrowAttemptRate:   floatCell("fta_per_fga_pct", row),

		OffensiveReboundPercentage: floatCell("orb_pct", row),
		DefensiveReboundPercentage: floatCell("drb_pct", row),
		TotalReboundPercentage:     floatCell("trb_pct", row),
		AssistPercentage:           floatCell("ast_pct", row),
		StealPercentage:            floatCell("stl_pct", row),
		BlockPercentage:            floatCell("blk_pct", row),
		TurnoverPercentage:         floatCell("tov_pct", row),
		UsagePercentage:            floatCell("usg_pct", row),

		OffensiveWinShares: floatCell("ows", row),
		DefensiveWinShares: floatCell("dws", row),
		WinSharesPer48:     floatCell("ws_per_48", row),

		OffensiveBoxPlusMinus: floatCell("obpm", row),
		DefensiveBoxPlusMinus: floatCell("dbpm", row),

		ValueOverReplacement: floatCell("vorp", row),
	}
	a.WinShares = derivedTotal(a.OffensiveWinShares, a.DefensiveWinShares)
	a.BoxPlusMinus = derivedTotal(a.OffensiveBoxPlusMinus, a.DefensiveBoxPlusMinus)
	return a
}

// derivedTotal adds two components only when both are present and
// non-zero. A zero component yields nil, matching how the totals have
// always been reported.
func derivedTotal(a, b *float64) *float64 {
	if a == nil || b == nil || *a == 0 || *b == 0 {
		return nil
	}
	sum := round3(*a + *b)
	return &sum
}
