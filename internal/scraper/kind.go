package scraper

import (
	"encoding/json"
	"fmt"
)

// SeasonKind separates regular season from playoff records. It picks the
// tables a player page is read from and the game log table for a season.
type SeasonKind int

const (
	// RegularSeason selects regular-season tables.
	RegularSeason SeasonKind = iota
	// Playoffs selects playoff tables.
	Playoffs
)

func (k SeasonKind) String() string {
	switch k {
	case RegularSeason:
		return "regular"
	case Playoffs:
		return "playoffs"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalJSON renders the kind by name.
func (k SeasonKind) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(k.String())
	if err != nil {
		return nil, fmt.Errorf("marshal season kind: %w", err)
	}
	return b, nil
}

// ParseSeasonKind accepts "regular", "playoffs" or "" (regular).
func ParseSeasonKind(s string) (SeasonKind, error) {
	switch s {
	case "", "regular":
		return RegularSeason, nil
	case "playoffs":
		return Playoffs, nil
	default:
		return 0, fmt.Errorf("unknown season kind %q", s)
	}
}

type tableSet struct {
	totals   string
	advanced string
	shooting string
	gameLog  string
}

func (k SeasonKind) tables() tableSet {
	if k == Playoffs {
		return tableSet{
			totals:   "playoffs_totals",
			advanced: "playoffs_advanced",
			shooting: "playoffs_shooting",
			gameLog:  "pgl_basic_playoffs",
		}
	}
	return tableSet{
		totals:   "totals",
		advanced: "advanced",
		shooting: "shooting",
		gameLog:  "pgl_basic",
	}
}
