package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/JakeFAU/bbref-scraper/internal/scraper"
)

func newGameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "game <url|game-id>",
		Short: "Show a box score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			var game *scraper.Game
			if isLocator(args[0]) {
				game, err = a.Client().Game(cmd.Context(), args[0])
			} else {
				game, err = a.Client().BoxScore(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				return writeJSON(out, game)
			}
			printGame(out, game)
			return nil
		},
	}
}

func printGame(w io.Writer, g *scraper.Game) {
	score := blank
	if g.Score != nil {
		score = fmt.Sprintf("%d-%d", g.Score.Away, g.Score.Home)
	}
	fmt.Fprintf(w, "%s @ %s  %s\n", g.AwayTeam, g.HomeTeam, score)
	if g.Date != nil {
		fmt.Fprintln(w, g.Date.Format("Mon Jan 2, 2006 3:04 PM"))
	}
	if len(g.ScoreByQuarter) > 0 {
		quarters := make([]string, 0, len(g.ScoreByQuarter))
		for _, q := range g.ScoreByQuarter {
			quarters = append(quarters, fmt.Sprintf("%d-%d", q.Away, q.Home))
		}
		fmt.Fprintf(w, "By period: %s\n", strings.Join(quarters, ", "))
	}
	printTeamBox(w, g.AwayTeam, g.AwayStats)
	printTeamBox(w, g.HomeTeam, g.HomeStats)
}

func printTeamBox(w io.Writer, team string, rows []scraper.CondensedGameLog) {
	t := newTable(w)
	t.SetTitle(team)
	t.AppendHeader(table.Row{"Player", "GS", "MP", "PTS", "TRB", "AST", "STL", "BLK", "+/-"})
	for _, r := range rows {
		name := strText(r.PlayerName)
		if name == blank {
			name = r.PlayerID
		}
		started := ""
		if r.Started {
			started = "*"
		}
		if !r.Played {
			started = "DNP"
		}
		t.AppendRow(table.Row{
			name,
			started,
			minutesText(r.SecondsPlayed),
			intText(r.Points),
			intText(r.Rebounds()),
			intText(r.Assists),
			intText(r.Steals),
			intText(r.Blocks),
			intText(r.PlusMinus),
		})
	}
	t.Render()
}
