package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/JakeFAU/bbref-scraper/internal/scraper"
)

func newGameLogCmd() *cobra.Command {
	var playoffs bool

	cmd := &cobra.Command{
		Use:   "gamelog <player> <season>",
		Short: "List a player's games for the season ending in <season>",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			season, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid season %q", args[1])
			}
			kind := scraper.RegularSeason
			if playoffs {
				kind = scraper.Playoffs
			}
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			page, err := playerPage(cmd.Context(), a.Client(), args[0])
			if err != nil {
				return err
			}
			logs, err := a.Client().GameLogs(cmd.Context(), scraper.GameLogURL(page, season), kind)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				return writeJSON(out, logs)
			}
			printGameLogs(out, logs)
			return nil
		},
	}
	cmd.Flags().BoolVar(&playoffs, "playoffs", false, "read the playoff game log")
	return cmd
}

func printGameLogs(w io.Writer, logs []*scraper.GameLog) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Date", "Tm", "Opp", "Result", "GS", "MP", "PTS", "TRB", "AST", "+/-"})
	for _, g := range logs {
		date := blank
		if g.Date != nil {
			date = g.Date.Format("2006-01-02")
		}
		started := ""
		if g.Started {
			started = "*"
		}
		if !g.Played {
			started = "DNP"
		}
		t.AppendRow(table.Row{
			date,
			strText(g.Team),
			strText(g.Opponent),
			strText(g.Result),
			started,
			minutesText(g.SecondsPlayed),
			intText(g.Points),
			intText(g.Rebounds()),
			intText(g.Assists),
			intText(g.PlusMinus),
		})
	}
	t.Render()
}

func minutesText(seconds *int) string {
	if seconds == nil {
		return blank
	}
	return fmt.Sprintf("%d:%02d", *seconds/60, *seconds%60)
}
