package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newTeamCmd() *cobra.Command {
	var roster string

	cmd := &cobra.Command{
		Use:   "team <code|url|name>",
		Short: "Show a franchise's record and season history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			team, err := findTeam(cmd.Context(), a.Client(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if roster != "" {
				s := team.Season(roster)
				if s == nil {
					return fmt.Errorf("%s has no %s season", team.Code, roster)
				}
				players, err := s.Roster(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput(cmd) {
					return writeJSON(out, players)
				}
				t := newTable(out)
				t.SetTitle(fmt.Sprintf("%s %s", team.Name, s.Season))
				t.AppendHeader(table.Row{"No.", "Player", "URL"})
				for _, p := range players {
					t.AppendRow(table.Row{intText(p.Number), p.Name, p.URL})
				}
				t.Render()
				return nil
			}

			if jsonOutput(cmd) {
				return writeJSON(out, team)
			}
			fmt.Fprintf(out, "%s (%s): %d-%d, %d playoff appearances, %d championships\n",
				team.Name, team.Code, team.Wins, team.Losses, team.PlayoffAppearances, team.Championships)
			t := newTable(out)
			t.AppendHeader(table.Row{"Season", "W", "L", "Pace", "ORtg", "DRtg", "Playoffs"})
			for _, s := range team.Seasons {
				result := s.PlayoffResult
				if result == "" {
					result = blank
				}
				t.AppendRow(table.Row{
					s.Season,
					intText(s.Wins),
					intText(s.Losses),
					floatText(s.Pace, 1),
					floatText(s.OffRtg, 1),
					floatText(s.DefRtg, 1),
					result,
				})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&roster, "roster", "", "show the roster of one season, e.g. 2015-16")
	return cmd
}
