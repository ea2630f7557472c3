package cmd

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/JakeFAU/bbref-scraper/internal/lazy"
	"github.com/JakeFAU/bbref-scraper/internal/scraper"
)

func newPlayerCmd() *cobra.Command {
	var playoffs bool

	cmd := &cobra.Command{
		Use:   "player <id|url|name>",
		Short: "Show a player's bio and season totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			p, err := findPlayer(cmd.Context(), a.Client(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				return writeJSON(out, p)
			}
			seasons := p.Seasons
			if playoffs {
				seasons = p.Playoffs
			}
			printPlayer(out, p, seasons)
			return nil
		},
	}
	cmd.Flags().BoolVar(&playoffs, "playoffs", false, "show playoff seasons instead of the regular season")
	return cmd
}

func printPlayer(w io.Writer, p *scraper.Player, seasons *lazy.Seq[*scraper.StatLine]) {
	fmt.Fprintf(w, "%s (%s)\n", p.Name, p.ID)
	fmt.Fprintf(w, "  Position: %s  Height: %s in  Weight: %s lb  Shoots: %s\n",
		strText(p.Position), intText(p.HeightInches), intText(p.WeightPounds), strText(p.ShootingHand))
	if p.DateOfBirth != nil {
		fmt.Fprintf(w, "  Born: %s\n", p.DateOfBirth.Format("January 2, 2006"))
	}
	if p.College != nil {
		fmt.Fprintf(w, "  College: %s\n", *p.College)
	}
	if d := p.DraftPick; d != nil {
		team := blank
		if d.Team != nil {
			team = d.Team.Name
		}
		fmt.Fprintf(w, "  Draft: %s, round %s, pick %s (%s overall)\n",
			intText(d.Year), intText(d.Round), intText(d.Pick), intText(d.Overall))
		fmt.Fprintf(w, "  Drafted by: %s\n", team)
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Season", "Age", "Team", "Pos", "G", "GS", "MP", "PTS", "TRB", "AST", "FG%", "3P%", "FT%"})
	if seasons != nil {
		for s := range seasons.All() {
			t.AppendRow(statLineRow(s))
		}
	}
	if c := p.CareerStats; c != nil {
		t.AppendFooter(statLineRow(c))
	}
	t.Render()
}

func statLineRow(s *scraper.StatLine) table.Row {
	season := fmt.Sprint(s.Season)
	if s.Season == scraper.CareerSeason {
		season = "Career"
	} else if s.AllStar {
		season += "*"
	}
	return table.Row{
		season,
		intText(s.Age),
		strText(s.Team),
		strText(s.Position),
		intText(s.GamesPlayed),
		intText(s.GamesStarted),
		intText(s.MinutesPlayed),
		intText(s.Points),
		intText(s.Rebounds()),
		intText(s.Assists),
		floatText(s.FGPercentage(), 3),
		floatText(s.ThreeFGPercentage(), 3),
		floatText(s.FreeThrowPercentage(), 3),
	}
}
