package cmd

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/JakeFAU/bbref-scraper/internal/scraper"
)

func newSearchCmd() *cobra.Command {
	var teams bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search players (or teams with --teams) by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			kind := scraper.SearchPlayers
			if teams {
				kind = scraper.SearchTeams
			}
			results, err := a.Client().Search(cmd.Context(), strings.Join(args, " "), kind)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				return writeJSON(out, results)
			}
			t := newTable(out)
			t.AppendHeader(table.Row{"Name", "URL"})
			for _, r := range results {
				t.AppendRow(table.Row{r.Name, r.URL})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().BoolVar(&teams, "teams", false, "search franchises instead of players")
	return cmd
}
