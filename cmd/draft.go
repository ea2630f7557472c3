package cmd

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newDraftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "draft <year>",
		Short: "List a draft class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid year %q", args[0])
			}
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			class, err := a.Client().Draft(cmd.Context(), year)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				return writeJSON(out, class)
			}
			t := newTable(out)
			t.SetTitle(fmt.Sprintf("%d NBA Draft", year))
			t.AppendHeader(table.Row{"Pick", "Player", "Team", "College", "Yrs"})
			for d := range class.All() {
				team := blank
				if d.Team != nil {
					team = d.Team.Name
				}
				t.AppendRow(table.Row{intText(d.Pick), d.Player.Name, team, strText(d.College), intText(d.YearsInLeague)})
			}
			t.Render()
			return nil
		},
	}
}
