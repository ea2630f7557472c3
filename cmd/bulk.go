package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"iter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/bbref-scraper/internal/scraper"
)

func newBulkCmd() *cobra.Command {
	var (
		season int
		list   string
	)

	cmd := &cobra.Command{
		Use:   "bulk [locators...]",
		Short: "Fetch many players concurrently and stream them as they finish",
		Long: `bulk fetches every player named by the arguments, the players of a season
(--season) or the players linked from a list page (--list). Results print one
per line in completion order; failures are reported and the batch continues.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			c := a.Client()

			var results iter.Seq2[*scraper.Player, error]
			switch {
			case season != 0 && list != "":
				return errors.New("--season and --list are mutually exclusive")
			case season != 0:
				results = c.SeasonPlayers(cmd.Context(), season)
			case list != "":
				results = c.PlayersFromList(cmd.Context(), list)
			case len(args) > 0:
				locators := make([]string, 0, len(args))
				for _, arg := range args {
					if isLocator(arg) {
						locators = append(locators, arg)
					} else {
						locators = append(locators, c.Site().Player(arg))
					}
				}
				results = c.Players(cmd.Context(), locators)
			default:
				return errors.New("give player locators, --season or --list")
			}

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			var ok, failed int
			for p, err := range results {
				if err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
					continue
				}
				ok++
				if jsonOutput(cmd) {
					if err := enc.Encode(p); err != nil {
						return fmt.Errorf("encode player: %w", err)
					}
					continue
				}
				fmt.Fprintf(out, "%s\t%s\t%s\n", p.ID, p.Name, p.URL)
			}
			cmdLogger(cmd).Info("bulk retrieval finished", zap.Int("players", ok), zap.Int("failed", failed))
			if failed > 0 {
				return fmt.Errorf("%d of %d players failed", failed, ok+failed)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&season, "season", 0, "fetch every player of the season ending in this year")
	cmd.Flags().StringVar(&list, "list", "", "fetch every player linked from this list page")
	return cmd
}
