package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot <url...>",
		Short: "Save pages to the snapshot directory for offline parsing",
		Long: `snapshot fetches each URL and writes it under snapshot.dir, laid out like
the site. Saved files can be passed to any other command in place of a URL, and
the directory can be served as a mirror via site.base_url.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			store, err := a.Pages()
			if err != nil {
				return err
			}
			for _, locator := range args {
				body, err := a.Fetcher().Fetch(cmd.Context(), locator)
				if err != nil {
					return err
				}
				path, err := store.Put(cmd.Context(), locator, body)
				if err != nil {
					return fmt.Errorf("save %s: %w", locator, err)
				}
				a.Logger().Debug("page saved", zap.String("url", locator), zap.String("path", path))
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}
}
