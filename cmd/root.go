// Package cmd defines and implements the CLI commands for the bbref
// executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/bbref-scraper/internal/app"
	"github.com/JakeFAU/bbref-scraper/internal/config"
)

// newApp is the application factory. It is a variable so tests can build
// the app against a local mirror.
var newApp = func(ctx context.Context, cfgPath string) (*app.App, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return app.New(ctx, cfg, nil)
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "bbref",
		Short: "Scrape players, teams, drafts and box scores from Basketball Reference.",
		Long: `bbref reads Basketball Reference pages, live or saved to disk, into
structured records. Remote pages are cached and paced per host so bulk
runs stay polite.`,
		SilenceUsage: true,

		// Builds the app once the flags are parsed and before the
		// subcommand's RunE.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), cfgFile)
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}
			cmd.SetContext(app.WithContext(cmd.Context(), a))
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a, ok := app.FromContext(cmd.Context()); ok {
				a.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML); BBREF_* environment variables override it")
	cmd.PersistentFlags().Bool("json", false, "print JSON instead of tables")

	cmd.AddCommand(
		newPlayerCmd(),
		newTeamCmd(),
		newDraftCmd(),
		newGameLogCmd(),
		newGameCmd(),
		newSearchCmd(),
		newBulkCmd(),
		newSnapshotCmd(),
		newServeCmd(),
	)
	return cmd
}

// Execute is the main entry point.
func Execute() {
	root := newRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		// Errors are printed by cobra; the exit code carries the rest.
		os.Exit(1)
	}
}

func resolveApp(ctx context.Context) (*app.App, error) {
	a, ok := app.FromContext(ctx)
	if !ok || a == nil {
		return nil, errors.New("application not initialized")
	}
	return a, nil
}

func jsonOutput(cmd *cobra.Command) bool {
	on, err := cmd.Flags().GetBool("json")
	return err == nil && on
}

func cmdLogger(cmd *cobra.Command) *zap.Logger {
	if a, ok := app.FromContext(cmd.Context()); ok {
		return a.Logger()
	}
	return zap.NewNop()
}
