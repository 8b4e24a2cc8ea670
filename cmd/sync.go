package cmd

import (
	"context"

	"ytcurator/infrastructure/configuration"

	"github.com/spf13/cobra"
)

// syncCmd clears the cache and repopulates every collection
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Force a full resync of every cached collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApplication(cmd.Context(), func(ctx context.Context, app *application) error {
			return printEnvelope(cmd.OutOrStdout(), nil, app.library.ForceSyncAll(ctx))
		})
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Cache operations",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApplication(cmd.Context(), func(ctx context.Context, app *application) error {
			app.library.ClearCache(ctx)
			return printEnvelope(cmd.OutOrStdout(), nil, nil)
		})
	},
}

// withApplication wires the application for a one-shot command and releases it afterwards
func withApplication(ctx context.Context, fn func(ctx context.Context, app *application) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := newApplication(ctx, configuration.C)
	if err != nil {
		return err
	}
	defer app.Close(context.Background())
	return fn(ctx, app)
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(cacheCmd)
}
