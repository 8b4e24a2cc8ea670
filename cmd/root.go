package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"ytcurator/domain/dto"
	"ytcurator/infrastructure/configuration"
	"ytcurator/infrastructure/logger"

	"github.com/spf13/cobra"
)

// rootCmd runs the API server when no subcommand is given
var rootCmd = &cobra.Command{
	Use:           "ytcurator",
	Short:         "YouTube subscription and music library curator",
	Long:          `Aggregates the subscriptions, playlists and recent uploads of a YouTube account, classifies music and serves them from a TTL cache.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configuration.LoadEnvFromFile("config.env", ".env")
		if err := configuration.LoadConfig(); err != nil {
			return err
		}
		logger.Configure(configuration.C.Logger.Format, configuration.C.Logger.Level)
		if configuration.C.Logger.ToFile {
			logger.ToFile(".")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

// Execute runs the command tree and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Command failed")
		os.Exit(1)
	}
}

// printEnvelope writes the operation result in the same envelope the HTTP API uses
func printEnvelope(w io.Writer, data interface{}, err error) error {
	res := dto.OK(data)
	if data == nil {
		res = dto.Done()
	}
	if err != nil {
		res = dto.Fail(err)
	}
	out, merr := json.MarshalIndent(res, "", "  ")
	if merr != nil {
		return fmt.Errorf("failed to format result: %w", merr)
	}
	fmt.Fprintln(w, string(out))
	return err
}
