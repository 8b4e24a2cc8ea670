package cmd

import (
	"context"
	"errors"
	"time"

	"ytcurator/infrastructure/configuration"
	"ytcurator/interfaces/middleware"

	"github.com/golang-jwt/jwt"
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "YouTube account operations",
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether a YouTube credential is stored",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApplication(cmd.Context(), func(ctx context.Context, app *application) error {
			return printEnvelope(cmd.OutOrStdout(), app.auth.Status(ctx), nil)
		})
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored credential and every cached collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApplication(cmd.Context(), func(ctx context.Context, app *application) error {
			return printEnvelope(cmd.OutOrStdout(), nil, app.auth.Logout(ctx))
		})
	},
}

// authTokenCmd mints a bearer token for the /api routes
var authTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API bearer token signed with app.secretKey",
	RunE: func(cmd *cobra.Command, args []string) error {
		secret := configuration.C.App.SecretKey
		if secret == "" {
			return printEnvelope(cmd.OutOrStdout(), nil, errors.New("app.secretKey is not set"))
		}
		subject, _ := cmd.Flags().GetString("subject")
		ttl, _ := cmd.Flags().GetDuration("ttl")
		now := time.Now()
		token, err := middleware.GenerateToken(jwt.MapClaims{
			"sub": subject,
			"iat": now.Unix(),
			"exp": now.Add(ttl).Unix(),
		}, secret)
		if err != nil {
			return printEnvelope(cmd.OutOrStdout(), nil, err)
		}
		return printEnvelope(cmd.OutOrStdout(), map[string]string{"token": token}, nil)
	},
}

func init() {
	authTokenCmd.Flags().String("subject", "desktop", "Token subject")
	authTokenCmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")

	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authTokenCmd)
	rootCmd.AddCommand(authCmd)
}
