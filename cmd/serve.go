package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"ytcurator/infrastructure/configuration"
	"ytcurator/infrastructure/logger"
	httpHandler "ytcurator/interfaces/http"
	"ytcurator/server"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, configuration.C)
	},
}

func serve(ctx context.Context, cfg configuration.Config) error {
	app, err := newApplication(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.Close(closeCtx); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Failed to release resources")
		}
	}()

	router := server.InitiateRouter(server.Handlers{
		Library:    httpHandler.NewLibraryHandler(app.library),
		Auth:       httpHandler.NewAuthHandler(app.auth, cfg.App.PostAuthRedirect),
		Health:     httpHandler.NewHealthHandler(app.library),
		SyncStream: app.hub.Serve,
	}, cfg.App.AllowedOrigins, cfg.App.SecretKey)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.GetLogger().WithField("port", cfg.App.Port).Info("Starting application")
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.GetLogger().Info("Application shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		return err
	}
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
