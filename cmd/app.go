package cmd

import (
	"context"
	"errors"

	"ytcurator/domain/repository"
	"ytcurator/infrastructure/auth"
	"ytcurator/infrastructure/cache"
	youtubeclient "ytcurator/infrastructure/clients/youtube"
	"ytcurator/infrastructure/configuration"
	"ytcurator/infrastructure/logger"
	"ytcurator/infrastructure/persistence"
	"ytcurator/infrastructure/pubsub"
	"ytcurator/infrastructure/realtime"
	"ytcurator/infrastructure/servicebus"
	"ytcurator/usecase"

	gpubsub "cloud.google.com/go/pubsub"
	"golang.org/x/oauth2"
)

// application holds the wired components shared by every command
type application struct {
	library *usecase.LibraryUseCase
	auth    usecase.IAuthUseCase
	hub     *realtime.SyncHub
	closers []func(context.Context) error
}

func newApplication(ctx context.Context, cfg configuration.Config) (*application, error) {
	app := &application{hub: realtime.NewSyncHub()}

	tokenStore, closeTokens, err := persistence.NewTokenStore(cfg)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, func(context.Context) error { return closeTokens() })

	if !configuration.HasClientCredentials(cfg.YouTube) {
		logger.GetLogger().Warn("YouTube OAuth client is not configured; sign-in will fail until youtube.clientId and youtube.clientSecret are set")
	}
	credentials := auth.NewService(tokenStore, auth.NewGoogleProvider(configuration.YouTubeOAuthConfig(cfg.YouTube)))

	youtube, err := youtubeclient.NewYouTubeClient(ctx, oauth2.NewClient(ctx, credentials.TokenSource(ctx)), cfg.YouTube)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}

	store, closeCache := cache.Open(ctx, cfg)
	app.closers = append(app.closers, closeCache)

	app.library = usecase.NewLibraryUseCase(youtube, store, credentials, cfg.Cache.TTL).
		WithNotifier(app.notifiers(ctx, cfg.Notify))
	app.auth = usecase.NewAuthUseCase(credentials, app.library)
	return app, nil
}

// notifiers fans sync events out to the SSE hub and to any configured broker
func (a *application) notifiers(ctx context.Context, cfg configuration.Notify) repository.ISyncNotifier {
	fanout := realtime.NewFanout(a.hub)

	if cfg.PubsubProjectID != "" && cfg.PubsubTopic != "" {
		client, err := gpubsub.NewClient(ctx, cfg.PubsubProjectID)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Pub/Sub not available - continuing without it")
		} else if publisher, err := pubsub.NewSyncPublisher(ctx, client, cfg.PubsubTopic); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Pub/Sub topic not available - continuing without it")
			_ = client.Close()
		} else {
			fanout.Add(publisher)
			a.closers = append(a.closers, func(context.Context) error { return publisher.Close() })
		}
	}

	if cfg.ServiceBusNamespace != "" && cfg.ServiceBusQueue != "" {
		sender, err := servicebus.NewSyncSender(cfg.ServiceBusNamespace, cfg.ServiceBusQueue)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Azure Service Bus not available - continuing without it")
		} else {
			fanout.Add(sender)
			a.closers = append(a.closers, sender.Close)
		}
	}

	logger.GetLogger().WithField("notifiers", fanout.Len()).Info("Sync notifiers configured")
	return fanout
}

// Close releases resources in reverse order of acquisition
func (a *application) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
