// Package auth guards every remote fetch with a valid, refreshed OAuth credential.
package auth

import (
	"context"
	"sync"
	"time"

	"ytcurator/domain/apperror"
	"ytcurator/domain/model"
	"ytcurator/domain/repository"
	"ytcurator/infrastructure/logger"

	"golang.org/x/oauth2"
)

// RefreshWindow is how close to expiry a credential is refreshed ahead of use
const RefreshWindow = 5 * time.Minute

// Service is the token freshness gate plus the account lifecycle around it
type Service struct {
	store    repository.ITokenStore
	provider Provider
	now      func() time.Time
	// serialises load-refresh-save so concurrent fetches refresh once
	mu sync.Mutex
}

func NewService(store repository.ITokenStore, provider Provider) *Service {
	return &Service{store: store, provider: provider, now: time.Now}
}

// EnsureValidToken makes sure a usable credential is stored, refreshing it when it expires within RefreshWindow.
// Every failure is an AUTH_ERROR and is never retried.
func (s *Service) EnsureValidToken(ctx context.Context) error {
	_, err := s.validCredential(ctx)
	return err
}

func (s *Service) validCredential(ctx context.Context) (*model.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, err := s.store.Load(ctx)
	if err != nil {
		return nil, apperror.Auth(err, "failed to load credential")
	}
	if cred == nil || (cred.AccessToken == "" && cred.RefreshToken == "") {
		return nil, apperror.ErrNotAuthenticated
	}
	if cred.Expiry.IsZero() || cred.Expiry.After(s.now().Add(RefreshWindow)) {
		return cred, nil
	}
	if cred.RefreshToken == "" {
		return nil, apperror.New(apperror.KindAuth, "credential expired and no refresh token is stored")
	}

	tok, err := s.provider.Refresh(ctx, cred.RefreshToken)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Token refresh failed")
		return nil, apperror.Auth(err, "token refresh failed")
	}
	refreshed := merge(cred, model.CredentialFromOAuth2(tok))
	if err := s.store.Save(ctx, refreshed); err != nil {
		return nil, apperror.Auth(err, "failed to persist refreshed credential")
	}
	logger.GetLogger().WithField("expiry", refreshed.Expiry).Info("Token refreshed successfully")
	return refreshed, nil
}

// merge keeps the previous refresh token and scope when the provider omits them
func merge(prev, next *model.Credential) *model.Credential {
	if next.RefreshToken == "" {
		next.RefreshToken = prev.RefreshToken
	}
	if next.Scope == "" {
		next.Scope = prev.Scope
	}
	if next.TokenType == "" {
		next.TokenType = prev.TokenType
	}
	return next
}

// IsAuthenticated reports whether a credential is stored. Store failures count as signed out.
func (s *Service) IsAuthenticated(ctx context.Context) bool {
	cred, err := s.store.Load(ctx)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Failed to load credential")
		return false
	}
	return cred != nil && (cred.AccessToken != "" || cred.RefreshToken != "")
}

// Logout removes the stored credential
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Delete(ctx); err != nil {
		return apperror.Auth(err, "failed to remove credential")
	}
	return nil
}

func (s *Service) AuthCodeURL(state string) string {
	return s.provider.AuthCodeURL(state)
}

// Exchange trades an authorization code for a credential and stores it
func (s *Service) Exchange(ctx context.Context, code string) error {
	tok, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return apperror.Auth(err, "failed to exchange authorization code")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(ctx, model.CredentialFromOAuth2(tok)); err != nil {
		return apperror.Auth(err, "failed to persist credential")
	}
	logger.GetLogger().Info("YouTube account connected")
	return nil
}

// TokenSource exposes the stored credential to HTTP clients, refreshing through the gate.
// It is not wrapped in a reuse cache: a sign-in with another account must take effect at once.
func (s *Service) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &storeTokenSource{ctx: ctx, svc: s}
}

type storeTokenSource struct {
	ctx context.Context
	svc *Service
}

func (t *storeTokenSource) Token() (*oauth2.Token, error) {
	cred, err := t.svc.validCredential(t.ctx)
	if err != nil {
		return nil, err
	}
	return cred.OAuth2Token(), nil
}
