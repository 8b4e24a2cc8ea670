package usecase

import (
	"context"

	"ytcurator/domain/dto"
)

// ICredentialService is the account side of the token gate
type ICredentialService interface {
	TokenGate
	IsAuthenticated(ctx context.Context) bool
	Logout(ctx context.Context) error
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) error
}

// IAuthUseCase drives sign-in and sign-out
type IAuthUseCase interface {
	Status(ctx context.Context) dto.AuthStatus
	AuthCodeURL(state string) string
	CompleteLogin(ctx context.Context, code string) error
	Logout(ctx context.Context) error
}

// AuthUseCase ties the credential lifecycle to the cache: cache keys are not per account,
// so switching or removing the account clears every collection.
type AuthUseCase struct {
	credentials ICredentialService
	library     ILibraryUseCase
}

func NewAuthUseCase(credentials ICredentialService, library ILibraryUseCase) IAuthUseCase {
	return &AuthUseCase{credentials: credentials, library: library}
}

func (u *AuthUseCase) Status(ctx context.Context) dto.AuthStatus {
	return dto.AuthStatus{Authenticated: u.credentials.IsAuthenticated(ctx)}
}

func (u *AuthUseCase) AuthCodeURL(state string) string {
	return u.credentials.AuthCodeURL(state)
}

// CompleteLogin stores the credential obtained from the OAuth callback
func (u *AuthUseCase) CompleteLogin(ctx context.Context, code string) error {
	if err := u.credentials.Exchange(ctx, code); err != nil {
		return err
	}
	u.library.ClearCache(ctx)
	return nil
}

// Logout removes the credential and every cached collection
func (u *AuthUseCase) Logout(ctx context.Context) error {
	if err := u.credentials.Logout(ctx); err != nil {
		return err
	}
	u.library.ClearCache(ctx)
	return nil
}
