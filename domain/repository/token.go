package repository

import (
	"context"

	"ytcurator/domain/model"
)

// ITokenStore persists the single OAuth credential record
type ITokenStore interface {
	// Load returns nil, nil when no credential is stored
	Load(ctx context.Context) (*model.Credential, error)
	Save(ctx context.Context, cred *model.Credential) error
	Delete(ctx context.Context) error
}
