package persistence

import (
	"fmt"
	"strings"

	"ytcurator/domain/repository"
	"ytcurator/infrastructure/configuration"
)

// NewTokenStore builds the credential store selected by cfg.Token.Store.
// The returned close function releases any database connection and is never nil.
func NewTokenStore(cfg configuration.Config) (repository.ITokenStore, func() error, error) {
	noop := func() error { return nil }
	switch strings.ToLower(cfg.Token.Store) {
	case "", "file":
		return NewFileTokenStore(cfg.Token.File), noop, nil
	case "postgres", "postgresql":
		db, err := NewPostgreSQLDB(cfg.Postgres)
		if err != nil {
			return nil, noop, fmt.Errorf("connect postgres token store: %w", err)
		}
		if err := EnsureOAuthTokenSchema(db); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return NewOAuthTokenRepository(db), db.Close, nil
	case "mssql", "sqlserver":
		db, err := NewMSSQLDB(cfg.MSSQL)
		if err != nil {
			return nil, noop, fmt.Errorf("connect mssql token store: %w", err)
		}
		if err := EnsureOAuthTokenSchemaMSSQL(db); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return NewOAuthTokenRepositoryMSSQL(db), db.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown token store %q", cfg.Token.Store)
	}
}
