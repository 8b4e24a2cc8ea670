package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ytcurator/domain/model"
	"ytcurator/domain/repository"
)

// PlatformYouTube is the oauth_tokens row holding the YouTube credential
const PlatformYouTube = "youtube"

// EnsureOAuthTokenSchema creates the oauth_tokens table and adds columns missing from older deployments
func EnsureOAuthTokenSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ddl := `CREATE TABLE IF NOT EXISTS oauth_tokens (
        platform TEXT PRIMARY KEY,
        access_token TEXT NOT NULL,
        refresh_token TEXT NOT NULL DEFAULT '',
        expires_at TIMESTAMPTZ NULL,
        scopes TEXT NOT NULL DEFAULT '',
        token_type TEXT NULL,
        created_at TIMESTAMPTZ NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL
    )`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create oauth_tokens table: %w", err)
	}

	checks := []struct {
		column string
		ddl    string
	}{
		{"scopes", "ALTER TABLE oauth_tokens ADD COLUMN scopes TEXT NOT NULL DEFAULT ''"},
		{"token_type", "ALTER TABLE oauth_tokens ADD COLUMN token_type TEXT NULL"},
	}
	for _, c := range checks {
		exists, err := columnExists(ctx, db, "oauth_tokens", c.column)
		if err != nil {
			return err
		}
		if !exists {
			if _, err := db.ExecContext(ctx, c.ddl); err != nil {
				return fmt.Errorf("adding column oauth_tokens.%s failed: %w", c.column, err)
			}
		}
	}
	return nil
}

func columnExists(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	row := db.QueryRowContext(ctx, `SELECT 1 FROM information_schema.columns WHERE table_name=$1 AND column_name=$2`, table, column)
	var one int
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// OAuthTokenRepository stores the credential in PostgreSQL
type OAuthTokenRepository struct {
	db       *sql.DB
	platform string
	now      func() time.Time
}

func NewOAuthTokenRepository(db *sql.DB) repository.ITokenStore {
	return &OAuthTokenRepository{db: db, platform: PlatformYouTube, now: time.Now}
}

func (r *OAuthTokenRepository) Save(ctx context.Context, cred *model.Credential) error {
	now := r.now().UTC()
	q := `INSERT INTO oauth_tokens (platform, access_token, refresh_token, expires_at, scopes, token_type, created_at, updated_at)
		  VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		  ON CONFLICT (platform) DO UPDATE SET
			access_token=EXCLUDED.access_token,
			refresh_token=EXCLUDED.refresh_token,
			expires_at=EXCLUDED.expires_at,
			scopes=EXCLUDED.scopes,
			token_type=EXCLUDED.token_type,
			updated_at=EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, q, r.platform, cred.AccessToken, cred.RefreshToken, nullTime(cred.Expiry), cred.Scope, nullString(cred.TokenType), now, now)
	return err
}

func (r *OAuthTokenRepository) Load(ctx context.Context) (*model.Credential, error) {
	row := r.db.QueryRowContext(ctx, `SELECT access_token, refresh_token, expires_at, scopes, token_type FROM oauth_tokens WHERE platform=$1`, r.platform)
	return scanCredential(row)
}

func (r *OAuthTokenRepository) Delete(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM oauth_tokens WHERE platform=$1`, r.platform)
	return err
}

func scanCredential(row *sql.Row) (*model.Credential, error) {
	cred := &model.Credential{}
	var exp sql.NullTime
	var tokenType sql.NullString
	if err := row.Scan(&cred.AccessToken, &cred.RefreshToken, &exp, &cred.Scope, &tokenType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if exp.Valid {
		cred.Expiry = exp.Time
	}
	if tokenType.Valid {
		cred.TokenType = tokenType.String
	}
	return cred, nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
