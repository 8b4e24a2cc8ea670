package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ytcurator/domain/model"
	"ytcurator/domain/repository"
)

type OAuthTokenRepositoryMSSQL struct {
	db       *sql.DB
	platform string
	now      func() time.Time
}

func NewOAuthTokenRepositoryMSSQL(db *sql.DB) repository.ITokenStore {
	return &OAuthTokenRepositoryMSSQL{db: db, platform: PlatformYouTube, now: time.Now}
}

// EnsureOAuthTokenSchemaMSSQL creates the oauth_tokens table for SQL Server if it does not exist.
func EnsureOAuthTokenSchemaMSSQL(db *sql.DB) error {
	ddl := `IF NOT EXISTS (SELECT * FROM sys.objects WHERE object_id = OBJECT_ID(N'dbo.oauth_tokens') AND type in (N'U'))
BEGIN
    CREATE TABLE dbo.[oauth_tokens] (
        platform NVARCHAR(64) NOT NULL PRIMARY KEY,
        access_token NVARCHAR(MAX) NOT NULL,
        refresh_token NVARCHAR(MAX) NOT NULL,
        expires_at DATETIME2 NULL,
        scopes NVARCHAR(MAX) NOT NULL,
        token_type NVARCHAR(32) NULL,
        created_at DATETIME2 NOT NULL,
        updated_at DATETIME2 NOT NULL
    );
END`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create oauth_tokens (mssql): %w", err)
	}
	return nil
}

func (r *OAuthTokenRepositoryMSSQL) Save(ctx context.Context, cred *model.Credential) error {
	now := r.now().UTC()
	// MERGE upsert by platform
	q := `MERGE dbo.[oauth_tokens] AS target
USING (VALUES (@p1)) AS src(platform)
ON target.platform = src.platform
WHEN MATCHED THEN UPDATE SET
    access_token=@p2,
    refresh_token=@p3,
    expires_at=@p4,
    scopes=@p5,
    token_type=@p6,
    updated_at=@p7
WHEN NOT MATCHED THEN
    INSERT (platform, access_token, refresh_token, expires_at, scopes, token_type, created_at, updated_at)
    VALUES (@p1,@p2,@p3,@p4,@p5,@p6,@p7,@p7);`
	_, err := r.db.ExecContext(ctx, q,
		r.platform,
		cred.AccessToken,
		cred.RefreshToken,
		nullTime(cred.Expiry),
		cred.Scope,
		nullString(cred.TokenType),
		now,
	)
	return err
}

func (r *OAuthTokenRepositoryMSSQL) Load(ctx context.Context) (*model.Credential, error) {
	row := r.db.QueryRowContext(ctx, `SELECT access_token, refresh_token, expires_at, scopes, token_type FROM dbo.[oauth_tokens] WHERE platform=@p1`, r.platform)
	return scanCredential(row)
}

func (r *OAuthTokenRepositoryMSSQL) Delete(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM dbo.[oauth_tokens] WHERE platform=@p1`, r.platform)
	return err
}
