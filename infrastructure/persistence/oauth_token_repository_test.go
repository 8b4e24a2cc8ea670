package persistence

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"ytcurator/domain/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestOAuthTokenRepository_Load(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expiry := fixedNow.Add(time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT access_token, refresh_token, expires_at, scopes, token_type FROM oauth_tokens WHERE platform=$1`)).
		WithArgs("youtube").
		WillReturnRows(sqlmock.NewRows([]string{"access_token", "refresh_token", "expires_at", "scopes", "token_type"}).
			AddRow("access", "refresh", expiry, "scope-a scope-b", "Bearer"))

	cred, err := NewOAuthTokenRepository(db).Load(context.Background())

	require.NoError(t, err)
	require.Equal(t, &model.Credential{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Scope:        "scope-a scope-b",
		TokenType:    "Bearer",
		Expiry:       expiry,
	}, cred)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOAuthTokenRepository_LoadMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT access_token").WithArgs("youtube").WillReturnError(sql.ErrNoRows)

	cred, err := NewOAuthTokenRepository(db).Load(context.Background())

	require.NoError(t, err)
	assert.Nil(t, cred)
}

func TestOAuthTokenRepository_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := &OAuthTokenRepository{db: db, platform: PlatformYouTube, now: func() time.Time { return fixedNow }}
	mock.ExpectExec("INSERT INTO oauth_tokens").
		WithArgs("youtube", "access", "refresh", sql.NullTime{}, "", sql.NullString{}, fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), &model.Credential{AccessToken: "access", RefreshToken: "refresh"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOAuthTokenRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM oauth_tokens WHERE platform=$1`)).
		WithArgs("youtube").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewOAuthTokenRepository(db).Delete(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureOAuthTokenSchema_AddsMissingColumn(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS oauth_tokens").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM information_schema.columns").
		WithArgs("oauth_tokens", "scopes").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery("SELECT 1 FROM information_schema.columns").
		WithArgs("oauth_tokens", "token_type").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("ALTER TABLE oauth_tokens ADD COLUMN token_type").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, EnsureOAuthTokenSchema(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOAuthTokenRepositoryMSSQL_SaveAndLoad(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := &OAuthTokenRepositoryMSSQL{db: db, platform: PlatformYouTube, now: func() time.Time { return fixedNow }}
	expiry := fixedNow.Add(time.Hour)
	mock.ExpectExec("MERGE dbo.\\[oauth_tokens\\]").
		WithArgs("youtube", "access", "refresh", sql.NullTime{Time: expiry, Valid: true}, "scope", sql.NullString{String: "Bearer", Valid: true}, fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT access_token, refresh_token, expires_at, scopes, token_type FROM dbo.\\[oauth_tokens\\]").
		WithArgs("youtube").
		WillReturnRows(sqlmock.NewRows([]string{"access_token", "refresh_token", "expires_at", "scopes", "token_type"}).
			AddRow("access", "refresh", expiry, "scope", nil))

	cred := &model.Credential{AccessToken: "access", RefreshToken: "refresh", Scope: "scope", TokenType: "Bearer", Expiry: expiry}
	require.NoError(t, repo.Save(context.Background(), cred))

	loaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "access", loaded.AccessToken)
	assert.Empty(t, loaded.TokenType)
	assert.NoError(t, mock.ExpectationsWereMet())
}
