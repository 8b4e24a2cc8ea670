package persistence

import (
	"testing"

	"ytcurator/infrastructure/configuration"

	"github.com/stretchr/testify/assert"
)

func TestPostgresDSN(t *testing.T) {
	tests := []struct {
		name     string
		cfg      configuration.Postgres
		expected string
	}{
		{
			name:     "with password",
			cfg:      configuration.Postgres{Host: "db", Port: "5432", User: "app", Password: "p@ss", Name: "ytcurator"},
			expected: "postgres://app:p%40ss@db:5432/ytcurator?sslmode=disable",
		},
		{
			name:     "without password and explicit sslmode",
			cfg:      configuration.Postgres{Host: "db", Port: "5433", User: "app", Name: "cache", SSLMode: "require"},
			expected: "postgres://app@db:5433/cache?sslmode=require",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, postgresDSN(tt.cfg))
		})
	}
}

func TestMSSQLDSN(t *testing.T) {
	local := mssqlDSN(configuration.Db{Host: "localhost", Port: "1433", User: "sa", Password: "pw", Name: "ytcurator"})
	assert.Equal(t, "sqlserver://sa:pw@localhost:1433?TrustServerCertificate=true&database=ytcurator&encrypt=true", local)

	remote := mssqlDSN(configuration.Db{Host: "prod.database.windows.net", Port: "1433", User: "app", Name: "ytcurator"})
	assert.Equal(t, "sqlserver://app@prod.database.windows.net:1433?database=ytcurator&encrypt=true", remote)
}

func TestNewTokenStore_File(t *testing.T) {
	cfg := configuration.Config{Token: configuration.Token{Store: "file", File: "token.json"}}

	store, closeFn, err := NewTokenStore(cfg)

	assert.NoError(t, err)
	assert.IsType(t, &FileTokenStore{}, store)
	assert.NoError(t, closeFn())
}

func TestNewTokenStore_Unknown(t *testing.T) {
	_, closeFn, err := NewTokenStore(configuration.Config{Token: configuration.Token{Store: "etcd"}})

	assert.Error(t, err)
	assert.NotNil(t, closeFn)
}
