package database

import (
	"testing"

	"yamdb/pkg/utils"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnStringEscapesCredentials(t *testing.T) {
	connStr := ConnString(utils.DatabaseConfig{
		Host:     "db",
		Port:     "5433",
		Name:     "yamdb",
		User:     "app",
		Password: "p@ss word",
	})

	cfg, err := pgxpool.ParseConfig(connStr)
	require.NoError(t, err)
	assert.Equal(t, "db", cfg.ConnConfig.Host)
	assert.EqualValues(t, 5433, cfg.ConnConfig.Port)
	assert.Equal(t, "yamdb", cfg.ConnConfig.Database)
	assert.Equal(t, "app", cfg.ConnConfig.User)
	assert.Equal(t, "p@ss word", cfg.ConnConfig.Password)
}
