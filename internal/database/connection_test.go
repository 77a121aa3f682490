package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripsit/tripsit-api/internal/config"
)

func TestDialectorSelectsDriver(t *testing.T) {
	cases := map[string]string{
		"mysql":     "mysql",
		"mariadb":   "mysql",
		"postgres":  "postgres",
		"sqlite":    "sqlite",
		"sqlite3":   "sqlite",
		"sqlserver": "sqlserver",
	}

	for dbType, want := range cases {
		cfg := &config.Config{Database: config.DatabaseConfig{
			Type: dbType, Host: "localhost", Port: "1234", Name: "tripsit", User: "u", Password: "p",
		}}
		dialector, err := Dialector(cfg)
		require.NoError(t, err, dbType)
		assert.Equal(t, want, dialector.Name(), dbType)
	}
}

func TestDialectorRejectsUnknownType(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Type: "oracle"}}
	_, err := Dialector(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}

func TestConnectAndMigrateSQLite(t *testing.T) {
	cfg := &config.Config{
		App:      config.AppConfig{Env: config.EnvTest},
		Database: config.DatabaseConfig{Type: "sqlite", Name: ":memory:", MaxConns: 1},
	}

	db, err := Connect(cfg)
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, AutoMigrate(db))
	for _, model := range Models() {
		assert.True(t, db.Migrator().HasTable(model), "%T", model)
	}
}
