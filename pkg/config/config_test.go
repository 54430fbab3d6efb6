package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("people-service")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, EnvDevelopment, cfg.Server.Environment)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "migrations", cfg.Database.MigrationsPath)
	assert.Equal(t, 8*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "people-service", cfg.JWT.Issuer)
	assert.True(t, cfg.Polisher.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Polisher.Timeout)
	assert.False(t, cfg.Demo.SwitchUserEnabled)
	assert.Equal(t, "UTC", cfg.Time.Zone)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PEOPLE_SERVER_PORT", "9090")
	t.Setenv("PEOPLE_DATABASE_PASSWORD", "secret")
	t.Setenv("PEOPLE_POLISHER_ENABLED", "false")
	t.Setenv("PEOPLE_TIME_ZONE", "Europe/Berlin")

	cfg, err := Load("people-service")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.False(t, cfg.Polisher.Enabled)

	loc, err := cfg.Time.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "people",
		Password: "pw",
		Database: "people",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5432 user=people password=pw dbname=people sslmode=require",
		cfg.DSN(),
	)
}

func TestLoadWithValidationProduction(t *testing.T) {
	t.Setenv("PEOPLE_SERVER_ENVIRONMENT", EnvProduction)
	t.Setenv("PEOPLE_DATABASE_HOST", "db.internal")

	_, err := LoadWithValidation("people-service")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PEOPLE_JWT_SECRET")

	t.Setenv("PEOPLE_JWT_SECRET", "0123456789abcdef0123456789abcdef")
	cfg, err := LoadWithValidation("people-service")
	require.NoError(t, err)
	assert.Equal(t, EnvProduction, cfg.Server.Environment)

	t.Setenv("PEOPLE_DEMO_SWITCH_USER_ENABLED", "true")
	_, err = LoadWithValidation("people-service")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SWITCH_USER")
}

func TestLoadWithValidationBadZone(t *testing.T) {
	t.Setenv("PEOPLE_TIME_ZONE", "Mars/Olympus")

	_, err := LoadWithValidation("people-service")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid time zone")
}
