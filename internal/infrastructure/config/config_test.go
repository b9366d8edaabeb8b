package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "kitchenops-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, 10*time.Minute, cfg.Redis.TemplateCacheTTL)
	assert.Equal(t, 100, cfg.Event.BatchSize)
	assert.Equal(t, 5*time.Second, cfg.Event.PollInterval)
	assert.Equal(t, 0, cfg.Event.MaxRetries, "retries are unlimited unless configured")
	assert.Equal(t, 3, cfg.Report.ServicesPerDay)
	assert.Equal(t, 2, cfg.Report.MealsPerDay)
	assert.Equal(t, "2.50", cfg.Report.BreakfastRate)
	assert.Equal(t, "4.25", cfg.Report.LunchRate)
	assert.Equal(t, 3, cfg.Report.MinMealComponents)
	assert.Equal(t, 34.0, cfg.Report.CoolerMinF)
	assert.Equal(t, 40.0, cfg.Report.CoolerMaxF)
	assert.Equal(t, 0.0, cfg.Report.FreezerMaxF)
	assert.Equal(t, 135.0, cfg.Report.HotHoldMinF)
}

func TestApplyDefaults_DoesNotOverrideSetValues(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Host = "db.internal"
	cfg.Event.MaxRetries = 8
	cfg.Report.LunchRate = "5.00"
	cfg.Report.CoolerMaxF = 41
	applyDefaults(cfg)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 8, cfg.Event.MaxRetries)
	assert.Equal(t, "5.00", cfg.Report.LunchRate)
	assert.Equal(t, 41.0, cfg.Report.CoolerMaxF)
}

func TestValidate(t *testing.T) {
	t.Run("accepts defaults", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		require.NoError(t, cfg.validate())
	})

	t.Run("rejects idle conns above open conns", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.Database.MaxIdleConns = 50

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
	})

	t.Run("rejects negative max retries", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.Event.MaxRetries = -1

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_retries")
	})

	t.Run("requires password in production", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.App.Env = "production"
		cfg.Database.SSLMode = "require"

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "password")
	})

	t.Run("rejects sslmode disable in production", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.App.Env = "production"
		cfg.Database.Password = "secret"

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")
	})

	t.Run("rejects wildcard cors origin in production", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.App.Env = "production"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		cfg.HTTP.CORSAllowOrigins = []string{"*"}

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors_allow_origins")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss w/rd",
		DBName:   "kitchenops",
		SSLMode:  "disable",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "sslmode=disable")
	assert.NotContains(t, dsn, "p@ss w/rd", "password must be escaped")
}
