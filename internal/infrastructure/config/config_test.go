package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "spicedepot-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, int64(10<<20), cfg.HTTP.MaxBodySize)
	assert.Equal(t, 24*time.Hour, cfg.Billing.IdempotencyTTL)
	assert.Equal(t, "uploads", cfg.Storage.LocalDir)

	t.Run("set values are kept", func(t *testing.T) {
		cfg := &Config{}
		cfg.App.Port = "9000"
		cfg.Database.Driver = "sqlite"
		applyDefaults(cfg)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
	})
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	t.Run("defaults are valid", func(t *testing.T) {
		require.NoError(t, base().validate())
	})

	t.Run("rejects unknown drivers", func(t *testing.T) {
		cfg := base()
		cfg.Database.Driver = "mysql"
		assert.Error(t, cfg.validate())
	})

	t.Run("idle connections cannot exceed open connections", func(t *testing.T) {
		cfg := base()
		cfg.Database.MaxIdleConns = cfg.Database.MaxOpenConns + 1
		assert.Error(t, cfg.validate())
	})

	t.Run("production hardening", func(t *testing.T) {
		prod := func() *Config {
			cfg := base()
			cfg.App.Env = "production"
			cfg.Database.Password = "secret"
			cfg.Database.SSLMode = "require"
			return cfg
		}

		require.NoError(t, prod().validate())

		cfg := prod()
		cfg.Database.Driver = "sqlite"
		assert.Error(t, cfg.validate(), "sqlite is a local-only driver")

		cfg = prod()
		cfg.Database.Password = ""
		assert.Error(t, cfg.validate())

		cfg = prod()
		cfg.Database.SSLMode = "disable"
		assert.Error(t, cfg.validate())

		cfg = prod()
		cfg.HTTP.CORSAllowOrigins = []string{"*"}
		assert.Error(t, cfg.validate())
	})
}

func TestDatabaseDSN(t *testing.T) {
	d := &DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "spice",
		Password: "p@ss/word",
		DBName:   "spicedepot",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.True(t, strings.HasPrefix(dsn, "postgres://"), dsn)
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// special characters in the password must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
	assert.Contains(t, dsn, "p%40ss%2Fword")
}

func TestRedisAddr(t *testing.T) {
	r := &RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", r.Addr())
}
