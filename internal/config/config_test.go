package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:                      "development",
		Port:                     "8080",
		JWTSecret:                "secure-secret-at-least-32-chars-long",
		DBDriver:                 "postgres",
		DBPassword:               "secure-password",
		DBSSLMode:                "require",
		DBConnMaxLifetimeMinutes: 5,
		MediaBackend:             "filesystem",
		MediaDir:                 "uploads",
		MediaMaxUploadSizeMB:     10,
	}
}

func TestConfig_ValidateProductionRules(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"development defaults are accepted", func(c *Config) {}, false},
		{"production with strong settings", func(c *Config) { c.Env = "production" }, false},
		{"production with default secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = defaultJWTSecret
		}, true},
		{"production with short secret", func(c *Config) {
			c.Env = "prod"
			c.JWTSecret = "short"
		}, true},
		{"production with disabled ssl", func(c *Config) {
			c.Env = "production"
			c.DBSSLMode = "disable"
		}, true},
		{"production on sqlite", func(c *Config) {
			c.Env = "production"
			c.DBDriver = "sqlite"
			c.DBSQLitePath = "prod.db"
		}, true},
		{"production with default db password", func(c *Config) {
			c.Env = "production"
			c.DBPassword = "password"
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateBackends(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"unknown db driver", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"sqlite without path", func(c *Config) { c.DBDriver = "sqlite" }, true},
		{"sqlite with path", func(c *Config) {
			c.DBDriver = "sqlite"
			c.DBSQLitePath = "dev.db"
		}, false},
		{"s3 without bucket", func(c *Config) { c.MediaBackend = "s3" }, true},
		{"s3 with bucket and region", func(c *Config) {
			c.MediaBackend = "s3"
			c.MediaS3Bucket = "linksphere-media"
			c.MediaS3Region = "eu-west-1"
		}, false},
		{"unknown media backend", func(c *Config) { c.MediaBackend = "ftp" }, true},
		{"zero upload limit", func(c *Config) { c.MediaMaxUploadSizeMB = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_EnvironmentOverridesAndNormalization(t *testing.T) {
	defer viper.Reset()

	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_DRIVER", "  SQLite ")
	t.Setenv("DB_SQLITE_PATH", ":memory:")
	t.Setenv("MEDIA_BACKEND", "FileSystem")
	t.Setenv("PORT", "9091")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "test", c.Env)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, "filesystem", c.MediaBackend)
	assert.Equal(t, "9091", c.Port)
	assert.Equal(t, "linksphere-api", c.JWTIssuer)
	assert.Equal(t, int64(10*1024*1024), c.MaxUploadBytes())
}
