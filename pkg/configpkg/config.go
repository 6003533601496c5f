// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Database drivers the application can run on.
const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverSQLite   = "sqlite"
)

// DefaultSQLiteSource is used when no database is configured.
const DefaultSQLiteSource = "maaser.db"

// Config stores all configuration of the application.
//
// The values are read by viper from a config file or environement variables.
type Config struct {
	DBDriver            string        `mapstructure:"DB_DRIVER"`
	DBSource            string        `mapstructure:"DB_SOURCE"`
	DatabaseURL         string        `mapstructure:"DATABASE_URL"`
	ServerAddress       string        `mapstructure:"SERVER_ADDRESS"`
	TokenType           string        `mapstructure:"TOKEN_TYPE"`
	TokenSymmetricKey   string        `mapstructure:"TOKEN_SYMMETRIC_KEY"`
	AccessTokenDuration time.Duration `mapstructure:"ACCESS_TOKEN_DURATION"`
	AdminID             string        `mapstructure:"ADMIN_ID"`
	RateLimit           string        `mapstructure:"RATE_LIMIT"`
	CORSAllowedOrigins  string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	HistoryPageSize     int32         `mapstructure:"HISTORY_PAGE_SIZE"`
	Environement        string        `mapstructure:"GO_ENV"`
}

// Load read configuration from .env, path/app.env and environment variables.
//
// Both files are optional. Environment variables take precedence.
func Load(path string) (Config, error) {
	var c Config

	_ = godotenv.Load()

	v := viper.New()

	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetDefault("DB_DRIVER", "")
	v.SetDefault("DB_SOURCE", "")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("TOKEN_TYPE", "paseto")
	v.SetDefault("TOKEN_SYMMETRIC_KEY", "")
	v.SetDefault("ACCESS_TOKEN_DURATION", 24*time.Hour)
	v.SetDefault("ADMIN_ID", "")
	v.SetDefault("RATE_LIMIT", "120-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("HISTORY_PAGE_SIZE", 10)
	v.SetDefault("GO_ENV", "production")

	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, err
		}
	}

	err = v.Unmarshal(&c)
	if err != nil {
		return c, err
	}

	c.resolveDatabase()

	return c, nil
}

// resolveDatabase falls back to DATABASE_URL and then to a local SQLite file.
func (c *Config) resolveDatabase() {
	if c.DBSource == "" {
		c.DBSource = c.DatabaseURL
	}

	if c.DBSource == "" {
		c.DBSource = DefaultSQLiteSource
		if c.DBDriver == "" {
			c.DBDriver = DriverSQLite
		}
	}

	if c.DBDriver == "" {
		c.DBDriver = DriverPostgres
	}
}

// AllowedOrigins returns the configured CORS origins.
func (c Config) AllowedOrigins() []string {
	var origins []string

	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return origins
}
