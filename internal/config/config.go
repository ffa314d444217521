package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Version     string `envconfig:"APP_VERSION" default:"0.1.0"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// SQLite
	DatabasePath   string        `envconfig:"DATABASE_PATH" default:"./storage/db/development.db"`
	DBMaxOpenConns int           `envconfig:"DB_MAX_OPEN_CONNS" default:"1"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"15s"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	// S3, used by the backup command
	S3Endpoint        string `envconfig:"S3_ENDPOINT" default:"localhost:9000"`
	S3AccessKeyID     string `envconfig:"S3_ACCESS_KEY_ID" default:"minioadmin"`
	S3SecretAccessKey string `envconfig:"S3_SECRET_ACCESS_KEY" default:"minioadmin"`
	S3BucketName      string `envconfig:"S3_BUCKET_NAME" default:"backups"`
	S3UseSSL          bool   `envconfig:"S3_USE_SSL" default:"false"`
	BackupKeep        int    `envconfig:"BACKUP_KEEP" default:"4"`
}

// Load reads the process environment, after merging a .env file when one exists.
func Load() (*Config, error) {
	// A missing .env is fine; real deployments set the variables directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	if cfg.DBMaxOpenConns < 1 {
		return nil, fmt.Errorf("DB_MAX_OPEN_CONNS must be at least 1, got %d", cfg.DBMaxOpenConns)
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", cfg.RequestTimeout)
	}
	if cfg.BackupKeep < 1 {
		return nil, fmt.Errorf("BACKUP_KEEP must be at least 1, got %d", cfg.BackupKeep)
	}

	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
