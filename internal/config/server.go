package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type ServerConfig struct {
	PostgresDSN string `env:"POSTGRES_DSN,required,notEmpty"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	AdminAPIKey string `env:"ADMIN_API_KEY"`

	ScreenshotDir     string `env:"SCREENSHOT_DIR" envDefault:"./screenshots"`
	JokerCatalogPath  string `env:"JOKER_CATALOG_PATH" envDefault:"./data/jokers.json"`
	MaxUploadMB       int    `env:"MAX_UPLOAD_MB" envDefault:"10"`
	RefreshIntervalMS int    `env:"REFRESH_INTERVAL_MS" envDefault:"5000"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}

// RefreshInterval is the live poll period for in-progress runs.
func (c ServerConfig) RefreshInterval() time.Duration {
	if c.RefreshIntervalMS <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.RefreshIntervalMS) * time.Millisecond
}

// MaxUploadBytes caps screenshot upload size.
func (c ServerConfig) MaxUploadBytes() int64 {
	mb := c.MaxUploadMB
	if mb <= 0 {
		mb = 10
	}
	return int64(mb) * 1024 * 1024
}
