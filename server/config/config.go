package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Server captures process level configuration.
type Server struct {
	Addr    string `env:"SHOP_ADDR" envDefault:":8080"`
	DataDir string `env:"SHOP_DATA_DIR" envDefault:"data"`
	// RedisURL moves player records off disk when set.
	RedisURL string `env:"SHOP_REDIS_URL"`
	// CatalogPath empty means the embedded catalog.
	CatalogPath  string `env:"SHOP_CATALOG"`
	StartingGold int64  `env:"SHOP_STARTING_GOLD" envDefault:"100"`
	// JWTKey empty generates a key and persists it under DataDir.
	JWTKey   string `env:"JWT_SIGNING_KEY"`
	LogLevel string `env:"SHOP_LOG_LEVEL" envDefault:"info"`
}

func Default() Server {
	return Server{
		Addr:         ":8080",
		DataDir:      "data",
		StartingGold: 100,
		LogLevel:     "info",
	}
}

// FromEnv reads SHOP_* environment variables over the defaults.
func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.StartingGold < 0 {
		return Server{}, fmt.Errorf("SHOP_STARTING_GOLD: want a non-negative integer, got %d", cfg.StartingGold)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	return cfg, nil
}
