package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"
)

const (
	defaultPort      = ":3000"
	defaultKeyHeader = "x-api-key"

	envDSN    = "KURSBORD_DSN"
	envPort   = "KURSBORD_PORT"
	envAPIKey = "KURSBORD_API_KEY"
)

type Config struct {
	Server struct {
		Port string `toml:"port"`
	} `toml:"server"`

	API struct {
		KeyHeader string `toml:"key_header"`
		Key       string `toml:"key"`
	} `toml:"api"`

	Auth struct {
		RedisURL    string `toml:"redis_url"`
		KeyTemplate string `toml:"key_template"`
	} `toml:"auth"`

	Database struct {
		DSN           string `toml:"dsn"`
		MigrationsDir string `toml:"migrations_dir"`
	} `toml:"database"`

	CORS struct {
		AllowedOrigins []string `toml:"allowed_origins"`
	} `toml:"cors"`
}

// LoadConfig reads the TOML file and then lets KURSBORD_* environment
// variables override it, so the service can run from env alone. A
// missing config file is fine; a missing DSN is not.
func LoadConfig(path string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		logger.Debug.Printf("No config file at %s, relying on environment", path)
	case err != nil:
		return nil, fmt.Errorf("error reading config file: %w", err)
	default:
		if err := toml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("error parsing config file %s: %w", path, err)
		}
	}

	if dsn := os.Getenv(envDSN); dsn != "" {
		config.Database.DSN = dsn
	}
	if port := os.Getenv(envPort); port != "" {
		config.Server.Port = port
	}
	if key := os.Getenv(envAPIKey); key != "" {
		config.API.Key = key
	}

	if config.Database.DSN == "" {
		return nil, fmt.Errorf("database DSN is not configured: set database.dsn or %s", envDSN)
	}

	if config.Server.Port == "" {
		config.Server.Port = defaultPort
	}
	if !strings.Contains(config.Server.Port, ":") {
		config.Server.Port = ":" + config.Server.Port
	}
	if config.API.KeyHeader == "" {
		config.API.KeyHeader = defaultKeyHeader
	}
	if config.Database.MigrationsDir == "" {
		config.Database.MigrationsDir = "./migrations"
	}
	if len(config.CORS.AllowedOrigins) == 0 {
		config.CORS.AllowedOrigins = []string{
			"chrome-extension://jpodbbdeijbdjkhhafhedahegamgdjpp",
			"http://localhost:3000",
		}
	}

	return &config, nil
}
