package main

import (
	"context"
	"flag"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/aedstrom/kursbord/internal/app"
)

// Provisions API keys in Redis for the Redis auth mode. Running it for
// an email that already has a key just prints the existing one.
func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	var email = flag.String("email", "", "Client email to provision a key for")
	flag.Parse()

	if *email == "" {
		logger.Error.Fatalf("Usage: apikey -email client@example.com")
	}

	config, err := app.LoadConfig(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}

	manager, err := app.NewKeyManager(config)
	if err != nil {
		logger.Error.Fatalf("Failed to init key manager: %v", err)
	}
	defer manager.Close()

	info, isNew, err := manager.FetchOrCreateKey(context.Background(), *email)
	if err != nil {
		logger.Error.Fatalf("Failed to provision key: %v", err)
	}

	if isNew {
		logger.Info.Printf("Created key for %s: %s", *email, info.Key)
	} else {
		logger.Info.Printf("Existing key for %s: %s (requests: %d, created: %s)",
			*email, info.Key, info.RequestCount, info.CreatedDttm)
	}
}
