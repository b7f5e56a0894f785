package main

import (
	"flag"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/aedstrom/kursbord/internal/app"
	"github.com/aedstrom/kursbord/internal/handlers"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to start: %v", err)
	}
	defer service.Close()

	if err := service.Store.ApplyMigrations(service.Config.Database.MigrationsDir); err != nil {
		logger.Error.Fatalf("Failed to apply migrations: %v", err)
	}

	scoreHandler := handlers.NewScoreHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /store-data", scoreHandler.HandleSubmit)
	mux.HandleFunc("GET /fetch-data", scoreHandler.HandleFetch)
	mux.Handle("GET /metrics", promhttp.Handler())

	handler := handlers.CORS(service.Config.CORS.AllowedOrigins, mux)

	logger.Info.Printf("Starting kursbord server on %s", service.Config.Server.Port)
	if service.Auth.Enabled() {
		logger.Debug.Printf("API key auth enabled, header %s", service.Config.API.KeyHeader)
	}
	if err := http.ListenAndServe(service.Config.Server.Port, handler); err != nil {
		logger.Error.Fatalf("Kursbord server failed: %v", err)
	}
}
