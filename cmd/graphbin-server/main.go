// Command graphbin-server exposes the refinement pipeline as a background job
// service over HTTP.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Vini2/GraphBin-0.1/pkg/api"
	"github.com/Vini2/GraphBin-0.1/pkg/service"
)

type serverConfig struct {
	address         string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	maxWorkers      int
	jobTTL          time.Duration
	cleanupInterval time.Duration
}

func loadConfig() serverConfig {
	return serverConfig{
		address:         getEnv("SERVER_ADDRESS", ":8080"),
		readTimeout:     getDuration("SERVER_READ_TIMEOUT", 30*time.Second),
		writeTimeout:    getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		maxWorkers:      getInt("JOB_MAX_WORKERS", 4),
		jobTTL:          getDuration("JOB_RESULT_TTL", time.Hour),
		cleanupInterval: getDuration("JOB_CLEANUP_INTERVAL", 5*time.Minute),
	}
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	log.Info().Msg("Starting assembly-graph bin refinement service")

	cfg := loadConfig()
	log.Info().
		Str("address", cfg.address).
		Int("max_workers", cfg.maxWorkers).
		Msg("Configuration loaded")

	jobService := service.NewJobService(cfg.maxWorkers, cfg.jobTTL, cfg.cleanupInterval)
	handlers := api.NewHandlers(jobService)

	router := mux.NewRouter()
	api.SetupRoutes(router, handlers)
	router.Use(api.LoggingMiddleware)
	router.Use(api.CORSMiddleware)
	router.Use(api.RecoveryMiddleware)

	server := &http.Server{
		Addr:         cfg.address,
		Handler:      router,
		ReadTimeout:  cfg.readTimeout,
		WriteTimeout: cfg.writeTimeout,
	}

	go func() {
		log.Info().Str("address", cfg.address).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	log.Info().Msg("Server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
