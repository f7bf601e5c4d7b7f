package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/gravitas-015/hexutil/internal/config"
	"github.com/gravitas-015/hexutil/internal/logging"
	"github.com/gravitas-015/hexutil/internal/server"
)

func main() {
	log := logging.New(os.Stdout, zerolog.InfoLevel)
	log.Info().Msg("Starting hex session server...")

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/server.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("Failed to load configuration")
	}
	log = log.Level(cfg.LogLevel())
	log.Info().Str("path", configPath).Str("addr", cfg.Addr()).Msg("Configuration loaded")

	lvl, err := cfg.LoadLevel()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load level")
	}

	srv, err := server.New(cfg, lvl, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(cfg.Addr()); err != nil {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		log.Fatal().Err(err).Msg("Server error")
	case sig := <-sigChan:
		log.Info().Stringer("signal", sig).Msg("Received signal, shutting down...")
	}

	if err := srv.Shutdown(); err != nil {
		log.Error().Err(err).Msg("Error during shutdown")
	}

	log.Info().Msg("Server stopped")
}
