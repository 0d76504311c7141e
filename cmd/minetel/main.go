// Minetel - mine telemetry readings service
//
// This is the main entry point for the minetel service. It exposes the
// sensor readings HTTP API backed by MongoDB and, when enabled, ingests
// readings published by gateways over MQTT.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/oredata/minetel/internal/api"
	"github.com/oredata/minetel/internal/infrastructure/config"
	"github.com/oredata/minetel/internal/infrastructure/logging"
	"github.com/oredata/minetel/internal/infrastructure/mongo"
	"github.com/oredata/minetel/internal/infrastructure/mqtt"
	"github.com/oredata/minetel/internal/ingest"
	"github.com/oredata/minetel/internal/reading"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting minetel",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Connect to MongoDB. Fail fast: the API is useless without its store.
	mongoClient, err := mongo.Connect(ctx, cfg.Mongo)
	if err != nil {
		return fmt.Errorf("connecting to MongoDB: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MongoDB")
		if closeErr := mongoClient.Close(context.Background()); closeErr != nil {
			log.Error("error closing MongoDB", "error", closeErr)
		}
	}()
	log.Info("MongoDB connected",
		"database", cfg.Mongo.Database,
		"collection", cfg.Mongo.Collection,
	)

	readings := reading.NewMongoRepository(mongoClient.Collection())

	// Connect to MQTT broker and start ingestion (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		ingestor, ingestErr := ingest.New(readings, log, cfg.MQTT.Topic, byte(cfg.MQTT.QoS))
		if ingestErr != nil {
			return fmt.Errorf("creating ingestor: %w", ingestErr)
		}
		if startErr := ingestor.Start(mqttClient); startErr != nil {
			return fmt.Errorf("starting ingestion: %w", startErr)
		}
	} else {
		log.Info("MQTT ingestion disabled")
	}

	// Start HTTP API
	server, err := api.New(api.Deps{
		Config:   cfg.API,
		Security: cfg.Security,
		Logger:   log,
		Readings: readings,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error stopping API server", "error", closeErr)
		}
	}()
	log.Info("API listening",
		"host", cfg.API.Host,
		"port", cfg.API.Port,
	)

	// Verify all connections are healthy
	if err := healthCheck(ctx, mongoClient, mqttClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server
	// 2. MQTT (if enabled)
	// 3. MongoDB

	log.Info("minetel stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses MINETEL_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("MINETEL_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies infrastructure connections are healthy.
// The MQTT client may be nil when ingestion is disabled.
func healthCheck(ctx context.Context, mongoClient *mongo.Client, mqttClient *mqtt.Client) error {
	if err := mongoClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mongodb: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	return nil
}
