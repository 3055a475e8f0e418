// Package config loads service settings from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	HistoryCapacity int
	AutoInterval    time.Duration

	// RandomSeed fixes the shared random source for reproducible runs.
	// Zero selects the system-seeded source.
	RandomSeed uint64

	// Kafka tick fan-out configuration.
	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string

	// DEM overlay artifact supplied by the raster pre-processing
	// collaborator. Empty path disables the overlay.
	DEMOverlayPath string
	DEMBounds      [2][2]float64 // [[south, west], [north, east]]
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parsePositiveDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	autoInterval, err := parsePositiveDuration("AUTO_INTERVAL", "5s")
	if err != nil {
		return nil, err
	}

	historyCapacity, err := parseHistoryCapacity()
	if err != nil {
		return nil, err
	}

	seed, err := parseRandomSeed()
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	demPath := os.Getenv("DEM_OVERLAY_PATH")
	var demBounds [2][2]float64
	if demPath != "" {
		demBounds, err = parseDEMBounds(os.Getenv("DEM_BOUNDS"))
		if err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		HistoryCapacity: historyCapacity,
		AutoInterval:    autoInterval,
		RandomSeed:      seed,
		KafkaEnabled:    kafkaEnabled,
		KafkaBrokers:    brokers,
		KafkaSinkTopic:  envOrDefault("KAFKA_SINK_TOPIC", "bench-risk-ticks"),
		DEMOverlayPath:  demPath,
		DEMBounds:       demBounds,
	}

	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC must not be empty")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseHistoryCapacity() (int, error) {
	s := os.Getenv("HISTORY_CAPACITY")
	if s == "" {
		return 200, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 100000 {
		return 0, errors.New("invalid HISTORY_CAPACITY: must be between 1 and 100000")
	}
	return n, nil
}

func parseRandomSeed() (uint64, error) {
	s := os.Getenv("RANDOM_SEED")
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.New("invalid RANDOM_SEED")
	}
	return n, nil
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// parseDEMBounds parses "south,west,north,east" into the overlay's
// geographic bounding box.
func parseDEMBounds(s string) ([2][2]float64, error) {
	var bounds [2][2]float64
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return bounds, errors.New("invalid DEM_BOUNDS: want south,west,north,east")
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return bounds, fmt.Errorf("invalid DEM_BOUNDS: %q is not a number", p)
		}
		vals[i] = v
	}
	if vals[0] >= vals[2] || vals[1] >= vals[3] {
		return bounds, errors.New("invalid DEM_BOUNDS: south/west must be less than north/east")
	}
	bounds[0] = [2]float64{vals[0], vals[1]}
	bounds[1] = [2]float64{vals[2], vals[3]}
	return bounds, nil
}
