package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	OutputDir string

	LogLevel  string
	LogFormat string

	WatchDir         string
	WatchIntervalSec int
	WatchBatch       int
	WatchAutoExport  bool

	BatchWorkers int

	// Heuristic thresholds. Empirically tuned; revalidate against a labeled
	// datasheet set before changing.
	MountingHoleTextMin float64
	MountingHoleTextMax float64
	MountingHoleCellMin float64
	MountingHoleCellMax float64
	MaxMountingValues   int
	MaxVoltageValues    int

	ConfidenceHighCutoff   float64
	ConfidenceMediumCutoff float64
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "specsheet.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),

		WatchDir:         getEnv("WATCH_DIR", filepath.Join(cwd, "inbox")),
		WatchIntervalSec: getEnvInt("WATCH_INTERVAL_SEC", 30),
		WatchBatch:       getEnvInt("WATCH_BATCH", 20),
		WatchAutoExport:  getEnvBool("WATCH_AUTO_EXPORT", true),

		BatchWorkers: getEnvInt("BATCH_WORKERS", 4),

		MountingHoleTextMin: getEnvFloat("MOUNTING_HOLE_TEXT_MIN", 5),
		MountingHoleTextMax: getEnvFloat("MOUNTING_HOLE_TEXT_MAX", 50),
		MountingHoleCellMin: getEnvFloat("MOUNTING_HOLE_CELL_MIN", 8),
		MountingHoleCellMax: getEnvFloat("MOUNTING_HOLE_CELL_MAX", 35),
		MaxMountingValues:   getEnvInt("MAX_MOUNTING_VALUES", 8),
		MaxVoltageValues:    getEnvInt("MAX_VOLTAGE_VALUES", 12),

		ConfidenceHighCutoff:   getEnvFloat("CONFIDENCE_HIGH_CUTOFF", 2.5),
		ConfidenceMediumCutoff: getEnvFloat("CONFIDENCE_MEDIUM_CUTOFF", 1.8),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
