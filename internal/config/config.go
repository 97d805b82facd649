package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/campuslife/campus-climate/internal/climate"
)

type AppConfig struct {
	// AggregatorURL is the base URL of the upstream post/emotion aggregator.
	AggregatorURL string

	// Timezone the campus day boundary is evaluated in.
	Timezone *time.Location

	// HTTPTimeout bounds each outbound aggregator request.
	HTTPTimeout time.Duration
	// TickTimeout bounds a whole analysis tick, signal fetch included.
	TickTimeout time.Duration

	// BaselineDays is the rolling window used to normalize hourly activity.
	BaselineDays int
	// ReadingRetention prunes readings older than this during the daily
	// reset. Zero keeps everything.
	ReadingRetention time.Duration

	// DBPath is the sqlite database file. Empty selects the in-memory store.
	DBPath string

	// In-memory store retention (only used when DBPath is empty).
	StoreMaxHistory int
	StoreMaxAge     time.Duration

	// GuidelineFile optionally overrides the built-in guideline tables.
	GuidelineFile string

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.AggregatorURL = os.Getenv("AGGREGATOR_URL")

	tzName := getenvDefault("CAMPUS_TIMEZONE", "Local")
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid CAMPUS_TIMEZONE: %w", err)
	}
	cfg.Timezone = tz

	cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cfg.TickTimeout, err = getenvDuration("TICK_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	cfg.BaselineDays = getenvInt("BASELINE_DAYS", 7)
	if cfg.BaselineDays <= 0 {
		return nil, fmt.Errorf("BASELINE_DAYS must be positive")
	}

	cfg.ReadingRetention, err = getenvDuration("READING_RETENTION", "720h")
	if err != nil {
		return nil, err
	}

	cfg.DBPath = os.Getenv("DB_PATH")
	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 0)
	cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "0s")
	if err != nil {
		return nil, err
	}

	cfg.GuidelineFile = os.Getenv("GUIDELINE_FILE")
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

// guidelineOverride is the on-disk shape of an optional tuning file. Any
// section left out keeps its built-in default.
type guidelineOverride struct {
	Bands           []climate.Band           `json:"bands"`
	RecoveryWindows []climate.RecoveryWindow `json:"recoveryWindows"`
	LabelThresholds []climate.LabelThreshold `json:"labelThresholds"`
}

// LoadGuidelines builds the guideline table and label thresholds, applying
// the override file when configured. Validation failures are returned to the
// caller and are fatal at startup: an incomplete table must refuse to run.
func (c *AppConfig) LoadGuidelines() (*climate.GuidelineTable, []climate.LabelThreshold, error) {
	bands := climate.DefaultBands()
	windows := climate.DefaultRecoveryWindows()
	thresholds := climate.DefaultLabelThresholds()

	if c.GuidelineFile != "" {
		raw, err := os.ReadFile(c.GuidelineFile)
		if err != nil {
			return nil, nil, fmt.Errorf("read guideline file: %w", err)
		}
		var ov guidelineOverride
		if err := json.Unmarshal(raw, &ov); err != nil {
			return nil, nil, fmt.Errorf("parse guideline file: %w", err)
		}
		if len(ov.Bands) > 0 {
			bands = ov.Bands
		}
		if len(ov.RecoveryWindows) > 0 {
			windows = ov.RecoveryWindows
		}
		if len(ov.LabelThresholds) > 0 {
			thresholds = ov.LabelThresholds
		}
	}

	table, err := climate.NewGuidelineTable(bands, windows)
	if err != nil {
		return nil, nil, err
	}
	return table, thresholds, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	v := getenvDefault(key, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
