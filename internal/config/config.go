package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// BatchConcurrency bounds the parallel estimates within one batch request.
	BatchConcurrency int

	// NASA POWER meteorology configuration.
	NASAPowerEnabled    bool
	NASAPowerURL        string
	NASAPowerTimeout    time.Duration
	NASAPowerStartYear  int
	NASAPowerEndYear    int
	NASAPowerCacheSize  int
	NASAPowerMaxRetries int

	// Report publishing. Enabled when brokers are configured unless overridden.
	KafkaBrokers     []string
	KafkaEnabled     bool
	KafkaReportTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	nasaTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("NASA_POWER_TIMEOUT", "10s"))
	if err != nil || nasaTimeout <= 0 {
		return nil, errors.New("invalid NASA_POWER_TIMEOUT")
	}

	startYear, err := parseIntInRange("NASA_POWER_START_YEAR", 2020, 1981, 2100)
	if err != nil {
		return nil, err
	}
	endYear, err := parseIntInRange("NASA_POWER_END_YEAR", 2022, 1981, 2100)
	if err != nil {
		return nil, err
	}
	if startYear > endYear {
		return nil, errors.New("NASA_POWER_START_YEAR must not be after NASA_POWER_END_YEAR")
	}

	maxRetries, err := parseIntInRange("NASA_POWER_MAX_RETRIES", 2, 0, 5)
	if err != nil {
		return nil, err
	}

	concurrency, err := parseIntInRange("BATCH_CONCURRENCY", 4, 1, 64)
	if err != nil {
		return nil, err
	}

	nasaEnabled := true
	if v := os.Getenv("NASA_POWER_ENABLED"); v != "" {
		nasaEnabled = v == "true"
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:         sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:         sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:        sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:  shutdownTimeout,
		BatchConcurrency: concurrency,

		NASAPowerEnabled:    nasaEnabled,
		NASAPowerURL:        sharedcfg.EnvOrDefault("NASA_POWER_URL", "https://power.larc.nasa.gov/api/temporal/monthly/point"),
		NASAPowerTimeout:    nasaTimeout,
		NASAPowerStartYear:  startYear,
		NASAPowerEndYear:    endYear,
		NASAPowerCacheSize:  parseCacheSize(),
		NASAPowerMaxRetries: maxRetries,

		KafkaBrokers:     brokers,
		KafkaEnabled:     kafkaEnabled,
		KafkaReportTopic: sharedcfg.EnvOrDefault("KAFKA_REPORT_TOPIC", "solar-yield-reports"),
	}

	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

func parseIntInRange(key string, fallback, lo, hi int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		return 0, errors.New("invalid " + key + ": must be " + strconv.Itoa(lo) + "-" + strconv.Itoa(hi))
	}
	return n, nil
}

func parseCacheSize() int {
	if s := os.Getenv("NASA_POWER_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
