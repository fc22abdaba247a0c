package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultNASAURL = "https://power.larc.nasa.gov/api/temporal/monthly/point"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 4, cfg.BatchConcurrency)

	assert.True(t, cfg.NASAPowerEnabled)
	assert.Equal(t, defaultNASAURL, cfg.NASAPowerURL)
	assert.Equal(t, 10*time.Second, cfg.NASAPowerTimeout)
	assert.Equal(t, 2020, cfg.NASAPowerStartYear)
	assert.Equal(t, 2022, cfg.NASAPowerEndYear)
	assert.Equal(t, 1000, cfg.NASAPowerCacheSize)
	assert.Equal(t, 2, cfg.NASAPowerMaxRetries)

	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, "solar-yield-reports", cfg.KafkaReportTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("BATCH_CONCURRENCY", "16")
	t.Setenv("NASA_POWER_ENABLED", "false")
	t.Setenv("NASA_POWER_URL", "http://localhost:1234/point")
	t.Setenv("NASA_POWER_TIMEOUT", "3s")
	t.Setenv("NASA_POWER_START_YEAR", "2015")
	t.Setenv("NASA_POWER_END_YEAR", "2019")
	t.Setenv("NASA_POWER_CACHE_SIZE", "50")
	t.Setenv("NASA_POWER_MAX_RETRIES", "0")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_REPORT_TOPIC", "custom-reports")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 16, cfg.BatchConcurrency)
	assert.False(t, cfg.NASAPowerEnabled)
	assert.Equal(t, "http://localhost:1234/point", cfg.NASAPowerURL)
	assert.Equal(t, 3*time.Second, cfg.NASAPowerTimeout)
	assert.Equal(t, 2015, cfg.NASAPowerStartYear)
	assert.Equal(t, 2019, cfg.NASAPowerEndYear)
	assert.Equal(t, 50, cfg.NASAPowerCacheSize)
	assert.Equal(t, 0, cfg.NASAPowerMaxRetries)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, "custom-reports", cfg.KafkaReportTopic)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidNASATimeout(t *testing.T) {
	for _, v := range []string{"bad", "0s", "-5s"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("NASA_POWER_TIMEOUT", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "NASA_POWER_TIMEOUT")
		})
	}
}

func TestLoad_YearRange(t *testing.T) {
	t.Setenv("NASA_POWER_START_YEAR", "2023")
	t.Setenv("NASA_POWER_END_YEAR", "2021")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NASA_POWER_START_YEAR")
}

func TestLoad_InvalidYear(t *testing.T) {
	t.Setenv("NASA_POWER_END_YEAR", "twenty")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NASA_POWER_END_YEAR")
}

func TestLoad_BatchConcurrencyBounds(t *testing.T) {
	for _, v := range []string{"0", "65", "many"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("BATCH_CONCURRENCY", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "BATCH_CONCURRENCY")
		})
	}
}

func TestLoad_InvalidCacheSizeFallsBack(t *testing.T) {
	t.Setenv("NASA_POWER_CACHE_SIZE", "-3")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.NASAPowerCacheSize)
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_KafkaExplicitlyDisabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "localhost:9092")
	t.Setenv("KAFKA_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
}
