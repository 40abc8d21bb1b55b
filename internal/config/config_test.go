package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeDefaults(t *testing.T) {
	cfg, err := Initialize()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, StoreBackendCSV, cfg.Store.Backend)
	assert.Equal(t, "data/ledger.csv", cfg.Store.Path)
	assert.Equal(t, "gemini-2.0-flash", cfg.AI.Model)
	assert.Equal(t, 30, cfg.AI.TimeoutSeconds)
}

func TestInitializeEnvOverrides(t *testing.T) {
	t.Setenv("FINLOG_STORE_BACKEND", "sqlite")
	t.Setenv("FINLOG_STORE_PATH", "/tmp/ledger.db")
	t.Setenv("FINLOG_LOG_FORMAT", "json")
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Initialize()
	require.NoError(t, err)

	assert.Equal(t, StoreBackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "/tmp/ledger.db", cfg.Store.Path)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "test-key", cfg.AI.APIKey)
}

func TestInitializeRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"Bad log level", "FINLOG_LOG_LEVEL", "chatty"},
		{"Bad log format", "FINLOG_LOG_FORMAT", "xml"},
		{"Bad backend", "FINLOG_STORE_BACKEND", "postgres"},
		{"Timeout too large", "FINLOG_AI_TIMEOUT_SECONDS", "9000"},
		{"Timeout zero", "FINLOG_AI_TIMEOUT_SECONDS", "0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Initialize()
			assert.Error(t, err)
		})
	}
}

func TestConfigureLogging(t *testing.T) {
	cfg := &Config{}
	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"

	logger := ConfigureLogging(cfg)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
}

func TestConfigureLoggingFallsBackToInfo(t *testing.T) {
	cfg := &Config{}
	cfg.Log.Level = "nope"
	cfg.Log.Format = "text"

	logger := ConfigureLogging(cfg)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}
