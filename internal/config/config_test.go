package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.False(t, cfg.EnvFileLoaded)
	assert.Equal(t, "salon-api", cfg.App.Name)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "0.5", cfg.Tax.SplitRatio.String())
	assert.Equal(t, "18", cfg.Tax.DefaultServiceRate.String())
	assert.True(t, cfg.Commission.StackItemBased)
	assert.Equal(t, 5*time.Minute, cfg.Commission.ReportCacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpiryHours)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "MEMORY")
	t.Setenv("TAX_SPLIT_RATIO", "1")
	t.Setenv("COMMISSION_STACK_ITEM_BASED", "false")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")

	cfg, err := load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, "1", cfg.Tax.SplitRatio.String())
	assert.False(t, cfg.Commission.StackItemBased)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("RECEIPT_STORE_NAME=Glow Salon\nPRINTER_WIDTH=32\n"), 0o600))

	cfg, err := load(path)
	require.NoError(t, err)

	assert.True(t, cfg.EnvFileLoaded)
	assert.Equal(t, "Glow Salon", cfg.Receipt.StoreName)
	assert.Equal(t, 32, cfg.Printer.Width)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"split ratio above one", "TAX_SPLIT_RATIO", "1.5"},
		{"split ratio not a number", "TAX_SPLIT_RATIO", "half"},
		{"negative service rate", "TAX_DEFAULT_SERVICE_RATE", "-1"},
		{"unknown driver", "DB_DRIVER", "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := load(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}
