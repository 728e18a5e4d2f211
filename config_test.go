package match

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, 50, cfg.WorkerCount)
		assert.Empty(t, cfg.Kafka.Brokers)
		assert.Equal(t, "book-logs", cfg.Kafka.Topic)
		assert.Equal(t, 30*time.Minute, cfg.OrderExpiry())
		assert.Equal(t, time.Minute, cfg.ExpiryCheckInterval())
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "trading.yaml")
		content := []byte("worker_count: 8\norder_expiry_minutes: 5\nkafka:\n  brokers: [\"localhost:9092\"]\n  topic: trades\n")
		require.NoError(t, os.WriteFile(path, content, 0o600))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 8, cfg.WorkerCount)
		assert.Equal(t, 5, cfg.OrderExpiryMinutes)
		assert.Equal(t, 60, cfg.ExpiryCheckIntervalSeconds)
		assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
		assert.Equal(t, "trades", cfg.Kafka.Topic)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "trading.yaml")
		require.NoError(t, os.WriteFile(path, []byte("worker_count: 8\n"), 0o600))
		t.Setenv("TRADING_WORKER_COUNT", "3")
		t.Setenv("TRADING_EXPIRY_CHECK_INTERVAL_SECONDS", "10")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.WorkerCount)
		assert.Equal(t, 10*time.Second, cfg.ExpiryCheckInterval())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		t.Setenv("TRADING_ORDER_EXPIRY_MINUTES", "0")
		_, err := LoadConfig("")
		assert.ErrorIs(t, err, ErrInvalidParam)
	})
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WorkerCount = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidParam)

	_, err := NewExchange(cfg)
	assert.ErrorIs(t, err, ErrInvalidParam)

	cfg = DefaultConfig()
	cfg.ExpiryCheckIntervalSeconds = -1
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidParam)
}
