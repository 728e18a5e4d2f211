package match

import (
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/viper"
)

const envPrefix = "TRADING"

// Config is the process configuration of an Exchange.
type Config struct {
	// WorkerCount is the admission gate capacity.
	WorkerCount int `mapstructure:"worker_count"`
	// OrderExpiryMinutes is the lifetime granted to an order at acceptance.
	OrderExpiryMinutes int `mapstructure:"order_expiry_minutes"`
	// ExpiryCheckIntervalSeconds is the sweep period of the expiry monitor.
	ExpiryCheckIntervalSeconds int `mapstructure:"expiry_check_interval_seconds"`

	Kafka KafkaConfig `mapstructure:"kafka"`
}

// KafkaConfig enables streaming book events when Brokers is not empty.
type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		WorkerCount:                50,
		OrderExpiryMinutes:         30,
		ExpiryCheckIntervalSeconds: 60,
		Kafka: KafkaConfig{
			Topic: "book-logs",
		},
	}
}

// LoadConfig reads the defaults, then the file at path if path is not empty,
// then TRADING_* environment variables (e.g. TRADING_WORKER_COUNT).
func LoadConfig(path string) (Config, error) {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault("worker_count", def.WorkerCount)
	v.SetDefault("order_expiry_minutes", def.OrderExpiryMinutes)
	v.SetDefault("expiry_check_interval_seconds", def.ExpiryCheckIntervalSeconds)
	v.SetDefault("kafka.brokers", def.Kafka.Brokers)
	v.SetDefault("kafka.topic", def.Kafka.Topic)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "read config %q", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects non-positive settings.
func (c Config) Validate() error {
	if c.WorkerCount <= 0 {
		return errors.Wrapf(ErrInvalidParam, "worker_count must be positive, got %d", c.WorkerCount)
	}
	if c.OrderExpiryMinutes <= 0 {
		return errors.Wrapf(ErrInvalidParam, "order_expiry_minutes must be positive, got %d", c.OrderExpiryMinutes)
	}
	if c.ExpiryCheckIntervalSeconds <= 0 {
		return errors.Wrapf(ErrInvalidParam, "expiry_check_interval_seconds must be positive, got %d", c.ExpiryCheckIntervalSeconds)
	}
	return nil
}

// OrderExpiry is the lifetime granted at acceptance.
func (c Config) OrderExpiry() time.Duration {
	return time.Duration(c.OrderExpiryMinutes) * time.Minute
}

// ExpiryCheckInterval is the sweep period.
func (c Config) ExpiryCheckInterval() time.Duration {
	return time.Duration(c.ExpiryCheckIntervalSeconds) * time.Second
}
