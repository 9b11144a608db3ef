package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"

	PaymentApprove = "approve"
	PaymentDecline = "decline"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	ServiceName string `envconfig:"SERVICE_NAME" default:"storefront"`
	ListenAddr  string `envconfig:"LISTEN_ADDR" default:":8080"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	BackendURL     string        `envconfig:"BACKEND_URL" required:"true"`
	BackendTimeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"10s"`

	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"sqlite"`
	StorageDSN    string `envconfig:"STORAGE_DSN" default:"storefront.db"`
	RedisURL      string `envconfig:"REDIS_URL"`
	Profile       string `envconfig:"PROFILE" default:"default"`

	KafkaBrokers string `envconfig:"KAFKA_BROKERS"`
	EventsTopic  string `envconfig:"EVENTS_TOPIC" default:"storefront_events"`

	PaymentMode     string        `envconfig:"PAYMENT_MODE" default:"approve"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: BACKEND_URL %q is not an absolute url", ErrInvalid, c.BackendURL)
	}

	switch c.StorageDriver {
	case DriverSQLite, DriverPostgres:
		if c.StorageDSN == "" {
			return fmt.Errorf("%w: STORAGE_DSN is required for %s", ErrInvalid, c.StorageDriver)
		}
	case DriverRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("%w: REDIS_URL is required for redis storage", ErrInvalid)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("%w: unknown STORAGE_DRIVER %q", ErrInvalid, c.StorageDriver)
	}

	switch c.PaymentMode {
	case PaymentApprove, PaymentDecline:
	default:
		return fmt.Errorf("%w: unknown PAYMENT_MODE %q", ErrInvalid, c.PaymentMode)
	}

	if strings.TrimSpace(c.Profile) == "" {
		return fmt.Errorf("%w: PROFILE must not be blank", ErrInvalid)
	}
	return nil
}

func (c *Config) Brokers() []string {
	return CSV(c.KafkaBrokers)
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
