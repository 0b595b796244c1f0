// Package config loads application settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/Shivanand-hulikatti/wedding-wander/internal/database"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Notification hosts.
const (
	NotifyLog    = "log"
	NotifyPubNub = "pubnub"
)

// Config holds application level configuration.
type Config struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogDevelopment bool   `env:"LOG_DEVELOPMENT" envDefault:"false"`

	StoreBackend   string `env:"STORE_BACKEND" envDefault:"memory"`
	StoreNamespace string `env:"STORE_NAMESPACE" envDefault:"weddingwander"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName     string `env:"DB_NAME" envDefault:"weddingwander"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	NotifyBackend    string        `env:"NOTIFY_BACKEND" envDefault:"log"`
	NotifyPermission string        `env:"NOTIFY_PERMISSION" envDefault:"default"`
	ReminderDelay    time.Duration `env:"REMINDER_DELAY" envDefault:"2s"`

	PubNubPublishKey   string `env:"PUBNUB_PUBLISH_KEY"`
	PubNubSubscribeKey string `env:"PUBNUB_SUBSCRIBE_KEY"`
	PubNubUUID         string `env:"PUBNUB_UUID" envDefault:"weddingwander-server"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return parse(env.Options{})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	switch c.NotifyBackend {
	case NotifyLog:
	case NotifyPubNub:
		if c.PubNubPublishKey == "" || c.PubNubSubscribeKey == "" {
			return errors.New("NOTIFY_BACKEND=pubnub requires PUBNUB_PUBLISH_KEY and PUBNUB_SUBSCRIBE_KEY")
		}
	default:
		return fmt.Errorf("unknown NOTIFY_BACKEND %q", c.NotifyBackend)
	}
	if c.ReminderDelay < 0 {
		return errors.New("REMINDER_DELAY must not be negative")
	}
	return nil
}

// Database returns the PostgreSQL connection settings.
func (c *Config) Database() database.Config {
	return database.Config{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		DBName:   c.DBName,
		SSLMode:  c.DBSSLMode,
	}
}
