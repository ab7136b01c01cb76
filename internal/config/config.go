package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvProduction Environment = "production"
)

// Config — вся конфигурация сервиса из окружения.
type Config struct {
	App struct {
		Env Environment `env:"APP_ENV" envDefault:"local"`
		// Единственная бизнес-таймзона: все HH:MM в правилах и
		// бронированиях трактуются в ней.
		Timezone string `env:"APP_TIMEZONE" envDefault:"Europe/Moscow"`
	}

	HTTP struct {
		Host string `env:"HTTP_HOST" envDefault:""`
		Port string `env:"HTTP_PORT" envDefault:"8080"`
	}

	DB struct {
		Host            string `env:"DB_HOST" envDefault:"postgres"`
		Port            int    `env:"DB_PORT" envDefault:"5432"`
		User            string `env:"DB_USER" envDefault:"booking"`
		Password        string `env:"DB_PASSWORD" envDefault:"booking"`
		Name            string `env:"DB_NAME" envDefault:"booking_db"`
		SSLMode         string `env:"DB_SSLMODE" envDefault:"disable"`
		MaxOpenConns    int    `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns    int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
		ConnMaxLifeTime int    `env:"DB_CONN_MAX_LIFETIME_MIN" envDefault:"30"` // минут
	}

	Booking struct {
		// Минимальное окно предупреждения перед отменой, часов.
		NoticeHours int `env:"BOOKING_NOTICE_HOURS" envDefault:"24"`
	}

	Cache struct {
		Enabled bool `env:"CACHE_ENABLED" envDefault:"false"`
		Size    int  `env:"CACHE_SIZE" envDefault:"1000"`
	}

	RabbitMQ struct {
		Enabled bool   `env:"RABBITMQ_ENABLED" envDefault:"false"`
		URL     string `env:"RABBITMQ_URL"`
		Queue   string `env:"RABBITMQ_QUEUE" envDefault:"booking_events"`
	}
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// минимальная валидация
	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, fmt.Errorf("invalid DB config: host/user/name must not be empty")
	}
	if cfg.Booking.NoticeHours < 0 {
		return nil, fmt.Errorf("invalid booking config: notice hours must not be negative")
	}

	return cfg, nil
}

// Location загружает бизнес-таймзону.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.App.Timezone, err)
	}
	return loc, nil
}

// NoticeWindow — окно предупреждения как Duration.
func (c *Config) NoticeWindow() time.Duration {
	return time.Duration(c.Booking.NoticeHours) * time.Hour
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}
