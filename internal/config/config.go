package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	Admin    AdminConfig
	Store    StoreConfig
	CMS      CMSConfig
	SMTP     SMTPConfig
}

type ServerConfig struct {
	Port            int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type DBConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     int    `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
	Name     string `env:"DB_NAME" envDefault:"chiiloo"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxConns int32  `env:"DB_MAX_CONNS" envDefault:"10"`
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// RabbitMQConfig is optional: an empty URL disables order notifications and
// the service falls back to a no-op publisher.
type RabbitMQConfig struct {
	URL string `env:"RABBITMQ_URL" envDefault:""`
}

// AdminConfig holds the single admin credential pair and the JWT settings for
// the dashboard session token. Email is compared case-insensitively; the
// password may be given either as plaintext or as a bcrypt hash.
type AdminConfig struct {
	Email         string        `env:"ADMIN_EMAIL" envDefault:"admin@chiiloo.com"`
	Password      string        `env:"ADMIN_PASSWORD" envDefault:"changeme"`
	JWTSecret     string        `env:"JWT_SECRET" envDefault:"super-secret-key"`
	JWTExpiration time.Duration `env:"JWT_EXPIRATION" envDefault:"24h"`
}

// StoreConfig covers storefront business settings.
// DiscountCode is the single fixed promo code unlocking the flat 5% discount.
type StoreConfig struct {
	DiscountCode string        `env:"DISCOUNT_CODE" envDefault:"zaferan5"`
	CartTTL      time.Duration `env:"CART_TTL" envDefault:"720h"`
}

// CMSConfig points at an optional external catalog API returning a JSON array
// of products. When URL is empty the catalog is served from Postgres only.
type CMSConfig struct {
	URL     string        `env:"CMS_URL" envDefault:""`
	Key     string        `env:"CMS_CONSUMER_KEY" envDefault:""`
	Secret  string        `env:"CMS_CONSUMER_SECRET" envDefault:""`
	Timeout time.Duration `env:"CMS_TIMEOUT" envDefault:"10s"`
}

// SMTPConfig is used by the notifier worker. An empty host disables mail
// delivery and the worker logs order summaries instead.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST" envDefault:""`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME" envDefault:""`
	Password string `env:"SMTP_PASSWORD" envDefault:""`
	From     string `env:"SMTP_FROM" envDefault:""`
	To       string `env:"ORDER_NOTIFY_TO" envDefault:""`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
