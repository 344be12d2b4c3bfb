package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config 服務設定，啟動時從環境變數載入一次
type Config struct {
	LogLevel int      `env:"LOG_LEVEL" envDefault:"0"`
	HTTP     HTTP     `envPrefix:"HTTP_"`
	Database Database `envPrefix:"DATABASE_"`
	Redis    Redis    `envPrefix:"REDIS_"`
	JWT      JWT      `envPrefix:"JWT_"`
	Password Password `envPrefix:"PASSWORD_"`
	Kafka    Kafka    `envPrefix:"KAFKA_"`
	Worker   Worker   `envPrefix:"WORKER_"`
}

// HTTP contains HTTP server parameters.
type HTTP struct {
	Addr        string   `env:"ADDR" envDefault:":8080"`
	Debug       bool     `env:"DEBUG" envDefault:"false"`
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`
}

// Database contains database connection parameters.
type Database struct {
	URL string `env:"URL,required,notEmpty"`
}

// Redis contains cache connection parameters.
type Redis struct {
	Addr     string `env:"ADDR,required,notEmpty"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// JWT contains bearer token parameters.
type JWT struct {
	Secret string        `env:"SECRET,required,notEmpty"`
	TTL    time.Duration `env:"TTL" envDefault:"24h"`
}

// Password contains password hashing parameters.
type Password struct {
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`
}

// Kafka contains event publishing parameters. No brokers means events are only logged.
type Kafka struct {
	Brokers []string `env:"BROKERS" envSeparator:","`
	Topic   string   `env:"TOPIC" envDefault:"user.events"`
}

// Worker contains background worker pool parameters.
type Worker struct {
	Count int `env:"COUNT" envDefault:"1"`
	Queue int `env:"QUEUE" envDefault:"64"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.JWT.TTL <= 0 {
		return nil, fmt.Errorf("invalid JWT_TTL: %s", cfg.JWT.TTL)
	}
	if cfg.Worker.Count <= 0 {
		return nil, fmt.Errorf("invalid WORKER_COUNT: %d", cfg.Worker.Count)
	}
	return &cfg, nil
}
