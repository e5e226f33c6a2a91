package config

import (
	"fmt"
	"time"

	"github.com/Netflix/go-env"
)

type Config struct {
	DatabaseDSN string `env:"DATABASE_DSN,required=true"`
	RabbitMQURL string `env:"RABBITMQ_URL,required=true"`
	RedisURL    string `env:"REDIS_URL,required=true"`

	APIPort  int    `env:"API_PORT,default=8080"`
	LogLevel string `env:"LOG_LEVEL,default=info"`

	// CredentialsKey is a base64 32-byte key sealing provider secrets at rest.
	CredentialsKey string `env:"CREDENTIALS_KEY"`

	RateLimitPerSec         int           `env:"RATE_LIMIT_PER_SEC,default=20"`
	SlackRateLimitPerSec    int           `env:"SLACK_RATE_LIMIT_PER_SEC,default=1"`
	FanoutConcurrency       int           `env:"FANOUT_CONCURRENCY,default=8"`
	GatewayTimeout          time.Duration `env:"GATEWAY_TIMEOUT,default=10s"`
	AgendaSyncInterval      time.Duration `env:"AGENDA_SYNC_INTERVAL,default=15m"`
	AgendaWorkerConcurrency int           `env:"AGENDA_WORKER_CONCURRENCY,default=2"`

	SlackAPIURL       string `env:"SLACK_API_URL,default=https://slack.com/api"`
	MailjetAPIURL     string `env:"MAILJET_API_URL,default=https://api.mailjet.com"`
	QontoAPIURL       string `env:"QONTO_API_URL,default=https://thirdparty.qonto.com"`
	BilletwebAPIURL   string `env:"BILLETWEB_API_URL,default=https://www.billetweb.fr/api"`
	OpenPlannerAPIURL string `env:"OPENPLANNER_API_URL,default=https://api.openplanner.fr"`
}

func Load() (*Config, error) {
	var cfg Config
	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.FanoutConcurrency < 1 {
		return nil, fmt.Errorf("FANOUT_CONCURRENCY must be positive, got %d", cfg.FanoutConcurrency)
	}
	if cfg.AgendaSyncInterval <= 0 {
		return nil, fmt.Errorf("AGENDA_SYNC_INTERVAL must be positive, got %s", cfg.AgendaSyncInterval)
	}
	return &cfg, nil
}
