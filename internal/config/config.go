package config

import (
	"errors"
	"net/url"
	"recoverable/internal/core/domain/user"

	"github.com/caarlos0/env/v6"
)

var ErrInvalidRecoveryTokenLifeSpan = errors.New("RECOVERY_TOKEN_LIFE_SPAN_DAYS must be positive")

// Mailer is what the mailer process needs, it never opens the database.
type Mailer struct {
	IsTestMode bool `env:"TEST_MODE" envDefault:"false"`

	// Recovery instructions are published to RabbitMQ if the URL is set,
	// otherwise they are sent with SES directly.
	RabbitmqURL           string `env:"RABBITMQ_URL,unset"`
	RabbitmqRecoveryQueue string `env:"RABBITMQ_RECOVERY_QUEUE" envDefault:"recovery-instructions"`

	AWSRegion             string  `env:"AWS_REGION" envDefault:"eu-central-1"`
	AWSAccessKey          string  `env:"AWS_ACCESS_KEY,unset"`
	AWSSecretKey          string  `env:"AWS_SECRET_KEY,unset"`
	EmailSender           string  `env:"EMAIL_SENDER"`
	EmailRecoveryTemplate string  `env:"EMAIL_RECOVERY_TEMPLATE" envDefault:"recovery"`
	RecoveryBaseURL       url.URL `env:"RECOVERY_BASE_URL" envDefault:"http://localhost:3000/recovery"`
}

type Config struct {
	Mailer

	Port   uint16 `env:"PORT" envDefault:"9090"`
	Secret string `env:"SECRET,required,unset"`

	PostgresqlURL  string `env:"POSTGRESQL_URL,required,unset"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"migrations"`

	BcryptHasherCost          int    `env:"BCRYPT_HASHER_COST" envDefault:"10"`
	RecoveryTokenLifeSpanDays int    `env:"RECOVERY_TOKEN_LIFE_SPAN_DAYS" envDefault:"1"`
	RecoveryTokenType         string `env:"RECOVERY_TOKEN_TYPE" envDefault:"token"`

	CorsAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.RecoveryTokenLifeSpanDays <= 0 {
		return nil, ErrInvalidRecoveryTokenLifeSpan
	}
	return cfg, nil
}

func LoadMailer() (*Mailer, error) {
	cfg := &Mailer{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) RecoveryOptions() user.RecoveryOptions {
	return user.RecoveryOptions{
		TokenLifeSpanDays: c.RecoveryTokenLifeSpanDays,
		TokenType:         user.ParseTokenType(c.RecoveryTokenType),
	}
}

func (c *Mailer) UsesRabbitmq() bool {
	return c.RabbitmqURL != ""
}
