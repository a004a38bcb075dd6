package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Budgie"`
		Port int    `envconfig:"PORT" default:"8080"`
		Env  string `envconfig:"APP_ENV" default:"development"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"budgie"`
		SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
		Migrate  bool   `envconfig:"DB_MIGRATE" default:"true"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Auth struct {
		JWTSecret string        `envconfig:"AUTH_JWT_SECRET"`
		Issuer    string        `envconfig:"AUTH_ISSUER"`
		Audience  string        `envconfig:"AUTH_AUDIENCE"`
		ResetURL  string        `envconfig:"AUTH_RESET_URL" default:"http://localhost:5173/reset-password"`
		ResetTTL  time.Duration `envconfig:"AUTH_RESET_TTL" default:"1h"`
	}

	Admin struct {
		BootstrapEmails []string `envconfig:"ADMIN_BOOTSTRAP_EMAILS"`
		ConsoleID       string   `envconfig:"ADMIN_CONSOLE_ID"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	}

	AMQP struct {
		URL      string `envconfig:"AMQP_URL"`
		Exchange string `envconfig:"AMQP_EXCHANGE" default:"budgie.admin"`
	}

	Mailjet struct {
		APIKey      string `envconfig:"MAILJET_API_KEY"`
		APISecret   string `envconfig:"MAILJET_API_SECRET"`
		SenderEmail string `envconfig:"MAILJET_SENDER_EMAIL"`
		SenderName  string `envconfig:"MAILJET_SENDER_NAME" default:"Budgie"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

func (c *Config) IsProduction() bool {
	return c.App.Env == EnvProduction
}

// AdminEmails returns the bootstrap allowlist normalised to lower case.
func (c *Config) AdminEmails() []string {
	emails := make([]string, 0, len(c.Admin.BootstrapEmails))

	for _, e := range c.Admin.BootstrapEmails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			emails = append(emails, e)
		}
	}

	return emails
}

func (c *Config) Validate() error {
	var errs []error

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET is required"))
	}

	if c.App.Env != EnvDevelopment && c.App.Env != EnvProduction {
		errs = append(errs, fmt.Errorf("APP_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.App.Env))
	}

	if c.Mailjet.APIKey != "" && c.Mailjet.SenderEmail == "" {
		errs = append(errs, errors.New("MAILJET_SENDER_EMAIL is required when MAILJET_API_KEY is set"))
	}

	return errors.Join(errs...)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
