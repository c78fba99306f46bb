package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"workflowmonk/internal/domain/wizard"
)

const defaultStateTokenSecret = "change-me-state-token-secret"

type Config struct {
	AppEnv             string        `env:"APP_ENV" envDefault:"dev"`
	HTTPAddr           string        `env:"HTTP_ADDR" envDefault:":8080"`
	SchedulerBaseURL   string        `env:"SCHEDULER_BASE_URL" envDefault:"https://cal.com/ritwik-singh/30min"`
	StateTokenSecret   string        `env:"STATE_TOKEN_SECRET" envDefault:"change-me-state-token-secret"`
	StateTokenTTL      time.Duration `env:"STATE_TOKEN_TTL" envDefault:"2h"`
	SettleDelay        time.Duration `env:"SETTLE_DELAY" envDefault:"0s"`
	SelectDelay        time.Duration `env:"SELECT_DELAY" envDefault:"0s"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat          string        `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.StateTokenTTL <= 0 {
		return fmt.Errorf("STATE_TOKEN_TTL must be > 0")
	}
	if c.SettleDelay < 0 || c.SelectDelay < 0 {
		return fmt.Errorf("SETTLE_DELAY and SELECT_DELAY must be >= 0")
	}
	u, err := url.Parse(c.SchedulerBaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("SCHEDULER_BASE_URL must be an absolute http(s) URL, got %q", c.SchedulerBaseURL)
	}
	if u.RawQuery != "" {
		return fmt.Errorf("SCHEDULER_BASE_URL must not carry a query string")
	}
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}

	if c.IsProdLike() && isEmptyOrDefault(c.StateTokenSecret, defaultStateTokenSecret) {
		return fmt.Errorf("in prod/release STATE_TOKEN_SECRET must be set and not default")
	}
	return nil
}

func (c *Config) IsProdLike() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production" || c.AppEnv == "release"
}

// WizardOptions are the controller options every transport shares.
func (c *Config) WizardOptions() []wizard.ControllerOption {
	return []wizard.ControllerOption{
		wizard.WithSchedulerURL(c.SchedulerBaseURL),
		wizard.WithSettleDelay(c.SettleDelay),
		wizard.WithSelectDelay(c.SelectDelay),
	}
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}
