package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer `yaml:"http_server"`
	Storage    Storage  `yaml:"storage"`
	Database   Database `yaml:"database"`
	Auth       Auth     `yaml:"auth"`
	Contact    Contact  `yaml:"contact"`
	CMS        CMS      `yaml:"cms"`
	Email      Email    `yaml:"email"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_SERVER_ADDRESS" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type Storage struct {
	// Driver is either "postgres" or "sqlite".
	Driver       string        `yaml:"driver" env:"STORAGE_DRIVER" env-default:"postgres"`
	SQLitePath   string        `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"./storage/chapter.db"`
	QueryTimeout time.Duration `yaml:"query_timeout" env-default:"3s"`
}

type Database struct {
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	DBName   string `yaml:"dbname" env:"DB_NAME" env-default:"chapter"`
	SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
}

type Auth struct {
	JWTSecret    string        `yaml:"jwt_secret" env:"AUTH_JWT_SECRET"`
	Audience     string        `yaml:"audience" env-default:"authenticated"`
	IdentityURL  string        `yaml:"identity_url" env:"AUTH_IDENTITY_URL"`
	AnonKey      string        `yaml:"anon_key" env:"AUTH_ANON_KEY"`
	Timeout      time.Duration `yaml:"timeout" env-default:"5s"`
	CookieName   string        `yaml:"cookie_name" env-default:"session"`
	CookieSecure bool          `yaml:"cookie_secure" env:"AUTH_COOKIE_SECURE" env-default:"true"`
	// LoginEvery is the refill interval of the login throttle bucket.
	LoginEvery time.Duration `yaml:"login_every" env-default:"3m"`
	LoginBurst int           `yaml:"login_burst" env-default:"5"`
}

type Contact struct {
	Limit         int           `yaml:"limit" env-default:"5"`
	Window        time.Duration `yaml:"window" env-default:"1h"`
	SweepInterval time.Duration `yaml:"sweep_interval" env-default:"5m"`
}

type CMS struct {
	Token         string        `yaml:"token" env:"CMS_TOKEN"`
	BaseURL       string        `yaml:"base_url" env:"CMS_BASE_URL" env-default:"https://api.storyblok.com/v2/cdn"`
	Version       string        `yaml:"version" env:"CMS_VERSION" env-default:"published"`
	WebhookSecret string        `yaml:"webhook_secret" env:"CMS_WEBHOOK_SECRET"`
	CacheTTL      time.Duration `yaml:"cache_ttl" env-default:"1h"`
	Timeout       time.Duration `yaml:"timeout" env-default:"5s"`
}

type Email struct {
	ResendAPIKey string `yaml:"resend_api_key" env:"RESEND_API_KEY"`
	From         string `yaml:"from" env:"EMAIL_FROM" env-default:"Chapter Site <noreply@example.org>"`
	NotifyTo     string `yaml:"notify_to" env:"EMAIL_NOTIFY_TO"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var ErrNoConfigPath = errors.New("config path is not set")

// Load reads the YAML file at path, falling back to CONFIG_PATH when path is
// empty. Environment variables override file values.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	if path == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNoConfigPath)
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%s: config file %s: %w", op, path, err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Contact.Limit <= 0 {
		return fmt.Errorf("contact.limit must be positive, got %d", c.Contact.Limit)
	}

	if c.Contact.Window <= 0 {
		return fmt.Errorf("contact.window must be positive, got %s", c.Contact.Window)
	}

	if c.Contact.SweepInterval <= 0 {
		return fmt.Errorf("contact.sweep_interval must be positive, got %s", c.Contact.SweepInterval)
	}

	if c.Auth.LoginEvery <= 0 {
		return fmt.Errorf("auth.login_every must be positive, got %s", c.Auth.LoginEvery)
	}

	if c.CMS.CacheTTL <= 0 {
		return fmt.Errorf("cms.cache_ttl must be positive, got %s", c.CMS.CacheTTL)
	}

	if c.Auth.LoginBurst <= 0 {
		return fmt.Errorf("auth.login_burst must be positive, got %d", c.Auth.LoginBurst)
	}

	return nil
}
