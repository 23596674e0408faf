package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port    string `mapstructure:"PORT"`
	GinMode string `mapstructure:"GIN_MODE"`

	DBDriver       string `mapstructure:"DB_DRIVER"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	DBSSLMode      string `mapstructure:"DB_SSLMODE"`
	DBTimeZone     string `mapstructure:"DB_TIMEZONE"`
	SQLitePath     string `mapstructure:"SQLITE_PATH"`
	DBMaxOpenConns int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns int    `mapstructure:"DB_MAX_IDLE_CONNS"`

	RedisURL string        `mapstructure:"REDIS_URL"`
	RedisTTL time.Duration `mapstructure:"REDIS_TTL"`

	ProcessingBaseURL       string        `mapstructure:"PROCESSING_BASE_URL"`
	ProcessingSkipTLSVerify bool          `mapstructure:"PROCESSING_SKIP_TLS_VERIFY"`
	ProcessingTimeout       time.Duration `mapstructure:"PROCESSING_TIMEOUT"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

var defaults = map[string]any{
	"PORT":                       "8080",
	"GIN_MODE":                   "release",
	"DB_DRIVER":                  DriverPostgres,
	"DB_HOST":                    "localhost",
	"DB_PORT":                    "5432",
	"DB_USER":                    "postgres",
	"DB_PASSWORD":                "postgres",
	"DB_NAME":                    "patients",
	"DB_SSLMODE":                 "disable",
	"DB_TIMEZONE":                "UTC",
	"SQLITE_PATH":                "patients.db",
	"DB_MAX_OPEN_CONNS":          50,
	"DB_MAX_IDLE_CONNS":          10,
	"REDIS_URL":                  "",
	"REDIS_TTL":                  time.Hour,
	"PROCESSING_BASE_URL":        "https://coding-patient-api.vesynta.workers.dev",
	"PROCESSING_SKIP_TLS_VERIFY": false,
	"PROCESSING_TIMEOUT":         30 * time.Second,
	"LOG_LEVEL":                  "info",
	"LOG_FORMAT":                 "json",
}

// Load reads an optional .env file and then the process environment.
// Variables already present in the environment win over the .env file.
func Load(envFiles ...string) (*Config, error) {
	// Missing .env files are fine, the environment may be set some other way.
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.ProcessingBaseURL = strings.TrimRight(cfg.ProcessingBaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.DBDriver)
	}

	u, err := url.Parse(c.ProcessingBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("PROCESSING_BASE_URL must be an absolute URL, got %q", c.ProcessingBaseURL)
	}

	if c.ProcessingTimeout <= 0 {
		return fmt.Errorf("PROCESSING_TIMEOUT must be positive, got %s", c.ProcessingTimeout)
	}

	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("GIN_MODE must be debug, release or test, got %q", c.GinMode)
	}

	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be \"json\" or \"console\", got %q", c.LogFormat)
	}
	return nil
}

// PostgresDSN builds the key/value connection string used by the postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s "+
			"application_name=patient-api TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode, c.DBTimeZone,
	)
}

// SQLiteDSN appends the pragmas every connection needs.
func (c *Config) SQLiteDSN() string {
	return c.SQLitePath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func (c *Config) RedisEnabled() bool {
	return c.RedisURL != ""
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
