// Package config loads runtime settings from the environment (optionally a .env
// file) and an optional YAML policy file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/blogem/intern-timetracker/geolocation"
)

// Config holds everything the server and CLI need
type Config struct {
	Port         string
	DatabasePath string
	Timezone     string
	Location     *time.Location
	UseHTTPS     bool
	LogLevel     string

	OIDC  OIDCConfig
	Admin AdminConfig

	SheetsWebhookURL string
	PolicyFile       string
	Policy           Policy
}

// OIDCConfig configures admin login through an OpenID Connect provider
type OIDCConfig struct {
	Domain       string
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

// Enabled reports whether every OIDC setting is present
func (c OIDCConfig) Enabled() bool {
	return c.Domain != "" && c.ClientID != "" && c.ClientSecret != "" && c.CallbackURL != ""
}

// AdminConfig is the optional local admin credential (bcrypt hash, never plain text)
type AdminConfig struct {
	Username     string
	PasswordHash string
}

// Enabled reports whether a local admin credential is configured
func (c AdminConfig) Enabled() bool {
	return c.Username != "" && c.PasswordHash != ""
}

// Policy holds tunables that rarely change; it can be overridden from YAML
type Policy struct {
	GeolocationTimeout     time.Duration `yaml:"geolocation_timeout"`
	StatusDismissAfter     time.Duration `yaml:"status_dismiss_after"`
	AbsenceReasonMaxLength int           `yaml:"absence_reason_max_length"`
	SheetsRequestTimeout   time.Duration `yaml:"sheets_request_timeout"`
	AuditPayloadMaxBytes   int           `yaml:"audit_payload_max_bytes"`
}

// DefaultPolicy mirrors the browser app: 10s location timeout, 5s status messages, 100 char reasons
func DefaultPolicy() Policy {
	return Policy{
		GeolocationTimeout:     10 * time.Second,
		StatusDismissAfter:     5 * time.Second,
		AbsenceReasonMaxLength: 100,
		SheetsRequestTimeout:   15 * time.Second,
		AuditPayloadMaxBytes:   4096,
	}
}

// Load reads .env (if present), the environment and the policy file
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "timetracker.db"),
		Timezone:     getEnv("TIMEZONE", "Local"),
		UseHTTPS:     getEnvBool("USE_HTTPS", false),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		OIDC: OIDCConfig{
			Domain:       os.Getenv("OIDC_DOMAIN"),
			ClientID:     os.Getenv("OIDC_CLIENT_ID"),
			ClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
			CallbackURL:  os.Getenv("OIDC_CALLBACK_URL"),
		},
		Admin: AdminConfig{
			Username:     os.Getenv("ADMIN_USERNAME"),
			PasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		},
		SheetsWebhookURL: os.Getenv("SHEETS_WEBHOOK_URL"),
		PolicyFile:       os.Getenv("POLICY_FILE"),
		Policy:           DefaultPolicy(),
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	if cfg.PolicyFile != "" {
		policy, err := LoadPolicy(cfg.PolicyFile)
		if err != nil {
			return nil, err
		}
		cfg.Policy = policy
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadPolicy reads a YAML policy file on top of the defaults
func LoadPolicy(path string) (Policy, error) {
	policy := DefaultPolicy()

	data, err := os.ReadFile(path)
	if err != nil {
		return policy, fmt.Errorf("failed to read policy file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &policy); err != nil {
		return policy, fmt.Errorf("failed to parse policy file %s: %w", path, err)
	}

	return policy, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	var problems []string

	if c.DatabasePath == "" {
		problems = append(problems, "DATABASE_PATH is required")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("PORT must be numeric, got %q", c.Port))
	}
	if c.Policy.GeolocationTimeout <= 0 {
		problems = append(problems, "geolocation_timeout must be positive")
	} else if c.Policy.GeolocationTimeout > geolocation.DefaultTimeout {
		problems = append(problems, fmt.Sprintf("geolocation_timeout must be at most %s", geolocation.DefaultTimeout))
	}
	if c.Policy.StatusDismissAfter <= 0 {
		problems = append(problems, "status_dismiss_after must be positive")
	}
	if c.Policy.AbsenceReasonMaxLength <= 0 {
		problems = append(problems, "absence_reason_max_length must be positive")
	}
	if c.Admin.Username != "" && c.Admin.PasswordHash == "" {
		problems = append(problems, "ADMIN_PASSWORD_HASH is required when ADMIN_USERNAME is set")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
