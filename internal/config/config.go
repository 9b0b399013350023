// Package config loads the Charlie Bot runtime configuration.
//
// Values come from three layers, later layers overriding earlier ones:
// built-in defaults, an optional YAML file, and environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/proelectricos/charlie-bot/internal/util"
)

// Defaults for the deployable surface.
const (
	DefaultAPIAddr      = ":3000"
	DefaultOrderBaseURL = "http://localhost:8080"
	DefaultTransport    = TransportWhatsmeow
)

// Supported transport values.
const (
	TransportWhatsmeow = "whatsmeow"
	TransportTwilio    = "twilio"
)

// Config is the merged runtime configuration.
type Config struct {
	DisplayName  string
	BusinessName string
	APIAddr      string
	Transport    string
	OrderBaseURL string
	CalendarID   string
	RedirectURL  string
	TokenPath    string
	SMTPHost     string
	SMTPPort     int
	SessionTTL   time.Duration
	PacingDelay  time.Duration
	StateDir     string
	DBDSN        string
}

// Load builds the configuration. path may be empty, in which case only
// defaults and environment variables apply.
func Load(path string) (Config, error) {
	cfg := Config{
		APIAddr:      DefaultAPIAddr,
		Transport:    DefaultTransport,
		OrderBaseURL: DefaultOrderBaseURL,
	}

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)

	if cfg.Transport != TransportWhatsmeow && cfg.Transport != TransportTwilio {
		return Config{}, fmt.Errorf("unknown transport %q (want %q or %q)", cfg.Transport, TransportWhatsmeow, TransportTwilio)
	}
	return cfg, nil
}

// fileConfig mirrors Config for YAML decoding; durations are strings in the
// file ("30m", "2h") because yaml.v3 has no native duration support.
type fileConfig struct {
	DisplayName  string `yaml:"display_name"`
	BusinessName string `yaml:"business_name"`
	APIAddr      string `yaml:"api_addr"`
	Transport    string `yaml:"transport"`
	OrderBaseURL string `yaml:"order_base_url"`
	CalendarID   string `yaml:"calendar_id"`
	RedirectURL  string `yaml:"google_redirect_url"`
	TokenPath    string `yaml:"google_token_path"`
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SessionTTL   string `yaml:"session_ttl"`
	PacingDelay  string `yaml:"pacing_delay"`
	StateDir     string `yaml:"state_dir"`
	DBDSN        string `yaml:"db_dsn"`
}

// loadFile merges a YAML file into cfg.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	setIfValue(&cfg.DisplayName, fc.DisplayName)
	setIfValue(&cfg.BusinessName, fc.BusinessName)
	setIfValue(&cfg.APIAddr, fc.APIAddr)
	setIfValue(&cfg.Transport, fc.Transport)
	setIfValue(&cfg.OrderBaseURL, fc.OrderBaseURL)
	setIfValue(&cfg.CalendarID, fc.CalendarID)
	setIfValue(&cfg.RedirectURL, fc.RedirectURL)
	setIfValue(&cfg.TokenPath, fc.TokenPath)
	setIfValue(&cfg.SMTPHost, fc.SMTPHost)
	setIfValue(&cfg.StateDir, fc.StateDir)
	setIfValue(&cfg.DBDSN, fc.DBDSN)
	if fc.SMTPPort > 0 {
		cfg.SMTPPort = fc.SMTPPort
	}
	if fc.SessionTTL != "" {
		d, err := time.ParseDuration(fc.SessionTTL)
		if err != nil {
			return fmt.Errorf("parsing session_ttl: %w", err)
		}
		cfg.SessionTTL = d
	}
	if fc.PacingDelay != "" {
		d, err := time.ParseDuration(fc.PacingDelay)
		if err != nil {
			return fmt.Errorf("parsing pacing_delay: %w", err)
		}
		cfg.PacingDelay = d
	}
	return nil
}

// applyEnv overrides file and default values with environment variables.
func applyEnv(cfg *Config) {
	setIfEnv(&cfg.APIAddr, "API_ADDR")
	setIfEnv(&cfg.Transport, "BOT_TRANSPORT")
	setIfEnv(&cfg.OrderBaseURL, "ORDER_API_BASE_URL")
	setIfEnv(&cfg.CalendarID, "GOOGLE_CALENDAR_ID")
	setIfEnv(&cfg.RedirectURL, "GOOGLE_REDIRECT_URL")
	setIfEnv(&cfg.TokenPath, "GOOGLE_TOKEN_PATH")
	setIfEnv(&cfg.SMTPHost, "SMTP_HOST")
	setIfEnv(&cfg.StateDir, "CHARLIE_STATE_DIR")
	setIfEnv(&cfg.DBDSN, "WHATSAPP_DB_DSN")
	if cfg.DBDSN == "" {
		setIfEnv(&cfg.DBDSN, "DATABASE_URL")
	}
	cfg.SessionTTL = util.ParseDurationEnv("SESSION_TTL", cfg.SessionTTL)
	cfg.PacingDelay = util.ParseDurationEnv("REPLY_PACING", cfg.PacingDelay)
}

func setIfEnv(dst *string, key string) {
	setIfValue(dst, os.Getenv(key))
}

func setIfValue(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
