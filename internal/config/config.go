// Package config loads process configuration from environment variables,
// optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultLoginURL    = "https://eclientreporting.nuvamaassetservices.com/wealthspectrum/app/loginWith"
	defaultSMTPHost    = "smtp.gmail.com"
	defaultSMTPPort    = 587
	defaultDownloadDir = "downloads"
	defaultReportName  = "Statement of Capital Flows"
)

// Config holds every value the run needs. It is built once at startup and
// passed by reference to each step; nothing reads the environment after Load.
type Config struct {
	// Portal
	LoginURL   string
	PortalUser string
	PortalPass string
	ReportName string

	// Email
	EmailFrom string
	EmailTo   []string
	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string

	// Local
	DownloadDir string
}

// Load reads configuration from the environment. A .env file in the working
// directory is honored when present but is not required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		LoginURL:    getEnv("LOGIN_URL", defaultLoginURL),
		PortalUser:  os.Getenv("PORTAL_USER"),
		PortalPass:  os.Getenv("PORTAL_PASS"),
		ReportName:  getEnv("REPORT_NAME", defaultReportName),
		EmailFrom:   os.Getenv("EMAIL_FROM"),
		SMTPHost:    getEnv("SMTP_HOST", defaultSMTPHost),
		SMTPPass:    os.Getenv("SMTP_PASS"),
		DownloadDir: getEnv("DOWNLOAD_DIR", defaultDownloadDir),
	}

	// SMTP_USER falls back to the From address, same as the portal's
	// deployment has always run.
	cfg.SMTPUser = getEnv("SMTP_USER", cfg.EmailFrom)

	port, err := getEnvInt("SMTP_PORT", defaultSMTPPort)
	if err != nil {
		return nil, err
	}
	cfg.SMTPPort = port

	// EMAIL_TO is a comma-separated list. An empty list is not an error:
	// it disables the notification step.
	for _, to := range strings.Split(os.Getenv("EMAIL_TO"), ",") {
		if trimmed := strings.TrimSpace(to); trimmed != "" {
			cfg.EmailTo = append(cfg.EmailTo, trimmed)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces the startup invariants. Missing portal credentials are
// fatal before any navigation begins.
func (c *Config) Validate() error {
	if c.PortalUser == "" {
		return fmt.Errorf("PORTAL_USER is required")
	}
	if c.PortalPass == "" {
		return fmt.Errorf("PORTAL_PASS is required")
	}
	if c.LoginURL == "" {
		return fmt.Errorf("LOGIN_URL must not be empty")
	}
	return nil
}

// NotifyEnabled reports whether the email step should run at all.
func (c *Config) NotifyEnabled() bool {
	return len(c.EmailTo) > 0
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return n, nil
}
