package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Build-time variables - inject via ldflags
// Example: go build -ldflags "-X main.urlBase=aHR0cHM6Ly9leGFtcGxlLmNvbQ== -X main.version=1.2.0"
var (
	urlBase string // -X main.urlBase=...
	version = "0.1.0"
)

const (
	defaultTimeoutSeconds = 30
	defaultLogFile        = "scraper.log"
)

// Config holds everything a scrape run needs. It is loaded once and passed
// down explicitly.
type Config struct {
	// URLBase is the base64-encoded root URL of the game website.
	URLBase  string
	Username string
	Password string

	Delay          DelayRange
	TimeoutSeconds int
	ProxyFile      string
	LogFile        string
}

// LoadConfig reads configuration from the environment, after loading an
// optional .env file from the working directory.
func LoadConfig() (Config, error) {
	_ = godotenv.Load() // .env is optional

	cfg := Config{
		URLBase:   GetURLBase(),
		Username:  os.Getenv("GAME_USERNAME"),
		Password:  os.Getenv("GAME_PASSWORD"),
		ProxyFile: os.Getenv("PROXY_FILE"),
		LogFile:   os.Getenv("LOG_FILE"),
	}

	if cfg.LogFile == "" {
		cfg.LogFile = defaultLogFile
	}

	var errs []error
	cfg.Delay.Min = getEnvInt("DELAY_MIN", DefaultDelay.Min, &errs)
	cfg.Delay.Max = getEnvInt("DELAY_MAX", DefaultDelay.Max, &errs)
	cfg.TimeoutSeconds = getEnvInt("HTTP_TIMEOUT_SECONDS", defaultTimeoutSeconds, &errs)
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the numeric settings.
func (c Config) Validate() error {
	if err := c.Delay.Validate(); err != nil {
		return err
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT_SECONDS must be a positive integer, got %d", c.TimeoutSeconds)
	}
	return nil
}

// HasCredentials reports whether both username and password are set.
func (c Config) HasCredentials() bool {
	return c.Username != "" && c.Password != ""
}

// GetURLBase returns the encoded base URL (build-time or env fallback)
func GetURLBase() string {
	if urlBase != "" {
		return urlBase
	}
	return os.Getenv("URL_BASE")
}

func getEnvInt(key string, defaultVal int, errs *[]error) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be an integer: %w", key, err))
		return defaultVal
	}
	return n
}
