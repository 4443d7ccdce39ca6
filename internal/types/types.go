package types

import (
	"os"
	"time"
)

// RawProduct is the record a site extractor assembles from one product
// detail page, before the pipeline persists it.
type RawProduct struct {
	Code     string
	Title    string
	NewTitle string
	Price    string
	ThumbURL string
	Sizes    []string
	Colors   []string
	ImgURLs  []string
	Shop     string
	URL      string
}

// Config holds the configuration for the registrar
type Config struct {
	MySQLDSN      string
	ImageBaseDir  string
	WaitTimeout   time.Duration
	SweepInterval time.Duration
	RequestDelay  time.Duration
	UserAgent     string
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		MySQLDSN:      "urbanstyle:urbanstyle@tcp(127.0.0.1:3306)/urbanstyle?charset=utf8mb4&parseTime=True&loc=Local",
		ImageBaseDir:  "./images",
		WaitTimeout:   10 * time.Second,
		SweepInterval: 30 * time.Minute,
		RequestDelay:  500 * time.Millisecond,
		UserAgent:     "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
}

// FromEnv overlays environment variables onto the config.
// Unset variables leave the existing values in place.
func (c *Config) FromEnv() *Config {
	if v := os.Getenv("MYSQL_DSN"); v != "" {
		c.MySQLDSN = v
	}
	if v := os.Getenv("IMAGE_BASE_DIR"); v != "" {
		c.ImageBaseDir = v
	}
	if v := os.Getenv("WAIT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.WaitTimeout = d
		}
	}
	if v := os.Getenv("SWEEP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.SweepInterval = d
		}
	}
	return c
}

// Logger defines the logging interface
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}
