// Package config loads the optional YAML configuration file and merges it
// with defaults and command line options. Flags always win over the file,
// the file wins over defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// ErrNoConfig is returned when no config file exists in any search location.
var ErrNoConfig = errors.New("no config file found")

const (
	localFileName = "docln-downloader.yaml"
	xdgDirName    = "docln-downloader"
	xdgFileName   = "config.yaml"
)

type Config struct {
	BaseURL          string `yaml:"base_url"`
	UserAgent        string `yaml:"user_agent"`
	IntervalMS       int    `yaml:"request_interval_ms"`
	TimeoutSec       int    `yaml:"request_timeout_sec"`
	AssetWorkers     int    `yaml:"asset_workers"`
	CloudflareBypass bool   `yaml:"cloudflare_bypass"`
	Output           string `yaml:"output_dir"`
	KeepTree         bool   `yaml:"keep_tree"`
	SummaryFile      string `yaml:"summary_file"`
}

// Options are the command line overrides. Zero values mean "not set" and
// leave the config value alone.
type Options struct {
	ConfigPath       string
	IgnoreConfig     bool
	BaseURL          string
	UserAgent        string
	IntervalMS       int
	TimeoutSec       int
	AssetWorkers     int
	CloudflareBypass bool
	Output           string
	KeepTree         bool
	SummaryFile      string
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:      "https://docln.net",
		UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		IntervalMS:   500,
		TimeoutSec:   30,
		AssetWorkers: 1,
		Output:       ".",
	}
}

// Interval is the politeness spacing between request starts.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}

// Timeout is the per request deadline.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func loadYAML(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c := DefaultConfig()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}

	return c, nil
}

// FindConfigFile returns the first config file present: docln-downloader.yaml
// in the working directory, then the XDG config directory.
func FindConfigFile() (string, error) {
	if _, err := os.Stat(localFileName); err == nil {
		return localFileName, nil
	}
	xdgPath := filepath.Join(xdg.ConfigHome, xdgDirName, xdgFileName)
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath, nil
	}
	return "", ErrNoConfig
}

// LoadMerged resolves the effective configuration. The returned string names
// the file that was loaded, or describes why none was.
func LoadMerged(opts Options) (*Config, string, error) {
	if opts.IgnoreConfig {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(ignored config)", nil
	}

	path := opts.ConfigPath
	if path == "" {
		found, err := FindConfigFile()
		if errors.Is(err, ErrNoConfig) {
			cfg := DefaultConfig()
			mergeConfig(cfg, opts)
			normalizeDefaults(cfg)
			return cfg, "(defaults)", nil
		}
		if err != nil {
			return nil, "", err
		}
		path = found
	}

	cfg, err := loadYAML(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config %s: %w", path, err)
	}

	mergeConfig(cfg, opts)
	normalizeDefaults(cfg)

	return cfg, path, nil
}

func mergeConfig(c *Config, o Options) {
	if o.BaseURL != "" {
		c.BaseURL = o.BaseURL
	}
	if o.UserAgent != "" {
		c.UserAgent = o.UserAgent
	}
	if o.IntervalMS != 0 {
		c.IntervalMS = o.IntervalMS
	}
	if o.TimeoutSec != 0 {
		c.TimeoutSec = o.TimeoutSec
	}
	if o.AssetWorkers != 0 {
		c.AssetWorkers = o.AssetWorkers
	}
	if o.CloudflareBypass {
		c.CloudflareBypass = true
	}
	if o.Output != "" {
		c.Output = o.Output
	}
	if o.KeepTree {
		c.KeepTree = true
	}
	if o.SummaryFile != "" {
		c.SummaryFile = o.SummaryFile
	}
}

func normalizeDefaults(c *Config) {
	if c.BaseURL == "" {
		c.BaseURL = "https://docln.net"
	}
	if c.IntervalMS <= 0 {
		c.IntervalMS = 500
	}
	if c.TimeoutSec <= 0 {
		c.TimeoutSec = 30
	}
	if c.AssetWorkers <= 0 {
		c.AssetWorkers = 1
	}
	if c.Output == "" {
		c.Output = "."
	}
}
