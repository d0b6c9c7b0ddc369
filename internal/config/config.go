// Package config loads elementscan settings. Sources apply in order:
// built-in defaults, a YAML file, .env files and ELEMENTSCAN_* variables.
// Command-line flags are applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/go-scripts/elementscan/internal/acceptance"
	"github.com/go-scripts/elementscan/internal/browser"
)

// EnvPrefix starts every environment variable the loader reads.
const EnvPrefix = "ELEMENTSCAN_"

// Config is the top-level elementscan configuration.
type Config struct {
	Browser    BrowserConfig    `yaml:"browser"`
	Report     ReportConfig     `yaml:"report"`
	Batch      BatchConfig      `yaml:"batch"`
	Acceptance AcceptanceConfig `yaml:"acceptance"`
	LogLevel   string           `yaml:"log_level"`
}

// BrowserConfig controls Chrome launch and navigation.
type BrowserConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	Headful   bool          `yaml:"headful"`
	ExecPath  string        `yaml:"exec_path"`
	UserAgent string        `yaml:"user_agent"`
	WaitTime  time.Duration `yaml:"wait_time"`
}

// ReportConfig sets where results go.
type ReportConfig struct {
	Output  string `yaml:"output"`
	JSONDir string `yaml:"json_dir"` // empty disables the JSON dump
}

type BatchConfig struct {
	Concurrency int `yaml:"concurrency"`
}

type AcceptanceConfig struct {
	Command string `yaml:"command"`
	Suite   string `yaml:"suite"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Browser: BrowserConfig{Timeout: browser.DefaultTimeout},
		Report:  ReportConfig{Output: "element_counts.pdf"},
		Batch:   BatchConfig{Concurrency: 4},
		Acceptance: AcceptanceConfig{
			Command: acceptance.DefaultCommand,
			Suite:   acceptance.DefaultSuite,
		},
		LogLevel: "info",
	}
}

// Load builds a Config from the defaults, the YAML file at path (skipped
// when path is empty), the given .env files (".env" when none are named;
// missing ones are ignored) and the process environment. The result is not
// validated; callers apply their own overrides first and then call Validate.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
		*dst = d
		return nil
	}

	if err := dur("TIMEOUT", &c.Browser.Timeout); err != nil {
		return err
	}
	if err := dur("WAIT_TIME", &c.Browser.WaitTime); err != nil {
		return err
	}
	if v, ok := lookup(EnvPrefix + "HEADFUL"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sHEADFUL: %w", EnvPrefix, err)
		}
		c.Browser.Headful = b
	}
	if v, ok := lookup(EnvPrefix + "CONCURRENCY"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sCONCURRENCY: %w", EnvPrefix, err)
		}
		c.Batch.Concurrency = n
	}
	str("CHROME_PATH", &c.Browser.ExecPath)
	str("USER_AGENT", &c.Browser.UserAgent)
	str("OUTPUT", &c.Report.Output)
	str("JSON_DIR", &c.Report.JSONDir)
	str("ROBOT", &c.Acceptance.Command)
	str("SUITE", &c.Acceptance.Suite)
	str("LOG_LEVEL", &c.LogLevel)
	return nil
}

// Validate rejects settings no run could use.
func (c *Config) Validate() error {
	if c.Browser.Timeout <= 0 {
		return fmt.Errorf("browser timeout must be positive, got %s", c.Browser.Timeout)
	}
	if c.Browser.WaitTime < 0 {
		return fmt.Errorf("browser wait time must not be negative, got %s", c.Browser.WaitTime)
	}
	if c.Batch.Concurrency < 1 {
		return fmt.Errorf("batch concurrency must be at least 1, got %d", c.Batch.Concurrency)
	}
	if c.Report.Output == "" {
		return errors.New("report output path is empty")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() log.Level {
	l, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return l
}

// BrowserOptions converts the browser section for browser.Open.
func (c *Config) BrowserOptions(logger *log.Logger) browser.Options {
	return browser.Options{
		Timeout:   c.Browser.Timeout,
		Headless:  !c.Browser.Headful,
		ExecPath:  c.Browser.ExecPath,
		UserAgent: c.Browser.UserAgent,
		WaitTime:  c.Browser.WaitTime,
		Logger:    logger,
	}
}

// Runner returns the acceptance runner described by the config.
func (c *Config) Runner() *acceptance.Runner {
	return &acceptance.Runner{Command: c.Acceptance.Command, Suite: c.Acceptance.Suite}
}
