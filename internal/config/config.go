// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/Ununennium119/Net2Emami/internal/logger"
)

const (
	DefaultCredentialsPath = "credentials"
	DefaultLoginRetry      = 0.25
	DefaultLogoutRetry     = 0.25
	DefaultCycle           = 30.0
	DefaultLogDir          = "."

	// maxSeconds is the first interval that no longer fits in a time.Duration.
	maxSeconds = float64(math.MaxInt64) / float64(time.Second)
)

var (
	// ErrParsing reports failures that occur while decoding the configuration file.
	ErrParsing = errors.New("error parsing")
	// ErrInvalidConfig reports configuration values that cannot be used.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config holds every setting of a run. Values are layered: defaults, then the
// optional YAML file, then environment variables; CLI flags are applied last by the caller.
type Config struct {
	CredentialsPath string  `yaml:"credentials" env:"NET2EMAMI_CREDENTIALS"`
	LoginRetry      float64 `yaml:"loginRetry" env:"NET2EMAMI_LOGIN_RETRY"`
	LogoutRetry     float64 `yaml:"logoutRetry" env:"NET2EMAMI_LOGOUT_RETRY"`
	Cycle           float64 `yaml:"cycle" env:"NET2EMAMI_CYCLE"`
	LogLevel        string  `yaml:"logLevel" env:"NET2EMAMI_LOG_LEVEL"`
	LogFile         bool    `yaml:"logFile" env:"NET2EMAMI_LOG_FILE"`
	LogDir          string  `yaml:"logDir" env:"NET2EMAMI_LOG_DIR"`
	LogFormat       string  `yaml:"logFormat" env:"NET2EMAMI_LOG_FORMAT"`

	// Username and Password replace the credentials file when both are set.
	Username string `yaml:"-" env:"NET2EMAMI_USERNAME"`
	Password string `yaml:"-" env:"NET2EMAMI_PASSWORD"`
}

// Timings are the wait intervals of the session cycle.
type Timings struct {
	LoginRetryInterval  time.Duration
	LogoutRetryInterval time.Duration
	CycleInterval       time.Duration
}

// Default returns the configuration used when nothing else is provided.
func Default() *Config {
	return &Config{
		CredentialsPath: DefaultCredentialsPath,
		LoginRetry:      DefaultLoginRetry,
		LogoutRetry:     DefaultLogoutRetry,
		Cycle:           DefaultCycle,
		LogLevel:        logger.INFO.String(),
		LogDir:          DefaultLogDir,
		LogFormat:       string(logger.TextFormat),
	}
}

// Load builds a configuration from the defaults, the YAML file at path (skipped when
// path is empty) and the environment.
func Load(path string) (*Config, error) {
	config := Default()
	if path != "" {
		if err := config.readFile(path); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(config); err != nil {
		var aggregateErr env.AggregateError
		if errors.As(err, &aggregateErr) {
			err = aggregateErr.Errors[0]
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return config, nil
}

func (c *Config) readFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config file %q: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w %q: %w", ErrParsing, path, err)
	}

	return nil
}

// Validate checks the configured values and reports invalid setups.
func (c *Config) Validate() error {
	configErrors := make([]string, 0)

	intervals := []struct {
		name  string
		value float64
	}{
		{"login retry interval", c.LoginRetry},
		{"logout retry interval", c.LogoutRetry},
		{"cycle interval", c.Cycle},
	}
	for _, interval := range intervals {
		switch {
		case math.IsNaN(interval.value) || math.IsInf(interval.value, 0) || interval.value <= 0:
			configErrors = append(configErrors, interval.name+" must be a positive number of seconds")
		case interval.value >= maxSeconds:
			configErrors = append(configErrors, fmt.Sprintf("%s must be less than %.0f seconds", interval.name, maxSeconds))
		}
	}

	if _, err := logger.FormatFromString(c.LogFormat); err != nil {
		configErrors = append(configErrors, err.Error())
	}

	if c.CredentialsPath == "" && !c.hasInlineCredentials() {
		configErrors = append(configErrors, "credentials file path is empty")
	}

	if len(configErrors) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(configErrors, ", "))
	}
	return nil
}

// Timings converts the configured seconds into durations.
func (c *Config) Timings() Timings {
	return Timings{
		LoginRetryInterval:  seconds(c.LoginRetry),
		LogoutRetryInterval: seconds(c.LogoutRetry),
		CycleInterval:       seconds(c.Cycle),
	}
}

// Level returns the parsed log level threshold.
func (c *Config) Level() logger.Level {
	return logger.LevelFromString(c.LogLevel)
}

// Format returns the parsed log format, falling back to text.
func (c *Config) Format() logger.Format {
	format, err := logger.FormatFromString(c.LogFormat)
	if err != nil {
		return logger.TextFormat
	}
	return format
}

func (c *Config) hasInlineCredentials() bool {
	return c.Username != "" && c.Password != ""
}

func seconds(value float64) time.Duration {
	return time.Duration(value * float64(time.Second))
}
