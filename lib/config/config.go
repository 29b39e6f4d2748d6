// Copyright 2026 The Cronfleet Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cronfleet/cronfleet/lib/name"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// Config is the master configuration for cronfleet.
type Config struct {
	// Environment identifies the deployment type (development, staging, production).
	Environment Environment `yaml:"environment"`

	// Broker configures the pub/sub transport.
	Broker BrokerConfig `yaml:"broker"`

	// Launch configures the publishing side (cronfleet-launch).
	Launch LaunchConfig `yaml:"launch"`

	// Worker configures the consuming side (cronfleet-worker).
	Worker WorkerConfig `yaml:"worker"`

	// Per-environment overrides, applied after the base config is loaded.
	Development *Overrides `yaml:"development,omitempty"`
	Staging     *Overrides `yaml:"staging,omitempty"`
	Production  *Overrides `yaml:"production,omitempty"`
}

// Overrides contains the sections that can be overridden per environment.
type Overrides struct {
	Broker *BrokerConfig `yaml:"broker,omitempty"`
	Launch *LaunchConfig `yaml:"launch,omitempty"`
	Worker *WorkerConfig `yaml:"worker,omitempty"`
}

// BrokerConfig configures the pub/sub transport.
type BrokerConfig struct {
	// Kind selects the broker variant. Must be a registered variant
	// ("kafka" in production, "memory" for development).
	Kind string `yaml:"kind"`

	// Brokers is the list of broker bootstrap addresses (host:port).
	Brokers []string `yaml:"brokers"`

	// Topic is the deployment topic.
	// Default: cronfleet-deploy
	Topic string `yaml:"topic"`

	// GroupPrefix is the consumer group name prefix. Each worker
	// invocation appends its hostname and a fresh UUID.
	// Default: cronfleet-worker
	GroupPrefix string `yaml:"group_prefix"`
}

// LaunchConfig configures the publishing side.
type LaunchConfig struct {
	// CrontabGlob enumerates the crontab files to publish, relative
	// to the project being deployed.
	// Default: src/main/cron/*.cron
	CrontabGlob string `yaml:"crontab_glob"`
}

// WorkerConfig configures the consuming side.
type WorkerConfig struct {
	// CrontabDir is the cron drop directory the reconciler manages.
	// Default: /etc/cron.d
	CrontabDir string `yaml:"crontab_dir"`

	// InstallationToken is the installation-unique token that leads
	// every owned file name. Two cronfleet installations sharing one
	// drop directory must use distinct tokens or they will reconcile
	// each other's files away.
	// Default: cronfleet
	InstallationToken string `yaml:"installation_token"`

	// DrainTimeout is how long a drain waits for the next message
	// before declaring the backlog exhausted, as a duration string.
	// Default: 5s
	DrainTimeout string `yaml:"drain_timeout"`
}

// Default returns the default configuration. These defaults ensure
// every field has a sensible zero-value base before the config file is
// merged in - the config file is still required.
func Default() *Config {
	return &Config{
		Environment: Development,
		Broker: BrokerConfig{
			Kind:        "kafka",
			Topic:       "cronfleet-deploy",
			GroupPrefix: "cronfleet-worker",
		},
		Launch: LaunchConfig{
			CrontabGlob: "src/main/cron/*.cron",
		},
		Worker: WorkerConfig{
			CrontabDir:        "/etc/cron.d",
			InstallationToken: "cronfleet",
			DrainTimeout:      "5s",
		},
	}
}

// Load loads configuration from the CRONFLEET_CONFIG environment
// variable.
//
// This is the only way to load configuration without an explicit path.
// There are no fallbacks or discovery - if CRONFLEET_CONFIG is not
// set, this fails. Deterministic, auditable configuration with no
// hidden overrides.
func Load() (*Config, error) {
	configPath := os.Getenv("CRONFLEET_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("CRONFLEET_CONFIG environment variable not set; " +
			"set it to the path of your cronfleet.yaml config file, or use --config flag")
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// The config file is the single source of truth. Environment variables
// do not override config values; the only expansion performed is
// ${HOME}-style variables in paths, for portability.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

// applyEnvironmentOverrides applies the section matching the selected
// environment over the base values.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *Overrides
	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}
	if overrides == nil {
		return
	}
	if overrides.Broker != nil {
		c.Broker = *overrides.Broker
	}
	if overrides.Launch != nil {
		c.Launch = *overrides.Launch
	}
	if overrides.Worker != nil {
		c.Worker = *overrides.Worker
	}
}

// variablePattern matches ${NAME} in path values.
var variablePattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandVariables expands ${HOME}-style references in path fields.
// Only path fields are expanded - identifiers and addresses are taken
// literally.
func (c *Config) expandVariables() {
	c.Worker.CrontabDir = expand(c.Worker.CrontabDir)
	c.Launch.CrontabGlob = expand(c.Launch.CrontabGlob)
}

func expand(value string) string {
	return variablePattern.ReplaceAllStringFunc(value, func(match string) string {
		variable := variablePattern.FindStringSubmatch(match)[1]
		if resolved, ok := os.LookupEnv(variable); ok {
			return resolved
		}
		return match
	})
}

// Validate checks the configuration for problems that would otherwise
// surface mid-deployment: an unregistered broker kind, an unparseable
// drain timeout, or an installation token that cannot legally lead a
// file name.
func (c *Config) Validate(knownBrokerKinds []string) error {
	switch c.Environment {
	case Development, Staging, Production:
	default:
		return fmt.Errorf("config: unknown environment %q", c.Environment)
	}

	kindKnown := false
	for _, kind := range knownBrokerKinds {
		if c.Broker.Kind == kind {
			kindKnown = true
			break
		}
	}
	if !kindKnown {
		return fmt.Errorf("config: unknown broker kind %q (known: %v)", c.Broker.Kind, knownBrokerKinds)
	}

	if c.Broker.Topic == "" {
		return fmt.Errorf("config: broker.topic must not be empty")
	}
	if c.Broker.GroupPrefix == "" {
		return fmt.Errorf("config: broker.group_prefix must not be empty")
	}

	if c.Worker.CrontabDir == "" {
		return fmt.Errorf("config: worker.crontab_dir must not be empty")
	}
	if err := name.Validate(c.Worker.InstallationToken); err != nil {
		return fmt.Errorf("config: worker.installation_token: %w", err)
	}
	if _, err := c.DrainTimeout(); err != nil {
		return err
	}
	return nil
}

// DrainTimeout parses the worker drain timeout.
func (c *Config) DrainTimeout() (time.Duration, error) {
	timeout, err := time.ParseDuration(c.Worker.DrainTimeout)
	if err != nil {
		return 0, fmt.Errorf("config: worker.drain_timeout %q: %w", c.Worker.DrainTimeout, err)
	}
	if timeout <= 0 {
		return 0, fmt.Errorf("config: worker.drain_timeout must be positive, got %s", timeout)
	}
	return timeout, nil
}
