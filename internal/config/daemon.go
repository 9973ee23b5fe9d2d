package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// DaemonConfig holds process-level settings that are not part of the
// udhcpd.conf grammar.
type DaemonConfig struct {
	LogLevel      string       `toml:"log_level"`
	MetricsListen string       `toml:"metrics_listen"`
	SnapshotDB    string       `toml:"snapshot_db"`
	Notify        NotifyConfig `toml:"notify"`
}

// NotifyConfig controls how notify_file is run after each lease write.
type NotifyConfig struct {
	Timeout     string `toml:"timeout"`
	Concurrency int    `toml:"concurrency"`
}

// LoadDaemon reads a TOML daemon settings file. An empty path yields the defaults.
func LoadDaemon(path string) (*DaemonConfig, error) {
	cfg := &DaemonConfig{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading daemon config %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing daemon config %s: %w", path, err)
		}
	}

	applyDaemonDefaults(cfg)

	if err := validateDaemon(cfg); err != nil {
		return nil, fmt.Errorf("validating daemon config: %w", err)
	}
	return cfg, nil
}

func applyDaemonDefaults(cfg *DaemonConfig) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.Notify.Timeout == "" {
		cfg.Notify.Timeout = DefaultNotifyTimeout.String()
	}
	if cfg.Notify.Concurrency == 0 {
		cfg.Notify.Concurrency = DefaultNotifyConcurrency
	}
}

func validateDaemon(cfg *DaemonConfig) error {
	if _, err := time.ParseDuration(cfg.Notify.Timeout); err != nil {
		return fmt.Errorf("notify.timeout: %w", err)
	}
	if cfg.Notify.Concurrency < 0 {
		return fmt.Errorf("notify.concurrency must not be negative, got %d", cfg.Notify.Concurrency)
	}
	return nil
}

// NotifyTimeout returns notify.timeout as a duration. LoadDaemon has
// already validated it.
func (cfg *DaemonConfig) NotifyTimeout() time.Duration {
	d, err := time.ParseDuration(cfg.Notify.Timeout)
	if err != nil {
		return DefaultNotifyTimeout
	}
	return d
}
