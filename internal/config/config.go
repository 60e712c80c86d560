// Package config reads process configuration from the environment. The
// protocol itself needs none; everything here is ambient.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

type Config struct {
	// LogLevel is a zap level name.
	LogLevel string
	// MetricsAddr is where /metrics is served. Empty disables it.
	MetricsAddr string
	// EtcdEndpoints enables registration in etcd when non-empty.
	EtcdEndpoints []string
	EtcdPrefix    string
	RegistryTTL   time.Duration
	Version       string
	GitSHA        string
}

func DefaultConfig() Config {
	return Config{
		LogLevel:    "info",
		EtcdPrefix:  "/broadcast/nodes",
		RegistryTTL: 10 * time.Second,
		Version:     "dev",
		GitSHA:      "unknown",
	}
}

// Load reads the environment on top of DefaultConfig.
func Load() (Config, error) {
	cfg := DefaultConfig()
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	cfg.MetricsAddr = os.Getenv("METRICS_ADDR")
	if v := os.Getenv("ETCD_ENDPOINTS"); v != "" {
		for _, ep := range strings.Split(v, ",") {
			if ep = strings.TrimSpace(ep); ep != "" {
				cfg.EtcdEndpoints = append(cfg.EtcdEndpoints, ep)
			}
		}
	}
	if v := os.Getenv("ETCD_PREFIX"); v != "" {
		cfg.EtcdPrefix = v
	}
	if v := os.Getenv("REGISTRY_TTL"); v != "" {
		sec, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, errors.Wrap(err, "REGISTRY_TTL")
		}
		cfg.RegistryTTL = time.Duration(sec) * time.Second
	}
	if v := os.Getenv("BUILD_VERSION"); v != "" {
		cfg.Version = v
	}
	if v := os.Getenv("BUILD_SHA"); v != "" {
		cfg.GitSHA = v
	}
	return cfg, cfg.Validate()
}

func (cfg Config) Validate() error {
	if cfg.RegistryTTL < time.Second {
		return errors.Newf("registry ttl must be at least 1s, got %s", cfg.RegistryTTL)
	}
	if !strings.HasPrefix(cfg.EtcdPrefix, "/") {
		return errors.Newf("etcd prefix %q must start with /", cfg.EtcdPrefix)
	}
	return nil
}
