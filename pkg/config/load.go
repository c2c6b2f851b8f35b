package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix shared by all environment variable overrides.
const EnvPrefix = "MASV_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// ${VAR} references inside the file are expanded from the environment.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML configuration on top of the defaults.
// It does not validate the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(cfg)
	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration and applies environment
// variable overrides. Environment variables follow the naming convention
// MASV_SECTION_FIELD (e.g., MASV_CACHE_BACKEND) and always take precedence.
//
// A missing file is not an error: defaults plus environment overrides are
// used instead, so the binary works without any configuration.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config
	if _, statErr := os.Stat(path); path != "" && statErr == nil {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = Default()
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	// Source overrides
	envString("SOURCES_MODE", &cfg.Sources.Mode)
	envString("SOURCES_NICKNAMES_REF", &cfg.Sources.Nicknames.Ref)
	envString("SOURCES_NICKNAMES_PATH", &cfg.Sources.Nicknames.Path)
	envString("SOURCES_SCHEMAS_REF", &cfg.Sources.Schemas.Ref)
	envString("SOURCES_HTTP_BASE_URL", &cfg.Sources.HTTP.BaseURL)
	envString("SOURCES_HTTP_TOKEN", &cfg.Sources.HTTP.Token)
	envInt("SOURCES_HTTP_MAX_RETRIES", &cfg.Sources.HTTP.MaxRetries)
	envString("SOURCES_GIT_CLONE_DIR", &cfg.Sources.Git.CloneDir)
	envString("SOURCES_GIT_AUTH_TOKEN", &cfg.Sources.Git.Auth.Token)
	envString("SOURCES_FILE_ROOT", &cfg.Sources.File.Root)
	envBool("SOURCES_FILE_WATCH", &cfg.Sources.File.Watch)

	// Cache overrides
	envString("CACHE_BACKEND", &cfg.Cache.Backend)
	envDuration("CACHE_TTL", &cfg.Cache.TTL)
	envString("CACHE_SQLITE_PATH", &cfg.Cache.SQLite.Path)
	envString("CACHE_REDIS_ADDRESS", &cfg.Cache.Redis.Address)
	envString("CACHE_REDIS_PASSWORD", &cfg.Cache.Redis.Password)
	envInt("CACHE_REDIS_DB", &cfg.Cache.Redis.DB)

	// Nickname overrides
	envString("NICKNAMES_REFRESH_SCHEDULE", &cfg.Nicknames.RefreshSchedule)
	if val := os.Getenv(EnvPrefix + "NICKNAMES_PRIORITY"); val != "" {
		cfg.Nicknames.Priority = splitList(val)
	}

	// Server overrides
	envString("SERVER_LISTEN_ADDRESS", &cfg.Server.ListenAddress)

	// Telemetry overrides
	envString("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	envString("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	envBool("TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
}

func envString(name string, dst *string) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		*dst = val
	}
}

func envInt(name string, dst *int) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func envBool(name string, dst *bool) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func envDuration(name string, dst *time.Duration) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
