package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values for configuration fields.
const (
	// Source defaults
	DefaultSourceMode           = "http"
	DefaultRef                  = "master"
	DefaultNicknameOwner        = "Monika-After-Story"
	DefaultNicknameRepo         = "MonikaModDev"
	DefaultNicknamePath         = "Monika After Story/game/script-story-events.rpy"
	DefaultSchemaOwner          = "Friends-of-Monika"
	DefaultSchemaRepo           = "MAS-Sprite-Schema"
	DefaultHTTPBaseURL          = "https://raw.githubusercontent.com"
	DefaultHTTPTimeout          = 30 * time.Second
	DefaultHTTPMaxRetries       = 3
	DefaultGitBaseURL           = "https://github.com"
	DefaultGitDepth             = 1
	DefaultGitFetchInterval     = 5 * time.Minute
	DefaultGitTimeout           = 60 * time.Second
	DefaultFileDebounceInterval = 250 * time.Millisecond

	// Cache defaults
	DefaultCacheBackend         = "sqlite"
	DefaultCacheTTL             = time.Hour
	DefaultCacheKeyPrefix       = "localCache_"
	DefaultCacheCleanupSchedule = "@every 30m"
	DefaultCacheSQLitePath      = "data/cache.db"
	DefaultCacheSQLiteBusy      = 5 * time.Second
	DefaultCacheRedisAddress    = "localhost:6379"

	// Nickname defaults
	DefaultNicknameRefreshSchedule = "@every 1h"

	// Schema defaults
	DefaultSchemaAccessoryCombined = "acs.schema.json"
	DefaultSchemaAccessorySplit    = "acs-split.schema.json"
	DefaultSchemaHair              = "hair.schema.json"
	DefaultSchemaClothes           = "clothes.schema.json"

	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultMaxBodyBytes    = int64(1 << 20)

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "text"
	DefaultMetricsEnabled   = true
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "masvalidator"
)

// DefaultNicknamePriority is the category order used when none is configured.
var DefaultNicknamePriority = []string{"bad", "awkward", "playerGood", "monikaGood"}

// Default returns a configuration with every field set to its default.
// LoadConfig decodes YAML on top of this value so that booleans which
// default to true survive files that do not mention them.
func Default() *Config {
	cfg := &Config{}
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	applySourceDefaults(&cfg.Sources)

	// Cache defaults
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = DefaultCacheBackend
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}
	if cfg.Cache.KeyPrefix == "" {
		cfg.Cache.KeyPrefix = DefaultCacheKeyPrefix
	}
	if cfg.Cache.CleanupSchedule == "" {
		cfg.Cache.CleanupSchedule = DefaultCacheCleanupSchedule
	}
	if cfg.Cache.SQLite.Path == "" {
		cfg.Cache.SQLite.Path = DefaultCacheSQLitePath
	}
	if cfg.Cache.SQLite.BusyTimeout == 0 {
		cfg.Cache.SQLite.BusyTimeout = DefaultCacheSQLiteBusy
	}
	if cfg.Cache.Redis.Address == "" {
		cfg.Cache.Redis.Address = DefaultCacheRedisAddress
	}

	// Nickname defaults
	if cfg.Nicknames.RefreshSchedule == "" {
		cfg.Nicknames.RefreshSchedule = DefaultNicknameRefreshSchedule
	}
	if len(cfg.Nicknames.Priority) == 0 {
		cfg.Nicknames.Priority = append([]string(nil), DefaultNicknamePriority...)
	}

	// Schema defaults
	files := &cfg.Schema.Files
	if files.AccessoryCombined == "" {
		files.AccessoryCombined = DefaultSchemaAccessoryCombined
	}
	if files.AccessorySplit == "" {
		files.AccessorySplit = DefaultSchemaAccessorySplit
	}
	if files.Hair == "" {
		files.Hair = DefaultSchemaHair
	}
	if files.Clothes == "" {
		files.Clothes = DefaultSchemaClothes
	}

	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
}

func applySourceDefaults(src *SourcesConfig) {
	if src.Mode == "" {
		src.Mode = DefaultSourceMode
	}

	if src.Nicknames.Owner == "" {
		src.Nicknames.Owner = DefaultNicknameOwner
	}
	if src.Nicknames.Name == "" {
		src.Nicknames.Name = DefaultNicknameRepo
	}
	if src.Nicknames.Ref == "" {
		src.Nicknames.Ref = DefaultRef
	}
	if src.Nicknames.Path == "" {
		src.Nicknames.Path = DefaultNicknamePath
	}

	if src.Schemas.Owner == "" {
		src.Schemas.Owner = DefaultSchemaOwner
	}
	if src.Schemas.Name == "" {
		src.Schemas.Name = DefaultSchemaRepo
	}
	if src.Schemas.Ref == "" {
		src.Schemas.Ref = DefaultRef
	}

	if src.HTTP.BaseURL == "" {
		src.HTTP.BaseURL = DefaultHTTPBaseURL
	}
	if src.HTTP.Timeout == 0 {
		src.HTTP.Timeout = DefaultHTTPTimeout
	}
	if src.HTTP.MaxRetries == 0 {
		src.HTTP.MaxRetries = DefaultHTTPMaxRetries
	}

	if src.Git.BaseURL == "" {
		src.Git.BaseURL = DefaultGitBaseURL
	}
	if src.Git.CloneDir == "" {
		src.Git.CloneDir = filepath.Join(os.TempDir(), "masvalidator-repos")
	}
	if src.Git.Depth == 0 {
		src.Git.Depth = DefaultGitDepth
	}
	if src.Git.FetchInterval == 0 {
		src.Git.FetchInterval = DefaultGitFetchInterval
	}
	if src.Git.Timeout == 0 {
		src.Git.Timeout = DefaultGitTimeout
	}
	if src.Git.Auth.Type == "" {
		src.Git.Auth.Type = "none"
	}

	if src.File.DebounceInterval == 0 {
		src.File.DebounceInterval = DefaultFileDebounceInterval
	}
}
