package config

import "time"

// Config is the root configuration structure for masvalidator.
// It contains the definition sources, the text cache, the nickname
// classifier, the schema validator, the HTTP API and telemetry settings.
type Config struct {
	// Sources describes where nickname scripts and schema documents are
	// fetched from.
	Sources SourcesConfig `yaml:"sources"`

	// Cache configures the TTL cache that stores raw definition text.
	Cache CacheConfig `yaml:"cache"`

	// Nicknames configures the nickname classifier.
	Nicknames NicknamesConfig `yaml:"nicknames"`

	// Schema configures asset document validation.
	Schema SchemaConfig `yaml:"schema"`

	// Server contains HTTP API server configuration.
	Server ServerConfig `yaml:"server"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// SourcesConfig describes the remote content stores.
type SourcesConfig struct {
	// Mode selects the fetcher: "http" (raw content host), "git" (clone the
	// repository) or "file" (local mirror directory).
	// Default: "http"
	Mode string `yaml:"mode"`

	// Nicknames is the repository holding the nickname script.
	Nicknames RepoConfig `yaml:"nicknames"`

	// Schemas is the repository holding the sprite schema documents.
	Schemas RepoConfig `yaml:"schemas"`

	// HTTP configures the raw content fetcher.
	HTTP HTTPSourceConfig `yaml:"http"`

	// Git configures the git fetcher.
	Git GitSourceConfig `yaml:"git"`

	// File configures the local mirror fetcher.
	File FileSourceConfig `yaml:"file"`
}

// RepoConfig identifies a repository at a fixed ref.
type RepoConfig struct {
	// Owner is the repository owner (e.g., "Monika-After-Story").
	Owner string `yaml:"owner"`

	// Name is the repository name (e.g., "MonikaModDev").
	Name string `yaml:"name"`

	// Ref is the branch, tag or commit to read from.
	// Default: "master"
	Ref string `yaml:"ref"`

	// Path is the file inside the repository. Only used by the nickname
	// repository; schema paths come from SchemaConfig.Files.
	Path string `yaml:"path"`
}

// HTTPSourceConfig configures the raw content fetcher.
type HTTPSourceConfig struct {
	// BaseURL is the raw content host.
	// Default: "https://raw.githubusercontent.com"
	BaseURL string `yaml:"base_url"`

	// Token is an optional bearer token (supports env vars).
	Token string `yaml:"token"`

	// Timeout bounds a single request.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries is the number of retries for transient failures.
	// Default: 3
	MaxRetries int `yaml:"max_retries"`
}

// GitSourceConfig configures the git fetcher.
type GitSourceConfig struct {
	// BaseURL is prepended to "<owner>/<name>.git" to build the clone URL.
	// Default: "https://github.com"
	BaseURL string `yaml:"base_url"`

	// CloneDir is where repositories are cloned.
	// Default: "<tmp>/masvalidator-repos"
	CloneDir string `yaml:"clone_dir"`

	// Depth limits clone history; 0 clones everything.
	// Default: 1
	Depth int `yaml:"depth"`

	// FetchInterval is the minimum time between fetches of the same
	// repository.
	// Default: 5m
	FetchInterval time.Duration `yaml:"fetch_interval"`

	// Timeout bounds clone and fetch operations.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`

	// Auth configures git authentication.
	Auth GitAuthConfig `yaml:"auth"`
}

// GitAuthConfig configures git authentication.
type GitAuthConfig struct {
	// Type: "token", "ssh", "none"
	// Default: "none"
	Type string `yaml:"type"`

	// Token for HTTPS authentication (supports env vars).
	// Required when Type is "token".
	Token string `yaml:"token"`

	// SSHKeyPath for SSH authentication.
	// Required when Type is "ssh".
	SSHKeyPath string `yaml:"ssh_key_path"`

	// SSHKeyPassphrase for encrypted SSH keys.
	SSHKeyPassphrase string `yaml:"ssh_key_passphrase"`
}

// FileSourceConfig configures the local mirror fetcher. Files are read from
// "<root>/<owner>/<name>/<path>"; the ref is ignored.
type FileSourceConfig struct {
	// Root is the mirror directory.
	Root string `yaml:"root"`

	// Watch reloads nickname rules when the mirrored script changes.
	// Default: false
	Watch bool `yaml:"watch"`

	// DebounceInterval coalesces bursts of file events.
	// Default: 250ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}

// CacheConfig configures the raw definition text cache.
type CacheConfig struct {
	// Backend: "memory", "sqlite" or "redis".
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// TTL is how long fetched text stays valid.
	// Default: 1h
	TTL time.Duration `yaml:"ttl"`

	// KeyPrefix namespaces cache keys.
	// Default: "localCache_"
	KeyPrefix string `yaml:"key_prefix"`

	// CleanupSchedule is a cron expression for purging expired entries.
	// "off" disables scheduled cleanup.
	// Default: "@every 30m"
	CleanupSchedule string `yaml:"cleanup_schedule"`

	// SQLite configures the sqlite backend.
	SQLite SQLiteCacheConfig `yaml:"sqlite"`

	// Redis configures the redis backend.
	Redis RedisCacheConfig `yaml:"redis"`
}

// SQLiteCacheConfig configures the sqlite cache backend.
type SQLiteCacheConfig struct {
	// Path is the database file.
	// Default: "data/cache.db"
	Path string `yaml:"path"`

	// BusyTimeout is how long to wait for locks.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RedisCacheConfig configures the redis cache backend.
type RedisCacheConfig struct {
	// Address is host:port.
	// Default: "localhost:6379"
	Address string `yaml:"address"`

	// Password (supports env vars).
	Password string `yaml:"password"`

	// DB is the logical database number.
	DB int `yaml:"db"`
}

// NicknamesConfig configures the nickname classifier.
type NicknamesConfig struct {
	// RefreshSchedule is a cron expression for re-fetching the nickname
	// script. "off" disables scheduled refresh.
	// Default: "@every 1h"
	RefreshSchedule string `yaml:"refresh_schedule"`

	// Priority is the category order used by classify. Earlier categories
	// win when a name matches several.
	// Default: ["bad", "awkward", "playerGood", "monikaGood"]
	Priority []string `yaml:"priority"`
}

// SchemaConfig configures asset document validation.
type SchemaConfig struct {
	// Files maps each schema variant to its document name in the schema
	// repository.
	Files SchemaFiles `yaml:"files"`
}

// SchemaFiles names the schema document for each variant.
type SchemaFiles struct {
	// Default: "acs.schema.json"
	AccessoryCombined string `yaml:"accessory_combined"`

	// Default: "acs-split.schema.json"
	AccessorySplit string `yaml:"accessory_split"`

	// Default: "hair.schema.json"
	Hair string `yaml:"hair"`

	// Default: "clothes.schema.json"
	Clothes string `yaml:"clothes"`
}

// ServerConfig contains HTTP API server configuration.
type ServerConfig struct {
	// ListenAddress is host:port.
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout for the whole request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout for the response.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 15s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxBodyBytes limits request bodies.
	// Default: 1048576 (1MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging configures structured logging.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures Prometheus metrics.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format: "json", "text", "console".
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file:line in records.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled toggles metric recording.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace prefixes metric names.
	// Default: "masvalidator"
	Namespace string `yaml:"namespace"`
}
