package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "cache.backend").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// knownCategories are the nickname categories accepted in nicknames.priority.
var knownCategories = map[string]bool{
	"bad":        true,
	"awkward":    true,
	"playerGood": true,
	"monikaGood": true,
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All validation errors are collected and
// returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateSources(&cfg.Sources)...)
	errs = append(errs, validateCache(&cfg.Cache)...)
	errs = append(errs, validateNicknames(&cfg.Nicknames)...)
	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateSources(cfg *SourcesConfig) []FieldError {
	var errs []FieldError

	switch cfg.Mode {
	case "http":
		if _, err := url.ParseRequestURI(cfg.HTTP.BaseURL); err != nil {
			errs = append(errs, FieldError{
				Field:   "sources.http.base_url",
				Message: fmt.Sprintf("invalid URL: %v", err),
			})
		}
		if cfg.HTTP.MaxRetries < 0 {
			errs = append(errs, FieldError{
				Field:   "sources.http.max_retries",
				Message: "max retries must be non-negative",
			})
		}
	case "git":
		switch cfg.Git.Auth.Type {
		case "none":
		case "token":
			if cfg.Git.Auth.Token == "" {
				errs = append(errs, FieldError{
					Field:   "sources.git.auth.token",
					Message: "token is required when auth type is \"token\"",
				})
			}
		case "ssh":
			if cfg.Git.Auth.SSHKeyPath == "" {
				errs = append(errs, FieldError{
					Field:   "sources.git.auth.ssh_key_path",
					Message: "ssh key path is required when auth type is \"ssh\"",
				})
			}
		default:
			errs = append(errs, FieldError{
				Field:   "sources.git.auth.type",
				Message: fmt.Sprintf("unknown auth type %q (expected token, ssh or none)", cfg.Git.Auth.Type),
			})
		}
		if cfg.Git.Depth < 0 {
			errs = append(errs, FieldError{
				Field:   "sources.git.depth",
				Message: "depth must be non-negative",
			})
		}
	case "file":
		if cfg.File.Root == "" {
			errs = append(errs, FieldError{
				Field:   "sources.file.root",
				Message: "root is required when mode is \"file\"",
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "sources.mode",
			Message: fmt.Sprintf("unknown mode %q (expected http, git or file)", cfg.Mode),
		})
	}

	repos := []struct {
		field string
		repo  RepoConfig
	}{
		{"sources.nicknames", cfg.Nicknames},
		{"sources.schemas", cfg.Schemas},
	}
	for _, r := range repos {
		if r.repo.Owner == "" || r.repo.Name == "" {
			errs = append(errs, FieldError{
				Field:   r.field,
				Message: "owner and name are required",
			})
		}
	}
	if cfg.Nicknames.Path == "" {
		errs = append(errs, FieldError{
			Field:   "sources.nicknames.path",
			Message: "path is required",
		})
	}

	return errs
}

func validateCache(cfg *CacheConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "memory", "redis":
	case "sqlite":
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{
				Field:   "cache.sqlite.path",
				Message: "path is required for the sqlite backend",
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "cache.backend",
			Message: fmt.Sprintf("unknown backend %q (expected memory, sqlite or redis)", cfg.Backend),
		})
	}

	if cfg.TTL < 0 {
		errs = append(errs, FieldError{
			Field:   "cache.ttl",
			Message: "ttl must be positive",
		})
	}

	if err := validateSchedule(cfg.CleanupSchedule); err != nil {
		errs = append(errs, FieldError{
			Field:   "cache.cleanup_schedule",
			Message: err.Error(),
		})
	}

	return errs
}

func validateNicknames(cfg *NicknamesConfig) []FieldError {
	var errs []FieldError

	if err := validateSchedule(cfg.RefreshSchedule); err != nil {
		errs = append(errs, FieldError{
			Field:   "nicknames.refresh_schedule",
			Message: err.Error(),
		})
	}

	seen := make(map[string]bool, len(cfg.Priority))
	for _, c := range cfg.Priority {
		if !knownCategories[c] {
			errs = append(errs, FieldError{
				Field:   "nicknames.priority",
				Message: fmt.Sprintf("unknown category %q", c),
			})
			continue
		}
		if seen[c] {
			errs = append(errs, FieldError{
				Field:   "nicknames.priority",
				Message: fmt.Sprintf("category %q listed twice", c),
			})
		}
		seen[c] = true
	}

	return errs
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	}
	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must be positive",
		})
	}
	if cfg.MaxBodyBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_body_bytes",
			Message: "max body bytes must be non-negative",
		})
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown level %q", cfg.Logging.Level),
		})
	}

	switch strings.ToLower(cfg.Logging.Format) {
	case "json", "text", "console":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown format %q", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "path must start with /",
		})
	}

	return errs
}

// validateSchedule accepts "off" (disabled) or a standard cron
// expression, including descriptors such as "@every 1h".
func validateSchedule(spec string) error {
	if spec == "off" {
		return nil
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}
	return nil
}
