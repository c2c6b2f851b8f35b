// Package config provides configuration management for masvalidator.
//
// Configuration is loaded from a YAML file, layered on top of defaults and
// overridden by environment variables:
//
//  1. Default values (defined in defaults.go)
//  2. Values from the YAML file (${VAR} references are expanded)
//  3. Environment variable overrides (MASV_SECTION_FIELD)
//  4. Validation (fails fast if invalid)
//
// For example:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("masvalidator.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Cache.Backend)
//
// There is no process-wide configuration singleton; the loaded *Config is
// passed explicitly to the components that need it.
package config
