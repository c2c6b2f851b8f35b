// Package metrics exposes Prometheus metrics for masvalidator.
//
// Metrics:
//   - masvalidator_nickname_classifications_total{category}
//   - masvalidator_nickname_rule_builds_total{status}
//   - masvalidator_nickname_rule_patterns{category}
//   - masvalidator_document_validations_total{outcome,variant}
//   - masvalidator_document_validation_duration_seconds{outcome}
//   - masvalidator_document_schema_compiles_total{variant,status}
//   - masvalidator_source_fetches_total{source,status}
//   - masvalidator_cache_hits_total{cache}
//   - masvalidator_cache_misses_total{cache}
package metrics
