package nickname

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"friendsofmonika/masvalidator/pkg/source"
	"friendsofmonika/masvalidator/pkg/telemetry/metrics"
	"friendsofmonika/masvalidator/pkg/tokenize"
)

// ServiceConfig configures a Service.
type ServiceConfig struct {
	// Repo and Path locate the script holding the nickname lists.
	Repo source.Repo
	Path string

	// Priority is the category order used by Classify. Empty means the
	// construction order.
	Priority []Category
}

// Service keeps the rule sets of the current script revision and
// classifies names against them.
//
// Rules are loaded on first use and rebuilt by Reload only when the
// script text changes. If the script cannot be fetched before any rules
// exist, the service falls back to rule sets holding only the built-in
// bad pattern and keeps trying on later reloads.
type Service struct {
	cfg       ServiceConfig
	fetcher   source.Fetcher
	tokenizer tokenize.Tokenizer
	metrics   *metrics.Collector
	logger    *slog.Logger

	rules  atomic.Pointer[RuleSets]
	reload sync.Mutex
}

// NewService creates a nickname service. No fetch happens until the first
// Classify, Rules or Reload call.
func NewService(cfg ServiceConfig, fetcher source.Fetcher, tz tokenize.Tokenizer, collector *metrics.Collector, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:       cfg,
		fetcher:   fetcher,
		tokenizer: tz,
		metrics:   collector,
		logger:    logger.With("component", "nickname"),
	}
}

// Reload fetches the script and rebuilds the rule sets if its revision
// changed. It reports whether new rules were installed.
func (s *Service) Reload(ctx context.Context) (bool, error) {
	s.reload.Lock()
	defer s.reload.Unlock()

	current := s.rules.Load()

	script, err := s.fetcher.FetchText(ctx, s.cfg.Repo, s.cfg.Path)
	if err != nil {
		s.metrics.RecordRuleBuild(err, nil)
		if current == nil {
			s.installFallback(ctx)
		}
		return false, fmt.Errorf("fetch nickname script: %w", err)
	}

	if current != nil && current.Revision == Revision(script) {
		s.logger.Debug("nickname script unchanged", "revision", current.Revision)
		return false, nil
	}

	rs, err := BuildRuleSets(ctx, s.tokenizer, script)
	s.metrics.RecordRuleBuild(err, patternCounts(rs))
	if err != nil {
		if current == nil {
			s.installFallback(ctx)
		}
		return false, err
	}

	for _, skipped := range rs.Skipped {
		s.logger.Warn("skipping invalid nickname pattern",
			"list", skipped.List,
			"pattern", skipped.Pattern,
			"error", skipped.Err,
		)
	}

	s.rules.Store(rs)
	s.logger.Info("nickname rules loaded",
		"revision", rs.Revision,
		"patterns", rs.PatternCounts(),
		"skipped", len(rs.Skipped),
	)
	return true, nil
}

// installFallback stores rule sets built from an empty script. Their
// revision is empty so that any fetched script replaces them.
func (s *Service) installFallback(ctx context.Context) {
	rs, err := BuildRuleSets(ctx, s.tokenizer, "")
	if err != nil {
		s.logger.Error("failed to build fallback nickname rules", "error", err)
		return
	}
	rs.Revision = ""
	s.rules.Store(rs)
	s.logger.Warn("nickname script unavailable, using built-in rules only")
}

// Rules returns the current rule sets, loading them if needed.
func (s *Service) Rules(ctx context.Context) (*RuleSets, error) {
	if rs := s.rules.Load(); rs != nil {
		return rs, nil
	}

	_, err := s.Reload(ctx)
	if rs := s.rules.Load(); rs != nil {
		if err != nil {
			s.logger.Warn("nickname rules degraded", "error", err)
		}
		return rs, nil
	}
	return nil, err
}

// Classify classifies name using the configured priority.
func (s *Service) Classify(ctx context.Context, name string) (*Match, error) {
	rs, err := s.Rules(ctx)
	if err != nil {
		return nil, err
	}

	return s.ClassifyWith(rs, name), nil
}

// ClassifyWith classifies name against rs without loading rules, so a
// batch classified over one snapshot reports a single revision. An empty
// order means the configured priority.
func (s *Service) ClassifyWith(rs *RuleSets, name string, order ...Category) *Match {
	if len(order) == 0 {
		order = s.cfg.Priority
	}

	m := Classify(name, rs.Ordered(order...))
	category := "none"
	if m != nil {
		category = string(m.Category)
	}
	s.metrics.RecordClassification(category)
	s.logger.Debug("name classified", "category", category)
	return m
}

// Source returns where the service reads its script from.
func (s *Service) Source() (source.Repo, string) {
	return s.cfg.Repo, s.cfg.Path
}

// Priority returns the category order Classify applies.
func (s *Service) Priority() []Category {
	if len(s.cfg.Priority) == 0 {
		return Categories
	}
	return s.cfg.Priority
}

func patternCounts(rs *RuleSets) map[string]int {
	if rs == nil {
		return nil
	}
	return rs.PatternCounts()
}
