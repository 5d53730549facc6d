// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/varsity/internal/adapters/cache"
	"github.com/okian/varsity/internal/adapters/registry"
	"github.com/okian/varsity/internal/domain/eligibility"
	"github.com/okian/varsity/internal/domain/model"
	"github.com/okian/varsity/internal/domain/requirement"
	"github.com/okian/varsity/internal/domain/subject"
	"github.com/okian/varsity/internal/domain/validation"
	"github.com/okian/varsity/internal/monitor"
	"github.com/okian/varsity/pkg/logger"
	"github.com/okian/varsity/pkg/metrics"
)

// Service implements the API dependencies for the eligibility system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    registry.Store
	table    *subject.Table
	assessor *eligibility.Assessor
	reporter *validation.Reporter
	cache    *cache.Cache
	mon      *monitor.Monitor

	// Configuration
	maxAPSGap   int
	allowAlmost bool
	workerCount int
	cacheTTL    time.Duration
	cacheSize   int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the program/institution registry.
func WithStore(store registry.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMonitor sets the runtime monitor.
func WithMonitor(m *monitor.Monitor) Option {
	return func(s *Service) {
		if m != nil {
			s.mon = m
		}
	}
}

// WithSubjectTable sets the canonical subject table used for matching.
func WithSubjectTable(t *subject.Table) Option {
	return func(s *Service) {
		if t != nil {
			s.table = t
		}
	}
}

// WithMaxAPSGap sets the largest APS shortfall still counted as almost-eligible.
func WithMaxAPSGap(gap int) Option {
	return func(s *Service) {
		if gap >= 0 {
			s.maxAPSGap = gap
		}
	}
}

// WithAlmostEligible enables or disables the almost-eligible tier in listings.
func WithAlmostEligible(allow bool) Option {
	return func(s *Service) {
		s.allowAlmost = allow
	}
}

// WithWorkerCount bounds concurrent program assessments per request.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithCacheTTL sets how long aggregated reports stay cached.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithCacheSize bounds the aggregator cache.
func WithCacheSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.cacheSize = n
		}
	}
}

// Default service configuration.
const (
	defaultWorkerCount = 8
	defaultCacheSize   = 1024
)

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		maxAPSGap:   eligibility.DefaultMaxAPSGap,
		allowAlmost: true,
		workerCount: defaultWorkerCount,
		cacheTTL:    cache.DefaultTTL,
		cacheSize:   defaultCacheSize,
		mon:         monitor.New(),
		logger:      nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting eligibility service...")

	// Initialize components
	if s.store == nil {
		s.store = registry.Default()
		s.logger.Info(ctx, "using built-in development catalog")
	}
	if s.table == nil {
		s.table = subject.DefaultTable()
	}

	matcher := subject.NewMatcher(subject.WithTable(s.table))
	checker := requirement.NewChecker(requirement.WithMatcher(matcher))
	s.assessor = eligibility.NewAssessor(
		eligibility.WithChecker(checker),
		eligibility.WithMonitor(s.mon),
		eligibility.WithMaxAPSGap(s.maxAPSGap),
		eligibility.WithAlmostEligible(s.allowAlmost),
	)
	s.reporter = validation.NewReporter(validation.WithMonitor(s.mon))
	s.cache = cache.New(
		cache.WithTTL(s.cacheTTL),
		cache.WithMaxEntries(s.cacheSize),
	)

	s.started = true
	s.logger.Info(ctx, "eligibility service started",
		logger.Int("programs", s.store.CountPrograms(ctx)),
		logger.Int("institutions", s.store.CountInstitutions(ctx)),
		logger.Int("workers", s.workerCount),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping eligibility service...")

	if s.cache != nil {
		s.cache.Purge()
	}

	s.started = false
	s.logger.Info(context.Background(), "eligibility service stopped")
}

// AssessProgram runs a single eligibility assessment for one program at one
// institution.
func (s *Service) AssessProgram(ctx context.Context, programID, institutionID string, userAPS int, userSubjects []model.UserSubject) (eligibility.Result, error) {
	p, err := s.store.Program(ctx, programID)
	if err != nil {
		return eligibility.Result{}, err
	}
	if !s.store.HasInstitution(ctx, institutionID) {
		return eligibility.Result{}, fmt.Errorf("%w: %s", registry.ErrInstitutionNotFound, institutionID)
	}

	applies, err := p.Rule.AppliesTo(institutionID)
	if err != nil {
		return eligibility.Result{}, err
	}
	if !applies {
		return eligibility.Result{}, fmt.Errorf("%w: program %s is not offered at %s", registry.ErrProgramNotFound, programID, institutionID)
	}

	v := eligibility.ValidateAPS(userAPS)
	subjects, _ := normalizeSubjects(userSubjects)
	return s.assessor.Assess(ctx, p, institutionID, v.NormalizedAPS, subjects), nil
}

// ValidateAPS normalizes an APS score and reports repairs. Never fails.
func (s *Service) ValidateAPS(aps int) eligibility.APSValidation {
	return eligibility.ValidateAPS(aps)
}

// CatalogReport statically validates every program in the catalog.
func (s *Service) CatalogReport(ctx context.Context) validation.CatalogReport {
	institutions := s.store.Institutions(ctx)
	ids := make([]string, len(institutions))
	for i, inst := range institutions {
		ids[i] = inst.ID
	}
	known := func(id string) bool { return s.store.HasInstitution(ctx, id) }
	return s.reporter.ValidateCatalog(ctx, s.store.Programs(ctx), known, ids)
}

// HealthReport aggregates runtime signals into a scored health verdict.
func (s *Service) HealthReport() monitor.HealthReport {
	return s.mon.HealthReport()
}

// Monitor exposes the runtime monitor for callers that record their own events.
func (s *Service) Monitor() *monitor.Monitor {
	return s.mon
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"maxAPSGap":   s.maxAPSGap,
		"allowAlmost": s.allowAlmost,
	}

	if s.started {
		programs := s.store.CountPrograms(ctx)
		institutions := s.store.CountInstitutions(ctx)

		stats["programs"] = programs
		stats["institutions"] = institutions
		stats["cacheEntries"] = s.cache.Len()
		stats["cacheHitRate"] = s.mon.CacheHitRate()
		stats["averageResponseMs"] = s.mon.AverageResponseTime().Milliseconds()

		// Update metrics
		metrics.UpdateCatalogPrograms(programs)
		metrics.UpdateCatalogInstitutions(institutions)
		metrics.UpdateCacheEntries(s.cache.Len())
	}

	return stats
}
