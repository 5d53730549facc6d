// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CatalogFile points at a YAML catalog of institutions and programs.
	// Empty means the built-in development catalog.
	CatalogFile string `koanf:"catalog_file"`

	// CacheTTLSeconds sets how long aggregated course reports stay cached.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// CacheMaxEntries bounds the aggregator cache.
	CacheMaxEntries int `koanf:"cache_max_entries"`

	// MaxAPSGap is the largest APS shortfall still reported as almost eligible.
	MaxAPSGap int `koanf:"max_aps_gap"`

	// IncludeAlmostEligible keeps near-miss programs in filtered results.
	IncludeAlmostEligible bool `koanf:"include_almost_eligible"`

	// AssessWorkers bounds concurrent program assessments per request.
	AssessWorkers int `koanf:"assess_workers"`

	// MaxCourseLimit caps GET /universities/{id}/courses?limit.
	MaxCourseLimit int `koanf:"max_course_limit"`
}

// New creates a Config using provided options. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use (e.g.,
// loading from env/files) and is currently unused.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:              "info",
		Addr:                  ":9080",
		CatalogFile:           "",
		CacheTTLSeconds:       300,
		CacheMaxEntries:       1024,
		MaxAPSGap:             5,
		IncludeAlmostEligible: true,
		AssessWorkers:         runtime.NumCPU() * 2,
		MaxCourseLimit:        100,
	}
	return c
}
