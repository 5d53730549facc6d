package monitor

import (
	"fmt"
	"time"
)

// Health status classifications.
const (
	StatusHealthy  = "healthy"
	StatusWarning  = "warning"
	StatusCritical = "critical"
)

// Health score thresholds and penalty weights.
const (
	healthyThreshold  = 80
	criticalThreshold = 50

	penaltyPerCritical = 25
	penaltyPerHigh     = 10
	penaltyPerWarning  = 2

	// Signals beyond these bounds attract a flat penalty each.
	elevatedErrorRate   = 0.1
	slowAverageResponse = 500 * time.Millisecond
	lowCacheHitRate     = 0.5

	penaltyErrorRate    = 15
	penaltySlowResponse = 10
	penaltyLowHitRate   = 5
)

// HealthReport summarizes service health for operators.
type HealthReport struct {
	Score           int           `json:"score"`
	Status          string        `json:"status"`
	CriticalErrors  int64         `json:"critical_errors"`
	HighErrors      int64         `json:"high_errors"`
	Warnings        int64         `json:"warnings"`
	ErrorRate       float64       `json:"error_rate"`
	AverageResponse time.Duration `json:"average_response"`
	CacheHitRate    float64       `json:"cache_hit_rate"`
	Recommendations []string      `json:"recommendations,omitempty"`
}

// HealthReport computes the current health score: start at 100, subtract
// weighted penalties for unresolved errors and degraded service signals,
// floor at zero.
func (m *Monitor) HealthReport() HealthReport {
	criticals := m.CountBySeverity(SeverityCritical)
	highs := m.CountBySeverity(SeverityHigh)
	warnings := m.CountBySeverity(SeverityMedium) + m.CountBySeverity(SeverityLow)
	errRate := m.ErrorRate()
	avgResponse := m.AverageResponseTime()
	hitRate := m.CacheHitRate()

	score := 100
	score -= int(criticals) * penaltyPerCritical
	score -= int(highs) * penaltyPerHigh
	score -= int(warnings) * penaltyPerWarning

	var recs []string
	if errRate > elevatedErrorRate {
		score -= penaltyErrorRate
		recs = append(recs, fmt.Sprintf("error rate %.2f per assessment is elevated, inspect recent events", errRate))
	}
	if avgResponse > slowAverageResponse {
		score -= penaltySlowResponse
		recs = append(recs, fmt.Sprintf("average response time %s exceeds %s, check catalog size and worker count", avgResponse, slowAverageResponse))
	}
	if hitRate < lowCacheHitRate {
		score -= penaltyLowHitRate
		recs = append(recs, fmt.Sprintf("cache hit rate %.2f is low, consider a longer TTL", hitRate))
	}
	if criticals > 0 {
		recs = append(recs, fmt.Sprintf("%d unresolved critical errors need attention", criticals))
	}
	if score < 0 {
		score = 0
	}

	status := StatusHealthy
	switch {
	case score < criticalThreshold || criticals > 0:
		status = StatusCritical
	case score < healthyThreshold || highs > 0:
		status = StatusWarning
	}

	return HealthReport{
		Score:           score,
		Status:          status,
		CriticalErrors:  criticals,
		HighErrors:      highs,
		Warnings:        warnings,
		ErrorRate:       errRate,
		AverageResponse: avgResponse,
		CacheHitRate:    hitRate,
		Recommendations: recs,
	}
}
