// Package eligibility decides whether an applicant qualifies for a program
// at an institution, and why.
package eligibility

import (
	"context"
	"fmt"

	"github.com/okian/varsity/internal/domain/model"
	"github.com/okian/varsity/internal/domain/requirement"
	"github.com/okian/varsity/internal/monitor"
	"github.com/okian/varsity/pkg/metrics"
)

// Category is the three-way eligibility verdict.
type Category string

// Categories, best to worst.
const (
	CategoryEligible    Category = "eligible"
	CategoryAlmost      Category = "almost-eligible"
	CategoryNotEligible Category = "not-eligible"
)

// Default assessment options.
const (
	DefaultMaxAPSGap = 5

	confidenceCertain     = 100
	confidenceAlmostFloor = 50
	confidencePerAPSPoint = 10
)

// APSStatus reports the admission-point side of an assessment.
type APSStatus struct {
	UserAPS     int  `json:"user_aps"`
	RequiredAPS int  `json:"required_aps"`
	MeetsAPS    bool `json:"meets_aps"`
	Gap         int  `json:"gap"`
}

// SubjectStatus reports the required-subject side of an assessment.
type SubjectStatus struct {
	MeetsSubjects bool                         `json:"meets_subjects"`
	MatchedCount  int                          `json:"matched_count"`
	RequiredCount int                          `json:"required_count"`
	Missing       []requirement.MissingSubject `json:"missing,omitempty"`
	Matches       []requirement.SubjectMatch   `json:"matches,omitempty"`
}

// Result is one complete eligibility verdict. Transient; one per
// (program, institution, applicant) triple.
//
// IsEligible stays true for almost-eligible results so listing callers can
// filter on it; anything needing strict eligibility must test Category.
type Result struct {
	IsEligible      bool          `json:"is_eligible"`
	Category        Category      `json:"category"`
	APS             APSStatus     `json:"aps_status"`
	Subjects        SubjectStatus `json:"subject_status"`
	OverallReason   string        `json:"overall_reason"`
	Recommendations []string      `json:"recommendations,omitempty"`
	Confidence      int           `json:"confidence"`
}

// SubjectChecker evaluates a program's required subjects against a user's
// subject set. *requirement.Checker is the production implementation.
type SubjectChecker interface {
	Check(userSubjects []model.UserSubject, requiredSubjects []model.RequiredSubject) requirement.CheckResult
}

// Assessor combines requirement checking with APS-gap computation.
type Assessor struct {
	checker     SubjectChecker
	mon         *monitor.Monitor
	maxAPSGap   int
	allowAlmost bool
}

// Option applies a configuration option to the Assessor.
type Option func(*Assessor)

// WithChecker sets the requirement checker.
func WithChecker(c SubjectChecker) Option {
	return func(a *Assessor) {
		if c != nil {
			a.checker = c
		}
	}
}

// WithMonitor sets the monitor assessment failures are reported to.
func WithMonitor(m *monitor.Monitor) Option {
	return func(a *Assessor) {
		if m != nil {
			a.mon = m
		}
	}
}

// WithMaxAPSGap sets the largest APS shortfall still counted as
// almost-eligible.
func WithMaxAPSGap(gap int) Option {
	return func(a *Assessor) {
		if gap >= 0 {
			a.maxAPSGap = gap
		}
	}
}

// WithAlmostEligible enables or disables the almost-eligible category.
func WithAlmostEligible(allow bool) Option {
	return func(a *Assessor) {
		a.allowAlmost = allow
	}
}

// NewAssessor creates an assessor with default configuration.
func NewAssessor(opts ...Option) *Assessor {
	a := &Assessor{
		checker:     requirement.NewChecker(),
		mon:         monitor.New(),
		maxAPSGap:   DefaultMaxAPSGap,
		allowAlmost: true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assess produces the eligibility verdict for one applicant against one
// program at one institution. It never panics outward; an internal failure
// yields a safe not-eligible result with zero confidence and a critical
// monitor event.
func (a *Assessor) Assess(ctx context.Context, p model.Program, institutionID string, userAPS int, userSubjects []model.UserSubject) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			a.mon.LogError(ctx, monitor.KindValidation, monitor.SeverityCritical,
				fmt.Sprintf("assessment panic for program %s: %v", p.ID, r),
				map[string]any{"program": p.ID, "institution": institutionID},
			)
			res = failedResult(userAPS)
		}
	}()

	requiredAPS := p.Rule.RequiredAPS(p.DefaultAPS, institutionID)

	gap := requiredAPS - userAPS
	if gap < 0 {
		gap = 0
	}
	aps := APSStatus{
		UserAPS:     userAPS,
		RequiredAPS: requiredAPS,
		MeetsAPS:    gap == 0,
		Gap:         gap,
	}
	almostMeetsAPS := gap > 0 && gap <= a.maxAPSGap

	check := a.checker.Check(userSubjects, p.RequiredSubjects)
	for _, m := range check.Matched {
		metrics.RecordMatchConfidence(float64(m.Match.Confidence))
	}
	subjects := SubjectStatus{
		MeetsSubjects: check.IsEligible,
		MatchedCount:  len(check.Matched),
		RequiredCount: len(check.Matched) + len(check.Missing),
		Missing:       check.Missing,
		Matches:       check.Matched,
	}

	res = Result{
		APS:      aps,
		Subjects: subjects,
	}
	switch {
	case aps.MeetsAPS && check.IsEligible:
		res.IsEligible = true
		res.Category = CategoryEligible
		res.Confidence = confidenceCertain
	case a.allowAlmost && almostMeetsAPS && check.IsEligible:
		// Eligible for filtering purposes only; Category carries the truth.
		res.IsEligible = true
		res.Category = CategoryAlmost
		res.Confidence = confidenceCertain - gap*confidencePerAPSPoint
		if res.Confidence < confidenceAlmostFloor {
			res.Confidence = confidenceAlmostFloor
		}
	default:
		res.IsEligible = false
		res.Category = CategoryNotEligible
		res.Confidence = confidenceCertain
	}

	res.OverallReason = buildReason(aps, check.Detail)
	res.Recommendations = buildRecommendations(res, check)

	metrics.RecordAssessment(string(res.Category))
	a.mon.RecordAssessment()
	return res
}

func failedResult(userAPS int) Result {
	return Result{
		Category:      CategoryNotEligible,
		APS:           APSStatus{UserAPS: userAPS},
		OverallReason: "assessment could not be completed",
		Confidence:    0,
	}
}

func buildReason(aps APSStatus, subjectDetail string) string {
	if aps.MeetsAPS {
		return fmt.Sprintf("APS of %d meets the requirement of %d. %s", aps.UserAPS, aps.RequiredAPS, subjectDetail)
	}
	return fmt.Sprintf("APS of %d is %d points below the requirement of %d. %s", aps.UserAPS, aps.Gap, aps.RequiredAPS, subjectDetail)
}

// APS gap bands for recommendations.
const (
	smallGapMax    = 3
	bridgingGapMax = 7
)

func buildRecommendations(res Result, check requirement.CheckResult) []string {
	var recs []string

	gap := res.APS.Gap
	switch {
	case gap == 0:
		// nothing APS-related to recommend
	case gap <= smallGapMax:
		recs = append(recs, fmt.Sprintf("Improve your weakest subjects to gain the %d missing APS points", gap))
	case gap <= bridgingGapMax:
		recs = append(recs, "Consider a bridging or foundation program to close the APS gap")
	default:
		recs = append(recs, "Consider alternative programs with lower APS requirements")
	}

	for _, missing := range check.Missing {
		recs = append(recs, fmt.Sprintf("Complete %s at Level %d", missing.Name, missing.Level))
	}

	switch res.Category {
	case CategoryAlmost:
		recs = append(recs, "You almost qualify, consider applying anyway")
	case CategoryEligible:
		recs = append(recs, "You meet all requirements, apply with confidence")
	case CategoryNotEligible:
		// covered by the gap and missing-subject lines above
	}

	return recs
}
