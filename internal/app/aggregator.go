package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/okian/varsity/internal/adapters/cache"
	"github.com/okian/varsity/internal/domain/eligibility"
	"github.com/okian/varsity/internal/domain/model"
	"github.com/okian/varsity/internal/monitor"
	"github.com/okian/varsity/pkg/metrics"
)

// Query describes one course-listing request. UserAPS nil means browse mode:
// every applicable program is returned unfiltered.
type Query struct {
	InstitutionID string              `json:"institution_id"`
	UserAPS       *int                `json:"user_aps,omitempty"`
	UserSubjects  []model.UserSubject `json:"user_subjects,omitempty"`
	IncludeAlmost *bool               `json:"include_almost,omitempty"`
	Limit         int                 `json:"limit,omitempty"`
}

// CourseResult pairs a program's identity with its eligibility verdict.
type CourseResult struct {
	ProgramID   string             `json:"program_id"`
	ProgramName string             `json:"program_name"`
	Faculty     string             `json:"faculty,omitempty"`
	RequiredAPS int                `json:"required_aps"`
	Result      eligibility.Result `json:"result"`
}

// CourseReport is the aggregated answer for one institution.
type CourseReport struct {
	InstitutionID   string         `json:"institution_id"`
	InstitutionName string         `json:"institution_name"`
	Courses         []CourseResult `json:"courses"`
	TotalCourses    int            `json:"total_courses"`
	EligibleCourses int            `json:"eligible_courses"`
	AlmostEligible  int            `json:"almost_eligible_courses"`
	Errors          []string       `json:"errors,omitempty"`
	Warnings        []string       `json:"warnings,omitempty"`
}

// CoursesForInstitution walks the catalog, assesses every applicable program
// for the query's applicant, and returns a tiered, cached report. A malformed
// program is recorded and skipped; it never blanks the rest of the result.
func (s *Service) CoursesForInstitution(ctx context.Context, q Query) (CourseReport, error) {
	start := time.Now()
	defer func() {
		elapsed := time.Since(start)
		s.mon.RecordResponseTime(elapsed)
		metrics.RecordAggregationLatency(float64(elapsed.Milliseconds()))
	}()

	inst, err := s.store.Institution(ctx, q.InstitutionID)
	if err != nil {
		s.mon.LogError(ctx, monitor.KindValidation, monitor.SeverityHigh,
			fmt.Sprintf("unknown institution %q", q.InstitutionID), nil)
		return CourseReport{InstitutionID: q.InstitutionID, Errors: []string{err.Error()}}, err
	}

	includeAlmost := s.allowAlmost
	if q.IncludeAlmost != nil {
		includeAlmost = *q.IncludeAlmost
	}

	var warnings []string
	userAPS := 0
	hasAPS := q.UserAPS != nil
	if hasAPS {
		v := eligibility.ValidateAPS(*q.UserAPS)
		userAPS = v.NormalizedAPS
		warnings = append(warnings, v.Warnings...)
		if !v.IsValid {
			s.mon.LogError(ctx, monitor.KindAPS, monitor.SeverityMedium,
				fmt.Sprintf("normalized invalid APS %d to %d", *q.UserAPS, userAPS), nil)
		}
	}
	subjects, subjectWarnings := normalizeSubjects(q.UserSubjects)
	warnings = append(warnings, subjectWarnings...)

	key := s.cacheKey(q.InstitutionID, hasAPS, userAPS, includeAlmost, q.Limit, subjects)
	if cached, ok := s.cache.Get(key); ok {
		s.mon.RecordCacheHit()
		report := cached.(CourseReport)
		report.Warnings = warnings
		return report, nil
	}
	s.mon.RecordCacheMiss()

	report := CourseReport{
		InstitutionID:   inst.ID,
		InstitutionName: inst.Name,
	}

	var applicable []model.Program
	for _, p := range s.store.Programs(ctx) {
		applies, ruleErr := p.Rule.AppliesTo(q.InstitutionID)
		if ruleErr != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("program %s: %v", p.ID, ruleErr))
			s.mon.LogError(ctx, monitor.KindAssignment, monitor.SeverityHigh,
				fmt.Sprintf("rule resolution failed for program %s", p.ID),
				map[string]any{"program": p.ID, "error": ruleErr.Error()})
			continue
		}
		if applies {
			applicable = append(applicable, p)
		}
	}

	results := s.assessAll(ctx, applicable, q.InstitutionID, userAPS, subjects)

	for _, cr := range results {
		if hasAPS {
			keep := cr.Result.Category == eligibility.CategoryEligible ||
				(includeAlmost && cr.Result.IsEligible)
			if !keep {
				continue
			}
		}
		report.Courses = append(report.Courses, cr)
	}

	sortCourses(report.Courses)
	if q.Limit > 0 && len(report.Courses) > q.Limit {
		report.Courses = report.Courses[:q.Limit]
	}

	// Summary counters describe the truncated list the caller receives.
	report.TotalCourses = len(report.Courses)
	for _, cr := range report.Courses {
		switch cr.Result.Category {
		case eligibility.CategoryEligible:
			report.EligibleCourses++
		case eligibility.CategoryAlmost:
			report.AlmostEligible++
		}
	}

	s.cache.Set(key, report)
	report.Warnings = warnings
	return report, nil
}

// assessAll fans assessments out over a bounded worker set and reassembles
// results in catalog order so output stays deterministic.
func (s *Service) assessAll(ctx context.Context, programs []model.Program, institutionID string, userAPS int, subjects []model.UserSubject) []CourseResult {
	results := make([]CourseResult, len(programs))

	workers := s.workerCount
	if workers < 1 {
		workers = 1
	}
	if workers > len(programs) {
		workers = len(programs)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				p := programs[i]
				begin := time.Now()
				res := s.assessor.Assess(ctx, p, institutionID, userAPS, subjects)
				metrics.RecordAssessmentLatency(float64(time.Since(begin).Milliseconds()))
				results[i] = CourseResult{
					ProgramID:   p.ID,
					ProgramName: p.Name,
					Faculty:     p.Faculty,
					RequiredAPS: p.Rule.RequiredAPS(p.DefaultAPS, institutionID),
					Result:      res,
				}
			}
		}()
	}
	for i := range programs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// categoryRank orders eligibility tiers for sorting.
func categoryRank(c eligibility.Category) int {
	switch c {
	case eligibility.CategoryEligible:
		return 0
	case eligibility.CategoryAlmost:
		return 1
	default:
		return 2
	}
}

func sortCourses(courses []CourseResult) {
	sort.SliceStable(courses, func(i, j int) bool {
		ri, rj := categoryRank(courses[i].Result.Category), categoryRank(courses[j].Result.Category)
		if ri != rj {
			return ri < rj
		}
		if courses[i].RequiredAPS != courses[j].RequiredAPS {
			return courses[i].RequiredAPS < courses[j].RequiredAPS
		}
		return courses[i].ProgramID < courses[j].ProgramID
	})
}

// normalizeSubjects drops malformed entries and clamps levels into range,
// collecting a warning per repair. Never fails.
func normalizeSubjects(in []model.UserSubject) ([]model.UserSubject, []string) {
	var out []model.UserSubject
	var warnings []string
	for _, sub := range in {
		if sub.Name == "" {
			warnings = append(warnings, "dropped subject with empty name")
			continue
		}
		if sub.Level < model.MinLevel || sub.Level > model.MaxLevel {
			warnings = append(warnings, fmt.Sprintf("dropped subject %q with invalid level %d", sub.Name, sub.Level))
			continue
		}
		out = append(out, sub)
	}
	return out, warnings
}

// cacheKey derives the cache key from everything the report depends on.
func (s *Service) cacheKey(institutionID string, hasAPS bool, userAPS int, includeAlmost bool, limit int, subjects []model.UserSubject) uint64 {
	parts := []string{
		institutionID,
		strconv.FormatBool(hasAPS),
		strconv.Itoa(userAPS),
		strconv.FormatBool(includeAlmost),
		strconv.Itoa(limit),
	}
	for _, sub := range subjects {
		parts = append(parts, sub.Name, strconv.Itoa(sub.Level))
	}
	return cache.Key(parts...)
}
