// Package validation statically checks catalog entries independent of any
// applicant. It reports structural issues per program and a data-quality
// score derived from the proportion of checks each program passes.
package validation

import (
	"context"
	"fmt"

	"github.com/okian/varsity/internal/domain/assignment"
	"github.com/okian/varsity/internal/domain/model"
	"github.com/okian/varsity/internal/monitor"
)

// Issue is a single structural finding for a program.
type Issue struct {
	Severity assignment.Severity `json:"severity"`
	Field    string              `json:"field"`
	Message  string              `json:"message"`
}

// ProgramReport holds the findings and quality score for one program.
type ProgramReport struct {
	ProgramID    string  `json:"program_id"`
	ProgramName  string  `json:"program_name"`
	QualityScore int     `json:"quality_score"`
	Issues       []Issue `json:"issues,omitempty"`
}

// CatalogReport summarizes a full catalog walk.
type CatalogReport struct {
	TotalPrograms  int             `json:"total_programs"`
	ValidPrograms  int             `json:"valid_programs"`
	TotalErrors    int             `json:"total_errors"`
	TotalWarnings  int             `json:"total_warnings"`
	AverageQuality int             `json:"average_quality"`
	ProgramReports []ProgramReport `json:"program_reports"`
}

// Reporter validates programs against structural rules.
type Reporter struct {
	mon *monitor.Monitor
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithMonitor routes findings into the runtime monitor as validation events.
func WithMonitor(m *monitor.Monitor) Option {
	return func(r *Reporter) {
		r.mon = m
	}
}

// NewReporter creates a catalog validator.
func NewReporter(opts ...Option) *Reporter {
	r := &Reporter{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// checksPerProgram is the number of independent structural checks that feed
// the quality score: APS bounds, rule validity, subject levels, subject list.
const checksPerProgram = 4

// ValidateCatalog walks every program once and reports structural issues.
// known reports whether an institution id exists; allInstitutions is the
// full id list used to resolve applicability of exclusion rules.
func (r *Reporter) ValidateCatalog(ctx context.Context, programs []model.Program, known func(string) bool, allInstitutions []string) CatalogReport {
	report := CatalogReport{TotalPrograms: len(programs)}

	totalQuality := 0
	for _, p := range programs {
		pr := r.validateProgram(ctx, p, known, allInstitutions)
		totalQuality += pr.QualityScore
		if len(pr.Issues) == 0 {
			report.ValidPrograms++
		}
		for _, issue := range pr.Issues {
			switch issue.Severity {
			case assignment.SeverityError:
				report.TotalErrors++
			case assignment.SeverityWarning:
				report.TotalWarnings++
			}
		}
		report.ProgramReports = append(report.ProgramReports, pr)
	}
	if len(programs) > 0 {
		report.AverageQuality = totalQuality / len(programs)
	}
	return report
}

func (r *Reporter) validateProgram(ctx context.Context, p model.Program, known func(string) bool, allInstitutions []string) ProgramReport {
	pr := ProgramReport{ProgramID: p.ID, ProgramName: p.Name}
	passed := 0

	// APS bounds
	if p.DefaultAPS < model.MinAPS || p.DefaultAPS > model.MaxAPS {
		pr.Issues = append(pr.Issues, Issue{
			Severity: assignment.SeverityError,
			Field:    "default_aps",
			Message:  fmt.Sprintf("default APS %d is outside the valid range %d..%d", p.DefaultAPS, model.MinAPS, model.MaxAPS),
		})
		r.log(ctx, monitor.SeverityHigh, p.ID, "default APS out of range")
	} else {
		passed++
	}

	// Assignment rule structure
	ruleIssues := p.Rule.Validate(known, allInstitutions)
	if len(ruleIssues) == 0 {
		passed++
	}
	for _, ri := range ruleIssues {
		pr.Issues = append(pr.Issues, Issue{Severity: ri.Severity, Field: "rule", Message: ri.Message})
		sev := monitor.SeverityMedium
		if ri.Severity == assignment.SeverityError {
			sev = monitor.SeverityCritical
		}
		r.log(ctx, sev, p.ID, ri.Message)
	}

	// Required subject levels
	levelsOK := true
	for _, rs := range p.RequiredSubjects {
		if rs.Level < 0 || rs.Level > model.MaxLevel {
			levelsOK = false
			pr.Issues = append(pr.Issues, Issue{
				Severity: assignment.SeverityError,
				Field:    "required_subjects",
				Message:  fmt.Sprintf("subject %q has invalid level %d", rs.Name, rs.Level),
			})
			r.log(ctx, monitor.SeverityHigh, p.ID, fmt.Sprintf("invalid level for subject %q", rs.Name))
		}
	}
	if levelsOK {
		passed++
	}

	// Subject list shape
	namesOK := true
	for _, rs := range p.RequiredSubjects {
		if rs.Name == "" {
			namesOK = false
			pr.Issues = append(pr.Issues, Issue{
				Severity: assignment.SeverityError,
				Field:    "required_subjects",
				Message:  "required subject with empty name",
			})
			r.log(ctx, monitor.SeverityHigh, p.ID, "required subject with empty name")
		}
	}
	if namesOK {
		passed++
	}

	pr.QualityScore = passed * 100 / checksPerProgram
	return pr
}

func (r *Reporter) log(ctx context.Context, sev monitor.Severity, programID, msg string) {
	if r.mon == nil {
		return
	}
	r.mon.LogError(ctx, monitor.KindValidation, sev, msg, map[string]any{"program_id": programID})
}
