package assignment

// Severity classifies a structural issue as "warning" or "error".
type Severity = string

// Issue describes one structural problem found in a rule.
type Issue struct {
	Severity Severity // "warning" or "error"
	Message  string
}

// Severity levels for structural issues.
const (
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Validate checks a rule's structural validity against a known-institution
// predicate and the full institution id list. An empty resolved set is a
// warning rather than an error: the program is merely not offered anywhere.
func (r Rule) Validate(known func(id string) bool, allInstitutions []string) []Issue {
	var issues []Issue

	switch r.Kind {
	case KindAll:
		// nothing list-shaped to check
	case KindInclude, KindExclude:
		if len(r.Institutions) == 0 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Message:  string(r.Kind) + " rule has an empty institution list",
			})
		}
		for _, id := range r.Institutions {
			if known != nil && !known(id) {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Message:  "rule references unknown institution " + id,
				})
			}
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Message:  "unknown assignment rule kind " + string(r.Kind),
		})
		return issues
	}

	for id := range r.APSOverrides {
		if known != nil && !known(id) {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Message:  "APS override references unknown institution " + id,
			})
		}
	}

	if len(allInstitutions) > 0 && len(r.ResolvedInstitutions(allInstitutions)) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Message:  "rule resolves to no institutions",
		})
	}

	return issues
}
