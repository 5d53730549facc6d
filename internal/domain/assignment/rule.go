// Package assignment resolves which institutions a catalog program is
// offered at, and the APS threshold that applies per institution.
package assignment

// Kind tags the variant of an assignment rule.
type Kind string

// Rule variants. Exhaustive: every switch over Kind must handle all three
// and reject anything else via ErrUnknownKind.
const (
	// KindAll applies the program to every institution in the catalog.
	KindAll Kind = "all"
	// KindInclude applies the program only to the listed institutions.
	KindInclude Kind = "include"
	// KindExclude applies the program to every institution except the listed ones.
	KindExclude Kind = "exclude"
)

// Rule describes where a program is offered. Institutions is the include or
// exclude list depending on Kind; APSOverrides supersedes the program's
// default APS for specific institutions regardless of Kind.
type Rule struct {
	Kind         Kind           `json:"kind" koanf:"kind"`
	Institutions []string       `json:"institutions,omitempty" koanf:"institutions"`
	APSOverrides map[string]int `json:"aps_overrides,omitempty" koanf:"aps_overrides"`
}

// AllInstitutions is a convenience constructor for the KindAll variant.
func AllInstitutions() Rule {
	return Rule{Kind: KindAll}
}

// Include constructs a KindInclude rule for the given institutions.
func Include(institutionIDs ...string) Rule {
	return Rule{Kind: KindInclude, Institutions: institutionIDs}
}

// Exclude constructs a KindExclude rule for the given institutions.
func Exclude(institutionIDs ...string) Rule {
	return Rule{Kind: KindExclude, Institutions: institutionIDs}
}

// WithOverrides returns a copy of the rule carrying the given APS overrides.
func (r Rule) WithOverrides(overrides map[string]int) Rule {
	r.APSOverrides = overrides
	return r
}

// AppliesTo reports whether the rule offers the program at the given
// institution. An unknown Kind yields ErrUnknownKind rather than a silent
// fallthrough.
func (r Rule) AppliesTo(institutionID string) (bool, error) {
	switch r.Kind {
	case KindAll:
		return true, nil
	case KindInclude:
		return r.contains(institutionID), nil
	case KindExclude:
		return !r.contains(institutionID), nil
	default:
		return false, ErrUnknownKind
	}
}

// RequiredAPS resolves the APS threshold for an institution: the override if
// one exists, the program default otherwise.
func (r Rule) RequiredAPS(defaultAPS int, institutionID string) int {
	if aps, ok := r.APSOverrides[institutionID]; ok {
		return aps
	}
	return defaultAPS
}

// ResolvedInstitutions returns the subset of all institution ids the rule
// applies to, preserving input order. Unknown-kind rules resolve to nothing.
func (r Rule) ResolvedInstitutions(all []string) []string {
	out := make([]string, 0, len(all))
	for _, id := range all {
		ok, err := r.AppliesTo(id)
		if err != nil {
			return nil
		}
		if ok {
			out = append(out, id)
		}
	}
	return out
}

func (r Rule) contains(institutionID string) bool {
	for _, id := range r.Institutions {
		if id == institutionID {
			return true
		}
	}
	return false
}
