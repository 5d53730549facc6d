package subject

import (
	"fmt"
	"strings"
)

// Confidence values per match rule. The fuzzy fallback threshold and its
// confidence come straight from the original heuristics; changing either
// shifts verdicts on real applicant data, so keep the fixtures in sync.
const (
	confidenceExact     = 100
	confidenceCanonical = 95
	confidenceSynonym   = 85
	confidenceSubstring = 75
	confidenceFuzzy     = 45
	confidenceNoMatch   = 100

	// fuzzyLengthRatio gates the containment fallback: min(len)/max(len)
	// must exceed this so short fragments like "Math" cannot claim
	// "Mathematical Literacy".
	fuzzyLengthRatio = 0.6
)

// MatchResult is the verdict of comparing a user subject name against a
// required subject name. Confidence expresses certainty in the verdict, so a
// definite no-match carries 100 just like a definite match.
type MatchResult struct {
	IsMatch      bool     `json:"is_match"`
	Confidence   int      `json:"confidence"`
	Reason       string   `json:"reason"`
	Alternatives []string `json:"alternatives,omitempty"`
}

// Matcher compares subject names against the canonical table.
type Matcher struct {
	table *Table
}

// Option applies a configuration option to the Matcher.
type Option func(*Matcher)

// WithTable sets the canonical subject table to match against.
func WithTable(table *Table) Option {
	return func(m *Matcher) {
		if table != nil {
			m.table = table
		}
	}
}

// NewMatcher creates a matcher backed by the default curriculum table unless
// overridden.
func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{
		table: DefaultTable(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match compares a user-supplied subject name against a required subject
// name. Pure function over the table; first applicable rule wins.
func (m *Matcher) Match(userName, requiredName string) MatchResult {
	user := strings.TrimSpace(userName)
	required := strings.TrimSpace(requiredName)

	// Rule 1: case-insensitive exact equality.
	if strings.EqualFold(user, required) {
		return MatchResult{
			IsMatch:    true,
			Confidence: confidenceExact,
			Reason:     "exact subject name match",
		}
	}

	userCanon, userOK := m.table.Resolve(user)
	reqCanon, reqOK := m.table.Resolve(required)

	// Rule 2: both names resolve to a canonical identity.
	if userOK && reqOK {
		if strings.EqualFold(userCanon.Name, reqCanon.Name) {
			return MatchResult{
				IsMatch:    true,
				Confidence: confidenceCanonical,
				Reason:     fmt.Sprintf("both names resolve to %s", reqCanon.Name),
			}
		}
		// Exclusions override every looser heuristic below. This rule is
		// why "Mathematical Literacy" can never satisfy "Mathematics".
		if m.table.Excluded(userCanon, reqCanon) {
			return MatchResult{
				IsMatch:    false,
				Confidence: confidenceNoMatch,
				Reason:     fmt.Sprintf("%s does not satisfy %s", userCanon.Name, reqCanon.Name),
			}
		}
	}

	// Rule 3: only one side resolves; try its vocabulary against the
	// other side's literal text.
	if userOK != reqOK {
		canon := userCanon
		other := required
		if reqOK {
			canon = reqCanon
			other = user
		}
		if containsFold(canon.Synonyms, other) {
			return MatchResult{
				IsMatch:    true,
				Confidence: confidenceSynonym,
				Reason:     fmt.Sprintf("%q is a known synonym of %s", other, canon.Name),
			}
		}
		if other != "" && strings.Contains(strings.ToLower(canon.Name), strings.ToLower(other)) {
			return MatchResult{
				IsMatch:    true,
				Confidence: confidenceSubstring,
				Reason:     fmt.Sprintf("%q appears in canonical name %s", other, canon.Name),
			}
		}
	}

	// Rule 4: fuzzy containment fallback, gated by length ratio.
	if fuzzyContains(user, required) {
		return MatchResult{
			IsMatch:    true,
			Confidence: confidenceFuzzy,
			Reason:     fmt.Sprintf("possible match between %q and %q, please verify", user, required),
		}
	}

	// Rule 5: definite no-match, with alternatives when the required
	// subject is known to the table.
	res := MatchResult{
		IsMatch:    false,
		Confidence: confidenceNoMatch,
		Reason:     fmt.Sprintf("%q does not match %q", user, required),
	}
	if reqOK {
		res.Alternatives = reqCanon.Synonyms
	}
	return res
}

// fuzzyContains reports case-insensitive containment in either direction,
// accepted only when the length ratio clears fuzzyLengthRatio.
func fuzzyContains(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la == "" || lb == "" {
		return false
	}
	if !strings.Contains(la, lb) && !strings.Contains(lb, la) {
		return false
	}
	shorter, longer := len(la), len(lb)
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	return float64(shorter)/float64(longer) > fuzzyLengthRatio
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
