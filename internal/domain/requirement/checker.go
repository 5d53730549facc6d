package requirement

import (
	"fmt"
	"strings"

	"github.com/okian/varsity/internal/domain/model"
	"github.com/okian/varsity/internal/domain/subject"
)

// SubjectMatch ties one required subject to the best-matching user subject
// and the level check on that pair.
type SubjectMatch struct {
	RequiredName  string              `json:"required_name"`
	RequiredLevel int                 `json:"required_level"`
	UserName      string              `json:"user_name"`
	UserLevel     int                 `json:"user_level"`
	Match         subject.MatchResult `json:"match"`
	Level         LevelCheck          `json:"level"`
}

// MissingSubject records a required subject no user subject matched, with
// accepted name variants to surface to the applicant.
type MissingSubject struct {
	Name         string   `json:"name"`
	Level        int      `json:"level"`
	Alternatives []string `json:"alternatives,omitempty"`
}

// CheckResult aggregates per-subject verdicts into an overall pass/fail.
type CheckResult struct {
	IsEligible bool             `json:"is_eligible"`
	Matched    []SubjectMatch   `json:"matched"`
	Missing    []MissingSubject `json:"missing"`
	Detail     string           `json:"detail"`
}

// Checker matches required-subject lists against user subject sets.
type Checker struct {
	matcher *subject.Matcher
}

// Option applies a configuration option to the Checker.
type Option func(*Checker)

// WithMatcher sets the subject matcher used for name reconciliation.
func WithMatcher(m *subject.Matcher) Option {
	return func(c *Checker) {
		if m != nil {
			c.matcher = m
		}
	}
}

// NewChecker creates a checker with a default matcher unless overridden.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		matcher: subject.NewMatcher(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check evaluates every gating required subject against the user's subject
// set. For each requirement the match with the highest confidence among
// positive verdicts wins and its level is then validated. Eligibility holds
// only when every requirement found a match whose level check passed.
func (c *Checker) Check(userSubjects []model.UserSubject, requiredSubjects []model.RequiredSubject) CheckResult {
	res := CheckResult{IsEligible: true}

	for _, rs := range requiredSubjects {
		if !rs.IsRequired {
			continue
		}

		best, found := c.bestMatch(userSubjects, rs.Name)
		if !found {
			res.IsEligible = false
			res.Missing = append(res.Missing, MissingSubject{
				Name:         rs.Name,
				Level:        rs.Level,
				Alternatives: c.alternatives(rs.Name),
			})
			continue
		}

		level := ValidateLevel(best.user.Level, rs.Level, rs.Name)
		if !level.IsValid {
			res.IsEligible = false
		}
		res.Matched = append(res.Matched, SubjectMatch{
			RequiredName:  rs.Name,
			RequiredLevel: rs.Level,
			UserName:      best.user.Name,
			UserLevel:     best.user.Level,
			Match:         best.match,
			Level:         level,
		})
	}

	res.Detail = buildDetail(res)
	return res
}

type candidate struct {
	user  model.UserSubject
	match subject.MatchResult
}

// bestMatch returns the user subject with the highest positive match
// confidence for a required name. Ties keep the earlier user subject so the
// result is deterministic for identical inputs.
func (c *Checker) bestMatch(userSubjects []model.UserSubject, requiredName string) (candidate, bool) {
	var best candidate
	found := false
	for _, us := range userSubjects {
		m := c.matcher.Match(us.Name, requiredName)
		if !m.IsMatch {
			continue
		}
		if !found || m.Confidence > best.match.Confidence {
			best = candidate{user: us, match: m}
			found = true
		}
	}
	return best, found
}

func (c *Checker) alternatives(requiredName string) []string {
	probe := c.matcher.Match("", requiredName)
	return probe.Alternatives
}

func buildDetail(res CheckResult) string {
	var clauses []string

	if len(res.Missing) > 0 {
		names := make([]string, len(res.Missing))
		for i, m := range res.Missing {
			names[i] = fmt.Sprintf("%s (Level %d)", m.Name, m.Level)
		}
		clauses = append(clauses, "Missing: "+strings.Join(names, ", "))
	}

	var insufficient []string
	for _, sm := range res.Matched {
		if !sm.Level.IsValid {
			insufficient = append(insufficient, sm.Level.Reason)
		}
	}
	if len(insufficient) > 0 {
		clauses = append(clauses, "Insufficient levels: "+strings.Join(insufficient, "; "))
	}

	if len(clauses) == 0 {
		return "All subject requirements met"
	}
	return strings.Join(clauses, ". ")
}
