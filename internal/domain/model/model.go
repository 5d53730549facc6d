// Package model contains domain models passed between layers.
package model

import "github.com/okian/varsity/internal/domain/assignment"

// APS and proficiency-level bounds on the National Senior Certificate
// scale: seven subjects rated 1-7, plus possible bonus points.
const (
	MinAPS = 0
	MaxAPS = 56
	// RealisticMaxAPS is the highest score reachable without bonus points.
	RealisticMaxAPS = 49

	MinLevel = 1
	MaxLevel = 7
)

// UserSubject is one self-reported subject result supplied with a request.
// Never persisted; it lives for the duration of a single assessment.
type UserSubject struct {
	Name   string `json:"name"`
	Level  int    `json:"level"`
	Points int    `json:"points"`
}

// RequiredSubject is one entry of a program's admission requirements.
// Only IsRequired entries participate in eligibility; the rest are
// informational.
type RequiredSubject struct {
	Name       string `json:"name" koanf:"name"`
	Level      int    `json:"level" koanf:"level"`
	IsRequired bool   `json:"is_required" koanf:"is_required"`
}

// Program is one catalog course. Immutable after catalog load.
type Program struct {
	ID               string            `json:"id" koanf:"id"`
	Name             string            `json:"name" koanf:"name"`
	Faculty          string            `json:"faculty" koanf:"faculty"`
	DefaultAPS       int               `json:"default_aps" koanf:"default_aps"`
	RequiredSubjects []RequiredSubject `json:"required_subjects" koanf:"required_subjects"`
	Rule             assignment.Rule   `json:"rule" koanf:"rule"`
}

// RequiredOnly returns the subset of RequiredSubjects that gate admission.
func (p Program) RequiredOnly() []RequiredSubject {
	out := make([]RequiredSubject, 0, len(p.RequiredSubjects))
	for _, rs := range p.RequiredSubjects {
		if rs.IsRequired {
			out = append(out, rs)
		}
	}
	return out
}

// Institution is immutable reference data for one university.
type Institution struct {
	ID           string `json:"id" koanf:"id"`
	Name         string `json:"name" koanf:"name"`
	Abbreviation string `json:"abbreviation" koanf:"abbreviation"`
	Location     string `json:"location" koanf:"location"`
	Province     string `json:"province" koanf:"province"`
}
