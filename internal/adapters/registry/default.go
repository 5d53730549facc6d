package registry

import (
	"github.com/okian/varsity/internal/domain/assignment"
	"github.com/okian/varsity/internal/domain/model"
)

// Default returns a small built-in catalog used when no catalog file is
// configured. Enough to exercise every rule variant in development.
func Default() *MemStore {
	institutions := []model.Institution{
		{ID: "uct", Name: "University of Cape Town", Abbreviation: "UCT", Location: "Cape Town", Province: "Western Cape"},
		{ID: "wits", Name: "University of the Witwatersrand", Abbreviation: "Wits", Location: "Johannesburg", Province: "Gauteng"},
		{ID: "up", Name: "University of Pretoria", Abbreviation: "UP", Location: "Pretoria", Province: "Gauteng"},
		{ID: "ukzn", Name: "University of KwaZulu-Natal", Abbreviation: "UKZN", Location: "Durban", Province: "KwaZulu-Natal"},
		{ID: "su", Name: "Stellenbosch University", Abbreviation: "SU", Location: "Stellenbosch", Province: "Western Cape"},
	}

	programs := []model.Program{
		{
			ID:         "bsc-eng-civil",
			Name:       "BSc Engineering (Civil)",
			Faculty:    "Engineering",
			DefaultAPS: 36,
			RequiredSubjects: []model.RequiredSubject{
				{Name: "Mathematics", Level: 6, IsRequired: true},
				{Name: "Physical Sciences", Level: 5, IsRequired: true},
				{Name: "English Home Language", Level: 4, IsRequired: true},
			},
			Rule: assignment.AllInstitutions().WithOverrides(map[string]int{"uct": 40, "wits": 38}),
		},
		{
			ID:         "mbchb",
			Name:       "Bachelor of Medicine and Surgery",
			Faculty:    "Health Sciences",
			DefaultAPS: 42,
			RequiredSubjects: []model.RequiredSubject{
				{Name: "Mathematics", Level: 6, IsRequired: true},
				{Name: "Physical Sciences", Level: 6, IsRequired: true},
				{Name: "Life Sciences", Level: 6, IsRequired: true},
				{Name: "English Home Language", Level: 5, IsRequired: true},
			},
			Rule: assignment.Include("uct", "wits", "ukzn"),
		},
		{
			ID:         "bcom-accounting",
			Name:       "BCom Accounting",
			Faculty:    "Commerce",
			DefaultAPS: 34,
			RequiredSubjects: []model.RequiredSubject{
				{Name: "Mathematics", Level: 5, IsRequired: true},
				{Name: "Accounting", Level: 4, IsRequired: false},
				{Name: "English Home Language", Level: 4, IsRequired: true},
			},
			Rule: assignment.AllInstitutions(),
		},
		{
			ID:         "ba-humanities",
			Name:       "BA Humanities",
			Faculty:    "Humanities",
			DefaultAPS: 27,
			RequiredSubjects: []model.RequiredSubject{
				{Name: "English Home Language", Level: 4, IsRequired: true},
			},
			Rule: assignment.Exclude("su"),
		},
		{
			ID:         "bsc-it",
			Name:       "BSc Information Technology",
			Faculty:    "Science",
			DefaultAPS: 30,
			RequiredSubjects: []model.RequiredSubject{
				{Name: "Mathematics", Level: 5, IsRequired: true},
				{Name: "Information Technology", Level: 4, IsRequired: false},
				{Name: "English Home Language", Level: 4, IsRequired: true},
			},
			Rule: assignment.AllInstitutions(),
		},
		{
			ID:         "bed-foundation",
			Name:       "BEd Foundation Phase Teaching",
			Faculty:    "Education",
			DefaultAPS: 24,
			RequiredSubjects: []model.RequiredSubject{
				{Name: "English Home Language", Level: 4, IsRequired: true},
				{Name: "Mathematical Literacy", Level: 4, IsRequired: true},
			},
			Rule: assignment.Exclude("uct"),
		},
	}

	return NewMemStore(programs, institutions)
}
