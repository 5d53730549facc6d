// Package requirement validates a user's subject set against a program's
// required-subject list.
package requirement

import "fmt"

// LevelCheck is the outcome of comparing an achieved proficiency level
// against a required one. Gap is zero when the requirement is met.
type LevelCheck struct {
	IsValid bool   `json:"is_valid"`
	Reason  string `json:"reason"`
	Gap     int    `json:"gap"`
}

// ValidateLevel compares an achieved level against a required level for the
// named subject. Pure function.
func ValidateLevel(userLevel, requiredLevel int, subjectName string) LevelCheck {
	if userLevel >= requiredLevel {
		return LevelCheck{
			IsValid: true,
			Reason:  fmt.Sprintf("%s: Level %d meets requirement (Level %d)", subjectName, userLevel, requiredLevel),
		}
	}
	return LevelCheck{
		IsValid: false,
		Reason:  fmt.Sprintf("%s: Level %d is below requirement (Level %d)", subjectName, userLevel, requiredLevel),
		Gap:     requiredLevel - userLevel,
	}
}
