package eligibility

import (
	"fmt"

	"github.com/okian/varsity/internal/domain/model"
)

// APSValidation is the outcome of sanity-checking a raw APS value. The
// normalized score is always usable; warnings explain any adjustment.
type APSValidation struct {
	IsValid       bool     `json:"is_valid"`
	NormalizedAPS int      `json:"normalized_aps"`
	Warnings      []string `json:"warnings,omitempty"`
}

// ValidateAPS normalizes a raw APS value. Negative scores clamp to zero,
// scores above the theoretical maximum cap at the realistic maximum, and
// scores above the realistic maximum are flagged as possibly containing
// bonus points. Never fails.
func ValidateAPS(aps int) APSValidation {
	v := APSValidation{IsValid: true, NormalizedAPS: aps}

	switch {
	case aps < model.MinAPS:
		v.IsValid = false
		v.NormalizedAPS = model.MinAPS
		v.Warnings = append(v.Warnings, fmt.Sprintf("APS %d is negative, treating it as %d", aps, model.MinAPS))
	case aps > model.MaxAPS:
		v.IsValid = false
		v.NormalizedAPS = model.RealisticMaxAPS
		v.Warnings = append(v.Warnings, fmt.Sprintf("APS %d exceeds the maximum of %d, capping at %d", aps, model.MaxAPS, model.RealisticMaxAPS))
	case aps > model.RealisticMaxAPS:
		v.Warnings = append(v.Warnings, fmt.Sprintf("APS %d is above %d and may include bonus points", aps, model.RealisticMaxAPS))
	}

	return v
}
