package smoketest

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/okian/varsity/pkg/logger"
)

// Constants for achievement band cases.
const (
	caseAverageApplicant  = 0
	caseStrongApplicant   = 1
	caseWeakApplicant     = 2
	caseEliteApplicant    = 3
	caseVeryWeakApplicant = 4
	caseMidStrong         = 5
	caseMidWeak           = 6
	caseWideRange         = 7

	achievementBandCount = 8
)

// APS band boundaries. A full NSC profile of seven subjects at levels
// one through seven yields totals between 7 and 49.
const (
	averageAPSMin  = 22
	averageAPSMax  = 32
	strongAPSMin   = 33
	strongAPSMax   = 42
	weakAPSMin     = 12
	weakAPSMax     = 20
	eliteAPSMin    = 43
	eliteAPSMax    = 49
	veryWeakAPSMin = 7
	veryWeakAPSMax = 14
	midStrongMin   = 30
	midStrongMax   = 38
	midWeakMin     = 18
	midWeakMax     = 26
	wideAPSMin     = 7
	wideAPSMax     = 49
)

// Subject count per profile.
const (
	minSubjects = 4
	maxSubjects = 7
)

// Level derivation constants.
const (
	subjectsPerFullProfile = 7
	levelJitterSpan        = 3 // jitter drawn from [-1, +1]
)

// subjectVariants lists, per curriculum subject, the spellings a real
// applicant might submit. Canonical names sit alongside abbreviations,
// synonyms and the occasional typo so the query path exercises name
// reconciliation rather than exact lookup.
var subjectVariants = [][]string{
	{"Mathematics", "maths", "Math", "Mathemetics"},
	{"English Home Language", "english", "English HL"},
	{"Physical Sciences", "physics", "Physical Science"},
	{"Life Sciences", "biology", "life science"},
	{"Accounting", "accounting"},
	{"Geography", "geography"},
	{"History", "history"},
	{"Life Orientation", "LO"},
}

// getRandomInt returns a random int in [0, n) using crypto/rand.
func getRandomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generateProfiles creates the specified number of applicant profiles.
func generateProfiles(ctx context.Context, config *Config, stats *Stats) ([]Profile, error) {
	logger.Get().Info(ctx, "generating applicant profiles", logger.Int("numProfiles", config.NumProfiles))

	profiles := make([]Profile, config.NumProfiles)

	// Pre-allocate profile IDs to ensure uniqueness
	profileIDs := make([]string, config.NumProfiles)
	for i := 0; i < config.NumProfiles; i++ {
		profileIDs[i] = uuid.New().String()
	}

	// Generate profiles concurrently
	type profileResult struct {
		index   int
		profile Profile
		err     error
	}

	resultChan := make(chan profileResult, config.NumProfiles)

	// Use worker pool for profile generation
	workerCount := minInt(config.Workers, config.NumProfiles)
	profilesPerWorker := config.NumProfiles / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * profilesPerWorker
		end := start + profilesPerWorker
		if worker == workerCount-1 {
			end = config.NumProfiles // Last worker gets remaining profiles
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- profileResult{index: i, err: ctx.Err()}
					return
				default:
					profile := generateSingleProfile(profileIDs[i])
					resultChan <- profileResult{index: i, profile: profile, err: nil}
				}
			}
		}(start, end)
	}

	// Collect results
	for i := 0; i < config.NumProfiles; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during profile generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate profile %d: %w", result.index, result.err)
			}
			profiles[result.index] = result.profile
		}
	}

	stats.ProfilesGenerated = len(profiles)
	logger.Get().Info(ctx, "generated profiles successfully", logger.Int("count", len(profiles)))

	return profiles, nil
}

// generateSingleProfile creates a single applicant profile.
func generateSingleProfile(profileID string) Profile {
	aps := generateVariedAPS()
	subjects := generateSubjects(aps)

	return Profile{
		ProfileID: profileID,
		APS:       aps,
		Subjects:  subjects,
	}
}

// generateVariedAPS draws an APS total from one of several achievement
// bands so the test covers the full eligibility spectrum.
func generateVariedAPS() int {
	switch getRandomInt(achievementBandCount) {
	case caseAverageApplicant:
		return randInRange(averageAPSMin, averageAPSMax)
	case caseStrongApplicant:
		return randInRange(strongAPSMin, strongAPSMax)
	case caseWeakApplicant:
		return randInRange(weakAPSMin, weakAPSMax)
	case caseEliteApplicant:
		return randInRange(eliteAPSMin, eliteAPSMax)
	case caseVeryWeakApplicant:
		return randInRange(veryWeakAPSMin, veryWeakAPSMax)
	case caseMidStrong:
		return randInRange(midStrongMin, midStrongMax)
	case caseMidWeak:
		return randInRange(midWeakMin, midWeakMax)
	case caseWideRange:
		return randInRange(wideAPSMin, wideAPSMax)
	default:
		return randInRange(wideAPSMin, wideAPSMax)
	}
}

// generateSubjects builds a subject list whose levels roughly track the
// profile's APS total, with one level of jitter per subject.
func generateSubjects(aps int) []SubjectSpec {
	count := minSubjects + getRandomInt(maxSubjects-minSubjects+1)
	base := aps / subjectsPerFullProfile
	if base < 1 {
		base = 1
	}

	subjects := make([]SubjectSpec, 0, count)
	for _, variants := range subjectVariants[:count] {
		name := variants[getRandomInt(len(variants))]
		level := base + getRandomInt(levelJitterSpan) - 1
		if level < 1 {
			level = 1
		}
		if level > 7 {
			level = 7
		}
		subjects = append(subjects, SubjectSpec{Name: name, Level: level})
	}
	return subjects
}

// randInRange returns a random int in [min, max].
func randInRange(min, max int) int {
	return min + getRandomInt(max-min+1)
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
