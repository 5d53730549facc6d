// Command gen-catalog writes a randomized sample catalog YAML that the
// service can load via VARSITY_CONFIG's catalog_file setting.
package main

import (
	"context"
	"crypto/rand"
	"flag"
	"math/big"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/knadh/koanf/parsers/yaml"

	"github.com/okian/varsity/internal/adapters/registry"
	"github.com/okian/varsity/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumPrograms     = 20
	defaultNumInstitutions = 4
	outputPermission       = 0600
)

// APS requirement bands per program tier.
const (
	openAPSMin        = 20
	openAPSMax        = 26
	standardAPSMin    = 27
	standardAPSMax    = 34
	selectiveAPSMin   = 35
	selectiveAPSMax   = 42
	overrideSpreadMax = 4 // per-institution override within +-spread of default

	programTierCount = 3
)

// Rule shape distribution cases.
const (
	caseRuleAll          = 0
	caseRuleAllOverrides = 1
	caseRuleInclude      = 2
	caseRuleExclude      = 3

	ruleShapeCount = 4
)

// Subject requirement bounds.
const (
	minRequiredSubjects = 1
	maxRequiredSubjects = 3
	minRequiredLevel    = 3
	maxRequiredLevel    = 6
)

// Name pools for generated entities.
var (
	cities    = []string{"Cape Town", "Johannesburg", "Durban", "Pretoria", "Bloemfontein", "Gqeberha", "Stellenbosch", "Polokwane"}
	provinces = []string{"Western Cape", "Gauteng", "KwaZulu-Natal", "Free State", "Eastern Cape", "Limpopo"}

	faculties = []string{"Science", "Engineering", "Commerce", "Humanities", "Health Sciences", "Education", "Law"}

	degreesByFaculty = map[string][]string{
		"Science":         {"BSc Computer Science", "BSc Mathematics", "BSc Physics"},
		"Engineering":     {"BEng Civil Engineering", "BEng Electrical Engineering", "BEng Mechanical Engineering"},
		"Commerce":        {"BCom Accounting", "BCom Economics", "BCom Finance"},
		"Humanities":      {"BA Psychology", "BA Political Science", "BA Languages"},
		"Health Sciences": {"MBChB Medicine", "BSc Physiotherapy", "BPharm Pharmacy"},
		"Education":       {"BEd Foundation Phase", "BEd Intermediate Phase"},
		"Law":             {"LLB Law"},
	}

	requiredSubjectPool = []string{"Mathematics", "English Home Language", "Physical Sciences", "Life Sciences", "Accounting"}
)

// getRandomInt returns a random int in [0, n) using crypto/rand.
func getRandomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// randInRange returns a random int in [min, max].
func randInRange(min, max int) int {
	return min + getRandomInt(max-min+1)
}

func main() {
	var (
		output          = flag.String("output", "catalog.yaml", "Output file for the generated catalog")
		numPrograms     = flag.Int("programs", defaultNumPrograms, "Number of programs to generate")
		numInstitutions = flag.Int("institutions", defaultNumInstitutions, "Number of institutions to generate")
	)
	flag.Parse()

	// The loader rejects empty catalogs and rule generation needs at least
	// one institution to sample from.
	if *numPrograms < 1 {
		*numPrograms = 1
	}
	if *numInstitutions < 1 {
		*numInstitutions = 1
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		return
	}

	ctx := context.Background()

	institutions := generateInstitutions(*numInstitutions)
	institutionIDs := make([]string, len(institutions))
	for i, inst := range institutions {
		institutionIDs[i] = inst["id"].(string)
	}
	programs := generatePrograms(*numPrograms, institutionIDs)

	document := map[string]interface{}{
		"institutions": institutions,
		"programs":     programs,
	}

	data, err := yaml.Parser().Marshal(document)
	if err != nil {
		logger.Get().Error(ctx, "failed to marshal catalog", logger.Error(err))
		return
	}
	if err := os.WriteFile(*output, data, outputPermission); err != nil {
		logger.Get().Error(ctx, "failed to write catalog file", logger.Error(err))
		return
	}

	// Round-trip the file through the catalog loader so a broken document
	// never leaves this tool silently.
	store, err := registry.Load(ctx, *output)
	if err != nil {
		logger.Get().Error(ctx, "generated catalog failed to load", logger.Error(err))
		return
	}

	logger.Get().Info(ctx, "catalog generated",
		logger.String("output", *output),
		logger.Int("programs", store.CountPrograms(ctx)),
		logger.Int("institutions", store.CountInstitutions(ctx)),
	)
}

// generateInstitutions builds institution documents with uuid identifiers.
func generateInstitutions(count int) []map[string]interface{} {
	institutions := make([]map[string]interface{}, 0, count)
	for i := 0; i < count; i++ {
		city := cities[getRandomInt(len(cities))]
		name := "University of " + city
		institutions = append(institutions, map[string]interface{}{
			"id":           uuid.New().String(),
			"name":         name,
			"abbreviation": abbreviate(name),
			"location":     city,
			"province":     provinces[getRandomInt(len(provinces))],
		})
	}
	return institutions
}

// generatePrograms builds program documents spread over APS tiers and rule
// shapes so every assignment-rule kind appears in the output.
func generatePrograms(count int, institutionIDs []string) []map[string]interface{} {
	programs := make([]map[string]interface{}, 0, count)
	for i := 0; i < count; i++ {
		faculty := faculties[getRandomInt(len(faculties))]
		degrees := degreesByFaculty[faculty]
		name := degrees[getRandomInt(len(degrees))]
		defaultAPS := generateTieredAPS()

		p := map[string]interface{}{
			"id":                uuid.New().String(),
			"name":              name,
			"faculty":           faculty,
			"default_aps":       defaultAPS,
			"required_subjects": generateRequiredSubjects(),
			"rule":              generateRule(institutionIDs, defaultAPS),
		}
		programs = append(programs, p)
	}
	return programs
}

// generateTieredAPS draws a default APS requirement from one of three
// program tiers.
func generateTieredAPS() int {
	switch getRandomInt(programTierCount) {
	case 0:
		return randInRange(openAPSMin, openAPSMax)
	case 1:
		return randInRange(standardAPSMin, standardAPSMax)
	default:
		return randInRange(selectiveAPSMin, selectiveAPSMax)
	}
}

// generateRequiredSubjects picks a small set of gating subjects.
func generateRequiredSubjects() []map[string]interface{} {
	count := randInRange(minRequiredSubjects, maxRequiredSubjects)
	subjects := make([]map[string]interface{}, 0, count)
	for _, name := range requiredSubjectPool[:count] {
		subjects = append(subjects, map[string]interface{}{
			"name":        name,
			"level":       randInRange(minRequiredLevel, maxRequiredLevel),
			"is_required": true,
		})
	}
	return subjects
}

// generateRule draws one of the assignment-rule shapes, with occasional
// per-institution APS overrides around the program default.
func generateRule(institutionIDs []string, defaultAPS int) map[string]interface{} {
	switch getRandomInt(ruleShapeCount) {
	case caseRuleAll:
		return map[string]interface{}{"kind": "all"}
	case caseRuleAllOverrides:
		overrides := map[string]int{}
		for _, id := range pickSome(institutionIDs) {
			overrides[id] = defaultAPS + getRandomInt(overrideSpreadMax*2+1) - overrideSpreadMax
		}
		return map[string]interface{}{"kind": "all", "aps_overrides": overrides}
	case caseRuleInclude:
		return map[string]interface{}{"kind": "include", "institutions": pickSome(institutionIDs)}
	default:
		return map[string]interface{}{"kind": "exclude", "institutions": pickSome(institutionIDs)[:1]}
	}
}

// pickSome returns a non-empty random prefix-sized sample of ids.
func pickSome(ids []string) []string {
	count := 1 + getRandomInt(len(ids))
	picked := make([]string, 0, count)
	seen := make(map[int]bool, count)
	for len(picked) < count {
		i := getRandomInt(len(ids))
		if seen[i] {
			continue
		}
		seen[i] = true
		picked = append(picked, ids[i])
	}
	return picked
}

// abbreviate builds an abbreviation from a name's initials.
func abbreviate(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		if word == "of" {
			continue
		}
		b.WriteByte(word[0])
	}
	return b.String()
}
