package smoketest

import (
	"fmt"
	"log"
)

// Category rank order used to check report sorting.
const (
	categoryEligible = "eligible"
	categoryAlmost   = "almost-eligible"
)

// verifyResults checks every course report for internal consistency:
// summary counts must match the course list, and courses must be
// ordered eligible first, then almost-eligible, by ascending APS
// requirement within each tier.
func verifyResults(config *Config, reports []CourseReport, stats *Stats) error {
	log.Println("Verifying course reports...")

	if len(reports) == 0 {
		return fmt.Errorf("no reports to verify")
	}

	for _, report := range reports {
		stats.CoursesReturned += len(report.Courses)
		stats.EligibleCourses += report.EligibleCourses
		stats.AlmostEligible += report.AlmostEligible

		if err := verifyCounts(report); err != nil {
			stats.CountMismatches++
			if config.Verbose {
				log.Printf("count mismatch in report for %s: %v", report.InstitutionID, err)
			}
		}

		if err := verifyOrdering(report); err != nil {
			stats.OrderingViolations++
			if config.Verbose {
				log.Printf("ordering violation in report for %s: %v", report.InstitutionID, err)
			}
		}
	}

	if stats.CountMismatches > 0 || stats.OrderingViolations > 0 {
		return fmt.Errorf("verification failed: %d count mismatches, %d ordering violations",
			stats.CountMismatches, stats.OrderingViolations)
	}

	log.Printf("Verified %d reports: counts and ordering consistent", len(reports))
	return nil
}

// verifyCounts checks the summary counters against the course list.
func verifyCounts(report CourseReport) error {
	if report.TotalCourses != len(report.Courses) {
		return fmt.Errorf("total_courses %d does not match %d listed courses",
			report.TotalCourses, len(report.Courses))
	}

	eligible := 0
	almost := 0
	for _, course := range report.Courses {
		switch course.Result.Category {
		case categoryEligible:
			eligible++
		case categoryAlmost:
			almost++
		}
	}

	if report.EligibleCourses != eligible {
		return fmt.Errorf("eligible count %d does not match %d eligible courses",
			report.EligibleCourses, eligible)
	}
	if report.AlmostEligible != almost {
		return fmt.Errorf("almost-eligible count %d does not match %d almost-eligible courses",
			report.AlmostEligible, almost)
	}

	return nil
}

// verifyOrdering checks tier-then-APS ordering of a course list.
func verifyOrdering(report CourseReport) error {
	for i := 1; i < len(report.Courses); i++ {
		prev := report.Courses[i-1]
		cur := report.Courses[i]

		prevRank := categoryRank(prev.Result.Category)
		curRank := categoryRank(cur.Result.Category)

		if curRank < prevRank {
			return fmt.Errorf("course %s (%s) listed after %s (%s)",
				cur.ProgramID, cur.Result.Category, prev.ProgramID, prev.Result.Category)
		}
		if curRank == prevRank && cur.RequiredAPS < prev.RequiredAPS {
			return fmt.Errorf("course %s (APS %d) listed after %s (APS %d) in the same tier",
				cur.ProgramID, cur.RequiredAPS, prev.ProgramID, prev.RequiredAPS)
		}
	}
	return nil
}

// categoryRank maps a category to its sort tier.
func categoryRank(category string) int {
	switch category {
	case categoryEligible:
		return 0
	case categoryAlmost:
		return 1
	default:
		return 2
	}
}

// displayAggregate shows aggregate eligibility statistics.
func displayAggregate(reports []CourseReport, stats *Stats, verbose bool) {
	if stats.QueriesSuccessful == 0 {
		return
	}

	avgCourses := float64(stats.CoursesReturned) / float64(stats.QueriesSuccessful)
	avgEligible := float64(stats.EligibleCourses) / float64(stats.QueriesSuccessful)

	log.Printf(`Aggregate results:
   Courses per profile: %.2f
   Eligible per profile: %.2f
   Almost-eligible total: %d
`, avgCourses, avgEligible, stats.AlmostEligible)

	if verbose {
		warnings := 0
		errors := 0
		for _, report := range reports {
			warnings += len(report.Warnings)
			errors += len(report.Errors)
		}
		log.Printf("Report diagnostics: %d warnings, %d errors across %d reports",
			warnings, errors, len(reports))
	}
}
