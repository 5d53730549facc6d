package smoketest

import "time"

// Config holds configuration for the course query test
type Config struct {
	BaseURL       string        // Base URL of the service
	Institution   string        // Institution ID to query against
	NumProfiles   int           // Number of applicant profiles to generate
	Workers       int           // Number of concurrent workers
	Timeout       time.Duration // HTTP request timeout
	OutputFile    string        // Output file for profiles
	LogFile       string        // Log file for test output
	IncludeAlmost bool          // Include almost-eligible courses in queries
	Verbose       bool          // Enable verbose logging
}

// SubjectSpec is a single subject result on a generated profile.
type SubjectSpec struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// Profile represents a generated applicant profile.
type Profile struct {
	ProfileID string        `json:"profile_id"`
	APS       int           `json:"aps"`
	Subjects  []SubjectSpec `json:"subjects"`
}

// AssessmentResult is the per-course verdict returned by the service.
type AssessmentResult struct {
	IsEligible bool   `json:"is_eligible"`
	Category   string `json:"category"`
	Confidence int    `json:"confidence"`
}

// CourseEntry represents one course in a course report.
type CourseEntry struct {
	ProgramID   string           `json:"program_id"`
	ProgramName string           `json:"program_name"`
	RequiredAPS int              `json:"required_aps"`
	Result      AssessmentResult `json:"result"`
}

// CourseReport is the response from the courses endpoint.
type CourseReport struct {
	InstitutionID   string        `json:"institution_id"`
	InstitutionName string        `json:"institution_name"`
	Courses         []CourseEntry `json:"courses"`
	TotalCourses    int           `json:"total_courses"`
	EligibleCourses int           `json:"eligible_courses"`
	AlmostEligible  int           `json:"almost_eligible_courses"`
	Errors          []string      `json:"errors,omitempty"`
	Warnings        []string      `json:"warnings,omitempty"`
}

// CatalogReport is the response from the catalog report endpoint.
type CatalogReport struct {
	TotalPrograms  int     `json:"total_programs"`
	ValidPrograms  int     `json:"valid_programs"`
	TotalErrors    int     `json:"total_errors"`
	TotalWarnings  int     `json:"total_warnings"`
	AverageQuality float64 `json:"average_quality"`
}

// HealthReport is the response from the health report endpoint.
type HealthReport struct {
	Score  int    `json:"score"`
	Status string `json:"status"`
}

// Stats holds test statistics
type Stats struct {
	ProfilesGenerated  int
	QueriesSubmitted   int
	QueriesSuccessful  int
	QueriesFailed      int
	CoursesReturned    int
	EligibleCourses    int
	AlmostEligible     int
	OrderingViolations int
	CountMismatches    int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
