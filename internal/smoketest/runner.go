package smoketest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/varsity/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete smoke test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting varsity smoke test",
		logger.String("baseURL", config.BaseURL),
		logger.String("institution", config.Institution),
		logger.Int("profiles", config.NumProfiles),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate applicant profiles
	profiles, err := generateProfiles(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("profile generation failed: %w", err)
	}

	// Step 3: Query courses concurrently
	reports, err := queryCourses(ctx, config, profiles, stats)
	if err != nil {
		return fmt.Errorf("course queries failed: %w", err)
	}

	// Step 4: Verify report consistency
	if err := verifyResults(config, reports, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 5: Fetch catalog and health reports
	if _, err := getCatalogReport(ctx, config); err != nil {
		logger.Get().Warn(ctx, "failed to fetch catalog report", logger.Error(err))
	}
	if _, err := getHealthReport(ctx, config); err != nil {
		logger.Get().Warn(ctx, "failed to fetch health report", logger.Error(err))
	}

	// Step 6: Display aggregate statistics
	displayAggregate(reports, stats, config.Verbose)

	// Step 7: Save profiles to file
	if err := saveProfilesToFile(ctx, config, profiles); err != nil {
		logger.Get().Warn(ctx, "failed to save profiles to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "smoke test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveProfilesToFile saves the generated profiles to a JSON file.
func saveProfilesToFile(ctx context.Context, config *Config, profiles []Profile) error {
	if len(profiles) == 0 {
		return fmt.Errorf("no profiles to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_profiles_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write profiles to file
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	// Write JSON array
	if _, err := file.WriteString("[\n"); err != nil {
		return fmt.Errorf("failed to write opening bracket: %w", err)
	}

	for i, profile := range profiles {
		jsonData, err := marshalJSON(profile)
		if err != nil {
			return fmt.Errorf("failed to marshal profile %d: %w", i, err)
		}

		if _, err := file.Write(jsonData); err != nil {
			return fmt.Errorf("failed to write profile %d: %w", i, err)
		}

		// Add comma except for last profile
		if i < len(profiles)-1 {
			if _, err := file.WriteString(","); err != nil {
				return fmt.Errorf("failed to write comma: %w", err)
			}
		}
		_, _ = file.WriteString("\n")
	}

	if _, err := file.WriteString("]\n"); err != nil {
		return fmt.Errorf("failed to write closing bracket: %w", err)
	}

	logger.Get().Info(ctx, "profiles saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var successRate, queriesPerSecond float64

	if stats.QueriesSubmitted > 0 {
		successRate = float64(stats.QueriesSuccessful) / float64(stats.QueriesSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		queriesPerSecond = float64(stats.QueriesSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("profilesGenerated", stats.ProfilesGenerated),
		logger.Int("queriesSubmitted", stats.QueriesSubmitted),
		logger.Int("queriesSuccessful", stats.QueriesSuccessful),
		logger.Int("queriesFailed", stats.QueriesFailed),
		logger.Int("coursesReturned", stats.CoursesReturned),
		logger.Int("eligibleCourses", stats.EligibleCourses),
		logger.Int("almostEligible", stats.AlmostEligible),
		logger.Int("orderingViolations", stats.OrderingViolations),
		logger.Int("countMismatches", stats.CountMismatches),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("queriesPerSecond", queriesPerSecond))
}
