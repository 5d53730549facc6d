package smoketest

import (
	"context"
	"fmt"
	"log"
)

// getCatalogReport retrieves the catalog validation report.
func getCatalogReport(ctx context.Context, config *Config) (*CatalogReport, error) {
	log.Println("Fetching catalog validation report...")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/catalog/report"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var report CatalogReport
	if err := unmarshalJSON(body, &report); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	log.Printf("Catalog report: %d programs, %d valid, average quality %.1f",
		report.TotalPrograms, report.ValidPrograms, report.AverageQuality)

	return &report, nil
}

// getHealthReport retrieves the service health report.
func getHealthReport(ctx context.Context, config *Config) (*HealthReport, error) {
	log.Println("Fetching service health report...")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/health/report"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var report HealthReport
	if err := unmarshalJSON(body, &report); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	log.Printf("Health report: score %d, status %s", report.Score, report.Status)

	return &report, nil
}
