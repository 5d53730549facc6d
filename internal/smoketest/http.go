package smoketest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// unmarshalJSON unmarshals JSON to a struct
func unmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// marshalJSON marshals a struct to JSON
func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// coursesURL builds the courses query URL for a profile.
func coursesURL(config *Config, profile Profile) string {
	params := url.Values{}
	params.Set("aps", strconv.Itoa(profile.APS))
	params.Set("include_almost", strconv.FormatBool(config.IncludeAlmost))
	for _, s := range profile.Subjects {
		params.Add("subject", s.Name+":"+strconv.Itoa(s.Level))
	}
	return config.BaseURL + "/universities/" + url.PathEscape(config.Institution) + "/courses?" + params.Encode()
}

// queryCourses queries the courses endpoint for every profile using a
// worker pool, collecting the reports for later verification.
func queryCourses(ctx context.Context, config *Config, profiles []Profile, stats *Stats) ([]CourseReport, error) {
	log.Printf("Querying courses for %d profiles with %d workers...", len(profiles), config.Workers)

	client := newHTTPClient(config.Timeout)

	// Results storage, indexed by profile
	reports := make([]CourseReport, len(profiles))
	retrieved := make([]bool, len(profiles))

	// Counters for statistics
	var (
		successful int64
		failed     int64
		submitted  int64
	)

	// Progress reporting. lastReport holds UnixNano and is shared by every
	// worker, so cadence checks go through the atomic.
	var lastReport atomic.Int64
	reportInterval := 1 * time.Second

	// Create worker pool
	profileChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range profileChan {
				select {
				case <-ctx.Done():
					return
				default:
					report, err := querySingleProfile(ctx, client, config, profiles[index])

					atomic.AddInt64(&submitted, 1)
					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("query failed for profile %s: %v", profiles[index].ProfileID, err)
						}
					} else {
						reports[index] = report
						retrieved[index] = true
						atomic.AddInt64(&successful, 1)
					}

					// Progress reporting
					now := time.Now().UnixNano()
					if prev := lastReport.Load(); now-prev >= int64(reportInterval) && lastReport.CompareAndSwap(prev, now) {
						total := atomic.LoadInt64(&submitted)
						succ := atomic.LoadInt64(&successful)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("progress: %d/%d queried (success: %d, failed: %d)",
								total, len(profiles), succ, fail)
						} else {
							fmt.Printf("\rQueried: %d/%d (success: %d, failed: %d)",
								total, len(profiles), succ, fail)
						}
					}
				}
			}
		}()
	}

	// Send profile indices to workers
	go func() {
		defer close(profileChan)
		for i := range profiles {
			select {
			case <-ctx.Done():
				return
			case profileChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Final progress report
	if !config.Verbose {
		fmt.Println() // New line after progress indicator
	}

	// Filter out failed retrievals
	validReports := make([]CourseReport, 0, len(reports))
	for i, report := range reports {
		if retrieved[i] {
			validReports = append(validReports, report)
		}
	}

	// Update stats
	stats.QueriesSubmitted = int(atomic.LoadInt64(&submitted))
	stats.QueriesSuccessful = int(atomic.LoadInt64(&successful))
	stats.QueriesFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`Course queries completed:
   Successful: %d
   Failed: %d
`, stats.QueriesSuccessful, stats.QueriesFailed)

	return validReports, nil
}

// querySingleProfile queries the courses endpoint for a single profile.
func querySingleProfile(ctx context.Context, client *HTTPClient, config *Config, profile Profile) (CourseReport, error) {
	resp, err := client.Get(ctx, coursesURL(config, profile))
	if err != nil {
		return CourseReport{}, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return CourseReport{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return CourseReport{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var report CourseReport
	if err := unmarshalJSON(body, &report); err != nil {
		return CourseReport{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return report, nil
}
