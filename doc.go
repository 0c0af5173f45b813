// Package ytingest provides a library for fetching YouTube performance data.
//
// It covers two Google APIs: the YouTube Analytics API for per-video daily
// metrics, and the YouTube Reporting API for bulk report files produced by
// asynchronous reporting jobs.
//
// Overview
//
// The library is organized around three entry points:
//
//   - analytics.Client: query daily metrics for single videos
//   - reporting.Client: list, create and resolve reporting jobs
//   - reporting.Poller: wait for report files and download their content
//
// Quick Start
//
// Fetch analytics for a video:
//
//	ctx := context.Background()
//	provider, err := auth.NewProvider("client_secret.json", ".")
//	if err != nil {
//		log.Fatal(err)
//	}
//	ts, err := provider.TokenSource(ctx, auth.TokenAnalytics)
//	if err != nil {
//		log.Fatal(err)
//	}
//	client, err := analytics.NewClient(ctx, ts)
//	if err != nil {
//		log.Fatal(err)
//	}
//	resp, err := client.FetchVideoStats(ctx, "dQw4w9WgXcQ")
//
// Poll a reporting job for report files:
//
//	reg, err := reporting.NewGoogleClient(ctx, ts)
//	if err != nil {
//		log.Fatal(err)
//	}
//	jobID, err := reg.ResolveJobID(ctx, reporting.ResolveOptions{
//		ReportTypeID: "channel_basic_a2",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	poller, err := reporting.NewPoller(reg, downloader, time.Minute, 20)
//	if err != nil {
//		log.Fatal(err)
//	}
//	reports, err := poller.Poll(ctx, jobID, reporting.Window{})
//
// Configuration
//
// ytingest loads settings from multiple sources:
//
//   1. Environment variables (highest priority)
//   2. Config file (ytingest.json or ~/.config/ytingest/ytingest.json)
//   3. Default values (lowest priority)
//
// Environment variables:
//
//   - YTINGEST_CLIENT_SECRET: Path to the OAuth client secrets file
//   - YTINGEST_TOKEN_DIR: Directory where credential tokens are persisted
//   - YTINGEST_POLL_INTERVAL: Wait between unsuccessful report poll attempts
//   - YTINGEST_MAX_POLL_TIME: Total polling budget per invocation
//   - YTINGEST_REPORT_TYPE_ID: Default report type for new reporting jobs
//   - YTINGEST_REQUEST_TIMEOUT: Timeout for individual HTTP requests
//   - YTINGEST_DOWNLOAD_RPS: Report download request rate cap
//   - YTINGEST_DOWNLOAD_RETRIES: Retry budget for report content downloads
//
// Error Handling
//
// All operations return errors that implement standard Go error handling:
//
// Checking for sentinel errors:
//
//	if errors.Is(err, ytingest.ErrJobConflict) {
//		fmt.Println("Job creation collided with an existing job")
//	}
//
// Extracting wrapped error details:
//
//	var httpErr *ytingest.HTTPError
//	if errors.As(err, &httpErr) {
//		fmt.Printf("Download of %s failed with status %d\n", httpErr.URL, httpErr.StatusCode)
//	}
//
// Advanced Usage
//
// For more control, use the sub-packages directly:
//
//   - analytics: Per-video metric queries and CSV rendering
//   - reporting: Job registry, report polling and content parsing
//   - auth: OAuth token acquisition and persistence
//   - config: Configuration management
//   - http: Rate-limited, optionally retried report downloads
//
// Dependencies
//
// ytingest requires an OAuth client secrets file obtained from the Google
// Cloud console, with the YouTube Analytics read-only scope enabled for the
// target channel's account.
package ytingest
