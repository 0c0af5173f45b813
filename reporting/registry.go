// Package reporting implements the YouTube Reporting job lifecycle: job
// lookup and creation, the report-file polling loop, content download, and
// report parsing.
package reporting

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/google/uuid"
	logger "github.com/multiversx/mx-chain-logger-go"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtubereporting/v1"
)

var log = logger.GetOrCreate("reporting")

// ErrJobConflict indicates job creation collided with an existing job that
// could not be located afterwards. This is a defensive inconsistency case,
// not expected in normal operation.
var ErrJobConflict = errors.New("reporting: job creation conflict")

// Backend is the raw reporting API surface. The production implementation
// wraps the YouTube Reporting service; tests substitute stubs.
type Backend interface {
	// ListJobs fetches all jobs visible to the authenticated account.
	ListJobs(ctx context.Context) ([]ReportJob, error)
	// CreateJob requests creation of a new job. A creation collision is
	// reported through CreateResult.Conflict, not an error.
	CreateJob(ctx context.Context, reportTypeID, name string) (CreateResult, error)
	// ListReportTypes fetches the report types the account may subscribe to.
	ListReportTypes(ctx context.Context) ([]ReportType, error)
	// ListReportFiles fetches the report files currently available for a job.
	ListReportFiles(ctx context.Context, jobID string) ([]ReportFile, error)
}

// Client is the report job registry client. It layers conflict recovery and
// job resolution policy over a Backend.
type Client struct {
	backend Backend
}

// NewClient creates a registry client over the given backend.
func NewClient(backend Backend) (*Client, error) {
	if backend == nil {
		return nil, errors.New("reporting: nil backend")
	}
	return &Client{backend: backend}, nil
}

// NewGoogleClient creates a registry client backed by the YouTube Reporting
// API, authorized by the given token source.
func NewGoogleClient(ctx context.Context, ts oauth2.TokenSource) (*Client, error) {
	service, err := youtubereporting.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create reporting service: %w", err)
	}
	return &Client{backend: &googleBackend{service: service}}, nil
}

// ListJobs fetches all reporting jobs for the account.
func (c *Client) ListJobs(ctx context.Context) ([]ReportJob, error) {
	return c.backend.ListJobs(ctx)
}

// ListReportTypes fetches the available report types.
func (c *Client) ListReportTypes(ctx context.Context) ([]ReportType, error) {
	return c.backend.ListReportTypes(ctx)
}

// ListReportFiles fetches the report files currently available for jobID.
func (c *Client) ListReportFiles(ctx context.Context, jobID string) ([]ReportFile, error) {
	return c.backend.ListReportFiles(ctx, jobID)
}

// CreateJob creates a reporting job for the given report type. When the
// platform reports a creation conflict, the existing job with a matching
// report type is looked up and returned instead; if no such job exists the
// conflict surfaces as ErrJobConflict.
func (c *Client) CreateJob(ctx context.Context, reportTypeID, name string) (ReportJob, error) {
	result, err := c.backend.CreateJob(ctx, reportTypeID, name)
	if err != nil {
		return ReportJob{}, err
	}
	if !result.Conflict {
		log.Info("created reporting job", "id", result.Job.ID, "reportType", reportTypeID)
		return result.Job, nil
	}

	log.Info("job creation conflict, looking up existing job", "reportType", reportTypeID)
	jobs, err := c.backend.ListJobs(ctx)
	if err != nil {
		return ReportJob{}, err
	}
	for _, job := range jobs {
		if job.ReportTypeID == reportTypeID {
			return job, nil
		}
	}
	return ReportJob{}, fmt.Errorf("%w: no existing job for report type %q", ErrJobConflict, reportTypeID)
}

// ResolveOptions controls how a job id is resolved for polling.
type ResolveOptions struct {
	// JobID, when set, is used verbatim without validation.
	JobID string
	// ForceNew always creates a new job, even when one already exists.
	ForceNew bool
	// ReportTypeID selects the job's report type for lookup or creation.
	ReportTypeID string
}

// ResolveJobID resolves the options to a single job id: an explicit id wins,
// force-new always creates, otherwise the first listed job with a matching
// report type is reused and a job is created only when none matches.
func (c *Client) ResolveJobID(ctx context.Context, opts ResolveOptions) (string, error) {
	if opts.JobID != "" {
		return opts.JobID, nil
	}

	if !opts.ForceNew {
		jobs, err := c.backend.ListJobs(ctx)
		if err != nil {
			return "", err
		}
		for _, job := range jobs {
			if job.ReportTypeID == opts.ReportTypeID {
				log.Info("reusing existing reporting job", "id", job.ID, "reportType", job.ReportTypeID)
				return job.ID, nil
			}
		}
	}

	job, err := c.CreateJob(ctx, opts.ReportTypeID, defaultJobName(opts.ReportTypeID))
	if err != nil {
		return "", err
	}
	return job.ID, nil
}

// defaultJobName produces a unique name for a newly created job.
func defaultJobName(reportTypeID string) string {
	return fmt.Sprintf("ytingest-%s-%s", reportTypeID, uuid.NewString())
}

// googleBackend implements Backend against the YouTube Reporting API.
type googleBackend struct {
	service *youtubereporting.Service
}

func (b *googleBackend) ListJobs(ctx context.Context) ([]ReportJob, error) {
	resp, err := b.service.Jobs.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	jobs := make([]ReportJob, 0, len(resp.Jobs))
	for _, j := range resp.Jobs {
		jobs = append(jobs, ReportJob{
			ID:           j.Id,
			ReportTypeID: j.ReportTypeId,
			Name:         j.Name,
		})
	}
	return jobs, nil
}

func (b *googleBackend) CreateJob(ctx context.Context, reportTypeID, name string) (CreateResult, error) {
	job, err := b.service.Jobs.Create(&youtubereporting.Job{
		ReportTypeId: reportTypeID,
		Name:         name,
	}).Context(ctx).Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == stdhttp.StatusConflict {
			return CreateResult{Conflict: true}, nil
		}
		return CreateResult{}, fmt.Errorf("create job: %w", err)
	}

	return CreateResult{Job: ReportJob{
		ID:           job.Id,
		ReportTypeID: job.ReportTypeId,
		Name:         job.Name,
	}}, nil
}

func (b *googleBackend) ListReportTypes(ctx context.Context) ([]ReportType, error) {
	resp, err := b.service.ReportTypes.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list report types: %w", err)
	}

	types := make([]ReportType, 0, len(resp.ReportTypes))
	for _, rt := range resp.ReportTypes {
		types = append(types, ReportType{ID: rt.Id, Name: rt.Name})
	}
	return types, nil
}

func (b *googleBackend) ListReportFiles(ctx context.Context, jobID string) ([]ReportFile, error) {
	resp, err := b.service.Jobs.Reports.List(jobID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list report files: %w", err)
	}

	files := make([]ReportFile, 0, len(resp.Reports))
	for _, r := range resp.Reports {
		files = append(files, ReportFile{
			ID:          r.Id,
			JobID:       r.JobId,
			EndTimeMs:   parseTimestampMs(r.EndTime),
			DownloadURL: r.DownloadUrl,
		})
	}
	return files, nil
}

// parseTimestampMs converts the API's RFC3339 period-end timestamp to epoch
// milliseconds. Unparseable values map to 0 and fall outside any window
// that bounds its start.
func parseTimestampMs(ts string) int64 {
	if ts == "" {
		return 0
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		log.Warn("unparseable report end time", "value", ts, "error", err)
		return 0
	}
	return t.UnixMilli()
}
