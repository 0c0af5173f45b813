package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// FileLister lists the report files currently available for a job.
// *Client satisfies this interface.
type FileLister interface {
	ListReportFiles(ctx context.Context, jobID string) ([]ReportFile, error)
}

// Downloader fetches the raw content of one report file.
type Downloader interface {
	Download(ctx context.Context, url string) (string, error)
}

// Window is an inclusive period-end filter. A zero Start or End leaves that
// bound open.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t passes the window test.
func (w Window) Contains(t time.Time) bool {
	if !w.Start.IsZero() && t.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && t.After(w.End) {
		return false
	}
	return true
}

// Poller repeatedly checks a reporting job for newly available report files
// and downloads those whose period end falls inside a date window. Polling
// is bounded by a maximum attempt count and stops at the first attempt that
// yields at least one matching file: returning something promptly is
// preferred over waiting for possibly more files in the same window.
type Poller struct {
	files       FileLister
	downloader  Downloader
	interval    time.Duration
	maxAttempts int

	// wait suspends between unsuccessful attempts; injected in tests.
	wait func(ctx context.Context, d time.Duration) error
}

// NewPoller creates a poller. interval is the suspension between
// unsuccessful attempts; maxAttempts of zero means Poll returns immediately
// with no listing calls.
func NewPoller(files FileLister, downloader Downloader, interval time.Duration, maxAttempts int) (*Poller, error) {
	if files == nil {
		return nil, errors.New("reporting: nil file lister")
	}
	if downloader == nil {
		return nil, errors.New("reporting: nil downloader")
	}
	if interval <= 0 {
		return nil, errors.New("reporting: poll interval must be positive")
	}
	if maxAttempts < 0 {
		return nil, errors.New("reporting: max attempts must be non-negative")
	}

	return &Poller{
		files:       files,
		downloader:  downloader,
		interval:    interval,
		maxAttempts: maxAttempts,
		wait:        sleepContext,
	}, nil
}

// Poll runs one polling session for jobID. Each attempt takes a fresh
// listing snapshot, downloads every file whose period end passes the window
// test, and stops as soon as any attempt collected at least one report.
// Exhausting all attempts with nothing matched returns an empty result and
// no error. A failed download aborts the whole session.
func (p *Poller) Poll(ctx context.Context, jobID string, window Window) ([]DownloadedReport, error) {
	var collected []DownloadedReport

	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		files, err := p.files.ListReportFiles(ctx, jobID)
		if err != nil {
			return nil, fmt.Errorf("list report files for job %s: %w", jobID, err)
		}

		for _, file := range files {
			if !window.Contains(file.EndTime()) {
				continue
			}
			content, err := p.downloader.Download(ctx, file.DownloadURL)
			if err != nil {
				return nil, fmt.Errorf("download report %s: %w", file.ID, err)
			}
			collected = append(collected, DownloadedReport{File: file, Content: content})
		}

		if len(collected) > 0 {
			log.Info("downloaded reports", "job", jobID, "count", len(collected), "attempt", attempt+1)
			return collected, nil
		}

		if attempt == p.maxAttempts-1 {
			break
		}

		log.Debug("no report files yet, waiting for next poll", "job", jobID,
			"attempt", attempt+1, "interval", p.interval)
		if err := p.wait(ctx, p.interval); err != nil {
			return nil, err
		}
	}

	log.Info("polling exhausted with no matching reports", "job", jobID, "attempts", p.maxAttempts)
	return collected, nil
}

// sleepContext waits for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
