package reporting

import "time"

// ReportJob identifies a standing request for the platform to continuously
// generate reports of a given type. Jobs are created through the Client and
// never deleted by this tool.
type ReportJob struct {
	ID           string
	ReportTypeID string
	Name         string
}

// ReportType is a platform-defined category of bulk report.
type ReportType struct {
	ID   string
	Name string
}

// ReportFile describes one available, already-generated report artifact
// belonging to a job. EndTimeMs is the end of the covered reporting period
// in epoch milliseconds and is the sole field used for date filtering.
type ReportFile struct {
	ID          string
	JobID       string
	EndTimeMs   int64
	DownloadURL string
}

// EndTime returns the period-end timestamp derived from EndTimeMs.
func (f ReportFile) EndTime() time.Time {
	return time.UnixMilli(f.EndTimeMs).UTC()
}

// DownloadedReport holds the raw text content of one report file. It lives
// in memory for the duration of one invocation, then is written out or
// discarded.
type DownloadedReport struct {
	File    ReportFile
	Content string
}

// CreateResult is the outcome of a raw job-creation call. Conflict is true
// when the platform rejected creation because an equivalent job already
// exists; the fallback lookup is then a visible branch in Client.CreateJob
// rather than error-driven control flow.
type CreateResult struct {
	Job      ReportJob
	Conflict bool
}
