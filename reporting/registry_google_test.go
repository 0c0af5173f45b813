package reporting

import (
	"context"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/youtubereporting/v1"
)

// newGoogleBackend builds a googleBackend talking to a local stub server.
func newGoogleBackend(t *testing.T, handler stdhttp.HandlerFunc) *googleBackend {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	service, err := youtubereporting.NewService(context.Background(),
		option.WithoutAuthentication(), option.WithEndpoint(srv.URL))
	require.NoError(t, err)

	return &googleBackend{service: service}
}

func TestGoogleBackend_ListReportFiles(t *testing.T) {
	t.Parallel()

	backend := newGoogleBackend(t, func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		assert.Contains(t, r.URL.Path, "/jobs/job-1/reports")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"reports": [
			{"id": "r1", "jobId": "job-1", "endTime": "2024-01-02T00:00:00Z", "downloadUrl": "https://example.com/r1"},
			{"id": "r2", "jobId": "job-1", "endTime": "", "downloadUrl": "https://example.com/r2"}
		]}`))
	})

	files, err := backend.ListReportFiles(context.Background(), "job-1")
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "r1", files[0].ID)
	assert.Equal(t, "job-1", files[0].JobID)
	assert.Equal(t, int64(1704153600000), files[0].EndTimeMs)
	assert.Equal(t, "https://example.com/r1", files[0].DownloadURL)

	// Missing end time maps to the epoch.
	assert.Zero(t, files[1].EndTimeMs)
}

func TestGoogleBackend_CreateJob(t *testing.T) {
	t.Parallel()

	t.Run("created", func(t *testing.T) {
		t.Parallel()

		backend := newGoogleBackend(t, func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			assert.Equal(t, stdhttp.MethodPost, r.Method)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id": "job-9", "reportTypeId": "channel_basic_a2", "name": "nightly"}`))
		})

		result, err := backend.CreateJob(context.Background(), "channel_basic_a2", "nightly")
		require.NoError(t, err)
		assert.False(t, result.Conflict)
		assert.Equal(t, ReportJob{ID: "job-9", ReportTypeID: "channel_basic_a2", Name: "nightly"}, result.Job)
	})

	t.Run("conflict is a result, not an error", func(t *testing.T) {
		t.Parallel()

		backend := newGoogleBackend(t, func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(stdhttp.StatusConflict)
			_, _ = w.Write([]byte(`{"error": {"code": 409, "message": "job already exists"}}`))
		})

		result, err := backend.CreateJob(context.Background(), "channel_basic_a2", "nightly")
		require.NoError(t, err)
		assert.True(t, result.Conflict)
	})

	t.Run("other statuses surface as errors", func(t *testing.T) {
		t.Parallel()

		backend := newGoogleBackend(t, func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			w.WriteHeader(stdhttp.StatusForbidden)
			_, _ = w.Write([]byte(`{"error": {"code": 403, "message": "forbidden"}}`))
		})

		_, err := backend.CreateJob(context.Background(), "channel_basic_a2", "nightly")
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "create job"))
	})
}

func TestGoogleBackend_ListJobsAndTypes(t *testing.T) {
	t.Parallel()

	backend := newGoogleBackend(t, func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(r.URL.Path, "reportTypes") {
			_, _ = w.Write([]byte(`{"reportTypes": [{"id": "channel_basic_a2", "name": "User activity"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"jobs": [{"id": "job-1", "reportTypeId": "channel_basic_a2", "name": "nightly"}]}`))
	})

	jobs, err := backend.ListJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, ReportJob{ID: "job-1", ReportTypeID: "channel_basic_a2", Name: "nightly"}, jobs[0])

	types, err := backend.ListReportTypes(context.Background())
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, ReportType{ID: "channel_basic_a2", Name: "User activity"}, types[0])
}
