package ytingest

import (
	"ytingest/config"
	ythttp "ytingest/http"
	"ytingest/internal/retry"
	"ytingest/internal/storage"
	"ytingest/reporting"
)

// Error handling types exported for library users.
//
// All error types support the standard error handling patterns:
//
// Using errors.Is() for sentinel errors:
//
//	if errors.Is(err, ytingest.ErrJobConflict) {
//		fmt.Println("Job creation collided with an existing job")
//	}
//
// Using errors.As() for wrapped errors:
//
//	var httpErr *ytingest.HTTPError
//	if errors.As(err, &httpErr) {
//		fmt.Printf("GET %s returned %d\n", httpErr.URL, httpErr.StatusCode)
//	}

// Type aliases for convenient error handling.
type (
	// HTTPError wraps non-success responses during report downloads.
	HTTPError = ythttp.HTTPError
	// RetryableError wraps errors that occurred after retries were exhausted.
	RetryableError = retry.RetryableError
	// StorageError wraps errors during credential persistence.
	StorageError = storage.StorageError
)

// Sentinel errors exported from sub-packages.
var (
	// ErrJobConflict indicates reporting job creation collided with an
	// existing job that could not be recovered by lookup.
	ErrJobConflict = reporting.ErrJobConflict
	// ErrInvalidFormat indicates a video-id config file with an
	// unsupported shape.
	ErrInvalidFormat = config.ErrInvalidFormat
	// ErrNoResponse indicates an HTTP request produced no response.
	ErrNoResponse = ythttp.ErrNoResponse

	// Storage errors
	// ErrNotFound indicates a credential token was not found in storage.
	ErrNotFound = storage.ErrNotFound
	// ErrCorrupt indicates a persisted token could not be decoded.
	ErrCorrupt = storage.ErrCorrupt
	// ErrLockTimeout indicates a timeout acquiring a file lock.
	ErrLockTimeout = storage.ErrLockTimeout
)

// IsRetryable determines if an error should be retried.
// It returns false for permanent errors like context cancellation.
func IsRetryable(err error) bool {
	return retry.IsRetryable(err)
}
