package directory

import "errors"

// Sentinel errors shared across the submission and ingestion paths.
// Extraction failures wrap ErrFetchTimeout/ErrFetchFailed so the scheduler
// can distinguish transient failures from permanently bad input.
var (
	// ErrInvalidURL marks input that is still malformed after scheme inference.
	ErrInvalidURL = errors.New("invalid url")

	// ErrDuplicateURL marks a submission already cataloged or already queued.
	// It is user-visible and not an error state.
	ErrDuplicateURL = errors.New("duplicate url")

	// ErrNotFound marks click/rate operations against an unknown URL.
	ErrNotFound = errors.New("url not found")

	// ErrInvalidRating marks a rating outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrFetchTimeout marks an extraction fetch that exceeded its deadline.
	ErrFetchTimeout = errors.New("fetch timed out")

	// ErrFetchFailed marks a network-level extraction failure.
	ErrFetchFailed = errors.New("fetch failed")
)

// TransientFetchError reports whether err is a fetch failure worth retrying.
// Invalid URLs are permanent and never qualify.
func TransientFetchError(err error) bool {
	return errors.Is(err, ErrFetchTimeout) || errors.Is(err, ErrFetchFailed)
}
