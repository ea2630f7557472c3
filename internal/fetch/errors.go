package fetch

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound reports a missing local file or a 404 from the site.
	ErrNotFound = errors.New("fetch: not found")
	// ErrInvalidLocator reports a locator that is neither a usable URL nor a
	// readable file path.
	ErrInvalidLocator = errors.New("fetch: invalid locator")
)

// RemoteError reports a non-2xx response.
type RemoteError struct {
	URL        string
	StatusCode int
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Is lets a 404 RemoteError match ErrNotFound.
func (e *RemoteError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Temporary reports whether the status is worth retrying.
func (e *RemoteError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}
