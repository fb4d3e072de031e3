package futbin

import "errors"

var (
	// ErrTransport marks a request that failed below the page level: network
	// errors, 5xx and 429 after retries, or an open circuit.
	ErrTransport = errors.New("futbin transport failure")
	// ErrLatestNotFound is returned when the latest page has no player link.
	ErrLatestNotFound = errors.New("latest player link not found")
)
