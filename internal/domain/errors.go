package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthRequired is returned when a mutation is attempted while signed
	// out. Unauthenticated mutations are never queued.
	ErrAuthRequired = errors.New("sign-in required")

	// ErrSignInDeclined is returned by an auth collaborator when the user
	// cancels the sign-in prompt.
	ErrSignInDeclined = errors.New("sign-in declined")
)

// NetworkError reports that a request never obtained a response: the server
// was unreachable, the connection dropped, or the client is offline. It is
// produced at the transport boundary so callers classify failures as data
// instead of sniffing error shapes.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure for %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError reports a response-bearing failure: the server answered and
// rejected the request. Retrying without changing the request won't help.
type HTTPError struct {
	Status int
	URL    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d for %s", e.Status, e.URL)
}

// IsNetworkError reports whether err carries a transport-level failure with
// no server response anywhere in its chain.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
