package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrSessionConsumed  = fmt.Errorf("authorization session already consumed")
	ErrStateMismatch    = fmt.Errorf("state parameter mismatch")

	// API errors
	ErrAPIRequest = fmt.Errorf("API request failed")
	ErrParse      = fmt.Errorf("unexpected response shape")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// FetchError reports a non-success HTTP response from an API endpoint.
//
// Status carries the HTTP status code, Endpoint the path that failed.
type FetchError struct {
	Status   int
	Endpoint string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%v: status %d from %s", ErrAPIRequest, e.Status, e.Endpoint)
}

// Unwrap lets errors.Is match a FetchError against [ErrAPIRequest].
func (e *FetchError) Unwrap() error {
	return ErrAPIRequest
}

// ParseError reports a response body missing an expected key.
//
// A malformed body is never coerced to an empty result; the fetch that
// produced it fails instead.
type ParseError struct {
	Endpoint string
	Missing  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %s missing %q", ErrParse, e.Endpoint, e.Missing)
}

// Unwrap lets errors.Is match a ParseError against [ErrParse].
func (e *ParseError) Unwrap() error {
	return ErrParse
}
