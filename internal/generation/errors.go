package generation

import "errors"

// Sentinel errors returned by Generator implementations. Callers should match
// with errors.Is; implementations wrap these with provider detail.
var (
	// ErrInvalidConfig indicates the generator was constructed with missing
	// or contradictory settings (empty API key, zero timeout, etc.).
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrEmptyInput indicates required prompt material was missing, such as
	// an empty resume or job description.
	ErrEmptyInput = errors.New("empty input for generation")

	// ErrEmptyResponse indicates the provider returned no usable text.
	ErrEmptyResponse = errors.New("empty response from generation service")

	// ErrMalformedResponse indicates the provider returned text that could
	// not be parsed into the expected structure.
	ErrMalformedResponse = errors.New("malformed response from generation service")

	// ErrRateLimited indicates the provider throttled the request and it may
	// succeed later.
	ErrRateLimited = errors.New("generation service rate limit exceeded")

	// ErrAuthFailure indicates the provider rejected our credentials.
	ErrAuthFailure = errors.New("generation service authentication failed")

	// ErrTransientFailure indicates a retryable provider-side failure that
	// persisted through the configured retries.
	ErrTransientFailure = errors.New("transient generation service failure")
)
