package services

import "errors"

// Sentinel errors for the failure modes the HTTP layer has to tell apart.
// Everything below wraps one of these with fmt.Errorf("...: %w", ...) so
// callers classify with errors.Is while still seeing the full message.
var (
	// Client-side failures (HTTP 400).
	ErrMalformedRequest = errors.New("request body is not valid multipart/form-data")
	ErrMissingPart      = errors.New("required form part is missing")

	// Server-side failures (HTTP 500).
	ErrMissingWorksheet   = errors.New("workbook has no Summary Dashboard worksheet")
	ErrMissingColumn      = errors.New("could not find 'Category' column in Summary Dashboard")
	ErrMissingTable       = errors.New("word template has no tables; expected the operations review table first")
	ErrCorruptDocument    = errors.New("document could not be parsed as a valid PDF")
	ErrStorageUnavailable = errors.New("report storage is not configured or not reachable")
)

// IsClientError reports whether err is the caller's fault, i.e. the request
// itself was unusable before any processing began.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMalformedRequest) || errors.Is(err, ErrMissingPart)
}
