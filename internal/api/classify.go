package api

// ResponseStatus is the coarse classification of an HTTP status code. Callers
// only need to distinguish "parse the body as a success payload" from "parse
// the body as an error payload"; the reason tags are for logging and error
// messages.
type ResponseStatus int

const (
	StatusSuccess ResponseStatus = iota
	StatusBadRequest
	StatusAuthError
	StatusServerError
	StatusOutdated
	StatusFailed
)

// String returns the reason tag for a classification.
func (s ResponseStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusBadRequest:
		return "bad-request"
	case StatusAuthError:
		return "authentication-error"
	case StatusServerError:
		return "server-error"
	case StatusOutdated:
		return "outdated"
	default:
		return "network-request-failed"
	}
}

// classify buckets an HTTP status code. Pure function, no side effects;
// reason tags are logged at the call site.
func classify(statusCode int) ResponseStatus {
	switch {
	case statusCode >= 200 && statusCode <= 299:
		return StatusSuccess
	case statusCode == 400:
		return StatusBadRequest
	case statusCode >= 401 && statusCode <= 499:
		return StatusAuthError
	case statusCode >= 500 && statusCode <= 599:
		return StatusServerError
	case statusCode == 600:
		return StatusOutdated
	default:
		return StatusFailed
	}
}
