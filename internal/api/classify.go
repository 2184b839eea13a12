package api

import (
	"fmt"
	"net/http"
)

// docsURL points at the reference request examples surfaced in diagnostics.
const docsURL = "https://github.com/Cloud-RF/CloudRF-API-clients"

// Category is the user-facing diagnostic bucket for an HTTP response status.
type Category int

const (
	Success Category = iota
	BadRequest
	Unauthorized
	Forbidden
	ServerError
	UnknownHTTP
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case Success:
		return "Success"
	case BadRequest:
		return "BadRequest"
	case Unauthorized:
		return "Unauthorized"
	case Forbidden:
		return "Forbidden"
	case ServerError:
		return "ServerError"
	default:
		return "UnknownHttpError"
	}
}

// Fatal reports whether a response in this category aborts the run. Every
// non-success category is fatal; there is no continue-on-error mode.
func (c Category) Fatal() bool {
	return c != Success
}

// Classify maps an HTTP status code to its diagnostic category.
func Classify(status int) Category {
	switch status {
	case http.StatusOK:
		return Success
	case http.StatusBadRequest:
		return BadRequest
	case http.StatusUnauthorized:
		return Unauthorized
	case http.StatusForbidden:
		return Forbidden
	case http.StatusInternalServerError:
		return ServerError
	default:
		return UnknownHTTP
	}
}

// hint returns the remediation text shown alongside a fatal category.
func (c Category) hint() string {
	switch c {
	case BadRequest:
		return fmt.Sprintf("HTTP 400 refers to a bad request. You likely have bad values in your input JSON/CSV. For good examples please consult %s", docsURL)
	case Unauthorized:
		return "HTTP 401 refers to an unauthorised request. Your API key is likely incorrect."
	case Forbidden:
		return "HTTP 403 refers to a forbidden request. Your API key appears to be correct but you do not appear to have permission to make your request."
	case ServerError:
		return "HTTP 500 refers to an issue with the server. A problem with the CloudRF API service appears to have occurred."
	default:
		return fmt.Sprintf("An unknown HTTP error has occurred. Please consult the response from the CloudRF API, or %s", docsURL)
	}
}

// HTTPError is the fatal result of a non-200 response. The raw response body
// is carried so the caller can surface it to the user before exiting.
type HTTPError struct {
	RequestName string
	StatusCode  int
	Body        string
}

// Category returns the diagnostic category of the underlying status code.
func (e *HTTPError) Category() Category {
	return Classify(e.StatusCode)
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("request %s failed with HTTP %d: %s", e.RequestName, e.StatusCode, e.Category().hint())
}

// Check inspects an outcome and returns an *HTTPError for any non-200
// status. A nil return means the run may proceed to the next row.
func Check(outcome *Outcome) error {
	if Classify(outcome.StatusCode) == Success {
		return nil
	}
	return &HTTPError{
		RequestName: outcome.Name,
		StatusCode:  outcome.StatusCode,
		Body:        outcome.Body,
	}
}
