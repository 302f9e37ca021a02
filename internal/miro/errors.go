package miro

import "fmt"

// APIError is a non-success HTTP response from the Miro API, carrying the
// upstream status code and the service-provided message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("miro API error (%d): %s", e.StatusCode, e.Message)
}
