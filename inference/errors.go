package inference

import "fmt"

const maxBodyInError = 256

// StatusError reports a non-2xx response from the completion endpoint.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > maxBodyInError {
		body = body[:maxBodyInError] + "..."
	}
	if body == "" {
		return fmt.Sprintf("inference: unexpected status %d", e.Code)
	}
	return fmt.Sprintf("inference: unexpected status %d: %s", e.Code, body)
}
