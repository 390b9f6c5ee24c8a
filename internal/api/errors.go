package api

import (
	"fmt"

	"fluxo/internal/core"
)

// NetworkError reports that the transport itself failed: DNS, refused
// connection, timeout. It is the only error Request returns; every
// answer the server actually produced, whatever the HTTP status, is
// normalized into a Response instead.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure on %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerRejection is a well-formed error answer from the server. When
// it is shaped like validation errors the Errors map carries them
// field by field; otherwise Message holds a generic explanation.
type ServerRejection struct {
	Status  int
	Message string
	Errors  core.FieldErrors
}

func (e *ServerRejection) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server rejected request (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server rejected request (%d)", e.Status)
}
