package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ServerError is a non-2xx response from the API. Detail carries the
// server's own message when the body had one.
type ServerError struct {
	Status int
	Detail string
}

func (e *ServerError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, http.StatusText(e.Status))
}

// IsNotFound reports whether err is a 404 from the server. Callers
// deleting an already-deleted item treat this as already satisfied.
func IsNotFound(err error) bool {
	var serverErr *ServerError
	return errors.As(err, &serverErr) && serverErr.Status == http.StatusNotFound
}
