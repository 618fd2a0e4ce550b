package backend

import (
	"errors"
	"fmt"
	"net"
)

// StatusError is a non-2xx response from the backend.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// IsTimeout reports whether err is a client-side timeout. Callers on the
// email path treat a timeout as likely-success-but-unconfirmed rather than a
// failure.
func IsTimeout(err error) bool {
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
