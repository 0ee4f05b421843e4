package core

import (
	"errors"
	"fmt"
)

// Validation reasons
const (
	ReasonMissingURL   = "missing URL"
	ReasonMalformedURL = "malformed URL"
	ReasonMissingBody  = "missing body"
)

// ErrBusy is returned when a submission arrives while a request is still outstanding
var ErrBusy = errors.New("a request is already in progress")

// ValidationError is a local input error; it never reaches the network
type ValidationError struct {
	Reason  string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// TransportError is returned when the detection service is unreachable
// or answers with a non-2xx status
type TransportError struct {
	Op             string
	Status         int
	ServiceMessage string
	Err            error
}

func (e *TransportError) Error() string {
	switch {
	case e.ServiceMessage != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.ServiceMessage)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UserMessage picks the text to show for a failed request: the
// service-supplied error when there is one, otherwise fallback
func UserMessage(err error, fallback string) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	var terr *TransportError
	if errors.As(err, &terr) && terr.ServiceMessage != "" {
		return terr.ServiceMessage
	}
	return fallback
}
