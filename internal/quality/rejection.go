package quality

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies why a gate rejected its input.
type Kind string

const (
	KindTooShort        Kind = "TOO_SHORT"
	KindTooLong         Kind = "TOO_LONG"
	KindTooSmall        Kind = "TOO_SMALL"
	KindEmptyTranscript Kind = "EMPTY_TRANSCRIPT"
)

// Payload is the structured detail attached to transcript rejections.
// Clients branch on Code.
type Payload struct {
	Code    Kind   `json:"code"`
	Message string `json:"message"`
}

// Rejection is a terminal, user-actionable validation failure.
type Rejection struct {
	Kind       Kind
	Message    string
	StatusCode int

	structured bool
}

func newRejection(kind Kind, message string, structured bool) *Rejection {
	return &Rejection{
		Kind:       kind,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		structured: structured,
	}
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Kind, r.Message)
}

// Structured reports whether the rejection carries a {code, message} payload
// instead of a plain string.
func (r *Rejection) Structured() bool { return r.structured }

// Detail returns the value to expose at the transport boundary: the bare
// message for audio rejections, a Payload for transcript rejections.
func (r *Rejection) Detail() any {
	if r.structured {
		return Payload{Code: r.Kind, Message: r.Message}
	}
	return r.Message
}

// AsRejection unwraps err into a *Rejection if it is one.
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
