package checkout

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/httpclient"
)

// ErrInFlight is returned when Submit is called while a previous
// submission has not completed.
var ErrInFlight = errors.New("checkout already in progress")

// ValidationError lists the problems found before any request was sent.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

// Kind is the user-facing error category of a failed checkout.
type Kind int

const (
	KindNone Kind = iota
	KindTransport
	KindValidation
	KindRejected
	KindFault
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindValidation:
		return "validation"
	case KindRejected:
		return "rejected"
	case KindFault:
		return "fault"
	default:
		return "none"
	}
}

// Classify maps err onto the categories the storefront presents
// differently. Unrecognised errors count as faults.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	var verr *ValidationError
	if errors.As(err, &verr) || errors.Is(err, ErrInFlight) {
		return KindValidation
	}
	if httpclient.IsNetwork(err) || errors.Is(err, context.DeadlineExceeded) {
		return KindTransport
	}
	var serr *httpclient.StatusError
	if errors.As(err, &serr) {
		if serr.StatusCode >= http.StatusBadRequest && serr.StatusCode < http.StatusInternalServerError {
			return KindRejected
		}
	}
	return KindFault
}

const (
	msgTransport = "Could not reach the store. Check your connection and try again."
	msgFault     = "The payment could not be completed. Please try again later."
)

// UserMessage renders err for display. Rejections and validation errors
// keep their own message; transport errors and faults get a generic one.
func UserMessage(err error) string {
	switch Classify(err) {
	case KindNone:
		return ""
	case KindTransport:
		return msgTransport
	case KindValidation, KindRejected:
		return err.Error()
	default:
		return msgFault
	}
}
