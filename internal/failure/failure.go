package failure

import (
	"errors"
	"strings"
)

// Kind classifies a failure for display.
type Kind int

const (
	// Validation is a local, pre-network failure.
	Validation Kind = iota + 1
	// Transport means no response was received.
	Transport
	// Server is a response with an error status or an error payload.
	Server
	// AuthorizationRequired is an HTTP 401 from calendar-backed endpoints.
	AuthorizationRequired
	// EmptyResult is a successful call with nothing to show. Not an error for the user.
	EmptyResult
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Transport:
		return "transport"
	case Server:
		return "server"
	case AuthorizationRequired:
		return "authorization_required"
	case EmptyResult:
		return "empty_result"
	default:
		return "unknown"
	}
}

// Failure is the only error shape that reaches display state.
type Failure struct {
	Kind    Kind
	Message string
	// Status is the HTTP status when a response was received.
	Status int
	// Detail is the server-provided detail, if any.
	Detail string
	// AuthURL is an actionable authorization link extracted from Detail.
	AuthURL string
	Err     error
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// NewValidation builds a local validation failure.
func NewValidation(message string) *Failure {
	return &Failure{Kind: Validation, Message: message}
}

// IsKind reports whether err is a Failure of kind k.
func IsKind(err error, k Kind) bool {
	var f *Failure
	return errors.As(err, &f) && f.Kind == k
}

// ExtractURL returns the part of detail starting at the first "http", or an
// empty string when there is none.
func ExtractURL(detail string) string {
	idx := strings.Index(detail, "http")
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(detail[idx:])
}
