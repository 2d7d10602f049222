package assistant

import (
	"errors"
	"fmt"
)

// Kind classifies a failure at a remote call boundary.
type Kind int

const (
	// KindInputRejected means the input was invalid and no request was issued.
	KindInputRejected Kind = iota + 1
	// KindTransport covers network failures and unparseable or malformed payloads.
	KindTransport
	// KindRemote is a well-formed failure reported by the service.
	KindRemote
	// KindMissingCorrelation means an artifact view has no token to look up.
	KindMissingCorrelation
)

func (k Kind) String() string {
	switch k {
	case KindInputRejected:
		return "input-rejected"
	case KindTransport:
		return "transport"
	case KindRemote:
		return "remote"
	case KindMissingCorrelation:
		return "missing-correlation"
	default:
		return "unknown"
	}
}

// Error is the typed failure every component surfaces.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Op == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// RemoteMessage returns the service's own message for a remote failure, so it
// can be shown verbatim.
func RemoteMessage(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindRemote && e.Message != "" {
		return e.Message, true
	}
	return "", false
}

// Rejected builds an input-rejected error.
func Rejected(op, msg string) *Error {
	return &Error{Kind: KindInputRejected, Op: op, Message: msg}
}

func transport(op string, err error) *Error {
	return &Error{Kind: KindTransport, Op: op, Err: err}
}

func malformed(op, msg string, err error) *Error {
	return &Error{Kind: KindTransport, Op: op, Message: "malformed response: " + msg, Err: err}
}
