package chaincode

import "fmt"

// Kind enumerates the closed set of failure classes a handler can
// return. The HTTP layer maps kinds to status codes; the core never
// wraps a failure into anything outside this set.
type Kind int

const (
	// KindNotFound — entity or index target absent.
	KindNotFound Kind = iota + 1
	// KindAlreadyExists — primary-key (or email-index) collision on create.
	KindAlreadyExists
	// KindAlreadyApplied — duplicate applicant email on a job.
	KindAlreadyApplied
	// KindInvalidPassword — credential mismatch for an existing user.
	KindInvalidPassword
	// KindUserNotFound — AuthenticateUser's distinct not-found class.
	KindUserNotFound
	// KindInvalidCredentials — catch-all authentication failure.
	KindInvalidCredentials
	// KindDecodeError — stored or submitted bytes do not match the
	// expected entity shape.
	KindDecodeError
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindAlreadyExists:
		return "AlreadyExists"
	case KindAlreadyApplied:
		return "AlreadyApplied"
	case KindInvalidPassword:
		return "InvalidPassword"
	case KindUserNotFound:
		return "UserNotFound"
	case KindInvalidCredentials:
		return "InvalidCredentials"
	case KindDecodeError:
		return "DecodeError"
	}
	return "Unknown"
}

// Error is the typed result every failing handler returns.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func Errorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the failure class of err, or 0 when err is not a
// handler error.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return 0
}
