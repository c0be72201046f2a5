package errno

import "fmt"

// code=2xx success, 4xx caller error, 5xx server/storage error.

type Errno struct {
	Code    int
	Message string
	cause   error
}

// Error implements the error interface.
func (e *Errno) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *Errno) Unwrap() error {
	return e.cause
}

// Is lets errors.Is match against the sentinel by code, even through a
// WithCause wrapper that produced a distinct pointer.
func (e *Errno) Is(target error) bool {
	t, ok := target.(*Errno)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy of e carrying cause, for call sites that need to
// attach the underlying error while still comparing via errors.Is.
func (e *Errno) WithCause(cause error) *Errno {
	return &Errno{Code: e.Code, Message: e.Message, cause: cause}
}

var (
	OK = &Errno{Code: 200, Message: "success"}

	// Validation failure: missing sources, conflicting fields, empty machine
	// name. Surfaced to the caller; nothing is persisted.
	ErrBadRequest = &Errno{Code: 400, Message: "bad request"}

	// A declared source path does not exist on the local filesystem.
	ErrSourceNotFound = &Errno{Code: 404, Message: "source not found"}

	// The destination folder does not exist.
	ErrDestinationInvalid = &Errno{Code: 422, Message: "destination invalid"}

	// MediaProbe could not determine duration/framerate.
	ErrProbeFailed = &Errno{Code: 502, Message: "probe failed"}

	// ClaimNext's conditional update affected zero rows: another claimer
	// won the race. Internal; the dispatcher returns none to the worker.
	ErrClaimLost = &Errno{Code: 409, Message: "claim lost"}

	// Storage engine I/O failure; the owning transaction rolls back.
	ErrRepository = &Errno{Code: 500, Message: "repository error"}
)
