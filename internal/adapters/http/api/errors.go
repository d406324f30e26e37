package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest     = errors.New("bad request")
	ErrDidNotConverge = errors.New("did not converge")
	ErrCancelled      = errors.New("cancelled")
	ErrInternal       = errors.New("internal error")
)

// KindError attaches an operation name and an error kind to a cause.
// Both the kind and the cause are visible to errors.Is.
type KindError struct {
	Op   string
	Kind error
	Err  error
}

func (e *KindError) Error() string {
	if e.Err == nil {
		return e.Op + ": " + e.Kind.Error()
	}
	return e.Op + ": " + e.Kind.Error() + ": " + e.Err.Error()
}

func (e *KindError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// WrapKind returns err classified as kind for operation op.
func WrapKind(op string, kind, err error) error {
	return &KindError{Op: op, Kind: kind, Err: err}
}

// NewKind returns a bare error of kind for operation op.
func NewKind(op string, kind error) error {
	return &KindError{Op: op, Kind: kind}
}
