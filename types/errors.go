package types

import "errors"

type ErrorKind int

const (
	// ErrorKindUsage covers missing handles or data and arity mismatches.
	ErrorKindUsage ErrorKind = iota
	// ErrorKindAllocation covers failed copies during schema or entry creation.
	ErrorKindAllocation
	// ErrorKindSchema covers name lookup misses, sort level gaps and stats
	// requested on an unflagged field.
	ErrorKindSchema
	// ErrorKindCallback covers failures reported by dynamic callbacks.
	ErrorKindCallback
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindUsage:
		return "usage"
	case ErrorKindAllocation:
		return "allocation"
	case ErrorKindSchema:
		return "schema mismatch"
	case ErrorKindCallback:
		return "callback"
	}
	return "unknown"
}

type EvalError struct {
	msg  string
	kind ErrorKind
}

func NewEvalError(kind ErrorKind, msg string) *EvalError {
	return &EvalError{msg: msg, kind: kind}
}

func (e EvalError) Error() string   { return e.msg }
func (e EvalError) Kind() ErrorKind { return e.kind }

var (
	ERR_RELEASED       = NewEvalError(ErrorKindUsage, "handle has been released")
	ERR_ARITY          = NewEvalError(ErrorKindUsage, "record length does not match schema")
	ERR_INVALID_DATA   = NewEvalError(ErrorKindUsage, "invalid data")
	ERR_INVALID_SCHEMA = NewEvalError(ErrorKindUsage, "invalid schema")
	ERR_ALLOCATION     = NewEvalError(ErrorKindAllocation, "failed to copy data")
	ERR_NOT_FOUND      = NewEvalError(ErrorKindSchema, "not found")
	ERR_INVALID_LEVEL  = NewEvalError(ErrorKindSchema, "invalid sort level")
	ERR_NOT_STATS      = NewEvalError(ErrorKindSchema, "field does not keep stats")
	ERR_CALLBACK       = NewEvalError(ErrorKindCallback, "dynamic callback failed")
)

// KindOf reports the category of err. Errors not produced by this module
// are treated as usage errors.
func KindOf(err error) ErrorKind {
	var e *EvalError
	if errors.As(err, &e) {
		return e.kind
	}
	return ErrorKindUsage
}
