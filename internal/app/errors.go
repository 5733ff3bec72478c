package app

import (
	"errors"
	"fmt"
)

type ScheduleErrorCode string

const (
	ErrBadRequest       ScheduleErrorCode = "BAD_REQUEST"
	ErrExternalService  ScheduleErrorCode = "EXTERNAL_SERVICE"
	ErrCyclicDependency ScheduleErrorCode = "CYCLIC_DEPENDENCY"
	ErrNotFound         ScheduleErrorCode = "NOT_FOUND"
)

// ScheduleError is the error every scheduling entry point returns. Err, when
// set, is the underlying cause and is reachable through errors.Is/As.
type ScheduleError struct {
	Code    ScheduleErrorCode
	Message string
	Err     error
}

func (e *ScheduleError) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ScheduleError) Unwrap() error {
	return e.Err
}

func BadRequest(format string, args ...any) *ScheduleError {
	return &ScheduleError{Code: ErrBadRequest, Message: fmt.Sprintf(format, args...)}
}

// ExternalService wraps a store failure during op.
func ExternalService(op string, err error) *ScheduleError {
	return &ScheduleError{Code: ErrExternalService, Message: op, Err: err}
}

func NotFound(what string, err error) *ScheduleError {
	return &ScheduleError{Code: ErrNotFound, Message: what + " not found", Err: err}
}

func CyclicDependency(err error) *ScheduleError {
	return &ScheduleError{Code: ErrCyclicDependency, Message: "prerequisites form a cycle", Err: err}
}

// CodeOf returns the code of the first ScheduleError in err's chain.
func CodeOf(err error) (ScheduleErrorCode, bool) {
	var se *ScheduleError
	if errors.As(err, &se) {
		return se.Code, true
	}
	return "", false
}
