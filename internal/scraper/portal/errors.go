package portal

import (
	"errors"
	"fmt"
)

var (
	ErrLoginFailed     = errors.New("portal rejected login")
	ErrReportNotFound  = errors.New("target report not offered")
	ErrNoGeneratedRows = errors.New("reports table has no rows")
	ErrDownloadTimeout = errors.New("no download started within the wait")
	ErrDateNotAccepted = errors.New("date widget accepted none of the rendered formats")
)

// FlowError carries the step and context of a failed pipeline operation.
type FlowError struct {
	Operation string
	Cause     error
	Details   string
}

func (e *FlowError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("%s failed: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("%s failed: %v - %s", e.Operation, e.Cause, e.Details)
}

func (e *FlowError) Unwrap() error {
	return e.Cause
}

func flowErr(op string, cause error, details string) *FlowError {
	return &FlowError{Operation: op, Cause: cause, Details: details}
}
