package usecase

import (
	"errors"
	"strings"
)

const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeUnknownProvider = "UNKNOWN_PROVIDER"
	CodeNothingToExport = "NOTHING_TO_EXPORT"
	CodeCalendar        = "CALENDAR_ERROR"
	CodeSpreadsheet     = "SPREADSHEET_ERROR"
)

// ErrCalendarUnauthorized is wrapped by calendar providers when the access
// token is missing or rejected.
var ErrCalendarUnauthorized = errors.New("calendar: not authenticated")

type DomainError struct {
	Code    string
	Message string
	Fields  []ValidationError
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// NewValidationFailed folds field errors into a single VALIDATION_ERROR.
func NewValidationFailed(errs []ValidationError) *DomainError {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+" ("+e.Message+")")
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: "validation failed: " + strings.Join(parts, ", "),
		Fields:  errs,
	}
}

type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}
