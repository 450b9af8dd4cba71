package core

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

// NewValidationErrorFrom turns the validator's errors into a ValidationError wrapping `kind`.
// Any other error is returned as is.
func NewValidationErrorFrom(kind error, err error) error {
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return err
	}
	flds := make([]FieldError, 0, len(vErrs))
	for _, vErr := range vErrs {
		flds = append(flds, FieldError{Field: vErr.Field(), Error: vErr.Translate(Translator)})
	}
	return NewValidationError(kind, flds...)
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	msg := err.Err.Error()
	for i, fld := range err.Fields {
		if i == 0 {
			msg += ": "
		} else {
			msg += "; "
		}
		msg += fld.Error
	}
	return msg
}

func (err ValidationError) Unwrap() error {
	return err.Err
}

// ArgumentError is returned for bad command line arguments.
type ArgumentError struct {
	msg string
}

func NewArgumentError(msg string) *ArgumentError {
	return &ArgumentError{msg}
}

func (err *ArgumentError) Error() string {
	return err.msg
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
