// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Workbook load errors. These are load-fatal: a dataset that cannot
	// be read or lacks a required column aborts the whole run.
	ErrSheetNotFound  = errors.New("sheet not found")
	ErrMissingColumn  = errors.New("required column missing")
	ErrEmptyWorkbook  = errors.New("workbook has no data rows")
	ErrMaxRetries     = errors.New("max retries exceeded")
	ErrMissingConfig  = errors.New("missing configuration")
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrExportDisabled = errors.New("sheets export not configured")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
