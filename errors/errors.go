// Copyright 2019 CERN. All Rights Reserved.

package errors

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// ///////////////////////////////////////////////////////////////////////////
// Wrappers for standard library errors package
// ///////////////////////////////////////////////////////////////////////////

func New(message string) error {
	return errors.New(message)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Unwrap(err error) error {
	return errors.Unwrap(err)
}

func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Combine merges the supplied errors into one, dropping nils.
func Combine(errs ...error) error {
	return multierr.Combine(errs...)
}

// ///////////////////////////////////////////////////////////////////////////
// notFoundError
// ///////////////////////////////////////////////////////////////////////////

type notFoundError struct {
	inner   error
	message string
}

func (e *notFoundError) Error() string {
	if e.inner == nil || e.inner.Error() == "" {
		return e.message
	} else if e.message == "" {
		return e.inner.Error()
	}
	return fmt.Sprintf("%v; %v", e.message, e.inner.Error())
}

func (e *notFoundError) Unwrap() error { return e.inner }

// NotFoundError indicates a single-item lookup whose filter matched nothing.
// The API call itself succeeded; only the filter came back empty.
func NotFoundError(message string, a ...any) error {
	if len(a) == 0 {
		return &notFoundError{message: message}
	}
	return &notFoundError{message: fmt.Sprintf(fmt.Sprintf("%s", message), a...)}
}

func WrapWithNotFoundError(err error, message string, a ...any) error {
	return &notFoundError{
		inner:   err,
		message: fmt.Sprintf(message, a...),
	}
}

func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var errPtr *notFoundError
	return errors.As(err, &errPtr)
}

// ///////////////////////////////////////////////////////////////////////////
// contractError
// ///////////////////////////////////////////////////////////////////////////

type contractError struct {
	message string
}

func (e *contractError) Error() string {
	return fmt.Sprintf("protocol contract violation; %s", e.message)
}

// ContractError indicates a broken internal invariant, such as a record-count
// mismatch or a missing mandatory field. It marks a defect in the client or
// the server, never a recoverable condition; callers must not retry.
func ContractError(message string, a ...any) error {
	if len(a) == 0 {
		return &contractError{message: message}
	}
	return &contractError{message: fmt.Sprintf(fmt.Sprintf("%s", message), a...)}
}

func IsContractError(err error) bool {
	if err == nil {
		return false
	}
	var errPtr *contractError
	return errors.As(err, &errPtr)
}

// ///////////////////////////////////////////////////////////////////////////
// invalidInputError
// ///////////////////////////////////////////////////////////////////////////

type invalidInputError struct {
	message string
}

func (e *invalidInputError) Error() string { return e.message }

// InvalidInputError indicates a caller-supplied filter or request value that
// the API schema cannot express, such as an unrecognized event severity.
func InvalidInputError(message string, a ...any) error {
	if len(a) == 0 {
		return &invalidInputError{message: message}
	}
	return &invalidInputError{message: fmt.Sprintf(fmt.Sprintf("%s", message), a...)}
}

func IsInvalidInputError(err error) bool {
	if err == nil {
		return false
	}
	var errPtr *invalidInputError
	return errors.As(err, &errPtr)
}
