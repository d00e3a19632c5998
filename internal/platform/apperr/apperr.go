// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error handling framework for Bizdesk.

It provides a rich error type that bridges the gap between low-level domain or
storage errors and HTTP responses.

  - AppError: machine-readable Code, client-safe Message, HTTP status.
  - Cause: the wrapped error, logged server-side only.

Every error that leaves the service layer should either be an [AppError] or be
convertible into one at the transport boundary.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// # Error Codes

const (
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeConflict     = "CONFLICT"
	CodeValidation   = "VALIDATION_ERROR"
	CodeRateLimited  = "RATE_LIMITED"
	CodeInternal     = "INTERNAL_ERROR"
)

// AppError is the canonical error type for the Bizdesk API.
//
// The Cause field is for server-side logging only and is never sent to clients.
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "TOKEN_REVOKED").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
	// RetryAfter is sent as the Retry-After header (seconds) when positive.
	RetryAfter int `json:"-"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// New creates an [AppError] with an explicit status and code.
func New(status int, code, msg string) *AppError {
	return &AppError{Code: code, Message: msg, HTTPStatus: status}
}

// WithCause returns a copy of e carrying cause for server-side logging.
func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
//	apperr.NotFound("Account") // "Account not found"
func NotFound(resource string) *AppError {
	return New(http.StatusNotFound, CodeNotFound, resource+" not found")
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return New(http.StatusUnauthorized, CodeUnauthorized, msg)
}

// Conflict creates a 409 [AppError] for duplicate or unique-constraint violations.
func Conflict(msg string) *AppError {
	return New(http.StatusConflict, CodeConflict, msg)
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	err := New(http.StatusBadRequest, CodeValidation, msg)
	err.Details = details
	return err
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	err := New(http.StatusTooManyRequests, CodeRateLimited,
		fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds))
	err.RetryAfter = retryAfterSeconds
	return err
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
func Internal(cause error) *AppError {
	err := New(http.StatusInternalServerError, CodeInternal, "An unexpected error occurred")
	err.Cause = cause
	return err
}

// # Helpers

// Converter is implemented by domain errors that carry their own wire mapping,
// such as the authentication failures of package sec.
type Converter interface {
	AppError() *AppError
}

// As extracts the [*AppError] from err's chain, asking the first [Converter]
// it meets when no [*AppError] is wrapped directly. It returns nil if neither
// is found.
func As(err error) *AppError {
	var converter Converter
	if errors.As(err, &converter) {
		return converter.AppError()
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
