// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
package validate

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/taibuivan/bizdesk/internal/platform/apperr"
)

// ErrInvalidJSON is returned when the request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator collects field-level validation errors via a fluent, chainable API.
//
// A zero Validator is ready to use. It is not safe for concurrent use.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// MaxBytes fails if the UTF-8 encoded length exceeds max bytes.
func (v *Validator) MaxBytes(field, value string, max int) *Validator {
	if len(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d bytes", max))
	}
	return v
}

// Printable fails if value holds control characters or invalid UTF-8.
func (v *Validator) Printable(field, value string) *Validator {
	if !utf8.ValidString(value) || strings.ContainsFunc(value, unicode.IsControl) {
		v.add(field, "Contains invalid characters")
	}
	return v
}

// Err returns a VALIDATION_ERROR [apperr.AppError] if any rule failed, or nil.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}
