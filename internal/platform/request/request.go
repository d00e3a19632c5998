// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil decodes request bodies and reads the verified caller, so
every handler reports malformed input with the same VALIDATION_ERROR body.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/taibuivan/bizdesk/internal/platform/apperr"
	"github.com/taibuivan/bizdesk/internal/platform/ctxutil"
	"github.com/taibuivan/bizdesk/internal/platform/sec"
	"github.com/taibuivan/bizdesk/internal/platform/validate"
)

// MaxBodyBytes caps JSON request bodies. Every auth payload fits in a few KiB.
const MaxBodyBytes = 64 << 10

var (
	errEmptyBody    = apperr.ValidationError("Request body is required")
	errBodyTooLarge = apperr.ValidationError("Request body is too large")
)

/*
DecodeJSON decodes exactly one JSON value from the request body into target.

Returns:
  - error: a VALIDATION_ERROR for an empty, oversized, malformed, or
    multi-value body, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(writer, request.Body, MaxBodyBytes))

	if err := decoder.Decode(target); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return errEmptyBody
		case errors.As(err, &tooLarge):
			return errBodyTooLarge
		default:
			return validate.ErrInvalidJSON
		}
	}

	if decoder.More() {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
RequiredClaims returns the verified access-token claims of the request.

Returns:
  - error: apperr.Unauthorized if no token was verified upstream
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetClaims(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return claims, nil
}
