// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond provides HTTP response helpers used by all API handlers.
//
// Every error response shares one envelope, `{success:false, error, code}`, so
// clients can branch on the machine-readable code without parsing messages.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/taibuivan/bizdesk/internal/platform/apperr"
	"github.com/taibuivan/bizdesk/internal/platform/constants"
	"github.com/taibuivan/bizdesk/internal/platform/ctxutil"
)

// SuccessEnvelope is the JSON envelope for successful single-resource responses.
type SuccessEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ErrorEnvelope is the JSON envelope for error responses.
type ErrorEnvelope struct {
	Success bool                `json:"success"`
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 OK response with data wrapped in the standard success envelope.
func OK(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusOK, SuccessEnvelope{Success: true, Data: data})
}

// Error converts any Go error into a standardized JSON API error response.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	appError := Resolve(request, err)

	if appError.RetryAfter > 0 {
		writer.Header().Set(constants.HeaderRetryAfter, strconv.Itoa(appError.RetryAfter))
	}

	JSON(writer, appError.HTTPStatus, ErrorEnvelope{
		Success: false,
		Error:   appError.Message,
		Code:    appError.Code,
		Details: appError.Details,
	})
}

// Resolve maps err onto an [apperr.AppError], logging server-side failures.
//
// Handlers with a bespoke error body (e.g. token verification) use it to
// share the logging behavior of [Error].
func Resolve(request *http.Request, err error) *apperr.AppError {
	logger := ctxutil.GetLogger(request.Context())

	appError := apperr.As(err)
	if appError == nil {
		logger.ErrorContext(request.Context(), "unhandled_error_swallowed",
			slog.String("error", err.Error()),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
		)
		appError = apperr.Internal(err)
	}

	// Always log 5xx errors as they indicate server-side issues.
	if appError.HTTPStatus >= http.StatusInternalServerError {
		logger.ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
			slog.Any("cause", appError.Cause),
		)
	}

	return appError
}
