// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/bizdesk/internal/platform/constants"
	"github.com/taibuivan/bizdesk/internal/platform/respond"
)

// readinessTimeout bounds each dependency probe.
const readinessTimeout = 2 * time.Second

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool. The token store lives there.
	CheckDatabase func(context.Context) error

	// CheckCache pings the Redis client backing the login throttle.
	CheckCache func(context.Context) error
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health.
func (handler *healthHandler) liveness(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, map[string]string{
		constants.FieldStatus: "ok",
		"version":             constants.AppVersion,
	})
}

// readiness handles GET /ready.
//
// A failing cache only degrades the service: the login throttle fails open.
// A failing database makes it unavailable.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	results := make([]checkResult, 0, 2)
	databaseOK, cacheOK := true, true

	if handler.dependencies.CheckDatabase != nil {
		var result checkResult
		result, databaseOK = handler.probe(request.Context(), "postgres", handler.dependencies.CheckDatabase)
		results = append(results, result)
	}

	if handler.dependencies.CheckCache != nil {
		var result checkResult
		result, cacheOK = handler.probe(request.Context(), "redis", handler.dependencies.CheckCache)
		results = append(results, result)
	}

	status, httpStatus := "ready", http.StatusOK
	switch {
	case !databaseOK:
		status, httpStatus = "unavailable", http.StatusServiceUnavailable
	case !cacheOK:
		status = "degraded"
	}

	respond.JSON(writer, httpStatus, respond.SuccessEnvelope{
		Success: databaseOK,
		Data: map[string]any{
			constants.FieldStatus: status,
			constants.FieldChecks: results,
		},
	})
}

func (handler *healthHandler) probe(ctx context.Context, name string, check func(context.Context) error) (checkResult, bool) {
	probeCtx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()

	if err := check(probeCtx); err != nil {
		handler.logger.ErrorContext(ctx, "readiness_check_failed", slog.String("dependency", name), slog.Any("error", err))
		return checkResult{Name: name, Error: err.Error()}, false
	}
	return checkResult{Name: name, IsOK: true}, true
}
