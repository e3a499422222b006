// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package api contains the health check handlers for liveness and readiness checks.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/animeapi/internal/platform/respond"
)

// readinessTimeout bounds each dependency check.
const readinessTimeout = 2 * time.Second

// Check tests one dependency. A nil Check is skipped.
type Check func(context context.Context) error

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase Check

	// CheckCache pings the Redis client. Nil when the cache is disabled.
	CheckCache Check

	// CheckEvents reports the NATS connection state. Nil when publishing is disabled.
	CheckEvents Check
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

// liveness handles GET /health (liveness).
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{"status": "ok"})
}

// readiness handles GET /ready (readiness).
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	checks := []struct {
		name  string
		check Check
	}{
		{"postgres", handler.dependencies.CheckDatabase},
		{"redis", handler.dependencies.CheckCache},
		{"nats", handler.dependencies.CheckEvents},
	}

	results := make([]checkResult, 0, len(checks))
	isSystemReady := true

	for _, dependency := range checks {
		if dependency.check == nil {
			continue
		}

		result := handler.run(request.Context(), dependency.name, dependency.check)
		if !result.IsOK {
			isSystemReady = false
		}
		results = append(results, result)
	}

	if !isSystemReady {
		respond.Status(writer, http.StatusServiceUnavailable, map[string]any{
			"status": "degraded",
			"checks": results,
		})
		return
	}

	respond.OK(writer, map[string]any{
		"status": "ready",
		"checks": results,
	})
}

func (handler *healthHandler) run(parent context.Context, name string, check Check) checkResult {
	context, cancel := context.WithTimeout(parent, readinessTimeout)
	defer cancel()

	result := checkResult{Name: name, IsOK: true}
	if err := check(context); err != nil {
		result.IsOK = false
		result.Error = err.Error()
		handler.logger.ErrorContext(context, "readiness_check_failed", slog.String("dependency", name), slog.Any("error", err))
	}
	return result
}
