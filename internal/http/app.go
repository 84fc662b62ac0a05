// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"context"

	"store_opening_backend/internal/events"
	"store_opening_backend/platform/config"
	"store_opening_backend/platform/httpkit"
	"store_opening_backend/platform/logger"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration (HTTP and JWT settings only).
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health is used for readiness/health checks (e.g., DB ping).
	Health HealthChecker
	// EventBus is the domain event bus for cross-module communication.
	EventBus events.Bus
	// Permissions decides which roles may call which operations.
	Permissions httpkit.PermissionChecker
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
