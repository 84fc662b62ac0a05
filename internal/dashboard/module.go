// Package dashboard provides the read-only preparation dashboard module.
package dashboard

import (
	"store_opening_backend/internal/authz"
	"store_opening_backend/internal/dashboard/handler"
	"store_opening_backend/internal/dashboard/repository"
	"store_opening_backend/internal/dashboard/service"
	"store_opening_backend/internal/events"
	apphttp "store_opening_backend/internal/http"
	"store_opening_backend/platform/logger"
	"store_opening_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the dashboard module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates the dashboard module. cache may be nil when Redis is not
// configured; the statistics are then computed on every request.
func NewModule(pool *pgxpool.Pool, cache service.Cache, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), cache, log)
	service.SubscribeInvalidation(eventBus, cache, log)

	return &Module{handler: handler.New(svc, val)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "dashboard"
}

// RegisterRoutes mounts the dashboard routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	g := ctx.Protected.Group("/dashboard")
	g.GET("/preparation", ctx.Require(authz.DashboardRead), m.handler.Preparation)
}
