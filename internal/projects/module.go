// Package projects provides the preparation project bounded context module:
// the lifecycle state machine, the completion side effects and batch changes.
package projects

import (
	"store_opening_backend/internal/authz"
	"store_opening_backend/internal/events"
	apphttp "store_opening_backend/internal/http"
	"store_opening_backend/internal/projects/handler"
	"store_opening_backend/internal/projects/repository"
	"store_opening_backend/internal/projects/service"
	"store_opening_backend/internal/projects/transport"
	"store_opening_backend/platform/logger"
	"store_opening_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the projects bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the projects module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	transport.RegisterValidations(val)
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "projects"
}

// Service returns the service layer for the scheduler and other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts preparation project routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	g := ctx.Protected.Group("/preparation-projects")
	g.GET("", ctx.Require(authz.ProjectsRead), m.handler.List)
	g.POST("", ctx.Require(authz.ProjectsWrite), m.handler.Create)
	g.POST("/batch", ctx.Require(authz.ProjectsBatch), m.handler.Batch)
	g.GET("/:id", ctx.Require(authz.ProjectsRead), m.handler.GetByID)
	g.PUT("/:id", ctx.Require(authz.ProjectsWrite), m.handler.Update)
	g.POST("/:id/status", ctx.Require(authz.ProjectsStatus), m.handler.ChangeStatus)
}
