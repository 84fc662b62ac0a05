package scheduler

import (
	"context"
	"net/http"

	"store_opening_backend/internal/authz"
	apphttp "store_opening_backend/internal/http"
	"store_opening_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// SweepEnqueuer queues a manual overdue sweep.
type SweepEnqueuer interface {
	EnqueueOverdueSweep(ctx context.Context, triggeredBy string) error
}

// Module exposes the manual sweep trigger over HTTP.
type Module struct {
	enqueuer SweepEnqueuer
}

func NewModule(enqueuer SweepEnqueuer) *Module {
	return &Module{enqueuer: enqueuer}
}

func (m *Module) Name() string {
	return "scheduler"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	g := ctx.Protected.Group("/maintenance")
	g.POST("/overdue-sweep", ctx.Require(authz.ProjectsBatch), m.triggerOverdueSweep)
}

// triggerOverdueSweep queues a sweep for the worker.
// POST /api/v1/maintenance/overdue-sweep
func (m *Module) triggerOverdueSweep(c *gin.Context) {
	triggeredBy := "api"
	if id := httpkit.GetIdentity(c); id.IsAuthenticated() {
		triggeredBy = id.UserID().String()
	}
	if err := m.enqueuer.EnqueueOverdueSweep(c.Request.Context(), triggeredBy); err != nil {
		httpkit.Error(c, http.StatusServiceUnavailable, "failed to queue overdue sweep", nil)
		return
	}
	httpkit.JSON(c, http.StatusAccepted, gin.H{"status": "queued"})
}
