package handler

import (
	"net/http"

	"store_opening_backend/internal/dashboard/service"
	"store_opening_backend/internal/dashboard/transport"
	"store_opening_backend/platform/httpkit"
	"store_opening_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// Handler serves the dashboard endpoints.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new dashboard handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Preparation returns the preparation project statistics.
// GET /api/v1/dashboard/preparation
func (h *Handler) Preparation(c *gin.Context) {
	var req transport.StatisticsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationFailed(c, err)
		return
	}

	result, err := h.svc.Statistics(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
