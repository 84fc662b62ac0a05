package handler

import (
	"net/http"

	"store_opening_backend/internal/projects/service"
	"store_opening_backend/internal/projects/transport"
	"store_opening_backend/platform/httpkit"
	"store_opening_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for preparation projects.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest = "invalid request"
	msgInvalidID      = "invalid preparation project ID"
)

// New creates a new preparation projects handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// List retrieves projects with filters and pagination.
// GET /api/v1/preparation-projects
func (h *Handler) List(c *gin.Context) {
	var req transport.ListProjectsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationFailed(c, err)
		return
	}

	result, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetByID retrieves one project.
// GET /api/v1/preparation-projects/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := httpkit.ParseUUIDParam(c, "id", msgInvalidID)
	if !ok {
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Create creates a new project.
// POST /api/v1/preparation-projects
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationFailed(c, err)
		return
	}

	result, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// Update applies a partial update.
// PUT /api/v1/preparation-projects/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := httpkit.ParseUUIDParam(c, "id", msgInvalidID)
	if !ok {
		return
	}
	var req transport.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationFailed(c, err)
		return
	}

	result, err := h.svc.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ChangeStatus moves a project along its lifecycle.
// POST /api/v1/preparation-projects/:id/status
func (h *Handler) ChangeStatus(c *gin.Context) {
	id, ok := httpkit.ParseUUIDParam(c, "id", msgInvalidID)
	if !ok {
		return
	}
	var req transport.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationFailed(c, err)
		return
	}

	result, err := h.svc.ChangeStatus(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Batch applies one action to many projects and reports per-item failures.
// POST /api/v1/preparation-projects/batch
func (h *Handler) Batch(c *gin.Context) {
	var req transport.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationFailed(c, err)
		return
	}

	result, err := h.svc.Batch(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
