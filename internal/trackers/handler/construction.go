package handler

import (
	"net/http"

	"store_opening_backend/internal/trackers/transport"

	"github.com/gin-gonic/gin"
)

// ListConstructions lists construction trackers.
// GET /api/v1/construction-projects
func (h *Handler) ListConstructions(c *gin.Context) {
	req, ok := h.bindList(c)
	if !ok {
		return
	}
	result, err := h.svc.ListConstructions(c.Request.Context(), req)
	respond(c, http.StatusOK, result, err)
}

// GetConstruction retrieves one construction tracker.
// GET /api/v1/construction-projects/:id
func (h *Handler) GetConstruction(c *gin.Context) {
	id, ok := trackerID(c)
	if !ok {
		return
	}
	result, err := h.svc.GetConstruction(c.Request.Context(), id)
	respond(c, http.StatusOK, result, err)
}

// CreateConstruction opens a construction tracker.
// POST /api/v1/construction-projects
func (h *Handler) CreateConstruction(c *gin.Context) {
	var req transport.CreateConstructionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.CreateConstruction(c.Request.Context(), req)
	respond(c, http.StatusCreated, result, err)
}

// UpdateConstructionProgress records construction progress.
// PATCH /api/v1/construction-projects/:id/progress
func (h *Handler) UpdateConstructionProgress(c *gin.Context) {
	id, ok := trackerID(c)
	if !ok {
		return
	}
	var req transport.ConstructionProgressRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.UpdateConstructionProgress(c.Request.Context(), id, req, actor(c))
	respond(c, http.StatusOK, result, err)
}

// AcceptConstruction signs off a finished construction.
// POST /api/v1/construction-projects/:id/accept
func (h *Handler) AcceptConstruction(c *gin.Context) {
	id, ok := trackerID(c)
	if !ok {
		return
	}
	var req transport.AcceptConstructionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.AcceptConstruction(c.Request.Context(), id, req, actor(c))
	respond(c, http.StatusOK, result, err)
}

// ChangeConstructionStatus suspends, resumes or cancels a construction.
// POST /api/v1/construction-projects/:id/status
func (h *Handler) ChangeConstructionStatus(c *gin.Context) {
	id, ok := trackerID(c)
	if !ok {
		return
	}
	var req transport.ConstructionStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.ChangeConstructionStatus(c.Request.Context(), id, req, actor(c))
	respond(c, http.StatusOK, result, err)
}
