package handler

import (
	"net/http"

	"store_opening_backend/internal/trackers/transport"

	"github.com/gin-gonic/gin"
)

// ListMilestones lists milestones.
// GET /api/v1/milestones
func (h *Handler) ListMilestones(c *gin.Context) {
	req, ok := h.bindList(c)
	if !ok {
		return
	}
	result, err := h.svc.ListMilestones(c.Request.Context(), req)
	respond(c, http.StatusOK, result, err)
}

// GetMilestone retrieves one milestone.
// GET /api/v1/milestones/:id
func (h *Handler) GetMilestone(c *gin.Context) {
	id, ok := trackerID(c)
	if !ok {
		return
	}
	result, err := h.svc.GetMilestone(c.Request.Context(), id)
	respond(c, http.StatusOK, result, err)
}

// CreateMilestone opens a milestone.
// POST /api/v1/milestones
func (h *Handler) CreateMilestone(c *gin.Context) {
	var req transport.CreateMilestoneRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.CreateMilestone(c.Request.Context(), req)
	respond(c, http.StatusCreated, result, err)
}

// UpdateMilestoneProgress records milestone progress.
// PATCH /api/v1/milestones/:id/progress
func (h *Handler) UpdateMilestoneProgress(c *gin.Context) {
	id, ok := trackerID(c)
	if !ok {
		return
	}
	var req transport.MilestoneProgressRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.UpdateMilestoneProgress(c.Request.Context(), id, req, actor(c))
	respond(c, http.StatusOK, result, err)
}

// ApproveMilestone approves a completed milestone.
// POST /api/v1/milestones/:id/approve
func (h *Handler) ApproveMilestone(c *gin.Context) {
	id, ok := trackerID(c)
	if !ok {
		return
	}
	var req transport.ApproveMilestoneRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.ApproveMilestone(c.Request.Context(), id, req, actor(c))
	respond(c, http.StatusOK, result, err)
}
