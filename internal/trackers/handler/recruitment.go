package handler

import (
	"net/http"

	"store_opening_backend/internal/trackers/transport"

	"github.com/gin-gonic/gin"
)

// ListRecruitments lists staff recruitments.
// GET /api/v1/staff-recruitments
func (h *Handler) ListRecruitments(c *gin.Context) {
	req, ok := h.bindList(c)
	if !ok {
		return
	}
	result, err := h.svc.ListRecruitments(c.Request.Context(), req)
	respond(c, http.StatusOK, result, err)
}

// GetRecruitment retrieves one staff recruitment.
// GET /api/v1/staff-recruitments/:id
func (h *Handler) GetRecruitment(c *gin.Context) {
	id, ok := trackerID(c)
	if !ok {
		return
	}
	result, err := h.svc.GetRecruitment(c.Request.Context(), id)
	respond(c, http.StatusOK, result, err)
}

// CreateRecruitment opens a staff recruitment.
// POST /api/v1/staff-recruitments
func (h *Handler) CreateRecruitment(c *gin.Context) {
	var req transport.CreateRecruitmentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.CreateRecruitment(c.Request.Context(), req)
	respond(c, http.StatusCreated, result, err)
}

// UpdateInterviewResult records an interview round.
// POST /api/v1/staff-recruitments/:id/interviews
func (h *Handler) UpdateInterviewResult(c *gin.Context) {
	id, ok := trackerID(c)
	if !ok {
		return
	}
	var req transport.InterviewResultRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.UpdateInterviewResult(c.Request.Context(), id, req, actor(c))
	respond(c, http.StatusOK, result, err)
}

// RecordOffer records an offer.
// POST /api/v1/staff-recruitments/:id/offers
func (h *Handler) RecordOffer(c *gin.Context) {
	id, ok := trackerID(c)
	if !ok {
		return
	}
	var req transport.OfferRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.RecordOffer(c.Request.Context(), id, req)
	respond(c, http.StatusOK, result, err)
}

// ConfirmOnboard records candidates who joined.
// POST /api/v1/staff-recruitments/:id/onboard
func (h *Handler) ConfirmOnboard(c *gin.Context) {
	id, ok := trackerID(c)
	if !ok {
		return
	}
	var req transport.ConfirmOnboardRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.ConfirmOnboard(c.Request.Context(), id, req)
	respond(c, http.StatusOK, result, err)
}

// CancelRecruitment closes a recruitment without filling it.
// POST /api/v1/staff-recruitments/:id/cancel
func (h *Handler) CancelRecruitment(c *gin.Context) {
	id, ok := trackerID(c)
	if !ok {
		return
	}
	var req transport.CancelRecruitmentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.CancelRecruitment(c.Request.Context(), id, req, actor(c))
	respond(c, http.StatusOK, result, err)
}
