package handler

import (
	"net/http"

	"store_opening_backend/internal/trackers/transport"

	"github.com/gin-gonic/gin"
)

// ListProcurements lists equipment procurements.
// GET /api/v1/equipment-procurements
func (h *Handler) ListProcurements(c *gin.Context) {
	req, ok := h.bindList(c)
	if !ok {
		return
	}
	result, err := h.svc.ListProcurements(c.Request.Context(), req)
	respond(c, http.StatusOK, result, err)
}

// GetProcurement retrieves one equipment procurement.
// GET /api/v1/equipment-procurements/:id
func (h *Handler) GetProcurement(c *gin.Context) {
	id, ok := trackerID(c)
	if !ok {
		return
	}
	result, err := h.svc.GetProcurement(c.Request.Context(), id)
	respond(c, http.StatusOK, result, err)
}

// CreateProcurement opens an equipment procurement.
// POST /api/v1/equipment-procurements
func (h *Handler) CreateProcurement(c *gin.Context) {
	var req transport.CreateProcurementRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.CreateProcurement(c.Request.Context(), req)
	respond(c, http.StatusCreated, result, err)
}

// ChangeProcurementStatus moves a procurement through ordering and shipping.
// POST /api/v1/equipment-procurements/:id/status
func (h *Handler) ChangeProcurementStatus(c *gin.Context) {
	id, ok := trackerID(c)
	if !ok {
		return
	}
	var req transport.ProcurementStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.ChangeProcurementStatus(c.Request.Context(), id, req, actor(c))
	respond(c, http.StatusOK, result, err)
}

// ConfirmDelivery records delivery and quality inspection.
// POST /api/v1/equipment-procurements/:id/delivery
func (h *Handler) ConfirmDelivery(c *gin.Context) {
	id, ok := trackerID(c)
	if !ok {
		return
	}
	var req transport.ConfirmDeliveryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.ConfirmDelivery(c.Request.Context(), id, req, actor(c))
	respond(c, http.StatusOK, result, err)
}

// ConfirmInstallation records installation.
// POST /api/v1/equipment-procurements/:id/installation
func (h *Handler) ConfirmInstallation(c *gin.Context) {
	id, ok := trackerID(c)
	if !ok {
		return
	}
	var req transport.ConfirmInstallationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.ConfirmInstallation(c.Request.Context(), id, req, actor(c))
	respond(c, http.StatusOK, result, err)
}

// UploadInspectionPhoto stores a delivery inspection photo.
// POST /api/v1/equipment-procurements/:id/photos
func (h *Handler) UploadInspectionPhoto(c *gin.Context) {
	id, ok := trackerID(c)
	if !ok {
		return
	}
	header, file, ok := openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	result, err := h.svc.UploadInspectionPhoto(c.Request.Context(), id, header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	respond(c, http.StatusCreated, result, err)
}
