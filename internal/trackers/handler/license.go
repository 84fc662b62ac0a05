package handler

import (
	"net/http"

	"store_opening_backend/internal/trackers/transport"

	"github.com/gin-gonic/gin"
)

// ListLicenses lists license applications.
// GET /api/v1/license-applications
func (h *Handler) ListLicenses(c *gin.Context) {
	req, ok := h.bindList(c)
	if !ok {
		return
	}
	result, err := h.svc.ListLicenses(c.Request.Context(), req)
	respond(c, http.StatusOK, result, err)
}

// GetLicense retrieves one license application.
// GET /api/v1/license-applications/:id
func (h *Handler) GetLicense(c *gin.Context) {
	id, ok := trackerID(c)
	if !ok {
		return
	}
	result, err := h.svc.GetLicense(c.Request.Context(), id)
	respond(c, http.StatusOK, result, err)
}

// CreateLicense opens a license application.
// POST /api/v1/license-applications
func (h *Handler) CreateLicense(c *gin.Context) {
	var req transport.CreateLicenseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.CreateLicense(c.Request.Context(), req)
	respond(c, http.StatusCreated, result, err)
}

// UpdateLicenseProgress records a processing step.
// PATCH /api/v1/license-applications/:id/progress
func (h *Handler) UpdateLicenseProgress(c *gin.Context) {
	id, ok := trackerID(c)
	if !ok {
		return
	}
	var req transport.LicenseProgressRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.UpdateLicenseProgress(c.Request.Context(), id, req, actor(c))
	respond(c, http.StatusOK, result, err)
}

// ConfirmIssued records an issued license.
// POST /api/v1/license-applications/:id/issued
func (h *Handler) ConfirmIssued(c *gin.Context) {
	id, ok := trackerID(c)
	if !ok {
		return
	}
	var req transport.ConfirmIssuedRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.ConfirmIssued(c.Request.Context(), id, req, actor(c))
	respond(c, http.StatusOK, result, err)
}

// UploadCertificate stores a license certificate scan.
// POST /api/v1/license-applications/:id/certificate
func (h *Handler) UploadCertificate(c *gin.Context) {
	id, ok := trackerID(c)
	if !ok {
		return
	}
	header, file, ok := openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	result, err := h.svc.UploadCertificate(c.Request.Context(), id, header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	respond(c, http.StatusCreated, result, err)
}
