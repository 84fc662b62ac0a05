package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"store_opening_backend/internal/trackers/service"
	"store_opening_backend/internal/trackers/transport"
	"store_opening_backend/platform/httpkit"
	"store_opening_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for the sub-workflow trackers.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest = "invalid request"
	msgInvalidID      = "invalid tracker ID"
	msgMissingFile    = "file is required"
	uploadFormField   = "file"
)

// New creates a new trackers handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// bindJSON decodes and validates a JSON body, writing the 400 itself. An
// empty body leaves req at its zero value.
func (h *Handler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationFailed(c, err)
		return false
	}
	return true
}

func (h *Handler) bindList(c *gin.Context) (transport.ListRequest, bool) {
	var req transport.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return req, false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationFailed(c, err)
		return req, false
	}
	return req, true
}

func trackerID(c *gin.Context) (uuid.UUID, bool) {
	return httpkit.ParseUUIDParam(c, "id", msgInvalidID)
}

func actor(c *gin.Context) service.Actor {
	id := httpkit.GetIdentity(c)
	return service.Actor{ID: id.UserID(), Name: id.Name()}
}

// openUpload opens the multipart file. The caller closes it.
func openUpload(c *gin.Context) (*multipart.FileHeader, multipart.File, bool) {
	header, err := c.FormFile(uploadFormField)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgMissingFile, nil)
		return nil, nil, false
	}
	file, err := header.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgMissingFile, nil)
		return nil, nil, false
	}
	return header, file, true
}

func respond(c *gin.Context, status int, result interface{}, err error) {
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, status, result)
}
