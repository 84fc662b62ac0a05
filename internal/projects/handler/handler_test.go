package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"store_opening_backend/internal/projects/domain"
	"store_opening_backend/internal/projects/repository"
	"store_opening_backend/internal/projects/service"
	"store_opening_backend/internal/projects/transport"
	"store_opening_backend/platform/apperr"
	"store_opening_backend/platform/logger"
	"store_opening_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRepo serves a single project; any other repository call panics.
type stubRepo struct {
	repository.Repository
	project repository.Project
}

func (s *stubRepo) InTx(_ context.Context, fn func(tx repository.Repository) error) error {
	return fn(s)
}

func (s *stubRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Project, error) {
	if id != s.project.ID {
		return repository.Project{}, apperr.NotFound("preparation project not found")
	}
	return s.project, nil
}

func newTestRouter(t *testing.T, project repository.Project) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := service.New(&stubRepo{project: project}, nil, logger.Discard())
	val := validator.New()
	transport.RegisterValidations(val)
	h := New(svc, val)

	r := gin.New()
	g := r.Group("/api/v1/preparation-projects")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.POST("/batch", h.Batch)
	g.GET("/:id", h.GetByID)
	g.POST("/:id/status", h.ChangeStatus)
	return r
}

func planningProject() repository.Project {
	return repository.Project{
		ID:           uuid.New(),
		ProjectCode:  "PP-2025-SH-0001",
		StoreName:    "Pudong",
		StoreAddress: "1 Century Avenue",
		StoreType:    domain.StoreTypeStandard,
		Status:       domain.StatusPlanning,
		Priority:     domain.PriorityMedium,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestGetByID(t *testing.T) {
	p := planningProject()
	r := newTestRouter(t, p)

	w := doRequest(r, http.MethodGet, "/api/v1/preparation-projects/"+p.ID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "PP-2025-SH-0001", body["projectCode"])
	assert.Equal(t, "PLANNING", body["status"])

	w = doRequest(r, http.MethodGet, "/api/v1/preparation-projects/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "preparation project not found", decodeError(t, w)["error"])

	w = doRequest(r, http.MethodGet, "/api/v1/preparation-projects/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChangeStatusIllegalTransition(t *testing.T) {
	p := planningProject()
	r := newTestRouter(t, p)

	w := doRequest(r, http.MethodPost, "/api/v1/preparation-projects/"+p.ID.String()+"/status", `{"status":"COMPLETED"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "illegal status transition from PLANNING to COMPLETED", decodeError(t, w)["error"])
}

func TestChangeStatusValidation(t *testing.T) {
	p := planningProject()
	r := newTestRouter(t, p)

	w := doRequest(r, http.MethodPost, "/api/v1/preparation-projects/"+p.ID.String()+"/status", `{"status":"DONE"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "validation failed", body["error"])
	assert.Contains(t, body["details"], "status: projectstatus")
}

func TestCreateValidation(t *testing.T) {
	r := newTestRouter(t, planningProject())

	w := doRequest(r, http.MethodPost, "/api/v1/preparation-projects", `{"storeName":"X","storeType":"MEGA"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation failed", decodeError(t, w)["error"])

	w = doRequest(r, http.MethodPost, "/api/v1/preparation-projects", `{`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request", decodeError(t, w)["error"])
}

func TestBatchUnknownAction(t *testing.T) {
	p := planningProject()
	r := newTestRouter(t, p)

	w := doRequest(r, http.MethodPost, "/api/v1/preparation-projects/batch",
		`{"ids":["`+p.ID.String()+`"],"action":"archive"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, `unsupported batch action "archive"`, decodeError(t, w)["error"])
}

func TestBatchReportsPerItemErrors(t *testing.T) {
	p := planningProject()
	r := newTestRouter(t, p)

	w := doRequest(r, http.MethodPost, "/api/v1/preparation-projects/batch",
		`{"ids":["`+p.ID.String()+`","bogus"],"action":"changeStatus","actionData":{"status":"COMPLETED"}}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		Success int      `json:"success"`
		Failed  int      `json:"failed"`
		Errors  []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 0, result.Success)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, []string{
		"ID " + p.ID.String() + ": illegal status transition from PLANNING to COMPLETED",
		"ID bogus: invalid project id",
	}, result.Errors)
}
