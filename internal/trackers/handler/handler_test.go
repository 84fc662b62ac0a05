package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"store_opening_backend/internal/trackers/domain"
	"store_opening_backend/internal/trackers/repository"
	"store_opening_backend/internal/trackers/service"
	"store_opening_backend/internal/trackers/transport"
	"store_opening_backend/platform/apperr"
	"store_opening_backend/platform/httpkit"
	"store_opening_backend/platform/logger"
	"store_opening_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRepo serves a single construction; other repository calls panic.
type stubRepo struct {
	repository.Repository
	construction repository.Construction
	accepted     *repository.ConstructionUpdate
}

func (s *stubRepo) InTx(_ context.Context, fn func(tx repository.Repository) error) error {
	return fn(s)
}

func (s *stubRepo) GetConstruction(_ context.Context, id uuid.UUID) (repository.Construction, error) {
	if id != s.construction.ID {
		return repository.Construction{}, apperr.NotFound("construction project not found")
	}
	return s.construction, nil
}

func (s *stubRepo) LockConstruction(ctx context.Context, id uuid.UUID) (repository.Construction, error) {
	return s.GetConstruction(ctx, id)
}

func (s *stubRepo) UpdateConstruction(_ context.Context, u repository.ConstructionUpdate) error {
	s.accepted = &u
	s.construction.Status = u.Status
	s.construction.Acceptance = u.Acceptance
	return nil
}

var approverID = uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")

func newTestRouter(t *testing.T, repo *stubRepo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := service.New(repo, nil, service.Buckets{}, nil, logger.Discard())
	h := New(svc, validator.New())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(httpkit.ContextUserIDKey, approverID)
		c.Set(httpkit.ContextUserNameKey, "Zhou Min")
		c.Next()
	})
	g := r.Group("/api/v1/construction-projects")
	g.GET("/:id", h.GetConstruction)
	g.POST("", h.CreateConstruction)
	g.POST("/:id/accept", h.AcceptConstruction)
	g.POST("/:id/status", h.ChangeConstructionStatus)
	return r
}

func finishedConstruction() repository.Construction {
	return repository.Construction{
		ID:                   uuid.New(),
		PreparationProjectID: uuid.New(),
		Name:                 "Interior fit-out",
		Status:               domain.ConstructionInProgress,
		Progress:             100,
		CreatedAt:            time.Now(),
		UpdatedAt:            time.Now(),
	}
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetConstructionRejectsInvalidID(t *testing.T) {
	r := newTestRouter(t, &stubRepo{construction: finishedConstruction()})

	w := doRequest(r, http.MethodGet, "/api/v1/construction-projects/not-a-uuid", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetConstructionNotFound(t *testing.T) {
	r := newTestRouter(t, &stubRepo{construction: finishedConstruction()})

	w := doRequest(r, http.MethodGet, "/api/v1/construction-projects/"+uuid.NewString(), "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateConstructionValidation(t *testing.T) {
	r := newTestRouter(t, &stubRepo{construction: finishedConstruction()})

	w := doRequest(r, http.MethodPost, "/api/v1/construction-projects", `{"name":"","contractAmount":-1}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body httpkit.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation failed", body.Error)
}

func TestAcceptConstructionStampsIdentity(t *testing.T) {
	repo := &stubRepo{construction: finishedConstruction()}
	r := newTestRouter(t, repo)

	w := doRequest(r, http.MethodPost, "/api/v1/construction-projects/"+repo.construction.ID.String()+"/accept", "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body transport.ConstructionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, domain.ConstructionCompleted, body.Status)
	require.NotNil(t, body.Acceptance)
	assert.Equal(t, approverID, body.Acceptance.AcceptedByID)
	assert.Equal(t, "Zhou Min", body.Acceptance.AcceptedByName)
}

func TestChangeConstructionStatusValidatesTarget(t *testing.T) {
	repo := &stubRepo{construction: finishedConstruction()}
	r := newTestRouter(t, repo)
	path := "/api/v1/construction-projects/" + repo.construction.ID.String() + "/status"

	w := doRequest(r, http.MethodPost, path, `{"status":"COMPLETED"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, repo.accepted)

	w = doRequest(r, http.MethodPost, path, `{"status":"SUSPENDED","reason":"Permit on hold"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body transport.ConstructionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, domain.ConstructionSuspended, body.Status)
	require.NotNil(t, repo.accepted)
	require.Len(t, repo.accepted.AppendUpdates, 1)
	assert.Equal(t, "Zhou Min", repo.accepted.AppendUpdates[0].Operator)
}
