package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"store_opening_backend/internal/dashboard/repository"
	"store_opening_backend/internal/dashboard/service"
	"store_opening_backend/internal/dashboard/transport"
	"store_opening_backend/platform/logger"
	"store_opening_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReader struct {
	filter repository.Filter
}

func (s *stubReader) ListProjectFacts(_ context.Context, f repository.Filter) ([]repository.ProjectFact, error) {
	s.filter = f
	return []repository.ProjectFact{
		{ID: uuid.New(), Status: "IN_PROGRESS", Progress: 30, TotalBudget: decimal.NewFromInt(1000), ActualCost: decimal.NewFromInt(400)},
	}, nil
}

func (s *stubReader) RegionNames(context.Context) (map[uuid.UUID]string, error) {
	return map[uuid.UUID]string{}, nil
}

func newTestRouter(reader *stubReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(service.New(reader, nil, logger.Discard()), validator.New())
	r := gin.New()
	r.GET("/api/v1/dashboard/preparation", h.Preparation)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestPreparationReturnsStatistics(t *testing.T) {
	reader := &stubReader{}
	region := uuid.New()
	r := newTestRouter(reader)

	w := get(r, "/api/v1/dashboard/preparation?regionIds="+region.String()+"&startDate=2025-01-01&endDate=2025-12-31")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body transport.Statistics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Overview.InProgress)
	assert.Equal(t, 0.4, body.BudgetAnalysis.UtilizationRate)
	assert.Equal(t, []uuid.UUID{region}, reader.filter.RegionIDs)
}

func TestPreparationRejectsInvalidRegion(t *testing.T) {
	w := get(newTestRouter(&stubReader{}), "/api/v1/dashboard/preparation?regionIds=north")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreparationRejectsInvalidDate(t *testing.T) {
	w := get(newTestRouter(&stubReader{}), "/api/v1/dashboard/preparation?startDate=01/02/2025")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
