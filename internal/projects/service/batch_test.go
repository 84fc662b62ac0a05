package service

import (
	"context"
	"strings"
	"testing"

	"store_opening_backend/internal/projects/domain"
	"store_opening_backend/internal/projects/transport"
	"store_opening_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchIsolatesFailures(t *testing.T) {
	f := newFixture(t)
	ok1 := f.seed(t, "A", domain.StatusInProgress)
	done := f.seed(t, "B", domain.StatusCompleted)
	ok2 := f.seed(t, "C", domain.StatusPaused)
	missing := uuid.New()

	ids := []string{ok1.String(), done.String(), "not-a-uuid", ok2.String(), missing.String()}
	result, err := f.svc.Batch(context.Background(), transport.BatchRequest{
		IDs:        ids,
		Action:     transport.BatchActionChangeStatus,
		ActionData: transport.ChangeStatusRequest{Status: "CANCELLED", Reason: "region restructured"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Success)
	assert.Equal(t, 3, result.Failed)
	require.Len(t, result.Errors, 3)

	assert.True(t, strings.HasPrefix(result.Errors[0], "ID "+done.String()+": "))
	assert.Contains(t, result.Errors[0], "illegal status transition from COMPLETED to CANCELLED")
	assert.Equal(t, "ID not-a-uuid: invalid project id", result.Errors[1])
	assert.Equal(t, "ID "+missing.String()+": preparation project not found", result.Errors[2])

	assert.Equal(t, domain.StatusCancelled, f.repo.projects[ok1].Status)
	assert.Equal(t, domain.StatusCancelled, f.repo.projects[ok2].Status)
	assert.Equal(t, domain.StatusCompleted, f.repo.projects[done].Status)
}

func TestBatchFailurePositionDoesNotMatter(t *testing.T) {
	for pos := 0; pos < 4; pos++ {
		f := newFixture(t)
		ids := make([]string, 0, 4)
		for i := 0; i < 4; i++ {
			status := domain.StatusInProgress
			if i == pos {
				status = domain.StatusCancelled
			}
			ids = append(ids, f.seed(t, "S"+string(rune('A'+i)), status).String())
		}

		result, err := f.svc.Batch(context.Background(), transport.BatchRequest{
			IDs:        ids,
			Action:     transport.BatchActionChangeStatus,
			ActionData: transport.ChangeStatusRequest{Status: "PAUSED"},
		})
		require.NoError(t, err)
		assert.Equal(t, 3, result.Success)
		assert.Equal(t, 1, result.Failed)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], ids[pos])
	}
}

func TestBatchCompletionsEachOpenAStore(t *testing.T) {
	f := newFixture(t)
	a := f.seed(t, "A", domain.StatusInProgress)
	b := f.seed(t, "B", domain.StatusInProgress)

	result, err := f.svc.Batch(context.Background(), transport.BatchRequest{
		IDs:        []string{a.String(), b.String()},
		Action:     transport.BatchActionChangeStatus,
		ActionData: transport.ChangeStatusRequest{Status: "COMPLETED"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Success)
	assert.Len(t, f.repo.stores, 2)
	assert.Equal(t, 2, f.repo.plans[f.planID].CompletedCount)
}

func TestBatchUnknownAction(t *testing.T) {
	f := newFixture(t)
	id := f.seed(t, "A", domain.StatusInProgress)

	_, err := f.svc.Batch(context.Background(), transport.BatchRequest{
		IDs:    []string{id.String()},
		Action: "delete",
	})
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
	assert.Equal(t, domain.StatusInProgress, f.repo.projects[id].Status)
}
