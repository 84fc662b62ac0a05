package service

import (
	"context"
	"fmt"

	"store_opening_backend/internal/projects/transport"
	"store_opening_backend/platform/apperr"
	"store_opening_backend/platform/metrics"

	"github.com/google/uuid"
)

// Batch applies one action to every id in input order. Items are processed
// sequentially and a failing item never stops the ones after it; each failure
// is reported as "ID <id>: <message>".
func (s *Service) Batch(ctx context.Context, req transport.BatchRequest) (transport.BatchResult, error) {
	if req.Action != transport.BatchActionChangeStatus {
		return transport.BatchResult{}, apperr.BadRequestf("unsupported batch action %q", req.Action)
	}

	result := transport.BatchResult{Errors: make([]string, 0)}
	for _, rawID := range req.IDs {
		if err := s.changeStatusByRawID(ctx, rawID, req.ActionData); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("ID %s: %s", rawID, err.Error()))
			metrics.BatchItems.WithLabelValues(req.Action, "failed").Inc()
			continue
		}
		result.Success++
		metrics.BatchItems.WithLabelValues(req.Action, "success").Inc()
	}

	s.log.BatchCompleted(req.Action, result.Success, result.Failed)
	return result, nil
}

func (s *Service) changeStatusByRawID(ctx context.Context, rawID string, data transport.ChangeStatusRequest) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return apperr.BadRequest("invalid project id")
	}
	_, err = s.ChangeStatus(ctx, id, data)
	return err
}
