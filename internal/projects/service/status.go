package service

import (
	"context"
	"time"

	"store_opening_backend/internal/events"
	"store_opening_backend/internal/projects/domain"
	"store_opening_backend/internal/projects/repository"
	"store_opening_backend/internal/projects/transport"
	"store_opening_backend/internal/shared/calendar"
	"store_opening_backend/platform/apperr"
	"store_opening_backend/platform/metrics"

	"github.com/google/uuid"
)

const projectEntity = "preparation_project"

// ChangeStatus moves a project along one legal edge of the lifecycle.
// Validation happens before any write; the audit note, the status write and,
// for COMPLETED, the store creation and plan increment commit together.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, req transport.ChangeStatusRequest) (transport.ProjectResponse, error) {
	target, ok := domain.ParseStatus(req.Status)
	if !ok {
		return transport.ProjectResponse{}, apperr.BadRequestf("unknown status %q", req.Status)
	}

	var (
		before  repository.Project
		after   repository.Project
		storeID uuid.UUID
	)
	err := s.repo.InTx(ctx, func(tx repository.Repository) error {
		current, err := tx.GetByID(ctx, id)
		if err != nil {
			return err
		}
		before = current

		if !domain.CanTransition(current.Status, target) {
			return apperr.BadRequestf("illegal status transition from %s to %s", current.Status, target)
		}

		now := s.now().UTC()
		update := repository.StatusUpdate{
			ID:    id,
			From:  current.Status,
			To:    target,
			Notes: domain.AppendAuditNote(current.Notes, now, target, req.Reason, req.Comments),
		}

		var openDate time.Time
		switch target {
		case domain.StatusCompleted:
			openDate = calendar.DateOnly(now)
			if req.ActualOpenDate != nil {
				openDate = calendar.DateOnly(*req.ActualOpenDate)
			}
			full := 100
			update.Progress = &full
			update.ActualOpenDate = &openDate
			update.CompletedAt = &now
		case domain.StatusCancelled:
			update.CancelledAt = &now
		}

		if err := tx.UpdateStatus(ctx, update); err != nil {
			return err
		}

		if target == domain.StatusCompleted {
			storeID, err = s.applyCompletion(ctx, tx, current, openDate)
			if err != nil {
				return err
			}
		}

		after, err = tx.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return transport.ProjectResponse{}, err
	}

	metrics.StatusTransitions.WithLabelValues(projectEntity, string(before.Status), string(target)).Inc()
	s.log.StatusTransition(projectEntity, id.String(), string(before.Status), string(target))

	s.publish(ctx, events.ProjectStatusChanged{
		BaseEvent: events.NewBaseEvent(),
		ProjectID: id,
		OldStatus: string(before.Status),
		NewStatus: string(target),
		Reason:    req.Reason,
	})
	if target == domain.StatusCompleted {
		s.publish(ctx, events.ProjectCompleted{
			BaseEvent:      events.NewBaseEvent(),
			ProjectID:      id,
			ProjectCode:    after.ProjectCode,
			StoreID:        storeID,
			StorePlanID:    after.StorePlanID,
			ManagerID:      after.ManagerID,
			StoreName:      after.StoreName,
			ActualOpenDate: derefTime(after.ActualOpenDate),
		})
	}

	return s.toResponse(after), nil
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
