package service

import (
	"context"

	"store_opening_backend/internal/events"
	"store_opening_backend/internal/shared/calendar"
	"store_opening_backend/internal/trackers/domain"
	"store_opening_backend/internal/trackers/repository"
	"store_opening_backend/internal/trackers/transport"
	"store_opening_backend/platform/apperr"
	"store_opening_backend/platform/sanitize"

	"github.com/google/uuid"
)

const milestoneEntity = "milestone"

// CreateMilestone opens a milestone in PENDING with an open checklist.
func (s *Service) CreateMilestone(ctx context.Context, req transport.CreateMilestoneRequest) (transport.MilestoneResponse, error) {
	if err := s.requireParent(ctx, req.PreparationProjectID); err != nil {
		return transport.MilestoneResponse{}, err
	}

	criteria := make([]string, 0, len(req.Criteria))
	for _, c := range req.Criteria {
		criteria = append(criteria, sanitize.SingleLine(c))
	}

	now := s.now().UTC()
	m := repository.Milestone{
		ID:                   uuid.New(),
		PreparationProjectID: req.PreparationProjectID,
		Name:                 sanitize.SingleLine(req.Name),
		Description:          sanitize.TextPtr(req.Description),
		PlannedDate:          calendar.DateOnlyPtr(req.PlannedDate),
		Status:               domain.MilestonePending,
		CriteriaChecklist:    domain.NewChecklist(criteria),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.repo.CreateMilestone(ctx, m); err != nil {
		return transport.MilestoneResponse{}, err
	}

	s.log.Info("milestone created", "id", m.ID, "preparationProjectId", m.PreparationProjectID)
	return s.GetMilestone(ctx, m.ID)
}

// GetMilestone retrieves a milestone.
func (s *Service) GetMilestone(ctx context.Context, id uuid.UUID) (transport.MilestoneResponse, error) {
	m, err := s.repo.GetMilestone(ctx, id)
	if err != nil {
		return transport.MilestoneResponse{}, err
	}
	return toMilestoneResponse(m), nil
}

// ListMilestones lists milestones.
func (s *Service) ListMilestones(ctx context.Context, req transport.ListRequest) (transport.ListResponse[transport.MilestoneResponse], error) {
	params, page, limit, err := listParams(req)
	if err != nil {
		return transport.ListResponse[transport.MilestoneResponse]{}, err
	}
	items, total, err := s.repo.ListMilestones(ctx, params)
	if err != nil {
		return transport.ListResponse[transport.MilestoneResponse]{}, err
	}
	return listResponse(items, page, limit, total, toMilestoneResponse), nil
}

// UpdateMilestoneProgress records progress and ticks off criteria. A milestone
// at 100% completes; anything less puts it in progress. A completed milestone
// may still tick criteria at 100% but cannot fall back.
func (s *Service) UpdateMilestoneProgress(ctx context.Context, id uuid.UUID, req transport.MilestoneProgressRequest, actor Actor) (transport.MilestoneResponse, error) {
	var before, after repository.Milestone
	err := s.repo.InTx(ctx, func(tx repository.Repository) error {
		current, err := tx.LockMilestone(ctx, id)
		if err != nil {
			return err
		}
		before = current
		if current.Status == domain.MilestoneApproved {
			return apperr.Forbidden("milestone has already been approved")
		}

		next, ok := domain.NextMilestoneStatus(current.Status, req.Progress)
		if !ok {
			return apperr.BadRequestf("illegal milestone transition from %s to %s", current.Status, next)
		}

		now := s.now().UTC()
		update := repository.MilestoneUpdate{
			ID:        id,
			Status:    next,
			Progress:  req.Progress,
			Checklist: domain.MergeCriteria(current.CriteriaChecklist, req.CompletedCriteria, now),
			AppendUpdates: []domain.ProgressUpdate{{
				Progress:    req.Progress,
				Description: sanitize.Text(req.Description),
				Operator:    actor.label(),
				RecordedAt:  now,
			}},
		}
		if next == domain.MilestoneCompleted && current.Status != domain.MilestoneCompleted {
			completedOn := calendar.DateOnly(now)
			update.CompletedDate = &completedOn
		}

		if err := tx.UpdateMilestone(ctx, update); err != nil {
			return err
		}
		after, err = tx.GetMilestone(ctx, id)
		return err
	})
	if err != nil {
		return transport.MilestoneResponse{}, err
	}

	s.recordTransition(milestoneEntity, id, before.Status.String(), after.Status.String())
	return toMilestoneResponse(after), nil
}

// ApproveMilestone signs off a completed milestone.
func (s *Service) ApproveMilestone(ctx context.Context, id uuid.UUID, req transport.ApproveMilestoneRequest, actor Actor) (transport.MilestoneResponse, error) {
	var before, after repository.Milestone
	err := s.repo.InTx(ctx, func(tx repository.Repository) error {
		current, err := tx.LockMilestone(ctx, id)
		if err != nil {
			return err
		}
		before = current
		if !domain.CanTransitionMilestone(current.Status, domain.MilestoneApproved) {
			return apperr.BadRequest("only completed milestones can be approved")
		}

		err = tx.UpdateMilestone(ctx, repository.MilestoneUpdate{
			ID:       id,
			Status:   domain.MilestoneApproved,
			Progress: current.Progress,
			AppendApprovals: []domain.Approval{{
				ApproverID:   actor.ID,
				ApproverName: actor.label(),
				Comment:      sanitize.Text(req.Comment),
				ApprovedAt:   s.now().UTC(),
			}},
		})
		if err != nil {
			return err
		}
		after, err = tx.GetMilestone(ctx, id)
		return err
	})
	if err != nil {
		return transport.MilestoneResponse{}, err
	}

	s.recordTransition(milestoneEntity, id, before.Status.String(), after.Status.String())
	s.publish(ctx, events.MilestoneApproved{
		BaseEvent:            events.NewBaseEvent(),
		MilestoneID:          id,
		PreparationProjectID: after.PreparationProjectID,
		ApproverID:           actor.ID,
		ApproverName:         actor.label(),
	})
	return toMilestoneResponse(after), nil
}

// MarkDelayedMilestones moves open milestones past their planned date to
// DELAYED. The overdue sweep calls it.
func (s *Service) MarkDelayedMilestones(ctx context.Context) (int, error) {
	count, err := s.repo.MarkMilestonesDelayed(ctx, calendar.DateOnly(s.now()))
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.log.Info("milestones marked delayed", "count", count)
	}
	return count, nil
}

func toMilestoneResponse(m repository.Milestone) transport.MilestoneResponse {
	checklist := m.CriteriaChecklist
	if checklist == nil {
		checklist = []domain.CriterionItem{}
	}
	updates := m.ProgressUpdates
	if updates == nil {
		updates = []domain.ProgressUpdate{}
	}
	approvals := m.Approvals
	if approvals == nil {
		approvals = []domain.Approval{}
	}
	return transport.MilestoneResponse{
		ID:                   m.ID,
		PreparationProjectID: m.PreparationProjectID,
		Name:                 m.Name,
		Description:          m.Description,
		PlannedDate:          m.PlannedDate,
		CompletedDate:        m.CompletedDate,
		Status:               m.Status,
		Progress:             m.Progress,
		CriteriaChecklist:    checklist,
		ProgressUpdates:      updates,
		Approvals:            approvals,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}
