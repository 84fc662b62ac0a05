package service

import (
	"context"

	"store_opening_backend/internal/shared/calendar"
	"store_opening_backend/internal/trackers/domain"
	"store_opening_backend/internal/trackers/repository"
	"store_opening_backend/internal/trackers/transport"
	"store_opening_backend/platform/apperr"
	"store_opening_backend/platform/money"
	"store_opening_backend/platform/sanitize"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const constructionEntity = "construction_project"

// CreateConstruction opens a construction tracker in PLANNED.
func (s *Service) CreateConstruction(ctx context.Context, req transport.CreateConstructionRequest) (transport.ConstructionResponse, error) {
	if err := s.requireParent(ctx, req.PreparationProjectID); err != nil {
		return transport.ConstructionResponse{}, err
	}
	if req.PlannedStartDate != nil && req.PlannedEndDate != nil && req.PlannedEndDate.Before(*req.PlannedStartDate) {
		return transport.ConstructionResponse{}, apperr.BadRequest("planned end date is before planned start date")
	}

	now := s.now().UTC()
	c := repository.Construction{
		ID:                   uuid.New(),
		PreparationProjectID: req.PreparationProjectID,
		Name:                 sanitize.SingleLine(req.Name),
		Contractor:           singleLinePtr(req.Contractor),
		ContractAmount:       money.FromFloat(req.ContractAmount),
		ActualAmount:         decimal.Zero,
		PlannedStartDate:     calendar.DateOnlyPtr(req.PlannedStartDate),
		PlannedEndDate:       calendar.DateOnlyPtr(req.PlannedEndDate),
		Status:               domain.ConstructionPlanned,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.repo.CreateConstruction(ctx, c); err != nil {
		return transport.ConstructionResponse{}, err
	}

	s.log.Info("construction project created", "id", c.ID, "preparationProjectId", c.PreparationProjectID)
	return s.GetConstruction(ctx, c.ID)
}

// GetConstruction retrieves a construction tracker.
func (s *Service) GetConstruction(ctx context.Context, id uuid.UUID) (transport.ConstructionResponse, error) {
	c, err := s.repo.GetConstruction(ctx, id)
	if err != nil {
		return transport.ConstructionResponse{}, err
	}
	return toConstructionResponse(c), nil
}

// ListConstructions lists construction trackers.
func (s *Service) ListConstructions(ctx context.Context, req transport.ListRequest) (transport.ListResponse[transport.ConstructionResponse], error) {
	params, page, limit, err := listParams(req)
	if err != nil {
		return transport.ListResponse[transport.ConstructionResponse]{}, err
	}
	items, total, err := s.repo.ListConstructions(ctx, params)
	if err != nil {
		return transport.ListResponse[transport.ConstructionResponse]{}, err
	}
	return listResponse(items, page, limit, total, toConstructionResponse), nil
}

// UpdateConstructionProgress records progress on an open construction. The
// first progress above zero starts a PLANNED construction.
func (s *Service) UpdateConstructionProgress(ctx context.Context, id uuid.UUID, req transport.ConstructionProgressRequest, actor Actor) (transport.ConstructionResponse, error) {
	var before, after repository.Construction
	err := s.repo.InTx(ctx, func(tx repository.Repository) error {
		current, err := tx.LockConstruction(ctx, id)
		if err != nil {
			return err
		}
		before = current
		if current.Status.IsTerminal() {
			return apperr.Forbidden("construction project is " + current.Status.String() + " and no longer accepts progress")
		}
		if current.Status == domain.ConstructionSuspended {
			return apperr.BadRequest("construction project is suspended; resume it before reporting progress")
		}

		update := repository.ConstructionUpdate{
			ID:           id,
			Status:       domain.NextConstructionStatus(current.Status, req.Progress),
			Progress:     req.Progress,
			ActualAmount: money.FromFloatPtr(req.ActualAmount),
		}
		entry := domain.ProgressUpdate{
			Progress:   req.Progress,
			Operator:   actor.label(),
			RecordedAt: s.now().UTC(),
		}
		if req.ProgressDescription != nil {
			description := sanitize.Text(*req.ProgressDescription)
			update.ProgressDescription = &description
			entry.Description = description
		}
		update.AppendUpdates = []domain.ProgressUpdate{entry}

		if err := tx.UpdateConstruction(ctx, update); err != nil {
			return err
		}
		after, err = tx.GetConstruction(ctx, id)
		return err
	})
	if err != nil {
		return transport.ConstructionResponse{}, err
	}

	s.recordTransition(constructionEntity, id, before.Status.String(), after.Status.String())
	return toConstructionResponse(after), nil
}

// AcceptConstruction signs off a construction that reached 100%.
func (s *Service) AcceptConstruction(ctx context.Context, id uuid.UUID, req transport.AcceptConstructionRequest, actor Actor) (transport.ConstructionResponse, error) {
	var before, after repository.Construction
	err := s.repo.InTx(ctx, func(tx repository.Repository) error {
		current, err := tx.LockConstruction(ctx, id)
		if err != nil {
			return err
		}
		before = current
		if !domain.CanTransitionConstruction(current.Status, domain.ConstructionCompleted) || current.Progress < 100 {
			return apperr.BadRequest("construction can only be accepted when in progress at 100%")
		}

		err = tx.UpdateConstruction(ctx, repository.ConstructionUpdate{
			ID:       id,
			Status:   domain.ConstructionCompleted,
			Progress: 100,
			Acceptance: &domain.Acceptance{
				AcceptedByID:   actor.ID,
				AcceptedByName: actor.label(),
				Remarks:        sanitize.Text(req.Remarks),
				AcceptedAt:     s.now().UTC(),
			},
		})
		if err != nil {
			return err
		}
		after, err = tx.GetConstruction(ctx, id)
		return err
	})
	if err != nil {
		return transport.ConstructionResponse{}, err
	}

	s.recordTransition(constructionEntity, id, before.Status.String(), after.Status.String())
	return toConstructionResponse(after), nil
}

// ChangeConstructionStatus suspends, resumes or cancels a construction. The
// reason is kept in the progress log at the current progress.
func (s *Service) ChangeConstructionStatus(ctx context.Context, id uuid.UUID, req transport.ConstructionStatusRequest, actor Actor) (transport.ConstructionResponse, error) {
	if req.Status == domain.ConstructionCompleted {
		return transport.ConstructionResponse{}, apperr.BadRequest("constructions complete through acceptance")
	}

	var before, after repository.Construction
	err := s.repo.InTx(ctx, func(tx repository.Repository) error {
		current, err := tx.LockConstruction(ctx, id)
		if err != nil {
			return err
		}
		before = current
		if !domain.CanTransitionConstruction(current.Status, req.Status) {
			return apperr.BadRequestf("illegal construction transition from %s to %s", current.Status, req.Status)
		}

		description := req.Status.String()
		if reason := sanitize.Text(req.Reason); reason != "" {
			description += ": " + reason
		}
		err = tx.UpdateConstruction(ctx, repository.ConstructionUpdate{
			ID:       id,
			Status:   req.Status,
			Progress: current.Progress,
			AppendUpdates: []domain.ProgressUpdate{{
				Progress:    current.Progress,
				Description: description,
				Operator:    actor.label(),
				RecordedAt:  s.now().UTC(),
			}},
		})
		if err != nil {
			return err
		}
		after, err = tx.GetConstruction(ctx, id)
		return err
	})
	if err != nil {
		return transport.ConstructionResponse{}, err
	}

	s.recordTransition(constructionEntity, id, before.Status.String(), after.Status.String())
	return toConstructionResponse(after), nil
}

func toConstructionResponse(c repository.Construction) transport.ConstructionResponse {
	updates := c.ProgressUpdates
	if updates == nil {
		updates = []domain.ProgressUpdate{}
	}
	return transport.ConstructionResponse{
		ID:                   c.ID,
		PreparationProjectID: c.PreparationProjectID,
		Name:                 c.Name,
		Contractor:           c.Contractor,
		ContractAmount:       money.ToFloat(c.ContractAmount),
		ActualAmount:         money.ToFloat(c.ActualAmount),
		PlannedStartDate:     c.PlannedStartDate,
		PlannedEndDate:       c.PlannedEndDate,
		Status:               c.Status,
		Progress:             c.Progress,
		ProgressDescription:  c.ProgressDescription,
		ProgressUpdates:      updates,
		Acceptance:           c.Acceptance,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
	}
}
