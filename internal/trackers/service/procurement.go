package service

import (
	"context"
	"io"

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

const procurementEntity = "equipment_procurement"

// CreateProcurement opens an equipment procurement in PENDING.
func (s *Service) CreateProcurement(ctx context.Context, req transport.CreateProcurementRequest) (transport.ProcurementResponse, error) {
	if err := s.requireParent(ctx, req.PreparationProjectID); err != nil {
		return transport.ProcurementResponse{}, err
	}

	now := s.now().UTC()
	unitPrice := money.FromFloat(req.UnitPrice)
	p := repository.Procurement{
		ID:                   uuid.New(),
		PreparationProjectID: req.PreparationProjectID,
		EquipmentName:        sanitize.SingleLine(req.EquipmentName),
		Category:             singleLinePtr(req.Category),
		Supplier:             singleLinePtr(req.Supplier),
		Quantity:             req.Quantity,
		UnitPrice:            unitPrice,
		TotalAmount:          unitPrice.Mul(decimal.NewFromInt(int64(req.Quantity))),
		ExpectedDeliveryDate: calendar.DateOnlyPtr(req.ExpectedDeliveryDate),
		Status:               domain.ProcurementPending,
		StatusHistory:        []domain.StatusChange{},
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.repo.CreateProcurement(ctx, p); err != nil {
		return transport.ProcurementResponse{}, err
	}

	s.log.Info("equipment procurement created", "id", p.ID, "preparationProjectId", p.PreparationProjectID)
	return s.GetProcurement(ctx, p.ID)
}

// GetProcurement retrieves an equipment procurement.
func (s *Service) GetProcurement(ctx context.Context, id uuid.UUID) (transport.ProcurementResponse, error) {
	p, err := s.repo.GetProcurement(ctx, id)
	if err != nil {
		return transport.ProcurementResponse{}, err
	}
	return toProcurementResponse(p), nil
}

// ListProcurements lists equipment procurements.
func (s *Service) ListProcurements(ctx context.Context, req transport.ListRequest) (transport.ListResponse[transport.ProcurementResponse], error) {
	params, page, limit, err := listParams(req)
	if err != nil {
		return transport.ListResponse[transport.ProcurementResponse]{}, err
	}
	items, total, err := s.repo.ListProcurements(ctx, params)
	if err != nil {
		return transport.ListResponse[transport.ProcurementResponse]{}, err
	}
	return listResponse(items, page, limit, total, toProcurementResponse), nil
}

// ChangeProcurementStatus moves a procurement through ordering and shipping,
// or cancels it before it ships.
func (s *Service) ChangeProcurementStatus(ctx context.Context, id uuid.UUID, req transport.ProcurementStatusRequest, actor Actor) (transport.ProcurementResponse, error) {
	return s.moveProcurement(ctx, id, func(current repository.Procurement) (repository.ProcurementUpdate, error) {
		if !domain.CanMoveProcurement(current.Status, req.Status) {
			return repository.ProcurementUpdate{}, apperr.BadRequestf("illegal procurement transition from %s to %s", current.Status, req.Status)
		}
		return repository.ProcurementUpdate{
			Status:   req.Status,
			Progress: domain.ProcurementProgress(req.Status),
			AppendHistory: []domain.StatusChange{
				s.statusChange(current.Status, req.Status, actor, req.Note),
			},
		}, nil
	})
}

// ConfirmDelivery records the delivery of shipped equipment and its quality inspection.
func (s *Service) ConfirmDelivery(ctx context.Context, id uuid.UUID, req transport.ConfirmDeliveryRequest, actor Actor) (transport.ProcurementResponse, error) {
	return s.moveProcurement(ctx, id, func(current repository.Procurement) (repository.ProcurementUpdate, error) {
		if !domain.CanTransitionProcurement(current.Status, domain.ProcurementDelivered) {
			return repository.ProcurementUpdate{}, apperr.BadRequest("only shipped equipment can be confirmed as delivered")
		}

		now := s.now().UTC()
		deliveredOn := calendar.DateOnly(now)
		if req.ActualDeliveryDate != nil {
			deliveredOn = calendar.DateOnly(*req.ActualDeliveryDate)
		}
		photoKeys := req.PhotoKeys
		if photoKeys == nil {
			photoKeys = []string{}
		}

		return repository.ProcurementUpdate{
			Status:             domain.ProcurementDelivered,
			Progress:           domain.ProcurementProgress(domain.ProcurementDelivered),
			ActualDeliveryDate: &deliveredOn,
			QualityInspection: &domain.QualityInspection{
				Inspector:   sanitize.SingleLine(req.Inspector),
				InspectedAt: now,
				Passed:      req.Passed,
				Score:       req.Score,
				Remarks:     sanitize.Text(req.Remarks),
				PhotoKeys:   photoKeys,
			},
			AppendHistory: []domain.StatusChange{
				s.statusChange(current.Status, domain.ProcurementDelivered, actor, req.Remarks),
			},
		}, nil
	})
}

// ConfirmInstallation records installation of delivered equipment.
func (s *Service) ConfirmInstallation(ctx context.Context, id uuid.UUID, req transport.ConfirmInstallationRequest, actor Actor) (transport.ProcurementResponse, error) {
	return s.moveProcurement(ctx, id, func(current repository.Procurement) (repository.ProcurementUpdate, error) {
		if !domain.CanTransitionProcurement(current.Status, domain.ProcurementInstalled) {
			return repository.ProcurementUpdate{}, apperr.BadRequest("only delivered equipment can be confirmed as installed")
		}
		return repository.ProcurementUpdate{
			Status:   domain.ProcurementInstalled,
			Progress: domain.ProcurementProgress(domain.ProcurementInstalled),
			AppendHistory: []domain.StatusChange{
				s.statusChange(current.Status, domain.ProcurementInstalled, actor, req.Note),
			},
		}, nil
	})
}

// UploadInspectionPhoto stores a delivery inspection photo and returns its
// key for ConfirmDelivery.
func (s *Service) UploadInspectionPhoto(ctx context.Context, id uuid.UUID, fileName, contentType string, reader io.Reader, size int64) (transport.UploadResponse, error) {
	if _, err := s.repo.GetProcurement(ctx, id); err != nil {
		return transport.UploadResponse{}, err
	}
	return s.upload(ctx, s.buckets.InspectionPhotos, "procurements/"+id.String(), fileName, contentType, reader, size)
}

func (s *Service) moveProcurement(ctx context.Context, id uuid.UUID, plan func(repository.Procurement) (repository.ProcurementUpdate, error)) (transport.ProcurementResponse, error) {
	var before, after repository.Procurement
	err := s.repo.InTx(ctx, func(tx repository.Repository) error {
		current, err := tx.LockProcurement(ctx, id)
		if err != nil {
			return err
		}
		before = current

		update, err := plan(current)
		if err != nil {
			return err
		}
		update.ID = id
		if err := tx.UpdateProcurement(ctx, update); err != nil {
			return err
		}
		after, err = tx.GetProcurement(ctx, id)
		return err
	})
	if err != nil {
		return transport.ProcurementResponse{}, err
	}

	s.recordTransition(procurementEntity, id, before.Status.String(), after.Status.String())
	return toProcurementResponse(after), nil
}

func (s *Service) statusChange(from, to domain.ProcurementStatus, actor Actor, note string) domain.StatusChange {
	return domain.StatusChange{
		From:      from,
		To:        to,
		Operator:  actor.label(),
		Note:      sanitize.Text(note),
		ChangedAt: s.now().UTC(),
	}
}

func toProcurementResponse(p repository.Procurement) transport.ProcurementResponse {
	history := p.StatusHistory
	if history == nil {
		history = []domain.StatusChange{}
	}
	return transport.ProcurementResponse{
		ID:                   p.ID,
		PreparationProjectID: p.PreparationProjectID,
		EquipmentName:        p.EquipmentName,
		Category:             p.Category,
		Supplier:             p.Supplier,
		Quantity:             p.Quantity,
		UnitPrice:            money.ToFloat(p.UnitPrice),
		TotalAmount:          money.ToFloat(p.TotalAmount),
		ExpectedDeliveryDate: p.ExpectedDeliveryDate,
		ActualDeliveryDate:   p.ActualDeliveryDate,
		Status:               p.Status,
		Progress:             p.Progress,
		QualityInspection:    p.QualityInspection,
		StatusHistory:        history,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}
