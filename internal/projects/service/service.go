// Package service implements the preparation project state machine and the
// operations layered on it: completion side effects, batch changes and the
// overdue sweep.
package service

import (
	"context"
	"strings"
	"time"

	"store_opening_backend/internal/events"
	"store_opening_backend/internal/projects/domain"
	"store_opening_backend/internal/projects/repository"
	"store_opening_backend/internal/projects/transport"
	"store_opening_backend/internal/shared/calendar"
	"store_opening_backend/internal/shared/pagination"
	"store_opening_backend/platform/apperr"
	"store_opening_backend/platform/logger"
	"store_opening_backend/platform/money"
	"store_opening_backend/platform/sanitize"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service provides business logic for preparation projects.
type Service struct {
	repo     repository.Repository
	eventBus events.Bus
	log      *logger.Logger
	now      func() time.Time
}

// New creates a new preparation project service.
func New(repo repository.Repository, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, eventBus: eventBus, log: log, now: time.Now}
}

// GetByID retrieves a project with its relations.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.ProjectResponse, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ProjectResponse{}, err
	}
	return s.toResponse(p), nil
}

// List retrieves projects with filters and pagination.
func (s *Service) List(ctx context.Context, req transport.ListProjectsRequest) (transport.ProjectListResponse, error) {
	page, limit := pagination.Normalize(req.Page, req.Limit)

	params := repository.ListParams{
		Status:    optionalString(req.Status),
		Priority:  optionalString(req.Priority),
		StoreType: optionalString(req.StoreType),
		Keyword:   req.Keyword,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
		Offset:    pagination.Offset(page, limit),
		Limit:     limit,
	}
	if req.RegionID != "" {
		regionID, err := uuid.Parse(req.RegionID)
		if err != nil {
			return transport.ProjectListResponse{}, apperr.BadRequest("invalid region id")
		}
		params.RegionID = &regionID
	}

	items, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.ProjectListResponse{}, err
	}

	resp := transport.ProjectListResponse{
		Items:      make([]transport.ProjectResponse, 0, len(items)),
		Pagination: pagination.New(page, limit, total),
	}
	for _, p := range items {
		resp.Items = append(resp.Items, s.toResponse(p))
	}
	return resp, nil
}

// Create validates the references and the store-name rule, then persists a
// new project in PLANNING with a freshly allocated project code.
func (s *Service) Create(ctx context.Context, req transport.CreateProjectRequest) (transport.ProjectResponse, error) {
	storeName := sanitize.SingleLine(req.StoreName)
	storeAddress := sanitize.SingleLine(req.StoreAddress)
	if storeName == "" || storeAddress == "" {
		return transport.ProjectResponse{}, apperr.Validation("store name and address are required")
	}

	region, err := s.requireRegion(ctx, req.RegionID)
	if err != nil {
		return transport.ProjectResponse{}, err
	}
	if err := s.requireApprovedPlan(ctx, req.StorePlanID); err != nil {
		return transport.ProjectResponse{}, err
	}
	if err := s.requireActiveManager(ctx, req.ManagerID); err != nil {
		return transport.ProjectResponse{}, err
	}
	if err := s.ensureStoreNameAvailable(ctx, req.RegionID, storeName, nil); err != nil {
		return transport.ProjectResponse{}, err
	}

	priority := domain.PriorityMedium
	if req.Priority != nil {
		priority = *req.Priority
	}

	now := s.now().UTC()
	project := repository.Project{
		ID:               uuid.New(),
		RegionID:         req.RegionID,
		StorePlanID:      req.StorePlanID,
		ManagerID:        req.ManagerID,
		StoreName:        storeName,
		StoreAddress:     storeAddress,
		StoreType:        req.StoreType,
		Description:      sanitize.TextPtr(req.Description),
		PlanningArea:     money.FromFloatPtr(req.PlanningArea),
		TotalBudget:      money.FromFloat(req.TotalBudget),
		ActualCost:       decimal.Zero,
		ExpectedOpenDate: calendar.DateOnlyPtr(req.ExpectedOpenDate),
		Status:           domain.StatusPlanning,
		Priority:         priority,
		Progress:         0,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	var created repository.Project
	err = s.repo.InTx(ctx, func(tx repository.Repository) error {
		token := domain.RegionToken(region.Code)
		seq, err := tx.NextSequence(ctx, now.Year(), token)
		if err != nil {
			return err
		}
		project.ProjectCode = domain.FormatProjectCode(now.Year(), token, seq)
		if err := tx.Create(ctx, project); err != nil {
			return err
		}
		created, err = tx.GetByID(ctx, project.ID)
		return err
	})
	if err != nil {
		return transport.ProjectResponse{}, err
	}

	s.log.Info("preparation project created", "id", created.ID, "code", created.ProjectCode, "regionId", created.RegionID)
	s.publish(ctx, events.ProjectCreated{
		BaseEvent:   events.NewBaseEvent(),
		ProjectID:   created.ID,
		ProjectCode: created.ProjectCode,
		RegionID:    created.RegionID,
		ManagerID:   created.ManagerID,
		StoreName:   created.StoreName,
	})
	return s.toResponse(created), nil
}

// Update applies the provided fields. Completed and cancelled projects are read-only.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateProjectRequest) (transport.ProjectResponse, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ProjectResponse{}, err
	}
	if current.Status.IsTerminal() {
		return transport.ProjectResponse{}, apperr.Forbidden("cannot update a " + strings.ToLower(string(current.Status)) + " preparation project")
	}

	params := repository.UpdateParams{
		ID:               id,
		ExpectedStatus:   current.Status,
		StoreAddress:     singleLinePtr(req.StoreAddress),
		StoreType:        req.StoreType,
		Description:      sanitize.TextPtr(req.Description),
		PlanningArea:     money.FromFloatPtr(req.PlanningArea),
		TotalBudget:      money.FromFloatPtr(req.TotalBudget),
		ActualCost:       money.FromFloatPtr(req.ActualCost),
		ExpectedOpenDate: calendar.DateOnlyPtr(req.ExpectedOpenDate),
		Priority:         req.Priority,
		Progress:         req.Progress,
	}

	if req.StoreName != nil {
		name := sanitize.SingleLine(*req.StoreName)
		if name == "" {
			return transport.ProjectResponse{}, apperr.Validation("store name cannot be empty")
		}
		if !strings.EqualFold(name, current.StoreName) {
			if err := s.ensureStoreNameAvailable(ctx, current.RegionID, name, &id); err != nil {
				return transport.ProjectResponse{}, err
			}
		}
		params.StoreName = &name
	}
	if req.ManagerID != nil && *req.ManagerID != current.ManagerID {
		if err := s.requireActiveManager(ctx, *req.ManagerID); err != nil {
			return transport.ProjectResponse{}, err
		}
		params.ManagerID = req.ManagerID
	}

	var updated repository.Project
	err = s.repo.InTx(ctx, func(tx repository.Repository) error {
		if err := tx.Update(ctx, params); err != nil {
			return err
		}
		updated, err = tx.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return transport.ProjectResponse{}, err
	}

	s.log.Info("preparation project updated", "id", id)
	s.publish(ctx, events.ProjectUpdated{BaseEvent: events.NewBaseEvent(), ProjectID: id})
	return s.toResponse(updated), nil
}

func (s *Service) requireRegion(ctx context.Context, id uuid.UUID) (repository.Region, error) {
	region, err := s.repo.GetRegion(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return repository.Region{}, apperr.BadRequest("region does not exist")
		}
		return repository.Region{}, err
	}
	if !region.IsActive {
		return repository.Region{}, apperr.BadRequest("region is not active")
	}
	return region, nil
}

func (s *Service) requireApprovedPlan(ctx context.Context, id uuid.UUID) error {
	plan, err := s.repo.GetStorePlan(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return apperr.BadRequest("store plan does not exist")
		}
		return err
	}
	if !domain.IsApprovedPlanStatus(plan.Status) {
		return apperr.BadRequest("store plan is not approved")
	}
	return nil
}

func (s *Service) requireActiveManager(ctx context.Context, id uuid.UUID) error {
	manager, err := s.repo.GetManager(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return apperr.BadRequest("manager does not exist")
		}
		return err
	}
	if !manager.IsActive {
		return apperr.BadRequest("manager is not active")
	}
	return nil
}

func (s *Service) ensureStoreNameAvailable(ctx context.Context, regionID uuid.UUID, name string, excludeID *uuid.UUID) error {
	exists, err := s.repo.ActiveNameExists(ctx, regionID, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return apperr.Conflict("a preparation project with this store name already exists in the region")
	}
	return nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, event)
	}
}

func (s *Service) toResponse(p repository.Project) transport.ProjectResponse {
	return transport.ProjectResponse{
		ID:               p.ID,
		ProjectCode:      p.ProjectCode,
		RegionID:         p.RegionID,
		StorePlanID:      p.StorePlanID,
		ManagerID:        p.ManagerID,
		StoreName:        p.StoreName,
		StoreAddress:     p.StoreAddress,
		StoreType:        p.StoreType,
		Description:      p.Description,
		PlanningArea:     money.ToFloatPtr(p.PlanningArea),
		TotalBudget:      money.ToFloat(p.TotalBudget),
		ActualCost:       money.ToFloat(p.ActualCost),
		ExpectedOpenDate: p.ExpectedOpenDate,
		ActualOpenDate:   p.ActualOpenDate,
		Status:           string(p.Status),
		Priority:         p.Priority,
		Progress:         p.Progress,
		Notes:            p.Notes,
		IsOverdue:        domain.IsOverdue(p.Status, p.ExpectedOpenDate, s.now()),
		CompletedAt:      p.CompletedAt,
		CancelledAt:      p.CancelledAt,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
		Region:           transport.RegionRef{ID: p.RegionID, Name: p.RegionName, Code: p.RegionCode},
		StorePlan:        transport.StorePlanRef{ID: p.StorePlanID, Name: p.StorePlanName},
		Manager:          transport.ManagerRef{ID: p.ManagerID, Name: p.ManagerName, Email: p.ManagerEmail},
	}
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func singleLinePtr(v *string) *string {
	if v == nil {
		return nil
	}
	out := sanitize.SingleLine(*v)
	return &out
}

