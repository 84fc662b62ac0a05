// Package service implements the sub-workflow trackers of a preparation
// project. Each mutation locks its row, validates the tracker's own status
// rules and appends to the tracker's history logs in one transaction.
package service

import (
	"context"
	"time"

	"store_opening_backend/internal/adapters/storage"
	"store_opening_backend/internal/events"
	"store_opening_backend/internal/shared/pagination"
	"store_opening_backend/internal/trackers/repository"
	"store_opening_backend/internal/trackers/transport"
	"store_opening_backend/platform/apperr"
	"store_opening_backend/platform/logger"
	"store_opening_backend/platform/metrics"
	"store_opening_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Actor is the authenticated user performing an operation. Its name is
// stamped onto history records.
type Actor struct {
	ID   uuid.UUID
	Name string
}

func (a Actor) label() string {
	if a.Name != "" {
		return a.Name
	}
	if a.ID != uuid.Nil {
		return a.ID.String()
	}
	return "system"
}

// Buckets names the object storage buckets used for uploads.
type Buckets struct {
	Certificates     string
	InspectionPhotos string
}

// Service provides business logic for the trackers.
type Service struct {
	repo     repository.Repository
	storage  storage.StorageService
	buckets  Buckets
	eventBus events.Bus
	log      *logger.Logger
	now      func() time.Time
}

// New creates a new trackers service. store may be nil when object storage
// is not configured; uploads then fail with a bad request.
func New(repo repository.Repository, store storage.StorageService, buckets Buckets, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		storage:  store,
		buckets:  buckets,
		eventBus: eventBus,
		log:      log,
		now:      time.Now,
	}
}

func (s *Service) requireParent(ctx context.Context, projectID uuid.UUID) error {
	exists, err := s.repo.ProjectExists(ctx, projectID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.BadRequest("preparation project does not exist")
	}
	return nil
}

func listParams(req transport.ListRequest) (repository.ListParams, int, int, error) {
	page, limit := pagination.Normalize(req.Page, req.Limit)
	params := repository.ListParams{
		Keyword:   req.Keyword,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
		Offset:    pagination.Offset(page, limit),
		Limit:     limit,
	}
	if req.Status != "" {
		status := req.Status
		params.Status = &status
	}
	if req.PreparationProjectID != "" {
		projectID, err := uuid.Parse(req.PreparationProjectID)
		if err != nil {
			return repository.ListParams{}, 0, 0, apperr.BadRequest("invalid preparation project id")
		}
		params.PreparationProjectID = &projectID
	}
	return params, page, limit, nil
}

func listResponse[R any, T any](items []R, page, limit, total int, convert func(R) T) transport.ListResponse[T] {
	resp := transport.ListResponse[T]{
		Items:      make([]T, 0, len(items)),
		Pagination: pagination.New(page, limit, total),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, convert(item))
	}
	return resp
}

// recordTransition logs and counts a committed status change.
func (s *Service) recordTransition(entity string, id uuid.UUID, from, to string) {
	if from == to {
		return
	}
	metrics.StatusTransitions.WithLabelValues(entity, from, to).Inc()
	s.log.StatusTransition(entity, id.String(), from, to)
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, event)
	}
}

func singleLinePtr(v *string) *string {
	if v == nil {
		return nil
	}
	out := sanitize.SingleLine(*v)
	return &out
}
