package service

import (
	"context"
	"fmt"
	"time"

	"store_opening_backend/internal/projects/domain"
	"store_opening_backend/internal/projects/repository"

	"github.com/google/uuid"
)

// applyCompletion performs the two writes owed by a completed project: it
// opens the store and bumps the plan's completed counter. It runs on the
// caller's transaction, so a failure here leaves the project in its
// previous status.
func (s *Service) applyCompletion(ctx context.Context, tx repository.CompletionWriter, p repository.Project, openDate time.Time) (uuid.UUID, error) {
	store := repository.Store{
		ID:                   uuid.New(),
		Name:                 p.StoreName,
		Address:              p.StoreAddress,
		StoreType:            p.StoreType,
		RegionID:             p.RegionID,
		OpenDate:             openDate,
		Status:               domain.StoreStatusActive,
		PreparationProjectID: p.ID,
	}
	if err := tx.CreateStore(ctx, store); err != nil {
		return uuid.Nil, fmt.Errorf("open store for project %s: %w", p.ID, err)
	}
	if err := tx.IncrementStorePlanCompleted(ctx, p.StorePlanID); err != nil {
		return uuid.Nil, fmt.Errorf("count completion on store plan %s: %w", p.StorePlanID, err)
	}

	s.log.Info("store opened from preparation project", "projectId", p.ID, "storeId", store.ID, "storePlanId", p.StorePlanID)
	return store.ID, nil
}
