package repository

import (
	"context"
	"errors"
	"fmt"

	"store_opening_backend/platform/apperr"
	"store_opening_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GetRegion reads the region projection.
func (r *Repo) GetRegion(ctx context.Context, id uuid.UUID) (Region, error) {
	var region Region
	err := r.q.QueryRow(ctx, `SELECT id, name, code, is_active FROM regions WHERE id = $1`, id).
		Scan(&region.ID, &region.Name, &region.Code, &region.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Region{}, apperr.NotFound("region not found")
		}
		return Region{}, fmt.Errorf("get region: %w", err)
	}
	return region, nil
}

// GetStorePlan reads the store plan projection.
func (r *Repo) GetStorePlan(ctx context.Context, id uuid.UUID) (StorePlan, error) {
	var plan StorePlan
	err := r.q.QueryRow(ctx, `SELECT id, name, status, completed_count FROM store_plans WHERE id = $1`, id).
		Scan(&plan.ID, &plan.Name, &plan.Status, &plan.CompletedCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StorePlan{}, apperr.NotFound("store plan not found")
		}
		return StorePlan{}, fmt.Errorf("get store plan: %w", err)
	}
	return plan, nil
}

// GetManager reads the user projection.
func (r *Repo) GetManager(ctx context.Context, id uuid.UUID) (Manager, error) {
	var m Manager
	err := r.q.QueryRow(ctx, `SELECT id, name, email, is_active FROM app_users WHERE id = $1`, id).
		Scan(&m.ID, &m.Name, &m.Email, &m.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Manager{}, apperr.NotFound("manager not found")
		}
		return Manager{}, fmt.Errorf("get manager: %w", err)
	}
	return m, nil
}

// CreateStore inserts the store opened by a completed project.
func (r *Repo) CreateStore(ctx context.Context, s Store) error {
	query := `
		INSERT INTO stores (id, name, address, store_type, region_id, open_date, status, preparation_project_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.q.Exec(ctx, query, s.ID, s.Name, s.Address, s.StoreType, s.RegionID, s.OpenDate, s.Status, s.PreparationProjectID)
	if err != nil {
		if db.IsUniqueViolation(err, storeProjectConstraint) {
			return apperr.Conflict("a store already exists for this preparation project")
		}
		return fmt.Errorf("create store: %w", err)
	}
	return nil
}

// IncrementStorePlanCompleted bumps the plan's completed counter in the database,
// so concurrent completions of sibling projects never lose an increment.
func (r *Repo) IncrementStorePlanCompleted(ctx context.Context, storePlanID uuid.UUID) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE store_plans SET completed_count = completed_count + 1, updated_at = now() WHERE id = $1`,
		storePlanID)
	if err != nil {
		return fmt.Errorf("increment store plan completed count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("store plan not found")
	}
	return nil
}
