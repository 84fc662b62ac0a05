package repository

import (
	"context"
	"fmt"

	"store_opening_backend/platform/money"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var constructionTable = table{
	name: "construction_projects",
	columns: `id, preparation_project_id, name, contractor, contract_amount, actual_amount,
		planned_start_date, planned_end_date, status, progress, progress_description,
		progress_updates, acceptance, created_at, updated_at`,
	keywords: []string{"name", "contractor"},
	entity:   "construction project",
}

func scanConstruction(row pgx.Row) (Construction, error) {
	var c Construction
	err := row.Scan(
		&c.ID, &c.PreparationProjectID, &c.Name, &c.Contractor, &c.ContractAmount, &c.ActualAmount,
		&c.PlannedStartDate, &c.PlannedEndDate, &c.Status, &c.Progress, &c.ProgressDescription,
		&c.ProgressUpdates, &c.Acceptance, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// CreateConstruction inserts a construction tracker.
func (r *Repo) CreateConstruction(ctx context.Context, c Construction) error {
	query := `
		INSERT INTO construction_projects (
			id, preparation_project_id, name, contractor, contract_amount, actual_amount,
			planned_start_date, planned_end_date, status, progress, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric, $7, $8, $9, $10, $11, $12)`

	_, err := r.q.Exec(ctx, query,
		c.ID, c.PreparationProjectID, c.Name, c.Contractor, money.Text(c.ContractAmount), money.Text(c.ActualAmount),
		c.PlannedStartDate, c.PlannedEndDate, c.Status.String(), c.Progress, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create construction project: %w", err)
	}
	return nil
}

// GetConstruction retrieves a construction tracker.
func (r *Repo) GetConstruction(ctx context.Context, id uuid.UUID) (Construction, error) {
	return getOne(ctx, r.q, constructionTable, id, false, scanConstruction)
}

// LockConstruction retrieves a construction tracker and locks its row until
// the surrounding transaction ends.
func (r *Repo) LockConstruction(ctx context.Context, id uuid.UUID) (Construction, error) {
	return getOne(ctx, r.q, constructionTable, id, true, scanConstruction)
}

// ListConstructions lists construction trackers.
func (r *Repo) ListConstructions(ctx context.Context, params ListParams) ([]Construction, int, error) {
	return list(ctx, r.q, constructionTable, params, scanConstruction)
}

// UpdateConstruction writes derived fields and appends to the progress log.
func (r *Repo) UpdateConstruction(ctx context.Context, u ConstructionUpdate) error {
	updates, err := appendJSON(u.AppendUpdates)
	if err != nil {
		return err
	}
	acceptance, err := optionalJSON(u.Acceptance)
	if err != nil {
		return err
	}

	query := `
		UPDATE construction_projects SET
			status = $2,
			progress = $3,
			progress_description = COALESCE($4::text, progress_description),
			actual_amount = COALESCE($5::numeric, actual_amount),
			progress_updates = progress_updates || $6::jsonb,
			acceptance = COALESCE($7::jsonb, acceptance),
			updated_at = now()
		WHERE id = $1`

	return execUpdate(ctx, r.q, constructionTable, query,
		u.ID, u.Status.String(), u.Progress, u.ProgressDescription, money.TextPtr(u.ActualAmount), updates, acceptance,
	)
}
