package repository

import (
	"context"
	"fmt"

	"store_opening_backend/platform/money"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var procurementTable = table{
	name: "equipment_procurements",
	columns: `id, preparation_project_id, equipment_name, category, supplier, quantity,
		unit_price, total_amount, expected_delivery_date, actual_delivery_date, status, progress,
		quality_inspection, status_history, created_at, updated_at`,
	keywords: []string{"equipment_name", "category", "supplier"},
	entity:   "equipment procurement",
}

func scanProcurement(row pgx.Row) (Procurement, error) {
	var p Procurement
	err := row.Scan(
		&p.ID, &p.PreparationProjectID, &p.EquipmentName, &p.Category, &p.Supplier, &p.Quantity,
		&p.UnitPrice, &p.TotalAmount, &p.ExpectedDeliveryDate, &p.ActualDeliveryDate, &p.Status, &p.Progress,
		&p.QualityInspection, &p.StatusHistory, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// CreateProcurement inserts an equipment procurement.
func (r *Repo) CreateProcurement(ctx context.Context, p Procurement) error {
	history, err := appendJSON(p.StatusHistory)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO equipment_procurements (
			id, preparation_project_id, equipment_name, category, supplier, quantity,
			unit_price, total_amount, expected_delivery_date, status, progress, status_history,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8::numeric, $9, $10, $11, $12::jsonb, $13, $14)`

	_, err = r.q.Exec(ctx, query,
		p.ID, p.PreparationProjectID, p.EquipmentName, p.Category, p.Supplier, p.Quantity,
		money.Text(p.UnitPrice), money.Text(p.TotalAmount), p.ExpectedDeliveryDate, p.Status.String(), p.Progress, history,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create equipment procurement: %w", err)
	}
	return nil
}

// GetProcurement retrieves an equipment procurement.
func (r *Repo) GetProcurement(ctx context.Context, id uuid.UUID) (Procurement, error) {
	return getOne(ctx, r.q, procurementTable, id, false, scanProcurement)
}

// LockProcurement retrieves an equipment procurement with a row lock.
func (r *Repo) LockProcurement(ctx context.Context, id uuid.UUID) (Procurement, error) {
	return getOne(ctx, r.q, procurementTable, id, true, scanProcurement)
}

// ListProcurements lists equipment procurements.
func (r *Repo) ListProcurements(ctx context.Context, params ListParams) ([]Procurement, int, error) {
	return list(ctx, r.q, procurementTable, params, scanProcurement)
}

// UpdateProcurement writes the new status and appends to the status history.
func (r *Repo) UpdateProcurement(ctx context.Context, u ProcurementUpdate) error {
	history, err := appendJSON(u.AppendHistory)
	if err != nil {
		return err
	}
	inspection, err := optionalJSON(u.QualityInspection)
	if err != nil {
		return err
	}

	query := `
		UPDATE equipment_procurements SET
			status = $2,
			progress = $3,
			actual_delivery_date = COALESCE($4::date, actual_delivery_date),
			quality_inspection = COALESCE($5::jsonb, quality_inspection),
			status_history = status_history || $6::jsonb,
			updated_at = now()
		WHERE id = $1`

	return execUpdate(ctx, r.q, procurementTable, query,
		u.ID, u.Status.String(), u.Progress, u.ActualDeliveryDate, inspection, history,
	)
}
