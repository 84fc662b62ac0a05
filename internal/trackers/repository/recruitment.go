package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var recruitmentTable = table{
	name: "staff_recruitments",
	columns: `id, preparation_project_id, position, positions_count, deadline, status, progress,
		interviews, offers, hired_candidates, application_stats, created_at, updated_at`,
	keywords: []string{"position"},
	entity:   "staff recruitment",
}

func scanRecruitment(row pgx.Row) (Recruitment, error) {
	var r Recruitment
	err := row.Scan(
		&r.ID, &r.PreparationProjectID, &r.Position, &r.PositionsCount, &r.Deadline, &r.Status, &r.Progress,
		&r.Interviews, &r.Offers, &r.HiredCandidates, &r.ApplicationStats, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// CreateRecruitment inserts a staff recruitment.
func (r *Repo) CreateRecruitment(ctx context.Context, rec Recruitment) error {
	stats, err := documentJSON(rec.ApplicationStats)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO staff_recruitments (
			id, preparation_project_id, position, positions_count, deadline,
			status, progress, application_stats, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9, $10)`

	_, err = r.q.Exec(ctx, query,
		rec.ID, rec.PreparationProjectID, rec.Position, rec.PositionsCount, rec.Deadline,
		rec.Status.String(), rec.Progress, stats, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create staff recruitment: %w", err)
	}
	return nil
}

// GetRecruitment retrieves a staff recruitment.
func (r *Repo) GetRecruitment(ctx context.Context, id uuid.UUID) (Recruitment, error) {
	return getOne(ctx, r.q, recruitmentTable, id, false, scanRecruitment)
}

// LockRecruitment retrieves a staff recruitment with a row lock.
func (r *Repo) LockRecruitment(ctx context.Context, id uuid.UUID) (Recruitment, error) {
	return getOne(ctx, r.q, recruitmentTable, id, true, scanRecruitment)
}

// ListRecruitments lists staff recruitments.
func (r *Repo) ListRecruitments(ctx context.Context, params ListParams) ([]Recruitment, int, error) {
	return list(ctx, r.q, recruitmentTable, params, scanRecruitment)
}

// UpdateRecruitment replaces the stats and appends interviews, offers and hires.
func (r *Repo) UpdateRecruitment(ctx context.Context, u RecruitmentUpdate) error {
	stats, err := documentJSON(u.ApplicationStats)
	if err != nil {
		return err
	}
	interviews, err := appendJSON(u.AppendInterviews)
	if err != nil {
		return err
	}
	offers, err := appendJSON(u.AppendOffers)
	if err != nil {
		return err
	}
	hired, err := appendJSON(u.AppendHired)
	if err != nil {
		return err
	}

	query := `
		UPDATE staff_recruitments SET
			status = $2,
			progress = $3,
			application_stats = $4::jsonb,
			interviews = interviews || $5::jsonb,
			offers = offers || $6::jsonb,
			hired_candidates = hired_candidates || $7::jsonb,
			updated_at = now()
		WHERE id = $1`

	return execUpdate(ctx, r.q, recruitmentTable, query,
		u.ID, u.Status.String(), u.Progress, stats, interviews, offers, hired,
	)
}
