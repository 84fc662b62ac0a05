package repository

import (
	"context"
	"fmt"
	"time"

	"store_opening_backend/internal/trackers/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var milestoneTable = table{
	name: "milestone_trackings",
	columns: `id, preparation_project_id, name, description, planned_date, completed_date,
		status, progress, criteria_checklist, progress_updates, approvals, created_at, updated_at`,
	keywords: []string{"name", "description"},
	entity:   "milestone",
}

func scanMilestone(row pgx.Row) (Milestone, error) {
	var m Milestone
	err := row.Scan(
		&m.ID, &m.PreparationProjectID, &m.Name, &m.Description, &m.PlannedDate, &m.CompletedDate,
		&m.Status, &m.Progress, &m.CriteriaChecklist, &m.ProgressUpdates, &m.Approvals, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

// CreateMilestone inserts a milestone.
func (r *Repo) CreateMilestone(ctx context.Context, m Milestone) error {
	checklist, err := appendJSON(m.CriteriaChecklist)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO milestone_trackings (
			id, preparation_project_id, name, description, planned_date,
			status, progress, criteria_checklist, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9, $10)`

	_, err = r.q.Exec(ctx, query,
		m.ID, m.PreparationProjectID, m.Name, m.Description, m.PlannedDate,
		m.Status.String(), m.Progress, checklist, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create milestone: %w", err)
	}
	return nil
}

// GetMilestone retrieves a milestone.
func (r *Repo) GetMilestone(ctx context.Context, id uuid.UUID) (Milestone, error) {
	return getOne(ctx, r.q, milestoneTable, id, false, scanMilestone)
}

// LockMilestone retrieves a milestone with a row lock.
func (r *Repo) LockMilestone(ctx context.Context, id uuid.UUID) (Milestone, error) {
	return getOne(ctx, r.q, milestoneTable, id, true, scanMilestone)
}

// ListMilestones lists milestones.
func (r *Repo) ListMilestones(ctx context.Context, params ListParams) ([]Milestone, int, error) {
	return list(ctx, r.q, milestoneTable, params, scanMilestone)
}

// UpdateMilestone replaces the checklist and appends progress updates and approvals.
func (r *Repo) UpdateMilestone(ctx context.Context, u MilestoneUpdate) error {
	checklist, err := optionalChecklist(u)
	if err != nil {
		return err
	}
	updates, err := appendJSON(u.AppendUpdates)
	if err != nil {
		return err
	}
	approvals, err := appendJSON(u.AppendApprovals)
	if err != nil {
		return err
	}

	query := `
		UPDATE milestone_trackings SET
			status = $2,
			progress = $3,
			completed_date = COALESCE($4::date, completed_date),
			criteria_checklist = COALESCE($5::jsonb, criteria_checklist),
			progress_updates = progress_updates || $6::jsonb,
			approvals = approvals || $7::jsonb,
			updated_at = now()
		WHERE id = $1`

	return execUpdate(ctx, r.q, milestoneTable, query,
		u.ID, u.Status.String(), u.Progress, u.CompletedDate, checklist, updates, approvals,
	)
}

// MarkMilestonesDelayed moves open milestones whose planned date is before
// asOf to DELAYED and returns how many moved.
func (r *Repo) MarkMilestonesDelayed(ctx context.Context, asOf time.Time) (int, error) {
	delayable := domain.DelayableMilestoneStatuses()
	from := make([]string, 0, len(delayable))
	for _, s := range delayable {
		from = append(from, s.String())
	}

	query := `
		UPDATE milestone_trackings SET status = $2, updated_at = now()
		WHERE status = ANY($3::text[])
			AND planned_date IS NOT NULL
			AND planned_date < $1::date`

	tag, err := r.q.Exec(ctx, query, asOf, domain.MilestoneDelayed.String(), from)
	if err != nil {
		return 0, fmt.Errorf("mark delayed milestones: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func optionalChecklist(u MilestoneUpdate) (*string, error) {
	if u.Checklist == nil {
		return nil, nil
	}
	s, err := documentJSON(u.Checklist)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
