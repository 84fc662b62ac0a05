package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"store_opening_backend/internal/projects/domain"
	"store_opening_backend/platform/apperr"
	"store_opening_backend/platform/db"
	"store_opening_backend/platform/money"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	projectNotFoundMessage   = "preparation project not found"
	activeNameConstraint     = "preparation_projects_active_name_key"
	projectCodeConstraint    = "preparation_projects_code_key"
	storeProjectConstraint   = "stores_preparation_project_id_key"
	msgDuplicateActiveName   = "a preparation project with this store name already exists in the region"
	msgConcurrentStatusWrite = "preparation project was modified concurrently"
)

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	q    db.Querier
}

// New creates a new projects repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool, q: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// InTx runs fn inside one transaction. A repository already bound to a
// transaction reuses it.
func (r *Repo) InTx(ctx context.Context, fn func(tx Repository) error) error {
	if _, ok := r.q.(pgx.Tx); ok || r.pool == nil {
		return fn(r)
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&Repo{pool: r.pool, q: tx})
	})
}

const projectColumns = `
	p.id, p.project_code, p.region_id, p.store_plan_id, p.manager_id,
	p.store_name, p.store_address, p.store_type, p.description,
	p.planning_area, p.total_budget, p.actual_cost,
	p.expected_open_date, p.actual_open_date,
	p.status, p.priority, p.progress, p.notes,
	p.completed_at, p.cancelled_at, p.created_at, p.updated_at,
	r.name, r.code, sp.name, u.name, u.email`

const projectFrom = `
	FROM preparation_projects p
	JOIN regions r ON r.id = p.region_id
	JOIN store_plans sp ON sp.id = p.store_plan_id
	JOIN app_users u ON u.id = p.manager_id`

func scanProject(row pgx.Row) (Project, error) {
	var p Project
	var status string
	err := row.Scan(
		&p.ID, &p.ProjectCode, &p.RegionID, &p.StorePlanID, &p.ManagerID,
		&p.StoreName, &p.StoreAddress, &p.StoreType, &p.Description,
		&p.PlanningArea, &p.TotalBudget, &p.ActualCost,
		&p.ExpectedOpenDate, &p.ActualOpenDate,
		&status, &p.Priority, &p.Progress, &p.Notes,
		&p.CompletedAt, &p.CancelledAt, &p.CreatedAt, &p.UpdatedAt,
		&p.RegionName, &p.RegionCode, &p.StorePlanName, &p.ManagerName, &p.ManagerEmail,
	)
	p.Status = domain.Status(status)
	return p, err
}

func scanProjects(rows pgx.Rows) ([]Project, error) {
	items := make([]Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan preparation project: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate preparation projects: %w", err)
	}
	return items, nil
}

// GetByID retrieves a project with its relation names.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Project, error) {
	query := `SELECT ` + projectColumns + projectFrom + ` WHERE p.id = $1`

	p, err := scanProject(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Project{}, apperr.NotFound(projectNotFoundMessage)
		}
		return Project{}, fmt.Errorf("get preparation project by id: %w", err)
	}
	return p, nil
}

var sortColumns = map[string]string{
	"createdAt":        "p.created_at",
	"updatedAt":        "p.updated_at",
	"storeName":        "p.store_name",
	"projectCode":      "p.project_code",
	"expectedOpenDate": "p.expected_open_date",
	"progress":         "p.progress",
	"totalBudget":      "p.total_budget",
	"priority":         "p.priority",
	"status":           "p.status",
}

// List retrieves projects with filters, keyword search, sorting and pagination.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Project, int, error) {
	sortBy := "p.created_at"
	if params.SortBy != "" {
		column, ok := sortColumns[params.SortBy]
		if !ok {
			return nil, 0, apperr.BadRequest("invalid sort field")
		}
		sortBy = column
	}

	sortOrder := "DESC"
	if params.SortOrder != "" {
		switch strings.ToLower(params.SortOrder) {
		case "asc":
			sortOrder = "ASC"
		case "desc":
			sortOrder = "DESC"
		default:
			return nil, 0, apperr.BadRequest("invalid sort order")
		}
	}

	var keyword interface{}
	if k := strings.TrimSpace(params.Keyword); k != "" {
		keyword = "%" + k + "%"
	}

	where := `
		WHERE ($1::uuid IS NULL OR p.region_id = $1)
			AND ($2::text IS NULL OR p.status = $2)
			AND ($3::text IS NULL OR p.priority = $3)
			AND ($4::text IS NULL OR p.store_type = $4)
			AND ($5::text IS NULL OR p.store_name ILIKE $5 OR p.store_address ILIKE $5 OR p.description ILIKE $5)`
	args := []interface{}{params.RegionID, params.Status, params.Priority, params.StoreType, keyword}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM preparation_projects p`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count preparation projects: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s %s %s ORDER BY %s %s, p.id ASC LIMIT $6 OFFSET $7`,
		projectColumns, projectFrom, where, sortBy, sortOrder)
	rows, err := r.q.Query(ctx, query, append(args, params.Limit, params.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list preparation projects: %w", err)
	}
	defer rows.Close()

	items, err := scanProjects(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ActiveNameExists checks the store-name uniqueness rule among non-cancelled projects.
func (r *Repo) ActiveNameExists(ctx context.Context, regionID uuid.UUID, storeName string, excludeID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM preparation_projects
			WHERE region_id = $1
				AND lower(store_name) = lower($2)
				AND status <> 'CANCELLED'
				AND ($3::uuid IS NULL OR id <> $3)
		)`

	var exists bool
	if err := r.q.QueryRow(ctx, query, regionID, strings.TrimSpace(storeName), excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check active store name: %w", err)
	}
	return exists, nil
}

// ListOverdue returns non-terminal projects whose expected open date is before asOf.
func (r *Repo) ListOverdue(ctx context.Context, asOf time.Time) ([]Project, error) {
	query := `SELECT ` + projectColumns + projectFrom + `
		WHERE p.status NOT IN ('COMPLETED', 'CANCELLED')
			AND p.expected_open_date IS NOT NULL
			AND p.expected_open_date < $1
		ORDER BY p.expected_open_date ASC`

	rows, err := r.q.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("list overdue preparation projects: %w", err)
	}
	defer rows.Close()

	return scanProjects(rows)
}

// NextSequence atomically allocates the next code number for (year, region).
func (r *Repo) NextSequence(ctx context.Context, year int, regionCode string) (int, error) {
	query := `
		INSERT INTO project_code_counters (year, region_code, last_number)
		VALUES ($1, $2, 1)
		ON CONFLICT (year, region_code) DO UPDATE SET last_number = project_code_counters.last_number + 1
		RETURNING last_number`

	var next int
	if err := r.q.QueryRow(ctx, query, year, regionCode).Scan(&next); err != nil {
		return 0, fmt.Errorf("generate project code: %w", err)
	}
	return next, nil
}

// Create inserts a new project.
func (r *Repo) Create(ctx context.Context, p Project) error {
	query := `
		INSERT INTO preparation_projects (
			id, project_code, region_id, store_plan_id, manager_id,
			store_name, store_address, store_type, description,
			planning_area, total_budget, actual_cost, expected_open_date,
			status, priority, progress, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::numeric, $11::numeric, $12::numeric, $13, $14, $15, $16, $17, $18, $19)`

	_, err := r.q.Exec(ctx, query,
		p.ID, p.ProjectCode, p.RegionID, p.StorePlanID, p.ManagerID,
		p.StoreName, p.StoreAddress, p.StoreType, p.Description,
		money.TextPtr(p.PlanningArea), money.Text(p.TotalBudget), money.Text(p.ActualCost), p.ExpectedOpenDate,
		string(p.Status), p.Priority, p.Progress, p.Notes, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		switch {
		case db.IsUniqueViolation(err, activeNameConstraint):
			return apperr.Conflict(msgDuplicateActiveName)
		case db.IsUniqueViolation(err, projectCodeConstraint):
			return apperr.Conflict("project code already in use")
		}
		return fmt.Errorf("create preparation project: %w", err)
	}
	return nil
}

// Update applies a partial update while the project keeps its expected status.
func (r *Repo) Update(ctx context.Context, params UpdateParams) error {
	query := `
		UPDATE preparation_projects SET
			manager_id = COALESCE($3::uuid, manager_id),
			store_name = COALESCE($4, store_name),
			store_address = COALESCE($5, store_address),
			store_type = COALESCE($6, store_type),
			description = COALESCE($7, description),
			planning_area = COALESCE($8::numeric, planning_area),
			total_budget = COALESCE($9::numeric, total_budget),
			actual_cost = COALESCE($10::numeric, actual_cost),
			expected_open_date = COALESCE($11::date, expected_open_date),
			priority = COALESCE($12::text, priority),
			progress = COALESCE($13::int, progress),
			updated_at = now()
		WHERE id = $1 AND status = $2`

	tag, err := r.q.Exec(ctx, query,
		params.ID, string(params.ExpectedStatus), params.ManagerID,
		params.StoreName, params.StoreAddress, params.StoreType, params.Description,
		money.TextPtr(params.PlanningArea), money.TextPtr(params.TotalBudget), money.TextPtr(params.ActualCost),
		params.ExpectedOpenDate, params.Priority, params.Progress,
	)
	if err != nil {
		if db.IsUniqueViolation(err, activeNameConstraint) {
			return apperr.Conflict(msgDuplicateActiveName)
		}
		return fmt.Errorf("update preparation project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Conflict(msgConcurrentStatusWrite)
	}
	return nil
}

// UpdateStatus writes a status transition conditioned on the previously read status.
func (r *Repo) UpdateStatus(ctx context.Context, u StatusUpdate) error {
	query := `
		UPDATE preparation_projects SET
			status = $3,
			notes = $4,
			progress = COALESCE($5::int, progress),
			actual_open_date = COALESCE($6::date, actual_open_date),
			completed_at = COALESCE($7::timestamptz, completed_at),
			cancelled_at = COALESCE($8::timestamptz, cancelled_at),
			updated_at = now()
		WHERE id = $1 AND status = $2`

	tag, err := r.q.Exec(ctx, query,
		u.ID, string(u.From), string(u.To), u.Notes,
		u.Progress, u.ActualOpenDate, u.CompletedAt, u.CancelledAt,
	)
	if err != nil {
		if db.IsUniqueViolation(err, activeNameConstraint) {
			return apperr.Conflict(msgDuplicateActiveName)
		}
		return fmt.Errorf("update preparation project status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Conflict(msgConcurrentStatusWrite)
	}
	return nil
}
