// Package repository reads the preparation project figures behind the dashboard.
// Every distribution is derived from one ListProjectFacts scan, so the figures
// of a single dashboard always describe the same set of projects.
package repository

import (
	"context"
	"fmt"
	"time"

	"store_opening_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Filter narrows the projects the dashboard covers. Start and End bound
// created_at; End is exclusive.
type Filter struct {
	RegionIDs []uuid.UUID
	Start     *time.Time
	End       *time.Time
}

// ProjectFact is the projection of a project the aggregator needs.
type ProjectFact struct {
	ID               uuid.UUID
	RegionID         uuid.UUID
	Status           string
	Progress         int
	TotalBudget      decimal.Decimal
	ActualCost       decimal.Decimal
	ExpectedOpenDate *time.Time
	CreatedAt        time.Time
	CompletedAt      *time.Time
	CancelledAt      *time.Time
}

// Reader is the read side used by the dashboard.
type Reader interface {
	ListProjectFacts(ctx context.Context, filter Filter) ([]ProjectFact, error)
	RegionNames(ctx context.Context) (map[uuid.UUID]string, error)
}

// Repo implements Reader with PostgreSQL.
type Repo struct {
	q db.Querier
}

// New creates a new dashboard repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{q: pool}
}

var _ Reader = (*Repo)(nil)

const filterWhere = `
	WHERE (cardinality($1::uuid[]) = 0 OR region_id = ANY($1))
		AND ($2::timestamptz IS NULL OR created_at >= $2)
		AND ($3::timestamptz IS NULL OR created_at < $3)`

func filterArgs(f Filter) []interface{} {
	regions := f.RegionIDs
	if regions == nil {
		regions = []uuid.UUID{}
	}
	return []interface{}{regions, f.Start, f.End}
}

// ListProjectFacts scans the filtered projects.
func (r *Repo) ListProjectFacts(ctx context.Context, filter Filter) ([]ProjectFact, error) {
	query := `
		SELECT id, region_id, status, progress, total_budget, actual_cost,
			expected_open_date, created_at, completed_at, cancelled_at
		FROM preparation_projects` + filterWhere + `
		ORDER BY created_at ASC`

	rows, err := r.q.Query(ctx, query, filterArgs(filter)...)
	if err != nil {
		return nil, fmt.Errorf("scan dashboard projects: %w", err)
	}
	defer rows.Close()

	facts := make([]ProjectFact, 0)
	for rows.Next() {
		var f ProjectFact
		if err := rows.Scan(
			&f.ID, &f.RegionID, &f.Status, &f.Progress, &f.TotalBudget, &f.ActualCost,
			&f.ExpectedOpenDate, &f.CreatedAt, &f.CompletedAt, &f.CancelledAt,
		); err != nil {
			return nil, fmt.Errorf("scan dashboard project: %w", err)
		}
		facts = append(facts, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dashboard projects: %w", err)
	}
	return facts, nil
}

// RegionNames maps every region id to its display name.
func (r *Repo) RegionNames(ctx context.Context) (map[uuid.UUID]string, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name FROM regions`)
	if err != nil {
		return nil, fmt.Errorf("list region names: %w", err)
	}
	defer rows.Close()

	names := make(map[uuid.UUID]string)
	for rows.Next() {
		var id uuid.UUID
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan region name: %w", err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate region names: %w", err)
	}
	return names, nil
}
