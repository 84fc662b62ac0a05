package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"store_opening_backend/platform/apperr"
	"store_opening_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	q    db.Querier
}

// New creates a new trackers repository.
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

// ProjectExists reports whether the preparation project exists.
func (r *Repo) ProjectExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM preparation_projects WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check preparation project: %w", err)
	}
	return exists, nil
}

var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"progress":  "progress",
	"status":    "status",
}

// table describes how one tracker table is read.
type table struct {
	name     string
	columns  string
	keywords []string
	entity   string
}

func (t table) notFound() error {
	return apperr.NotFound(t.entity + " not found")
}

func getOne[T any](ctx context.Context, q db.Querier, t table, id uuid.UUID, lock bool, scan func(pgx.Row) (T, error)) (T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, t.columns, t.name)
	if lock {
		query += ` FOR UPDATE`
	}

	item, err := scan(q.QueryRow(ctx, query, id))
	if err != nil {
		var zero T
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, t.notFound()
		}
		return zero, fmt.Errorf("get %s: %w", t.entity, err)
	}
	return item, nil
}

func list[T any](ctx context.Context, q db.Querier, t table, params ListParams, scan func(pgx.Row) (T, error)) ([]T, int, error) {
	sortBy := "created_at"
	if params.SortBy != "" {
		column, ok := sortColumns[params.SortBy]
		if !ok {
			return nil, 0, apperr.BadRequest("invalid sort field")
		}
		sortBy = column
	}

	sortOrder := "DESC"
	switch strings.ToLower(params.SortOrder) {
	case "", "desc":
	case "asc":
		sortOrder = "ASC"
	default:
		return nil, 0, apperr.BadRequest("invalid sort order")
	}

	var keyword interface{}
	if k := strings.TrimSpace(params.Keyword); k != "" {
		keyword = "%" + k + "%"
	}
	matches := make([]string, 0, len(t.keywords))
	for _, column := range t.keywords {
		matches = append(matches, column+" ILIKE $3")
	}

	where := fmt.Sprintf(`
		WHERE ($1::uuid IS NULL OR preparation_project_id = $1)
			AND ($2::text IS NULL OR status = $2)
			AND ($3::text IS NULL OR %s)`, strings.Join(matches, " OR "))
	args := []interface{}{params.PreparationProjectID, params.Status, keyword}

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM `+t.name+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", t.entity, err)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s %s ORDER BY %s %s, id ASC LIMIT $4 OFFSET $5`,
		t.columns, t.name, where, sortBy, sortOrder)
	rows, err := q.Query(ctx, query, append(args, params.Limit, params.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", t.entity, err)
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan %s: %w", t.entity, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate %s: %w", t.entity, err)
	}
	return items, total, nil
}

func execUpdate(ctx context.Context, q db.Querier, t table, query string, args ...interface{}) error {
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", t.entity, err)
	}
	if tag.RowsAffected() == 0 {
		return t.notFound()
	}
	return nil
}

// appendJSON encodes entries for a `column || $n::jsonb` append. An empty
// batch encodes as [] so the column is left unchanged.
func appendJSON[T any](entries []T) (string, error) {
	if len(entries) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("encode history entries: %w", err)
	}
	return string(b), nil
}

// optionalJSON encodes a nullable JSONB object; nil keeps the stored value.
func optionalJSON[T any](v *T) (*string, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	s := string(b)
	return &s, nil
}

func documentJSON(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	return string(b), nil
}
