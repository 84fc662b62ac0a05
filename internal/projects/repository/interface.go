package repository

import (
	"context"
	"time"

	"store_opening_backend/internal/projects/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Project is a preparation project row joined with the display names of its relations.
type Project struct {
	ID               uuid.UUID
	ProjectCode      string
	RegionID         uuid.UUID
	StorePlanID      uuid.UUID
	ManagerID        uuid.UUID
	StoreName        string
	StoreAddress     string
	StoreType        string
	Description      *string
	PlanningArea     *decimal.Decimal
	TotalBudget      decimal.Decimal
	ActualCost       decimal.Decimal
	ExpectedOpenDate *time.Time
	ActualOpenDate   *time.Time
	Status           domain.Status
	Priority         string
	Progress         int
	Notes            string
	CompletedAt      *time.Time
	CancelledAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	RegionName    string
	RegionCode    string
	StorePlanName string
	ManagerName   string
	ManagerEmail  string
}

// Region is the projection of a region needed for reference checks.
type Region struct {
	ID       uuid.UUID
	Name     string
	Code     string
	IsActive bool
}

// StorePlan is the projection of a store plan needed for reference checks.
type StorePlan struct {
	ID             uuid.UUID
	Name           string
	Status         string
	CompletedCount int
}

// Manager is the projection of a user that can manage a project.
type Manager struct {
	ID       uuid.UUID
	Name     string
	Email    string
	IsActive bool
}

// Store is written once when a project completes.
type Store struct {
	ID                   uuid.UUID
	Name                 string
	Address              string
	StoreType            string
	RegionID             uuid.UUID
	OpenDate             time.Time
	Status               string
	PreparationProjectID uuid.UUID
}

// ListParams filters and pages the project list.
type ListParams struct {
	RegionID  *uuid.UUID
	Status    *string
	Priority  *string
	StoreType *string
	Keyword   string
	SortBy    string
	SortOrder string
	Offset    int
	Limit     int
}

// UpdateParams carries the fields of a partial update; nil means unchanged.
// ExpectedStatus conditions the write on the status read before it.
type UpdateParams struct {
	ID               uuid.UUID
	ExpectedStatus   domain.Status
	ManagerID        *uuid.UUID
	StoreName        *string
	StoreAddress     *string
	StoreType        *string
	Description      *string
	PlanningArea     *decimal.Decimal
	TotalBudget      *decimal.Decimal
	ActualCost       *decimal.Decimal
	ExpectedOpenDate *time.Time
	Priority         *string
	Progress         *int
}

// StatusUpdate is one conditioned status write: it only applies while the
// row still has status From.
type StatusUpdate struct {
	ID             uuid.UUID
	From           domain.Status
	To             domain.Status
	Notes          string
	Progress       *int
	ActualOpenDate *time.Time
	CompletedAt    *time.Time
	CancelledAt    *time.Time
}

// ReferenceReader reads the entities a project points at.
type ReferenceReader interface {
	GetRegion(ctx context.Context, id uuid.UUID) (Region, error)
	GetStorePlan(ctx context.Context, id uuid.UUID) (StorePlan, error)
	GetManager(ctx context.Context, id uuid.UUID) (Manager, error)
}

// ProjectReader provides read operations for projects.
type ProjectReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Project, error)
	List(ctx context.Context, params ListParams) ([]Project, int, error)
	// ActiveNameExists reports whether a non-cancelled project in region uses
	// storeName (case-insensitive), ignoring excludeID when set.
	ActiveNameExists(ctx context.Context, regionID uuid.UUID, storeName string, excludeID *uuid.UUID) (bool, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]Project, error)
}

// ProjectWriter provides write operations for projects.
type ProjectWriter interface {
	NextSequence(ctx context.Context, year int, regionCode string) (int, error)
	Create(ctx context.Context, project Project) error
	Update(ctx context.Context, params UpdateParams) error
	UpdateStatus(ctx context.Context, update StatusUpdate) error
}

// CompletionWriter performs the cross-entity writes of a completed project.
type CompletionWriter interface {
	CreateStore(ctx context.Context, store Store) error
	IncrementStorePlanCompleted(ctx context.Context, storePlanID uuid.UUID) error
}

// Repository combines all project repository operations.
type Repository interface {
	ReferenceReader
	ProjectReader
	ProjectWriter
	CompletionWriter
	// InTx runs fn against a repository bound to one transaction.
	InTx(ctx context.Context, fn func(tx Repository) error) error
}
