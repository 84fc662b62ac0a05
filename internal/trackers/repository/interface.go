// Package repository persists the five preparation sub-workflow trackers.
// Every history column is JSONB and only ever grows: writes append with ||.
package repository

import (
	"context"
	"time"

	"store_opening_backend/internal/trackers/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Construction is a construction_projects row.
type Construction struct {
	ID                   uuid.UUID
	PreparationProjectID uuid.UUID
	Name                 string
	Contractor           *string
	ContractAmount       decimal.Decimal
	ActualAmount         decimal.Decimal
	PlannedStartDate     *time.Time
	PlannedEndDate       *time.Time
	Status               domain.ConstructionStatus
	Progress             int
	ProgressDescription  *string
	ProgressUpdates      []domain.ProgressUpdate
	Acceptance           *domain.Acceptance
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Procurement is an equipment_procurements row.
type Procurement struct {
	ID                   uuid.UUID
	PreparationProjectID uuid.UUID
	EquipmentName        string
	Category             *string
	Supplier             *string
	Quantity             int
	UnitPrice            decimal.Decimal
	TotalAmount          decimal.Decimal
	ExpectedDeliveryDate *time.Time
	ActualDeliveryDate   *time.Time
	Status               domain.ProcurementStatus
	Progress             int
	QualityInspection    *domain.QualityInspection
	StatusHistory        []domain.StatusChange
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// License is a license_applications row.
type License struct {
	ID                   uuid.UUID
	PreparationProjectID uuid.UUID
	LicenseType          string
	IssuingAuthority     *string
	SubmittedDate        *time.Time
	IssueDate            *time.Time
	ExpiryDate           *time.Time
	LicenseNumber        *string
	CertificateURL       *string
	Status               domain.LicenseStatus
	Progress             int
	ProcessingSteps      []domain.ProcessingStep
	FollowUpRecords      []domain.FollowUpRecord
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Recruitment is a staff_recruitments row.
type Recruitment struct {
	ID                   uuid.UUID
	PreparationProjectID uuid.UUID
	Position             string
	PositionsCount       int
	Deadline             *time.Time
	Status               domain.RecruitmentStatus
	Progress             int
	Interviews           []domain.Interview
	Offers               []domain.Offer
	HiredCandidates      []domain.HiredCandidate
	ApplicationStats     domain.ApplicationStats
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Milestone is a milestone_trackings row.
type Milestone struct {
	ID                   uuid.UUID
	PreparationProjectID uuid.UUID
	Name                 string
	Description          *string
	PlannedDate          *time.Time
	CompletedDate        *time.Time
	Status               domain.MilestoneStatus
	Progress             int
	CriteriaChecklist    []domain.CriterionItem
	ProgressUpdates      []domain.ProgressUpdate
	Approvals            []domain.Approval
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ListParams filters a tracker listing. Keyword matches the tracker's text columns.
type ListParams struct {
	PreparationProjectID *uuid.UUID
	Status               *string
	Keyword              string
	SortBy               string
	SortOrder            string
	Offset               int
	Limit                int
}

// ConstructionUpdate is a write against a locked construction row.
// Nil fields keep their stored value; Append* entries are added to the logs.
type ConstructionUpdate struct {
	ID                  uuid.UUID
	Status              domain.ConstructionStatus
	Progress            int
	ProgressDescription *string
	ActualAmount        *decimal.Decimal
	AppendUpdates       []domain.ProgressUpdate
	Acceptance          *domain.Acceptance
}

// ProcurementUpdate is a write against a locked procurement row.
type ProcurementUpdate struct {
	ID                 uuid.UUID
	Status             domain.ProcurementStatus
	Progress           int
	ActualDeliveryDate *time.Time
	QualityInspection  *domain.QualityInspection
	AppendHistory      []domain.StatusChange
}

// LicenseUpdate is a write against a locked license row.
type LicenseUpdate struct {
	ID              uuid.UUID
	Status          domain.LicenseStatus
	Progress        int
	SubmittedDate   *time.Time
	IssueDate       *time.Time
	ExpiryDate      *time.Time
	LicenseNumber   *string
	CertificateURL  *string
	AppendSteps     []domain.ProcessingStep
	AppendFollowUps []domain.FollowUpRecord
}

// RecruitmentUpdate is a write against a locked recruitment row. Stats are
// recomputed by the caller and replace the stored value.
type RecruitmentUpdate struct {
	ID               uuid.UUID
	Status           domain.RecruitmentStatus
	Progress         int
	ApplicationStats domain.ApplicationStats
	AppendInterviews []domain.Interview
	AppendOffers     []domain.Offer
	AppendHired      []domain.HiredCandidate
}

// MilestoneUpdate is a write against a locked milestone row. The checklist is
// merged by the caller and replaces the stored value.
type MilestoneUpdate struct {
	ID              uuid.UUID
	Status          domain.MilestoneStatus
	Progress        int
	CompletedDate   *time.Time
	Checklist       []domain.CriterionItem
	AppendUpdates   []domain.ProgressUpdate
	AppendApprovals []domain.Approval
}

// ParentReader checks the preparation project a tracker hangs off.
type ParentReader interface {
	ProjectExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// ConstructionStore persists construction trackers.
type ConstructionStore interface {
	CreateConstruction(ctx context.Context, c Construction) error
	GetConstruction(ctx context.Context, id uuid.UUID) (Construction, error)
	LockConstruction(ctx context.Context, id uuid.UUID) (Construction, error)
	ListConstructions(ctx context.Context, params ListParams) ([]Construction, int, error)
	UpdateConstruction(ctx context.Context, u ConstructionUpdate) error
}

// ProcurementStore persists equipment procurements.
type ProcurementStore interface {
	CreateProcurement(ctx context.Context, p Procurement) error
	GetProcurement(ctx context.Context, id uuid.UUID) (Procurement, error)
	LockProcurement(ctx context.Context, id uuid.UUID) (Procurement, error)
	ListProcurements(ctx context.Context, params ListParams) ([]Procurement, int, error)
	UpdateProcurement(ctx context.Context, u ProcurementUpdate) error
}

// LicenseStore persists license applications.
type LicenseStore interface {
	CreateLicense(ctx context.Context, l License) error
	GetLicense(ctx context.Context, id uuid.UUID) (License, error)
	LockLicense(ctx context.Context, id uuid.UUID) (License, error)
	ListLicenses(ctx context.Context, params ListParams) ([]License, int, error)
	UpdateLicense(ctx context.Context, u LicenseUpdate) error
	// MarkLicensesExpired moves issued licenses whose expiry date is before
	// asOf to EXPIRED and appends step to their processing log.
	MarkLicensesExpired(ctx context.Context, asOf time.Time, step domain.ProcessingStep) (int, error)
}

// RecruitmentStore persists staff recruitments.
type RecruitmentStore interface {
	CreateRecruitment(ctx context.Context, r Recruitment) error
	GetRecruitment(ctx context.Context, id uuid.UUID) (Recruitment, error)
	LockRecruitment(ctx context.Context, id uuid.UUID) (Recruitment, error)
	ListRecruitments(ctx context.Context, params ListParams) ([]Recruitment, int, error)
	UpdateRecruitment(ctx context.Context, u RecruitmentUpdate) error
}

// MilestoneStore persists milestone trackings.
type MilestoneStore interface {
	CreateMilestone(ctx context.Context, m Milestone) error
	GetMilestone(ctx context.Context, id uuid.UUID) (Milestone, error)
	LockMilestone(ctx context.Context, id uuid.UUID) (Milestone, error)
	ListMilestones(ctx context.Context, params ListParams) ([]Milestone, int, error)
	UpdateMilestone(ctx context.Context, u MilestoneUpdate) error
	MarkMilestonesDelayed(ctx context.Context, asOf time.Time) (int, error)
}

// Repository combines all tracker stores.
type Repository interface {
	ParentReader
	ConstructionStore
	ProcurementStore
	LicenseStore
	RecruitmentStore
	MilestoneStore

	// InTx runs fn inside one transaction.
	InTx(ctx context.Context, fn func(tx Repository) error) error
}
