package transport

import (
	"time"

	"store_opening_backend/internal/shared/pagination"
	"store_opening_backend/internal/trackers/domain"

	"github.com/google/uuid"
)

// ListRequest is the query contract shared by every tracker listing.
type ListRequest struct {
	PreparationProjectID string `form:"preparationProjectId" validate:"omitempty,uuid"`
	Status               string `form:"status" validate:"omitempty,max=30"`
	Keyword              string `form:"keyword" validate:"max=200"`
	Page                 int    `form:"page" validate:"omitempty,min=1"`
	Limit                int    `form:"limit" validate:"omitempty,min=1,max=100"`
	SortBy               string `form:"sortBy" validate:"omitempty,oneof=createdAt updatedAt progress status"`
	SortOrder            string `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

// ListResponse is a page of tracker items.
type ListResponse[T any] struct {
	Items      []T                   `json:"items"`
	Pagination pagination.Pagination `json:"pagination"`
}

// =============================================================================
// Construction
// =============================================================================

// CreateConstructionRequest opens a construction tracker.
type CreateConstructionRequest struct {
	PreparationProjectID uuid.UUID  `json:"preparationProjectId" validate:"required"`
	Name                 string     `json:"name" validate:"required,min=1,max=200"`
	Contractor           *string    `json:"contractor,omitempty" validate:"omitempty,max=200"`
	ContractAmount       float64    `json:"contractAmount" validate:"gte=0"`
	PlannedStartDate     *time.Time `json:"plannedStartDate,omitempty"`
	PlannedEndDate       *time.Time `json:"plannedEndDate,omitempty"`
}

// ConstructionProgressRequest reports construction progress.
type ConstructionProgressRequest struct {
	Progress            int      `json:"progress" validate:"min=0,max=100"`
	ProgressDescription *string  `json:"progressDescription,omitempty" validate:"omitempty,max=2000"`
	ActualAmount        *float64 `json:"actualAmount,omitempty" validate:"omitempty,gte=0"`
}

// ConstructionStatusRequest suspends, resumes or cancels a construction.
type ConstructionStatusRequest struct {
	Status domain.ConstructionStatus `json:"status" validate:"required,oneof=IN_PROGRESS SUSPENDED CANCELLED"`
	Reason string                    `json:"reason,omitempty" validate:"max=1000"`
}

// AcceptConstructionRequest signs off a finished construction.
type AcceptConstructionRequest struct {
	Remarks string `json:"remarks,omitempty" validate:"max=2000"`
}

// ConstructionResponse is the API shape of a construction tracker.
type ConstructionResponse struct {
	ID                   uuid.UUID                 `json:"id"`
	PreparationProjectID uuid.UUID                 `json:"preparationProjectId"`
	Name                 string                    `json:"name"`
	Contractor           *string                   `json:"contractor,omitempty"`
	ContractAmount       float64                   `json:"contractAmount"`
	ActualAmount         float64                   `json:"actualAmount"`
	PlannedStartDate     *time.Time                `json:"plannedStartDate,omitempty"`
	PlannedEndDate       *time.Time                `json:"plannedEndDate,omitempty"`
	Status               domain.ConstructionStatus `json:"status"`
	Progress             int                       `json:"progress"`
	ProgressDescription  *string                   `json:"progressDescription,omitempty"`
	ProgressUpdates      []domain.ProgressUpdate   `json:"progressUpdates"`
	Acceptance           *domain.Acceptance        `json:"acceptance,omitempty"`
	CreatedAt            time.Time                 `json:"createdAt"`
	UpdatedAt            time.Time                 `json:"updatedAt"`
}

// =============================================================================
// Equipment procurement
// =============================================================================

// CreateProcurementRequest opens an equipment procurement.
type CreateProcurementRequest struct {
	PreparationProjectID uuid.UUID  `json:"preparationProjectId" validate:"required"`
	EquipmentName        string     `json:"equipmentName" validate:"required,min=1,max=200"`
	Category             *string    `json:"category,omitempty" validate:"omitempty,max=100"`
	Supplier             *string    `json:"supplier,omitempty" validate:"omitempty,max=200"`
	Quantity             int        `json:"quantity" validate:"min=1"`
	UnitPrice            float64    `json:"unitPrice" validate:"gte=0"`
	ExpectedDeliveryDate *time.Time `json:"expectedDeliveryDate,omitempty"`
}

// ProcurementStatusRequest moves a procurement along its ordering steps.
type ProcurementStatusRequest struct {
	Status domain.ProcurementStatus `json:"status" validate:"required,oneof=ORDERED SHIPPED CANCELLED"`
	Note   string                   `json:"note,omitempty" validate:"max=1000"`
}

// ConfirmDeliveryRequest records delivery and the quality inspection.
type ConfirmDeliveryRequest struct {
	ActualDeliveryDate *time.Time `json:"actualDeliveryDate,omitempty"`
	Inspector          string     `json:"inspector" validate:"required,max=100"`
	Passed             bool       `json:"passed"`
	Score              *int       `json:"score,omitempty" validate:"omitempty,min=0,max=100"`
	Remarks            string     `json:"remarks,omitempty" validate:"max=2000"`
	PhotoKeys          []string   `json:"photoKeys,omitempty" validate:"max=20,dive,max=500"`
}

// ConfirmInstallationRequest records installation of delivered equipment.
type ConfirmInstallationRequest struct {
	Note string `json:"note,omitempty" validate:"max=1000"`
}

// ProcurementResponse is the API shape of an equipment procurement.
type ProcurementResponse struct {
	ID                   uuid.UUID                 `json:"id"`
	PreparationProjectID uuid.UUID                 `json:"preparationProjectId"`
	EquipmentName        string                    `json:"equipmentName"`
	Category             *string                   `json:"category,omitempty"`
	Supplier             *string                   `json:"supplier,omitempty"`
	Quantity             int                       `json:"quantity"`
	UnitPrice            float64                   `json:"unitPrice"`
	TotalAmount          float64                   `json:"totalAmount"`
	ExpectedDeliveryDate *time.Time                `json:"expectedDeliveryDate,omitempty"`
	ActualDeliveryDate   *time.Time                `json:"actualDeliveryDate,omitempty"`
	Status               domain.ProcurementStatus  `json:"status"`
	Progress             int                       `json:"progress"`
	QualityInspection    *domain.QualityInspection `json:"qualityInspection,omitempty"`
	StatusHistory        []domain.StatusChange     `json:"statusHistory"`
	CreatedAt            time.Time                 `json:"createdAt"`
	UpdatedAt            time.Time                 `json:"updatedAt"`
}

// UploadResponse identifies a stored file.
type UploadResponse struct {
	FileKey   string    `json:"fileKey"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// =============================================================================
// License application
// =============================================================================

// CreateLicenseRequest opens a license application.
type CreateLicenseRequest struct {
	PreparationProjectID uuid.UUID `json:"preparationProjectId" validate:"required"`
	LicenseType          string    `json:"licenseType" validate:"required,min=1,max=100"`
	IssuingAuthority     *string   `json:"issuingAuthority,omitempty" validate:"omitempty,max=200"`
}

// LicenseProgressRequest records a processing step and optionally moves the status.
type LicenseProgressRequest struct {
	Step        string                `json:"step" validate:"required,max=200"`
	StepStatus  string                `json:"stepStatus,omitempty" validate:"max=50"`
	Description string                `json:"description,omitempty" validate:"max=2000"`
	FollowUp    string                `json:"followUp,omitempty" validate:"max=2000"`
	Status      *domain.LicenseStatus `json:"status,omitempty" validate:"omitempty,oneof=PREPARING SUBMITTED UNDER_REVIEW REJECTED"`
}

// ConfirmIssuedRequest records an issued license.
type ConfirmIssuedRequest struct {
	LicenseNumber  string     `json:"licenseNumber" validate:"required,max=100"`
	IssueDate      *time.Time `json:"issueDate,omitempty"`
	ExpiryDate     *time.Time `json:"expiryDate,omitempty"`
	CertificateURL *string    `json:"certificateUrl,omitempty" validate:"omitempty,max=1000"`
}

// LicenseResponse is the API shape of a license application.
type LicenseResponse struct {
	ID                   uuid.UUID               `json:"id"`
	PreparationProjectID uuid.UUID               `json:"preparationProjectId"`
	LicenseType          string                  `json:"licenseType"`
	IssuingAuthority     *string                 `json:"issuingAuthority,omitempty"`
	SubmittedDate        *time.Time              `json:"submittedDate,omitempty"`
	IssueDate            *time.Time              `json:"issueDate,omitempty"`
	ExpiryDate           *time.Time              `json:"expiryDate,omitempty"`
	LicenseNumber        *string                 `json:"licenseNumber,omitempty"`
	CertificateURL       *string                 `json:"certificateUrl,omitempty"`
	Status               domain.LicenseStatus    `json:"status"`
	Progress             int                     `json:"progress"`
	ProcessingSteps      []domain.ProcessingStep `json:"processingSteps"`
	FollowUpRecords      []domain.FollowUpRecord `json:"followUpRecords"`
	CreatedAt            time.Time               `json:"createdAt"`
	UpdatedAt            time.Time               `json:"updatedAt"`
}

// =============================================================================
// Staff recruitment
// =============================================================================

// CreateRecruitmentRequest opens a staff recruitment.
type CreateRecruitmentRequest struct {
	PreparationProjectID uuid.UUID  `json:"preparationProjectId" validate:"required"`
	Position             string     `json:"position" validate:"required,min=1,max=100"`
	PositionsCount       int        `json:"positionsCount" validate:"min=1,max=500"`
	Deadline             *time.Time `json:"deadline,omitempty"`
}

// InterviewResultRequest records one interview round.
type InterviewResultRequest struct {
	CandidateName  string     `json:"candidateName" validate:"required,max=100"`
	CandidatePhone string     `json:"candidatePhone,omitempty" validate:"max=30"`
	Round          int        `json:"round" validate:"omitempty,min=1,max=20"`
	Result         string     `json:"result" validate:"required,oneof=PASSED FAILED PENDING"`
	Interviewer    string     `json:"interviewer,omitempty" validate:"max=100"`
	Comments       string     `json:"comments,omitempty" validate:"max=2000"`
	InterviewedAt  *time.Time `json:"interviewedAt,omitempty"`
}

// OfferRequest records an offer to a candidate.
type OfferRequest struct {
	CandidateName  string  `json:"candidateName" validate:"required,max=100"`
	CandidatePhone string  `json:"candidatePhone,omitempty" validate:"max=30"`
	Salary         *string `json:"salary,omitempty" validate:"omitempty,max=50"`
	Accepted       bool    `json:"accepted"`
}

// OnboardCandidate is one candidate joining.
type OnboardCandidate struct {
	CandidateName  string     `json:"candidateName" validate:"required,max=100"`
	CandidatePhone string     `json:"candidatePhone,omitempty" validate:"max=30"`
	StartDate      *time.Time `json:"startDate,omitempty"`
}

// ConfirmOnboardRequest records candidates who have joined.
type ConfirmOnboardRequest struct {
	Candidates []OnboardCandidate `json:"candidates" validate:"required,min=1,max=100,dive"`
}

// CancelRecruitmentRequest closes a recruitment without filling it.
type CancelRecruitmentRequest struct {
	Reason string `json:"reason,omitempty" validate:"max=1000"`
}

// RecruitmentResponse is the API shape of a staff recruitment.
type RecruitmentResponse struct {
	ID                   uuid.UUID                `json:"id"`
	PreparationProjectID uuid.UUID                `json:"preparationProjectId"`
	Position             string                   `json:"position"`
	PositionsCount       int                      `json:"positionsCount"`
	Deadline             *time.Time               `json:"deadline,omitempty"`
	Status               domain.RecruitmentStatus `json:"status"`
	Progress             int                      `json:"progress"`
	Interviews           []domain.Interview       `json:"interviews"`
	Offers               []domain.Offer           `json:"offers"`
	HiredCandidates      []domain.HiredCandidate  `json:"hiredCandidates"`
	ApplicationStats     domain.ApplicationStats  `json:"applicationStats"`
	CreatedAt            time.Time                `json:"createdAt"`
	UpdatedAt            time.Time                `json:"updatedAt"`
}

// =============================================================================
// Milestone
// =============================================================================

// CreateMilestoneRequest opens a milestone.
type CreateMilestoneRequest struct {
	PreparationProjectID uuid.UUID  `json:"preparationProjectId" validate:"required"`
	Name                 string     `json:"name" validate:"required,min=1,max=200"`
	Description          *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	PlannedDate          *time.Time `json:"plannedDate,omitempty"`
	Criteria             []string   `json:"criteria,omitempty" validate:"max=50,dive,max=200"`
}

// MilestoneProgressRequest reports milestone progress.
type MilestoneProgressRequest struct {
	Progress          int      `json:"progress" validate:"min=0,max=100"`
	CompletedCriteria []string `json:"completedCriteria,omitempty" validate:"max=50,dive,max=200"`
	Description       string   `json:"description,omitempty" validate:"max=2000"`
}

// ApproveMilestoneRequest approves a completed milestone.
type ApproveMilestoneRequest struct {
	Comment string `json:"comment,omitempty" validate:"max=2000"`
}

// MilestoneResponse is the API shape of a milestone.
type MilestoneResponse struct {
	ID                   uuid.UUID               `json:"id"`
	PreparationProjectID uuid.UUID               `json:"preparationProjectId"`
	Name                 string                  `json:"name"`
	Description          *string                 `json:"description,omitempty"`
	PlannedDate          *time.Time              `json:"plannedDate,omitempty"`
	CompletedDate        *time.Time              `json:"completedDate,omitempty"`
	Status               domain.MilestoneStatus  `json:"status"`
	Progress             int                     `json:"progress"`
	CriteriaChecklist    []domain.CriterionItem  `json:"criteriaChecklist"`
	ProgressUpdates      []domain.ProgressUpdate `json:"progressUpdates"`
	Approvals            []domain.Approval       `json:"approvals"`
	CreatedAt            time.Time               `json:"createdAt"`
	UpdatedAt            time.Time               `json:"updatedAt"`
}
