// Package events defines the domain events the store opening modules publish.
// Delivery lives in platform/events; the aliases below let modules depend on
// this package alone.
package events

import (
	"time"

	"store_opening_backend/platform/events"

	"github.com/google/uuid"
)

type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
	SubscribeMany  = events.SubscribeMany
)

// =============================================================================
// Preparation Project Events
// =============================================================================

// ProjectCreated is published after a preparation project is persisted.
type ProjectCreated struct {
	BaseEvent
	ProjectID   uuid.UUID `json:"projectId"`
	ProjectCode string    `json:"projectCode"`
	RegionID    uuid.UUID `json:"regionId"`
	ManagerID   uuid.UUID `json:"managerId"`
	StoreName   string    `json:"storeName"`
}

func (e ProjectCreated) EventName() string { return "projects.project.created" }

// ProjectStatusChanged is published after any committed status transition.
type ProjectStatusChanged struct {
	BaseEvent
	ProjectID uuid.UUID `json:"projectId"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
	Reason    string    `json:"reason,omitempty"`
}

func (e ProjectStatusChanged) EventName() string { return "projects.project.status_changed" }

// ProjectCompleted is published once the completion transition, the store
// creation and the plan counter increment have been committed together.
type ProjectCompleted struct {
	BaseEvent
	ProjectID      uuid.UUID `json:"projectId"`
	ProjectCode    string    `json:"projectCode"`
	StoreID        uuid.UUID `json:"storeId"`
	StorePlanID    uuid.UUID `json:"storePlanId"`
	ManagerID      uuid.UUID `json:"managerId"`
	StoreName      string    `json:"storeName"`
	ActualOpenDate time.Time `json:"actualOpenDate"`
}

func (e ProjectCompleted) EventName() string { return "projects.project.completed" }

// ProjectOverdue is published by the overdue sweep for every non-terminal
// project whose expected open date has passed.
type ProjectOverdue struct {
	BaseEvent
	ProjectID        uuid.UUID `json:"projectId"`
	ProjectCode      string    `json:"projectCode"`
	ManagerID        uuid.UUID `json:"managerId"`
	StoreName        string    `json:"storeName"`
	Status           string    `json:"status"`
	ExpectedOpenDate time.Time `json:"expectedOpenDate"`
	DaysOverdue      int       `json:"daysOverdue"`
}

func (e ProjectOverdue) EventName() string { return "projects.project.overdue" }

// ProjectUpdated is published after field edits on a project.
type ProjectUpdated struct {
	BaseEvent
	ProjectID uuid.UUID `json:"projectId"`
}

func (e ProjectUpdated) EventName() string { return "projects.project.updated" }

// =============================================================================
// Tracker Events
// =============================================================================

// MilestoneApproved is published when a completed milestone is approved.
type MilestoneApproved struct {
	BaseEvent
	MilestoneID          uuid.UUID `json:"milestoneId"`
	PreparationProjectID uuid.UUID `json:"preparationProjectId"`
	ApproverID           uuid.UUID `json:"approverId"`
	ApproverName         string    `json:"approverName"`
}

func (e MilestoneApproved) EventName() string { return "trackers.milestone.approved" }

// LicenseIssued is published when a license application is confirmed issued.
type LicenseIssued struct {
	BaseEvent
	LicenseApplicationID uuid.UUID  `json:"licenseApplicationId"`
	PreparationProjectID uuid.UUID  `json:"preparationProjectId"`
	LicenseNumber        string     `json:"licenseNumber"`
	ExpiryDate           *time.Time `json:"expiryDate,omitempty"`
}

func (e LicenseIssued) EventName() string { return "trackers.license.issued" }
