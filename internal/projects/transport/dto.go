package transport

import (
	"time"

	"store_opening_backend/internal/shared/pagination"

	"github.com/google/uuid"
)

// CreateProjectRequest contains data for creating a preparation project.
type CreateProjectRequest struct {
	RegionID         uuid.UUID  `json:"regionId" validate:"required"`
	StorePlanID      uuid.UUID  `json:"storePlanId" validate:"required"`
	ManagerID        uuid.UUID  `json:"managerId" validate:"required"`
	StoreName        string     `json:"storeName" validate:"required,min=1,max=200"`
	StoreAddress     string     `json:"storeAddress" validate:"required,min=1,max=500"`
	StoreType        string     `json:"storeType" validate:"required,oneof=FLAGSHIP STANDARD COMMUNITY EXPRESS"`
	Description      *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	PlanningArea     *float64   `json:"planningArea,omitempty" validate:"omitempty,gte=0"`
	TotalBudget      float64    `json:"totalBudget" validate:"gte=0"`
	ExpectedOpenDate *time.Time `json:"expectedOpenDate,omitempty"`
	Priority         *string    `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
}

// UpdateProjectRequest contains the fields of a partial update.
type UpdateProjectRequest struct {
	ManagerID        *uuid.UUID `json:"managerId,omitempty"`
	StoreName        *string    `json:"storeName,omitempty" validate:"omitempty,min=1,max=200"`
	StoreAddress     *string    `json:"storeAddress,omitempty" validate:"omitempty,min=1,max=500"`
	StoreType        *string    `json:"storeType,omitempty" validate:"omitempty,oneof=FLAGSHIP STANDARD COMMUNITY EXPRESS"`
	Description      *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	PlanningArea     *float64   `json:"planningArea,omitempty" validate:"omitempty,gte=0"`
	TotalBudget      *float64   `json:"totalBudget,omitempty" validate:"omitempty,gte=0"`
	ActualCost       *float64   `json:"actualCost,omitempty" validate:"omitempty,gte=0"`
	ExpectedOpenDate *time.Time `json:"expectedOpenDate,omitempty"`
	Priority         *string    `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Progress         *int       `json:"progress,omitempty" validate:"omitempty,min=0,max=100"`
}

// ChangeStatusRequest is the status-change contract.
type ChangeStatusRequest struct {
	Status         string     `json:"status" validate:"required,projectstatus"`
	Reason         string     `json:"reason,omitempty" validate:"max=500"`
	Comments       string     `json:"comments,omitempty" validate:"max=2000"`
	ActualOpenDate *time.Time `json:"actualOpenDate,omitempty"`
}

// BatchActionChangeStatus is the only batch action currently defined.
const BatchActionChangeStatus = "changeStatus"

// BatchRequest applies one action to many projects.
type BatchRequest struct {
	IDs        []string            `json:"ids" validate:"required,min=1,max=500"`
	Action     string              `json:"action" validate:"required"`
	ActionData ChangeStatusRequest `json:"actionData" validate:"-"`
}

// BatchResult reports per-item outcomes; errors are in input order.
type BatchResult struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}

// ListProjectsRequest contains query parameters for listing projects.
type ListProjectsRequest struct {
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
	RegionID  string `form:"regionId" validate:"omitempty,uuid"`
	Status    string `form:"status" validate:"omitempty,projectstatus"`
	Priority  string `form:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	StoreType string `form:"storeType" validate:"omitempty,oneof=FLAGSHIP STANDARD COMMUNITY EXPRESS"`
	Keyword   string `form:"keyword" validate:"max=200"`
}

// RegionRef is the embedded region relation.
type RegionRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Code string    `json:"code"`
}

// StorePlanRef is the embedded store plan relation.
type StorePlanRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ManagerRef is the embedded manager relation.
type ManagerRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// ProjectResponse is a preparation project in API responses.
type ProjectResponse struct {
	ID               uuid.UUID    `json:"id"`
	ProjectCode      string       `json:"projectCode"`
	RegionID         uuid.UUID    `json:"regionId"`
	StorePlanID      uuid.UUID    `json:"storePlanId"`
	ManagerID        uuid.UUID    `json:"managerId"`
	StoreName        string       `json:"storeName"`
	StoreAddress     string       `json:"storeAddress"`
	StoreType        string       `json:"storeType"`
	Description      *string      `json:"description,omitempty"`
	PlanningArea     *float64     `json:"planningArea,omitempty"`
	TotalBudget      float64      `json:"totalBudget"`
	ActualCost       float64      `json:"actualCost"`
	ExpectedOpenDate *time.Time   `json:"expectedOpenDate,omitempty"`
	ActualOpenDate   *time.Time   `json:"actualOpenDate,omitempty"`
	Status           string       `json:"status"`
	Priority         string       `json:"priority"`
	Progress         int          `json:"progress"`
	Notes            string       `json:"notes"`
	IsOverdue        bool         `json:"isOverdue"`
	CompletedAt      *time.Time   `json:"completedAt,omitempty"`
	CancelledAt      *time.Time   `json:"cancelledAt,omitempty"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
	Region           RegionRef    `json:"region"`
	StorePlan        StorePlanRef `json:"storePlan"`
	Manager          ManagerRef   `json:"manager"`
}

// ProjectListResponse is a page of projects.
type ProjectListResponse struct {
	Items      []ProjectResponse     `json:"items"`
	Pagination pagination.Pagination `json:"pagination"`
}
