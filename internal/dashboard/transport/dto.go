package transport

import "time"

// StatisticsRequest is the dashboard query. regionIds may repeat; the dates
// bound createdAt inclusively by day.
type StatisticsRequest struct {
	RegionIDs []string `form:"regionIds" validate:"max=100,dive,uuid"`
	StartDate string   `form:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string   `form:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

// Overview counts projects per lifecycle bucket.
type Overview struct {
	Total      int `json:"total"`
	Planning   int `json:"planning"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
	Paused     int `json:"paused"`
	Cancelled  int `json:"cancelled"`
	Overdue    int `json:"overdue"`
}

// StatusCount is one entry of the status distribution.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// ProgressBucket is one entry of the progress distribution.
type ProgressBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// RegionStats aggregates the projects of one region.
type RegionStats struct {
	RegionID      string  `json:"regionId"`
	RegionName    string  `json:"regionName"`
	ProjectCount  int     `json:"projectCount"`
	AvgProgress   float64 `json:"avgProgress"`
	TotalBudget   float64 `json:"totalBudget"`
	ActualCost    float64 `json:"actualCost"`
	AvgBudget     float64 `json:"avgBudget"`
	AvgActualCost float64 `json:"avgActualCost"`
}

// TimelinePoint is one day of project activity.
type TimelinePoint struct {
	Date        string `json:"date"`
	Created     int    `json:"created"`
	Completed   int    `json:"completed"`
	Cancelled   int    `json:"cancelled"`
	ActiveTotal int    `json:"activeTotal"`
}

// BudgetAnalysis compares planned budgets with actual costs.
type BudgetAnalysis struct {
	TotalBudget       float64 `json:"totalBudget"`
	TotalActualCost   float64 `json:"totalActualCost"`
	UtilizationRate   float64 `json:"utilizationRate"`
	AvgCostPerProject float64 `json:"avgCostPerProject"`
	OverBudgetCount   int     `json:"overBudgetCount"`
}

// Statistics is the preparation dashboard.
type Statistics struct {
	Overview             Overview         `json:"overview"`
	StatusDistribution   []StatusCount    `json:"statusDistribution"`
	ProgressDistribution []ProgressBucket `json:"progressDistribution"`
	RegionDistribution   []RegionStats    `json:"regionDistribution"`
	TimelineData         []TimelinePoint  `json:"timelineData"`
	BudgetAnalysis       BudgetAnalysis   `json:"budgetAnalysis"`
	GeneratedAt          time.Time        `json:"generatedAt"`
}
