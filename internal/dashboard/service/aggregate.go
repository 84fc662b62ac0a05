package service

import (
	"sort"
	"time"

	"store_opening_backend/internal/dashboard/repository"
	"store_opening_backend/internal/dashboard/transport"
	projectdomain "store_opening_backend/internal/projects/domain"
	"store_opening_backend/internal/shared/calendar"
	"store_opening_backend/platform/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const unknownRegion = "Unknown region"

type progressRange struct {
	label    string
	min, max int
}

var progressRanges = []progressRange{
	{label: "0", min: 0, max: 0},
	{label: "1-25", min: 1, max: 25},
	{label: "26-50", min: 26, max: 50},
	{label: "51-75", min: 51, max: 75},
	{label: "76-99", min: 76, max: 99},
	{label: "100", min: 100, max: 100},
}

func aggregate(facts []repository.ProjectFact, names map[uuid.UUID]string, now time.Time) transport.Statistics {
	return transport.Statistics{
		Overview:             overview(facts, now),
		StatusDistribution:   statusDistribution(facts),
		ProgressDistribution: progressDistribution(facts),
		RegionDistribution:   regionDistribution(groupByRegion(facts), names),
		TimelineData:         timeline(facts),
		BudgetAnalysis:       budgetAnalysis(facts),
		GeneratedAt:          now,
	}
}

func overview(facts []repository.ProjectFact, now time.Time) transport.Overview {
	out := transport.Overview{Total: len(facts)}
	for _, f := range facts {
		status := projectdomain.Status(f.Status)
		switch status {
		case projectdomain.StatusPlanning:
			out.Planning++
		case projectdomain.StatusInProgress:
			out.InProgress++
		case projectdomain.StatusPaused:
			out.Paused++
		case projectdomain.StatusCompleted:
			out.Completed++
		case projectdomain.StatusCancelled:
			out.Cancelled++
		}
		if projectdomain.IsOverdue(status, f.ExpectedOpenDate, now) {
			out.Overdue++
		}
	}
	return out
}

func statusDistribution(facts []repository.ProjectFact) []transport.StatusCount {
	counts := make(map[string]int, len(projectdomain.AllStatuses))
	for _, f := range facts {
		counts[f.Status]++
	}
	out := make([]transport.StatusCount, 0, len(projectdomain.AllStatuses))
	for _, s := range projectdomain.AllStatuses {
		out = append(out, transport.StatusCount{Status: string(s), Count: counts[string(s)]})
	}
	return out
}

func progressDistribution(facts []repository.ProjectFact) []transport.ProgressBucket {
	out := make([]transport.ProgressBucket, len(progressRanges))
	for i, r := range progressRanges {
		out[i].Range = r.label
	}
	for _, f := range facts {
		for i, r := range progressRanges {
			if f.Progress >= r.min && f.Progress <= r.max {
				out[i].Count++
				break
			}
		}
	}
	return out
}

// regionGroup is the per-region rollup of the scanned projects.
type regionGroup struct {
	regionID      uuid.UUID
	count         int
	progressTotal int64
	budget        decimal.Decimal
	actual        decimal.Decimal
}

// groupByRegion rolls the scanned projects up per region, in first-seen order.
func groupByRegion(facts []repository.ProjectFact) []regionGroup {
	index := make(map[uuid.UUID]int)
	groups := make([]regionGroup, 0)
	for _, f := range facts {
		i, ok := index[f.RegionID]
		if !ok {
			i = len(groups)
			index[f.RegionID] = i
			groups = append(groups, regionGroup{regionID: f.RegionID, budget: decimal.Zero, actual: decimal.Zero})
		}
		g := &groups[i]
		g.count++
		g.progressTotal += int64(f.Progress)
		g.budget = g.budget.Add(f.TotalBudget)
		g.actual = g.actual.Add(f.ActualCost)
	}
	return groups
}

// regionDistribution joins the grouped figures with region names, largest
// regions first.
func regionDistribution(groups []regionGroup, names map[uuid.UUID]string) []transport.RegionStats {
	out := make([]transport.RegionStats, 0, len(groups))
	for _, g := range groups {
		name, ok := names[g.regionID]
		if !ok {
			name = unknownRegion
		}
		out = append(out, transport.RegionStats{
			RegionID:      g.regionID.String(),
			RegionName:    name,
			ProjectCount:  g.count,
			AvgProgress:   money.ToFloat(money.Average(decimal.NewFromInt(g.progressTotal), g.count)),
			TotalBudget:   money.ToFloat(g.budget),
			ActualCost:    money.ToFloat(g.actual),
			AvgBudget:     money.ToFloat(money.Average(g.budget, g.count)),
			AvgActualCost: money.ToFloat(money.Average(g.actual, g.count)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ProjectCount != out[j].ProjectCount {
			return out[i].ProjectCount > out[j].ProjectCount
		}
		return out[i].RegionName < out[j].RegionName
	})
	return out
}

// timeline buckets activity per UTC day. activeTotal runs over the days in
// order: created minus completed minus cancelled.
func timeline(facts []repository.ProjectFact) []transport.TimelinePoint {
	days := make(map[time.Time]*transport.TimelinePoint)
	point := func(t time.Time) *transport.TimelinePoint {
		day := calendar.DateOnly(t)
		p, ok := days[day]
		if !ok {
			p = &transport.TimelinePoint{Date: day.Format(time.DateOnly)}
			days[day] = p
		}
		return p
	}

	for _, f := range facts {
		point(f.CreatedAt).Created++
		if f.CompletedAt != nil {
			point(*f.CompletedAt).Completed++
		}
		if f.CancelledAt != nil {
			point(*f.CancelledAt).Cancelled++
		}
	}

	keys := make([]time.Time, 0, len(days))
	for day := range days {
		keys = append(keys, day)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	out := make([]transport.TimelinePoint, 0, len(keys))
	active := 0
	for _, day := range keys {
		p := days[day]
		active += p.Created - p.Completed - p.Cancelled
		p.ActiveTotal = active
		out = append(out, *p)
	}
	return out
}

func budgetAnalysis(facts []repository.ProjectFact) transport.BudgetAnalysis {
	budget := decimal.Zero
	actual := decimal.Zero
	over := 0
	for _, f := range facts {
		budget = budget.Add(f.TotalBudget)
		actual = actual.Add(f.ActualCost)
		if f.ActualCost.GreaterThan(f.TotalBudget) {
			over++
		}
	}
	return transport.BudgetAnalysis{
		TotalBudget:       money.ToFloat(budget),
		TotalActualCost:   money.ToFloat(actual),
		UtilizationRate:   money.ToFloat(money.Ratio(actual, budget)),
		AvgCostPerProject: money.ToFloat(money.Average(actual, len(facts))),
		OverBudgetCount:   over,
	}
}
