package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"store_opening_backend/internal/events"
	"store_opening_backend/internal/projects/domain"
	"store_opening_backend/internal/projects/repository"
	"store_opening_backend/platform/apperr"

	"github.com/google/uuid"
)

// fakeRepo is an in-memory Repository. InTx snapshots the state and restores
// it when fn fails, mirroring a rolled back transaction.
type fakeRepo struct {
	regions  map[uuid.UUID]repository.Region
	plans    map[uuid.UUID]repository.StorePlan
	managers map[uuid.UUID]repository.Manager
	projects map[uuid.UUID]repository.Project
	stores   []repository.Store
	counters map[string]int

	createStoreErr error
	incrementErr   error
	// beforeStatusWrite runs right before UpdateStatus checks the expected status.
	beforeStatusWrite func(id uuid.UUID)
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		regions:  make(map[uuid.UUID]repository.Region),
		plans:    make(map[uuid.UUID]repository.StorePlan),
		managers: make(map[uuid.UUID]repository.Manager),
		projects: make(map[uuid.UUID]repository.Project),
		counters: make(map[string]int),
	}
}

func (f *fakeRepo) InTx(_ context.Context, fn func(tx repository.Repository) error) error {
	projects := make(map[uuid.UUID]repository.Project, len(f.projects))
	for k, v := range f.projects {
		projects[k] = v
	}
	plans := make(map[uuid.UUID]repository.StorePlan, len(f.plans))
	for k, v := range f.plans {
		plans[k] = v
	}
	stores := append([]repository.Store(nil), f.stores...)
	counters := make(map[string]int, len(f.counters))
	for k, v := range f.counters {
		counters[k] = v
	}

	if err := fn(f); err != nil {
		f.projects, f.plans, f.stores, f.counters = projects, plans, stores, counters
		return err
	}
	return nil
}

func (f *fakeRepo) GetRegion(_ context.Context, id uuid.UUID) (repository.Region, error) {
	r, ok := f.regions[id]
	if !ok {
		return repository.Region{}, apperr.NotFound("region not found")
	}
	return r, nil
}

func (f *fakeRepo) GetStorePlan(_ context.Context, id uuid.UUID) (repository.StorePlan, error) {
	p, ok := f.plans[id]
	if !ok {
		return repository.StorePlan{}, apperr.NotFound("store plan not found")
	}
	return p, nil
}

func (f *fakeRepo) GetManager(_ context.Context, id uuid.UUID) (repository.Manager, error) {
	m, ok := f.managers[id]
	if !ok {
		return repository.Manager{}, apperr.NotFound("manager not found")
	}
	return m, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return repository.Project{}, apperr.NotFound("preparation project not found")
	}
	p.RegionName = f.regions[p.RegionID].Name
	p.RegionCode = f.regions[p.RegionID].Code
	p.StorePlanName = f.plans[p.StorePlanID].Name
	p.ManagerName = f.managers[p.ManagerID].Name
	return p, nil
}

func (f *fakeRepo) List(_ context.Context, params repository.ListParams) ([]repository.Project, int, error) {
	items := make([]repository.Project, 0)
	for _, p := range f.projects {
		if params.RegionID != nil && p.RegionID != *params.RegionID {
			continue
		}
		if params.Status != nil && string(p.Status) != *params.Status {
			continue
		}
		if params.Keyword != "" && !strings.Contains(strings.ToLower(p.StoreName), strings.ToLower(params.Keyword)) {
			continue
		}
		items = append(items, p)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProjectCode < items[j].ProjectCode })

	total := len(items)
	start := params.Offset
	if start > total {
		start = total
	}
	end := start + params.Limit
	if end > total {
		end = total
	}
	return items[start:end], total, nil
}

func (f *fakeRepo) ActiveNameExists(_ context.Context, regionID uuid.UUID, storeName string, excludeID *uuid.UUID) (bool, error) {
	for _, p := range f.projects {
		if excludeID != nil && p.ID == *excludeID {
			continue
		}
		if p.RegionID == regionID && p.Status != domain.StatusCancelled && strings.EqualFold(p.StoreName, storeName) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) ListOverdue(_ context.Context, asOf time.Time) ([]repository.Project, error) {
	out := make([]repository.Project, 0)
	for _, p := range f.projects {
		if domain.IsOverdue(p.Status, p.ExpectedOpenDate, asOf) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) NextSequence(_ context.Context, year int, regionCode string) (int, error) {
	key := fmt.Sprintf("%d-%s", year, regionCode)
	f.counters[key]++
	return f.counters[key], nil
}

func (f *fakeRepo) Create(_ context.Context, p repository.Project) error {
	f.projects[p.ID] = p
	return nil
}

func (f *fakeRepo) Update(_ context.Context, params repository.UpdateParams) error {
	p, ok := f.projects[params.ID]
	if !ok || p.Status != params.ExpectedStatus {
		return apperr.Conflict("preparation project was modified concurrently")
	}
	if params.StoreName != nil {
		p.StoreName = *params.StoreName
	}
	if params.StoreAddress != nil {
		p.StoreAddress = *params.StoreAddress
	}
	if params.ManagerID != nil {
		p.ManagerID = *params.ManagerID
	}
	if params.TotalBudget != nil {
		p.TotalBudget = *params.TotalBudget
	}
	if params.ActualCost != nil {
		p.ActualCost = *params.ActualCost
	}
	if params.PlanningArea != nil {
		p.PlanningArea = params.PlanningArea
	}
	if params.Priority != nil {
		p.Priority = *params.Priority
	}
	if params.Progress != nil {
		p.Progress = *params.Progress
	}
	f.projects[params.ID] = p
	return nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, u repository.StatusUpdate) error {
	if f.beforeStatusWrite != nil {
		f.beforeStatusWrite(u.ID)
	}
	p, ok := f.projects[u.ID]
	if !ok || p.Status != u.From {
		return apperr.Conflict("preparation project was modified concurrently")
	}
	p.Status = u.To
	p.Notes = u.Notes
	if u.Progress != nil {
		p.Progress = *u.Progress
	}
	if u.ActualOpenDate != nil {
		p.ActualOpenDate = u.ActualOpenDate
	}
	if u.CompletedAt != nil {
		p.CompletedAt = u.CompletedAt
	}
	if u.CancelledAt != nil {
		p.CancelledAt = u.CancelledAt
	}
	f.projects[u.ID] = p
	return nil
}

func (f *fakeRepo) CreateStore(_ context.Context, s repository.Store) error {
	if f.createStoreErr != nil {
		return f.createStoreErr
	}
	f.stores = append(f.stores, s)
	return nil
}

func (f *fakeRepo) IncrementStorePlanCompleted(_ context.Context, id uuid.UUID) error {
	if f.incrementErr != nil {
		return f.incrementErr
	}
	plan, ok := f.plans[id]
	if !ok {
		return apperr.NotFound("store plan not found")
	}
	plan.CompletedCount++
	f.plans[id] = plan
	return nil
}

// recordingBus captures published events synchronously.
type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func (b *recordingBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.EventName())
	}
	return out
}

var errStoreWrite = errors.New("stores table unavailable")

func withNotes(p repository.Project, notes string) repository.Project {
	p.Notes = notes
	return p
}
