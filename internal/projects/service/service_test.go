package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"store_opening_backend/internal/projects/domain"
	"store_opening_backend/internal/projects/repository"
	"store_opening_backend/internal/projects/transport"
	"store_opening_backend/platform/apperr"
	"store_opening_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svc       *Service
	repo      *fakeRepo
	bus       *recordingBus
	regionID  uuid.UUID
	planID    uuid.UUID
	managerID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newFakeRepo()
	bus := &recordingBus{}

	f := &fixture{
		repo:      repo,
		bus:       bus,
		regionID:  uuid.New(),
		planID:    uuid.New(),
		managerID: uuid.New(),
	}
	repo.regions[f.regionID] = repository.Region{ID: f.regionID, Name: "Shanghai", Code: "SH", IsActive: true}
	repo.plans[f.planID] = repository.StorePlan{ID: f.planID, Name: "2025 East", Status: domain.StorePlanApproved}
	repo.managers[f.managerID] = repository.Manager{ID: f.managerID, Name: "Li Wei", Email: "li.wei@example.com", IsActive: true}

	f.svc = New(repo, bus, logger.Discard())
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func (f *fixture) createRequest(name string) transport.CreateProjectRequest {
	return transport.CreateProjectRequest{
		RegionID:     f.regionID,
		StorePlanID:  f.planID,
		ManagerID:    f.managerID,
		StoreName:    name,
		StoreAddress: "88 Century Avenue",
		StoreType:    domain.StoreTypeStandard,
		TotalBudget:  1_000_000,
	}
}

// seed stores a project directly in the given status.
func (f *fixture) seed(t *testing.T, name string, status domain.Status) uuid.UUID {
	t.Helper()
	id := uuid.New()
	f.repo.projects[id] = repository.Project{
		ID:           id,
		ProjectCode:  fmt.Sprintf("PP-2025-SH-%04d", len(f.repo.projects)+1),
		RegionID:     f.regionID,
		StorePlanID:  f.planID,
		ManagerID:    f.managerID,
		StoreName:    name,
		StoreAddress: "1 Nanjing Road",
		StoreType:    domain.StoreTypeFlagship,
		TotalBudget:  decimal.NewFromInt(500000),
		Status:       status,
		Priority:     domain.PriorityMedium,
		CreatedAt:    fixedNow,
		UpdatedAt:    fixedNow,
	}
	return id
}

func TestCreateProjectDefaults(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(context.Background(), f.createRequest("People's Square"))
	require.NoError(t, err)

	assert.Equal(t, "PLANNING", resp.Status)
	assert.Equal(t, 0, resp.Progress)
	assert.Equal(t, domain.PriorityMedium, resp.Priority)
	assert.Equal(t, 1_000_000.0, resp.TotalBudget)
	assert.Equal(t, "PP-2025-SH-0001", resp.ProjectCode)
	assert.Regexp(t, domain.ProjectCodePattern, resp.ProjectCode)
	assert.Equal(t, "Shanghai", resp.Region.Name)
	assert.Equal(t, "Li Wei", resp.Manager.Name)
	assert.Equal(t, []string{"projects.project.created"}, f.bus.names())

	second, err := f.svc.Create(context.Background(), f.createRequest("Xujiahui"))
	require.NoError(t, err)
	assert.Equal(t, "PP-2025-SH-0002", second.ProjectCode)
}

func TestCreateProjectReferenceChecks(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *fixture, req *transport.CreateProjectRequest)
	}{
		{"unknown region", func(_ *fixture, req *transport.CreateProjectRequest) { req.RegionID = uuid.New() }},
		{"inactive region", func(f *fixture, _ *transport.CreateProjectRequest) {
			r := f.repo.regions[f.regionID]
			r.IsActive = false
			f.repo.regions[f.regionID] = r
		}},
		{"unknown plan", func(_ *fixture, req *transport.CreateProjectRequest) { req.StorePlanID = uuid.New() }},
		{"draft plan", func(f *fixture, _ *transport.CreateProjectRequest) {
			p := f.repo.plans[f.planID]
			p.Status = "DRAFT"
			f.repo.plans[f.planID] = p
		}},
		{"unknown manager", func(_ *fixture, req *transport.CreateProjectRequest) { req.ManagerID = uuid.New() }},
		{"inactive manager", func(f *fixture, _ *transport.CreateProjectRequest) {
			m := f.repo.managers[f.managerID]
			m.IsActive = false
			f.repo.managers[f.managerID] = m
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := f.createRequest("Jing'an")
			tt.mutate(f, &req)

			_, err := f.svc.Create(context.Background(), req)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindBadRequest), "got %v", err)
			assert.Empty(t, f.repo.projects)
		})
	}
}

func TestCreateProjectDuplicateName(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "Lujiazui", domain.StatusInProgress)

	_, err := f.svc.Create(context.Background(), f.createRequest("LUJIAZUI"))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestCreateProjectNameReusableAfterCancel(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "Lujiazui", domain.StatusCancelled)

	resp, err := f.svc.Create(context.Background(), f.createRequest("Lujiazui"))
	require.NoError(t, err)
	assert.Equal(t, "PLANNING", resp.Status)
}

func TestUpdateProject(t *testing.T) {
	f := newFixture(t)
	id := f.seed(t, "Hongqiao", domain.StatusInProgress)

	budget := 1234.567
	progress := 40
	resp, err := f.svc.Update(context.Background(), id, transport.UpdateProjectRequest{
		TotalBudget: &budget,
		Progress:    &progress,
	})
	require.NoError(t, err)
	assert.Equal(t, 1234.57, resp.TotalBudget)
	assert.Equal(t, 40, resp.Progress)
	assert.Equal(t, "Hongqiao", resp.StoreName)
	assert.True(t, f.repo.projects[id].TotalBudget.Equal(decimal.RequireFromString("1234.57")))
}

func TestUpdateProjectRejectedWhenTerminal(t *testing.T) {
	for _, status := range []domain.Status{domain.StatusCompleted, domain.StatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(t)
			id := f.seed(t, "Hongqiao", status)
			name := "Renamed"

			_, err := f.svc.Update(context.Background(), id, transport.UpdateProjectRequest{StoreName: &name})
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindForbidden))
			assert.Equal(t, "Hongqiao", f.repo.projects[id].StoreName)
		})
	}
}

func TestUpdateProjectNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Update(context.Background(), uuid.New(), transport.UpdateProjectRequest{})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUpdateProjectRenameConflict(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "Taikoo Li", domain.StatusPlanning)
	id := f.seed(t, "Hongqiao", domain.StatusPlanning)
	name := "taikoo li"

	_, err := f.svc.Update(context.Background(), id, transport.UpdateProjectRequest{StoreName: &name})
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestListPagination(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 5; i++ {
		f.seed(t, fmt.Sprintf("Store %d", i), domain.StatusPlanning)
	}

	resp, err := f.svc.List(context.Background(), transport.ListProjectsRequest{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, 5, resp.Pagination.Total)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.True(t, resp.Pagination.HasNext)
	assert.True(t, resp.Pagination.HasPrev)

	_, err = f.svc.List(context.Background(), transport.ListProjectsRequest{RegionID: "nope"})
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
}
