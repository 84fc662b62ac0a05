package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"store_opening_backend/internal/adapters/storage"
	"store_opening_backend/internal/events"
	"store_opening_backend/internal/trackers/domain"
	"store_opening_backend/internal/trackers/repository"
	"store_opening_backend/platform/apperr"
	"store_opening_backend/platform/logger"

	"github.com/google/uuid"
)

// fakeRepo is an in-memory Repository that applies updates the way the SQL
// does: nil fields keep their value and history entries are appended. InTx
// restores the previous state when fn fails.
type fakeRepo struct {
	projects      map[uuid.UUID]bool
	constructions map[uuid.UUID]repository.Construction
	procurements  map[uuid.UUID]repository.Procurement
	licenses      map[uuid.UUID]repository.License
	recruitments  map[uuid.UUID]repository.Recruitment
	milestones    map[uuid.UUID]repository.Milestone

	updateErr error
	delayedAt time.Time
	expiredAt time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		projects:      make(map[uuid.UUID]bool),
		constructions: make(map[uuid.UUID]repository.Construction),
		procurements:  make(map[uuid.UUID]repository.Procurement),
		licenses:      make(map[uuid.UUID]repository.License),
		recruitments:  make(map[uuid.UUID]repository.Recruitment),
		milestones:    make(map[uuid.UUID]repository.Milestone),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (f *fakeRepo) InTx(_ context.Context, fn func(tx repository.Repository) error) error {
	constructions := cloneMap(f.constructions)
	procurements := cloneMap(f.procurements)
	licenses := cloneMap(f.licenses)
	recruitments := cloneMap(f.recruitments)
	milestones := cloneMap(f.milestones)

	if err := fn(f); err != nil {
		f.constructions = constructions
		f.procurements = procurements
		f.licenses = licenses
		f.recruitments = recruitments
		f.milestones = milestones
		return err
	}
	return nil
}

func (f *fakeRepo) ProjectExists(_ context.Context, id uuid.UUID) (bool, error) {
	return f.projects[id], nil
}

func (f *fakeRepo) addProject() uuid.UUID {
	id := uuid.New()
	f.projects[id] = true
	return id
}

// Construction

func (f *fakeRepo) CreateConstruction(_ context.Context, c repository.Construction) error {
	f.constructions[c.ID] = c
	return nil
}

func (f *fakeRepo) GetConstruction(_ context.Context, id uuid.UUID) (repository.Construction, error) {
	c, ok := f.constructions[id]
	if !ok {
		return repository.Construction{}, apperr.NotFound("construction project not found")
	}
	return c, nil
}

func (f *fakeRepo) LockConstruction(ctx context.Context, id uuid.UUID) (repository.Construction, error) {
	return f.GetConstruction(ctx, id)
}

func (f *fakeRepo) ListConstructions(_ context.Context, params repository.ListParams) ([]repository.Construction, int, error) {
	items := make([]repository.Construction, 0)
	for _, c := range f.constructions {
		if params.PreparationProjectID != nil && c.PreparationProjectID != *params.PreparationProjectID {
			continue
		}
		if params.Status != nil && c.Status.String() != *params.Status {
			continue
		}
		if params.Keyword != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(params.Keyword)) {
			continue
		}
		items = append(items, c)
	}
	return items, len(items), nil
}

func (f *fakeRepo) UpdateConstruction(_ context.Context, u repository.ConstructionUpdate) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	c, ok := f.constructions[u.ID]
	if !ok {
		return apperr.NotFound("construction project not found")
	}
	c.Status = u.Status
	c.Progress = u.Progress
	if u.ProgressDescription != nil {
		c.ProgressDescription = u.ProgressDescription
	}
	if u.ActualAmount != nil {
		c.ActualAmount = *u.ActualAmount
	}
	if u.Acceptance != nil {
		c.Acceptance = u.Acceptance
	}
	c.ProgressUpdates = append(append(c.ProgressUpdates[:0:0], c.ProgressUpdates...), u.AppendUpdates...)
	f.constructions[u.ID] = c
	return nil
}

// Procurement

func (f *fakeRepo) CreateProcurement(_ context.Context, p repository.Procurement) error {
	f.procurements[p.ID] = p
	return nil
}

func (f *fakeRepo) GetProcurement(_ context.Context, id uuid.UUID) (repository.Procurement, error) {
	p, ok := f.procurements[id]
	if !ok {
		return repository.Procurement{}, apperr.NotFound("equipment procurement not found")
	}
	return p, nil
}

func (f *fakeRepo) LockProcurement(ctx context.Context, id uuid.UUID) (repository.Procurement, error) {
	return f.GetProcurement(ctx, id)
}

func (f *fakeRepo) ListProcurements(_ context.Context, _ repository.ListParams) ([]repository.Procurement, int, error) {
	items := make([]repository.Procurement, 0, len(f.procurements))
	for _, p := range f.procurements {
		items = append(items, p)
	}
	return items, len(items), nil
}

func (f *fakeRepo) UpdateProcurement(_ context.Context, u repository.ProcurementUpdate) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	p, ok := f.procurements[u.ID]
	if !ok {
		return apperr.NotFound("equipment procurement not found")
	}
	p.Status = u.Status
	p.Progress = u.Progress
	if u.ActualDeliveryDate != nil {
		p.ActualDeliveryDate = u.ActualDeliveryDate
	}
	if u.QualityInspection != nil {
		p.QualityInspection = u.QualityInspection
	}
	p.StatusHistory = append(append(p.StatusHistory[:0:0], p.StatusHistory...), u.AppendHistory...)
	f.procurements[u.ID] = p
	return nil
}

// License

func (f *fakeRepo) CreateLicense(_ context.Context, l repository.License) error {
	f.licenses[l.ID] = l
	return nil
}

func (f *fakeRepo) GetLicense(_ context.Context, id uuid.UUID) (repository.License, error) {
	l, ok := f.licenses[id]
	if !ok {
		return repository.License{}, apperr.NotFound("license application not found")
	}
	return l, nil
}

func (f *fakeRepo) LockLicense(ctx context.Context, id uuid.UUID) (repository.License, error) {
	return f.GetLicense(ctx, id)
}

func (f *fakeRepo) ListLicenses(_ context.Context, _ repository.ListParams) ([]repository.License, int, error) {
	items := make([]repository.License, 0, len(f.licenses))
	for _, l := range f.licenses {
		items = append(items, l)
	}
	return items, len(items), nil
}

func (f *fakeRepo) UpdateLicense(_ context.Context, u repository.LicenseUpdate) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	l, ok := f.licenses[u.ID]
	if !ok {
		return apperr.NotFound("license application not found")
	}
	l.Status = u.Status
	l.Progress = u.Progress
	if u.SubmittedDate != nil {
		l.SubmittedDate = u.SubmittedDate
	}
	if u.IssueDate != nil {
		l.IssueDate = u.IssueDate
	}
	if u.ExpiryDate != nil {
		l.ExpiryDate = u.ExpiryDate
	}
	if u.LicenseNumber != nil {
		l.LicenseNumber = u.LicenseNumber
	}
	if u.CertificateURL != nil {
		l.CertificateURL = u.CertificateURL
	}
	l.ProcessingSteps = append(append(l.ProcessingSteps[:0:0], l.ProcessingSteps...), u.AppendSteps...)
	l.FollowUpRecords = append(append(l.FollowUpRecords[:0:0], l.FollowUpRecords...), u.AppendFollowUps...)
	f.licenses[u.ID] = l
	return nil
}

func (f *fakeRepo) MarkLicensesExpired(_ context.Context, asOf time.Time, step domain.ProcessingStep) (int, error) {
	f.expiredAt = asOf
	count := 0
	for id, l := range f.licenses {
		if l.Status != domain.LicenseIssued || l.ExpiryDate == nil || !l.ExpiryDate.Before(asOf) {
			continue
		}
		l.Status = domain.LicenseExpired
		l.Progress = domain.LicenseProgress(domain.LicenseExpired)
		l.ProcessingSteps = append(append(l.ProcessingSteps[:0:0], l.ProcessingSteps...), step)
		f.licenses[id] = l
		count++
	}
	return count, nil
}

// Recruitment

func (f *fakeRepo) CreateRecruitment(_ context.Context, r repository.Recruitment) error {
	f.recruitments[r.ID] = r
	return nil
}

func (f *fakeRepo) GetRecruitment(_ context.Context, id uuid.UUID) (repository.Recruitment, error) {
	r, ok := f.recruitments[id]
	if !ok {
		return repository.Recruitment{}, apperr.NotFound("staff recruitment not found")
	}
	return r, nil
}

func (f *fakeRepo) LockRecruitment(ctx context.Context, id uuid.UUID) (repository.Recruitment, error) {
	return f.GetRecruitment(ctx, id)
}

func (f *fakeRepo) ListRecruitments(_ context.Context, _ repository.ListParams) ([]repository.Recruitment, int, error) {
	items := make([]repository.Recruitment, 0, len(f.recruitments))
	for _, r := range f.recruitments {
		items = append(items, r)
	}
	return items, len(items), nil
}

func (f *fakeRepo) UpdateRecruitment(_ context.Context, u repository.RecruitmentUpdate) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	r, ok := f.recruitments[u.ID]
	if !ok {
		return apperr.NotFound("staff recruitment not found")
	}
	r.Status = u.Status
	r.Progress = u.Progress
	r.ApplicationStats = u.ApplicationStats
	r.Interviews = append(append(r.Interviews[:0:0], r.Interviews...), u.AppendInterviews...)
	r.Offers = append(append(r.Offers[:0:0], r.Offers...), u.AppendOffers...)
	r.HiredCandidates = append(append(r.HiredCandidates[:0:0], r.HiredCandidates...), u.AppendHired...)
	f.recruitments[u.ID] = r
	return nil
}

// Milestone

func (f *fakeRepo) CreateMilestone(_ context.Context, m repository.Milestone) error {
	f.milestones[m.ID] = m
	return nil
}

func (f *fakeRepo) GetMilestone(_ context.Context, id uuid.UUID) (repository.Milestone, error) {
	m, ok := f.milestones[id]
	if !ok {
		return repository.Milestone{}, apperr.NotFound("milestone not found")
	}
	return m, nil
}

func (f *fakeRepo) LockMilestone(ctx context.Context, id uuid.UUID) (repository.Milestone, error) {
	return f.GetMilestone(ctx, id)
}

func (f *fakeRepo) ListMilestones(_ context.Context, _ repository.ListParams) ([]repository.Milestone, int, error) {
	items := make([]repository.Milestone, 0, len(f.milestones))
	for _, m := range f.milestones {
		items = append(items, m)
	}
	return items, len(items), nil
}

func (f *fakeRepo) UpdateMilestone(_ context.Context, u repository.MilestoneUpdate) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	m, ok := f.milestones[u.ID]
	if !ok {
		return apperr.NotFound("milestone not found")
	}
	m.Status = u.Status
	m.Progress = u.Progress
	if u.CompletedDate != nil {
		m.CompletedDate = u.CompletedDate
	}
	if u.Checklist != nil {
		m.CriteriaChecklist = u.Checklist
	}
	m.ProgressUpdates = append(append(m.ProgressUpdates[:0:0], m.ProgressUpdates...), u.AppendUpdates...)
	m.Approvals = append(append(m.Approvals[:0:0], m.Approvals...), u.AppendApprovals...)
	f.milestones[u.ID] = m
	return nil
}

func (f *fakeRepo) MarkMilestonesDelayed(_ context.Context, asOf time.Time) (int, error) {
	f.delayedAt = asOf
	count := 0
	for id, m := range f.milestones {
		if m.PlannedDate == nil || !m.PlannedDate.Before(asOf) {
			continue
		}
		if !m.Status.CanDelay() {
			continue
		}
		m.Status = domain.MilestoneDelayed
		f.milestones[id] = m
		count++
	}
	return count, nil
}

// recordingBus captures published events.
type recordingBus struct {
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

// fakeStorage is an in-memory object store.
type fakeStorage struct {
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (s *fakeStorage) UploadFile(_ context.Context, bucket, folder, fileName, _ string, reader io.Reader, _ int64) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return "", err
	}
	key := storage.BuildFileKey(folder, fileName, "test")
	s.objects[bucket+"/"+key] = buf.Bytes()
	return key, nil
}

func (s *fakeStorage) GenerateDownloadURL(_ context.Context, bucket, fileKey string) (*storage.PresignedURL, error) {
	return &storage.PresignedURL{
		URL:       fmt.Sprintf("https://files.test/%s/%s", bucket, fileKey),
		FileKey:   fileKey,
		ExpiresAt: time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC),
	}, nil
}

func (s *fakeStorage) EnsureBucketExists(context.Context, string) error { return nil }

func (s *fakeStorage) ValidateContentType(contentType string) error {
	if contentType != "application/pdf" && contentType != "image/jpeg" {
		return fmt.Errorf("content type %q is not allowed", contentType)
	}
	return nil
}

func (s *fakeStorage) ValidateFileSize(size int64) error {
	if size <= 0 {
		return fmt.Errorf("file size must be greater than 0")
	}
	return nil
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

var testActor = Actor{ID: uuid.MustParse("7b0c4f8e-3a52-4d7e-9a46-5f1f3c2b9d10"), Name: "Li Na"}

func newTestService(repo *fakeRepo) (*Service, *recordingBus, *fakeStorage) {
	bus := &recordingBus{}
	store := newFakeStorage()
	svc := New(repo, store, Buckets{Certificates: "certs", InspectionPhotos: "photos"}, bus, logger.Discard())
	svc.now = func() time.Time { return fixedNow }
	return svc, bus, store
}
