package service

import (
	"context"
	"io"
	"strings"

	"store_opening_backend/internal/events"
	"store_opening_backend/internal/shared/calendar"
	"store_opening_backend/internal/trackers/domain"
	"store_opening_backend/internal/trackers/repository"
	"store_opening_backend/internal/trackers/transport"
	"store_opening_backend/platform/apperr"
	"store_opening_backend/platform/sanitize"

	"github.com/google/uuid"
)

const licenseEntity = "license_application"

// CreateLicense opens a license application in PREPARING.
func (s *Service) CreateLicense(ctx context.Context, req transport.CreateLicenseRequest) (transport.LicenseResponse, error) {
	if err := s.requireParent(ctx, req.PreparationProjectID); err != nil {
		return transport.LicenseResponse{}, err
	}

	now := s.now().UTC()
	l := repository.License{
		ID:                   uuid.New(),
		PreparationProjectID: req.PreparationProjectID,
		LicenseType:          sanitize.SingleLine(req.LicenseType),
		IssuingAuthority:     singleLinePtr(req.IssuingAuthority),
		Status:               domain.LicensePreparing,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.repo.CreateLicense(ctx, l); err != nil {
		return transport.LicenseResponse{}, err
	}

	s.log.Info("license application created", "id", l.ID, "preparationProjectId", l.PreparationProjectID)
	return s.GetLicense(ctx, l.ID)
}

// GetLicense retrieves a license application.
func (s *Service) GetLicense(ctx context.Context, id uuid.UUID) (transport.LicenseResponse, error) {
	l, err := s.repo.GetLicense(ctx, id)
	if err != nil {
		return transport.LicenseResponse{}, err
	}
	return toLicenseResponse(l), nil
}

// ListLicenses lists license applications.
func (s *Service) ListLicenses(ctx context.Context, req transport.ListRequest) (transport.ListResponse[transport.LicenseResponse], error) {
	params, page, limit, err := listParams(req)
	if err != nil {
		return transport.ListResponse[transport.LicenseResponse]{}, err
	}
	items, total, err := s.repo.ListLicenses(ctx, params)
	if err != nil {
		return transport.ListResponse[transport.LicenseResponse]{}, err
	}
	return listResponse(items, page, limit, total, toLicenseResponse), nil
}

// UpdateLicenseProgress records a processing step with its follow-up note and
// optionally moves the application along its review steps.
func (s *Service) UpdateLicenseProgress(ctx context.Context, id uuid.UUID, req transport.LicenseProgressRequest, actor Actor) (transport.LicenseResponse, error) {
	var before, after repository.License
	err := s.repo.InTx(ctx, func(tx repository.Repository) error {
		current, err := tx.LockLicense(ctx, id)
		if err != nil {
			return err
		}
		before = current
		if !current.Status.AcceptsProcessing() {
			return apperr.Forbidden("license is " + current.Status.String() + " and no longer accepts processing steps")
		}

		status := current.Status
		update := repository.LicenseUpdate{ID: id}
		if req.Status != nil && *req.Status != current.Status {
			if !domain.CanMoveLicense(current.Status, *req.Status) {
				return apperr.BadRequestf("illegal license transition from %s to %s", current.Status, *req.Status)
			}
			status = *req.Status
		}
		update.Status = status
		update.Progress = domain.LicenseProgress(status)

		now := s.now().UTC()
		if status == domain.LicenseSubmitted && current.SubmittedDate == nil {
			submitted := calendar.DateOnly(now)
			update.SubmittedDate = &submitted
		}

		stepStatus := req.StepStatus
		if stepStatus == "" {
			stepStatus = status.String()
		}
		step := domain.ProcessingStep{
			Step:        sanitize.SingleLine(req.Step),
			Status:      sanitize.SingleLine(stepStatus),
			Operator:    actor.label(),
			Description: sanitize.Text(req.Description),
			OccurredAt:  now,
		}
		update.AppendSteps = []domain.ProcessingStep{step}
		update.AppendFollowUps = []domain.FollowUpRecord{{
			Note:      followUpNote(req, step),
			Author:    actor.label(),
			CreatedAt: now,
		}}

		if err := tx.UpdateLicense(ctx, update); err != nil {
			return err
		}
		after, err = tx.GetLicense(ctx, id)
		return err
	})
	if err != nil {
		return transport.LicenseResponse{}, err
	}

	s.recordTransition(licenseEntity, id, before.Status.String(), after.Status.String())
	return toLicenseResponse(after), nil
}

// ConfirmIssued records the issued license. Every status may move to ISSUED,
// which also corrects an issued license or renews an expired one.
func (s *Service) ConfirmIssued(ctx context.Context, id uuid.UUID, req transport.ConfirmIssuedRequest, actor Actor) (transport.LicenseResponse, error) {
	var before, after repository.License
	err := s.repo.InTx(ctx, func(tx repository.Repository) error {
		current, err := tx.LockLicense(ctx, id)
		if err != nil {
			return err
		}
		before = current
		if !domain.CanTransitionLicense(current.Status, domain.LicenseIssued) {
			return apperr.BadRequestf("illegal license transition from %s to %s", current.Status, domain.LicenseIssued)
		}

		now := s.now().UTC()
		issuedOn := calendar.DateOnly(now)
		if req.IssueDate != nil {
			issuedOn = calendar.DateOnly(*req.IssueDate)
		}
		if req.ExpiryDate != nil && req.ExpiryDate.Before(issuedOn) {
			return apperr.BadRequest("expiry date is before issue date")
		}
		licenseNumber := sanitize.SingleLine(req.LicenseNumber)

		err = tx.UpdateLicense(ctx, repository.LicenseUpdate{
			ID:             id,
			Status:         domain.LicenseIssued,
			Progress:       domain.LicenseProgress(domain.LicenseIssued),
			IssueDate:      &issuedOn,
			ExpiryDate:     calendar.DateOnlyPtr(req.ExpiryDate),
			LicenseNumber:  &licenseNumber,
			CertificateURL: req.CertificateURL,
			AppendSteps: []domain.ProcessingStep{{
				Step:       "issued",
				Status:     domain.LicenseIssued.String(),
				Operator:   actor.label(),
				OccurredAt: now,
			}},
		})
		if err != nil {
			return err
		}
		after, err = tx.GetLicense(ctx, id)
		return err
	})
	if err != nil {
		return transport.LicenseResponse{}, err
	}

	s.recordTransition(licenseEntity, id, before.Status.String(), after.Status.String())
	s.publish(ctx, events.LicenseIssued{
		BaseEvent:            events.NewBaseEvent(),
		LicenseApplicationID: id,
		PreparationProjectID: after.PreparationProjectID,
		LicenseNumber:        derefString(after.LicenseNumber),
		ExpiryDate:           after.ExpiryDate,
	})
	return toLicenseResponse(after), nil
}

// ExpireLicenses moves issued licenses past their expiry date to EXPIRED.
// The overdue sweep calls it.
func (s *Service) ExpireLicenses(ctx context.Context) (int, error) {
	now := s.now().UTC()
	count, err := s.repo.MarkLicensesExpired(ctx, calendar.DateOnly(now), domain.ProcessingStep{
		Step:       "expired",
		Status:     domain.LicenseExpired.String(),
		Operator:   "system",
		OccurredAt: now,
	})
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.log.Info("licenses marked expired", "count", count)
	}
	return count, nil
}

// UploadCertificate stores a license certificate scan and returns its key
// with a download URL to pass as certificateUrl.
func (s *Service) UploadCertificate(ctx context.Context, id uuid.UUID, fileName, contentType string, reader io.Reader, size int64) (transport.UploadResponse, error) {
	if _, err := s.repo.GetLicense(ctx, id); err != nil {
		return transport.UploadResponse{}, err
	}
	return s.upload(ctx, s.buckets.Certificates, "licenses/"+id.String(), fileName, contentType, reader, size)
}

func (s *Service) upload(ctx context.Context, bucket, folder, fileName, contentType string, reader io.Reader, size int64) (transport.UploadResponse, error) {
	if s.storage == nil {
		return transport.UploadResponse{}, apperr.BadRequest("file storage is not configured")
	}
	if err := s.storage.ValidateContentType(contentType); err != nil {
		return transport.UploadResponse{}, apperr.BadRequest(err.Error())
	}
	if err := s.storage.ValidateFileSize(size); err != nil {
		return transport.UploadResponse{}, apperr.BadRequest(err.Error())
	}

	key, err := s.storage.UploadFile(ctx, bucket, folder, fileName, contentType, reader, size)
	if err != nil {
		return transport.UploadResponse{}, err
	}
	url, err := s.storage.GenerateDownloadURL(ctx, bucket, key)
	if err != nil {
		return transport.UploadResponse{}, err
	}

	s.log.Info("file uploaded", "bucket", bucket, "key", key, "size", size)
	return transport.UploadResponse{FileKey: key, URL: url.URL, ExpiresAt: url.ExpiresAt}, nil
}

func followUpNote(req transport.LicenseProgressRequest, step domain.ProcessingStep) string {
	if note := strings.TrimSpace(sanitize.Text(req.FollowUp)); note != "" {
		return note
	}
	if step.Description != "" {
		return step.Step + ": " + step.Description
	}
	return step.Step
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func toLicenseResponse(l repository.License) transport.LicenseResponse {
	steps := l.ProcessingSteps
	if steps == nil {
		steps = []domain.ProcessingStep{}
	}
	followUps := l.FollowUpRecords
	if followUps == nil {
		followUps = []domain.FollowUpRecord{}
	}
	return transport.LicenseResponse{
		ID:                   l.ID,
		PreparationProjectID: l.PreparationProjectID,
		LicenseType:          l.LicenseType,
		IssuingAuthority:     l.IssuingAuthority,
		SubmittedDate:        l.SubmittedDate,
		IssueDate:            l.IssueDate,
		ExpiryDate:           l.ExpiryDate,
		LicenseNumber:        l.LicenseNumber,
		CertificateURL:       l.CertificateURL,
		Status:               l.Status,
		Progress:             l.Progress,
		ProcessingSteps:      steps,
		FollowUpRecords:      followUps,
		CreatedAt:            l.CreatedAt,
		UpdatedAt:            l.UpdatedAt,
	}
}
