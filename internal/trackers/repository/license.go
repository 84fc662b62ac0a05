package repository

import (
	"context"
	"fmt"
	"time"

	"store_opening_backend/internal/trackers/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var licenseTable = table{
	name: "license_applications",
	columns: `id, preparation_project_id, license_type, issuing_authority, submitted_date,
		issue_date, expiry_date, license_number, certificate_url, status, progress,
		processing_steps, follow_up_records, created_at, updated_at`,
	keywords: []string{"license_type", "issuing_authority", "license_number"},
	entity:   "license application",
}

func scanLicense(row pgx.Row) (License, error) {
	var l License
	err := row.Scan(
		&l.ID, &l.PreparationProjectID, &l.LicenseType, &l.IssuingAuthority, &l.SubmittedDate,
		&l.IssueDate, &l.ExpiryDate, &l.LicenseNumber, &l.CertificateURL, &l.Status, &l.Progress,
		&l.ProcessingSteps, &l.FollowUpRecords, &l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

// CreateLicense inserts a license application.
func (r *Repo) CreateLicense(ctx context.Context, l License) error {
	query := `
		INSERT INTO license_applications (
			id, preparation_project_id, license_type, issuing_authority,
			status, progress, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.q.Exec(ctx, query,
		l.ID, l.PreparationProjectID, l.LicenseType, l.IssuingAuthority,
		l.Status.String(), l.Progress, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create license application: %w", err)
	}
	return nil
}

// GetLicense retrieves a license application.
func (r *Repo) GetLicense(ctx context.Context, id uuid.UUID) (License, error) {
	return getOne(ctx, r.q, licenseTable, id, false, scanLicense)
}

// LockLicense retrieves a license application with a row lock.
func (r *Repo) LockLicense(ctx context.Context, id uuid.UUID) (License, error) {
	return getOne(ctx, r.q, licenseTable, id, true, scanLicense)
}

// ListLicenses lists license applications.
func (r *Repo) ListLicenses(ctx context.Context, params ListParams) ([]License, int, error) {
	return list(ctx, r.q, licenseTable, params, scanLicense)
}

// UpdateLicense writes issue details and appends processing steps and follow-ups.
func (r *Repo) UpdateLicense(ctx context.Context, u LicenseUpdate) error {
	steps, err := appendJSON(u.AppendSteps)
	if err != nil {
		return err
	}
	followUps, err := appendJSON(u.AppendFollowUps)
	if err != nil {
		return err
	}

	query := `
		UPDATE license_applications SET
			status = $2,
			progress = $3,
			submitted_date = COALESCE($4::date, submitted_date),
			issue_date = COALESCE($5::date, issue_date),
			expiry_date = COALESCE($6::date, expiry_date),
			license_number = COALESCE($7::text, license_number),
			certificate_url = COALESCE($8::text, certificate_url),
			processing_steps = processing_steps || $9::jsonb,
			follow_up_records = follow_up_records || $10::jsonb,
			updated_at = now()
		WHERE id = $1`

	return execUpdate(ctx, r.q, licenseTable, query,
		u.ID, u.Status.String(), u.Progress, u.SubmittedDate, u.IssueDate, u.ExpiryDate,
		u.LicenseNumber, u.CertificateURL, steps, followUps,
	)
}

// MarkLicensesExpired moves issued licenses past their expiry date to EXPIRED
// and returns how many moved.
func (r *Repo) MarkLicensesExpired(ctx context.Context, asOf time.Time, step domain.ProcessingStep) (int, error) {
	steps, err := appendJSON([]domain.ProcessingStep{step})
	if err != nil {
		return 0, err
	}

	query := `
		UPDATE license_applications SET
			status = $2,
			progress = $3,
			processing_steps = processing_steps || $5::jsonb,
			updated_at = now()
		WHERE status = $4
			AND expiry_date IS NOT NULL
			AND expiry_date < $1::date`

	tag, err := r.q.Exec(ctx, query, asOf,
		domain.LicenseExpired.String(), domain.LicenseProgress(domain.LicenseExpired),
		domain.LicenseIssued.String(), steps,
	)
	if err != nil {
		return 0, fmt.Errorf("mark expired licenses: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
