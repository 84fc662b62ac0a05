package notification

import (
	"context"
	"errors"
	"fmt"

	"store_opening_backend/platform/apperr"
	"store_opening_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Contact is where a user receives notifications.
type Contact struct {
	Name  string
	Email string
}

// RecipientReader resolves users to their contact details.
type RecipientReader interface {
	GetContact(ctx context.Context, userID uuid.UUID) (Contact, error)
}

// UserDirectory reads active users from app_users.
type UserDirectory struct {
	q db.Querier
}

// NewUserDirectory creates a RecipientReader backed by PostgreSQL.
func NewUserDirectory(pool *pgxpool.Pool) *UserDirectory {
	return &UserDirectory{q: pool}
}

func (d *UserDirectory) GetContact(ctx context.Context, userID uuid.UUID) (Contact, error) {
	var c Contact
	err := d.q.QueryRow(ctx, `
		SELECT name, email FROM app_users WHERE id = $1 AND is_active = TRUE`, userID,
	).Scan(&c.Name, &c.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return Contact{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return Contact{}, fmt.Errorf("get user contact: %w", err)
	}
	return c, nil
}
