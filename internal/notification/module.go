// Package notification sends emails in response to preparation project events.
// Domain modules publish events and never know about mail delivery.
package notification

import (
	"context"
	"fmt"

	"store_opening_backend/internal/email"
	"store_opening_backend/internal/events"
	"store_opening_backend/platform/apperr"
	"store_opening_backend/platform/logger"

	"github.com/google/uuid"
)

// Module subscribes to project events and emails the project manager.
type Module struct {
	recipients RecipientReader
	sender     email.Sender
	log        *logger.Logger
}

// New creates the notification module.
func New(recipients RecipientReader, sender email.Sender, log *logger.Logger) *Module {
	return &Module{recipients: recipients, sender: sender, log: log}
}

// RegisterHandlers subscribes to the events that produce notifications.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.ProjectCompleted{}.EventName(), m)
	bus.Subscribe(events.ProjectOverdue{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.ProjectCompleted:
		return m.handleProjectCompleted(ctx, e)
	case events.ProjectOverdue:
		return m.handleProjectOverdue(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleProjectCompleted(ctx context.Context, e events.ProjectCompleted) error {
	contact, ok, err := m.contact(ctx, e.ManagerID)
	if err != nil || !ok {
		return err
	}
	if err := m.sender.SendProjectCompletedEmail(ctx, contact.Email, email.ProjectCompletedData{
		ManagerName:    contact.Name,
		ProjectCode:    e.ProjectCode,
		StoreName:      e.StoreName,
		ActualOpenDate: e.ActualOpenDate,
	}); err != nil {
		return fmt.Errorf("send project completed email for %s: %w", e.ProjectCode, err)
	}
	m.log.Info("project completed email sent", "projectId", e.ProjectID, "managerId", e.ManagerID)
	return nil
}

func (m *Module) handleProjectOverdue(ctx context.Context, e events.ProjectOverdue) error {
	contact, ok, err := m.contact(ctx, e.ManagerID)
	if err != nil || !ok {
		return err
	}
	if err := m.sender.SendProjectOverdueEmail(ctx, contact.Email, email.ProjectOverdueData{
		ManagerName:      contact.Name,
		ProjectCode:      e.ProjectCode,
		StoreName:        e.StoreName,
		Status:           e.Status,
		ExpectedOpenDate: e.ExpectedOpenDate,
		DaysOverdue:      e.DaysOverdue,
	}); err != nil {
		return fmt.Errorf("send project overdue email for %s: %w", e.ProjectCode, err)
	}
	m.log.Info("project overdue email sent", "projectId", e.ProjectID, "daysOverdue", e.DaysOverdue)
	return nil
}

// contact resolves the manager. A missing or inactive manager skips the
// notification without failing the handler.
func (m *Module) contact(ctx context.Context, managerID uuid.UUID) (Contact, bool, error) {
	c, err := m.recipients.GetContact(ctx, managerID)
	if apperr.Is(err, apperr.KindNotFound) {
		m.log.Warn("notification recipient not found", "userId", managerID)
		return Contact{}, false, nil
	}
	if err != nil {
		return Contact{}, false, err
	}
	if c.Email == "" {
		m.log.Warn("notification recipient has no email", "userId", managerID)
		return Contact{}, false, nil
	}
	return c, true, nil
}
