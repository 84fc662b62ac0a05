package email

import (
	"context"
	"time"

	"store_opening_backend/platform/logger"
)

// ProjectCompletedData is rendered into the store opening notice.
type ProjectCompletedData struct {
	ManagerName    string
	ProjectCode    string
	StoreName      string
	ActualOpenDate time.Time
}

// ProjectOverdueData is rendered into the overdue reminder.
type ProjectOverdueData struct {
	ManagerName      string
	ProjectCode      string
	StoreName        string
	Status           string
	ExpectedOpenDate time.Time
	DaysOverdue      int
}

// Sender delivers the preparation notifications.
type Sender interface {
	SendProjectCompletedEmail(ctx context.Context, toEmail string, data ProjectCompletedData) error
	SendProjectOverdueEmail(ctx context.Context, toEmail string, data ProjectOverdueData) error
}

// LogSender records notifications in the log instead of delivering them. It
// is used when SMTP is not configured.
type LogSender struct {
	log *logger.Logger
}

// NewLogSender creates a sender that only logs.
func NewLogSender(log *logger.Logger) LogSender {
	return LogSender{log: log}
}

func (s LogSender) SendProjectCompletedEmail(_ context.Context, toEmail string, data ProjectCompletedData) error {
	s.log.Info("email delivery disabled", "template", "project_completed", "to", toEmail, "projectCode", data.ProjectCode)
	return nil
}

func (s LogSender) SendProjectOverdueEmail(_ context.Context, toEmail string, data ProjectOverdueData) error {
	s.log.Info("email delivery disabled", "template", "project_overdue", "to", toEmail, "projectCode", data.ProjectCode)
	return nil
}

var (
	_ Sender = LogSender{}
	_ Sender = (*SMTPSender)(nil)
)
