package service

import (
	"context"

	"store_opening_backend/internal/events"
	"store_opening_backend/internal/shared/calendar"
)

// PublishOverdue emits ProjectOverdue for every non-terminal project whose
// expected open date lies before today. It returns how many were found.
func (s *Service) PublishOverdue(ctx context.Context) (int, error) {
	today := calendar.DateOnly(s.now())
	overdue, err := s.repo.ListOverdue(ctx, today)
	if err != nil {
		return 0, err
	}

	for _, p := range overdue {
		expected := derefTime(p.ExpectedOpenDate)
		s.publish(ctx, events.ProjectOverdue{
			BaseEvent:        events.NewBaseEvent(),
			ProjectID:        p.ID,
			ProjectCode:      p.ProjectCode,
			ManagerID:        p.ManagerID,
			StoreName:        p.StoreName,
			Status:           string(p.Status),
			ExpectedOpenDate: expected,
			DaysOverdue:      calendar.DaysBetween(expected, today),
		})
	}

	s.log.Info("overdue preparation projects checked", "count", len(overdue))
	return len(overdue), nil
}
