package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskOverdueSweep = "projects.overdue_sweep"

// OverdueSweepPayload identifies one sweep run. The periodic registration
// leaves TriggeredBy empty; manual runs name the caller.
type OverdueSweepPayload struct {
	TriggeredBy string     `json:"triggeredBy,omitempty"`
	RequestedAt *time.Time `json:"requestedAt,omitempty"`
}

func NewOverdueSweepTask(payload OverdueSweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOverdueSweep, data), nil
}

func ParseOverdueSweepPayload(task *asynq.Task) (OverdueSweepPayload, error) {
	var payload OverdueSweepPayload
	if len(task.Payload()) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return OverdueSweepPayload{}, err
	}
	return payload, nil
}
