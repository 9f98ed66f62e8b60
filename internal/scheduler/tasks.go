package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TaskActivityBackfill re-parents a visitor's lead-less activities after lead
// creation. It replays the inline backfill, which is idempotent.
const TaskActivityBackfill = "tracking.activities.backfill"

// TaskGeoEnrich fills missing geo fields on an activity whose synchronous
// lookup degraded (timeout or provider failure).
const TaskGeoEnrich = "tracking.geo.enrich"

type ActivityBackfillPayload struct {
	VisitorID string `json:"visitorId"`
	LeadID    string `json:"leadId"`
}

type GeoEnrichPayload struct {
	ActivityID string `json:"activityId"`
	IP         string `json:"ip"`
}

func NewActivityBackfillTask(payload ActivityBackfillPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskActivityBackfill, data), nil
}

func ParseActivityBackfillPayload(task *asynq.Task) (ActivityBackfillPayload, error) {
	var payload ActivityBackfillPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ActivityBackfillPayload{}, err
	}
	return payload, nil
}

func NewGeoEnrichTask(payload GeoEnrichPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskGeoEnrich, data), nil
}

func ParseGeoEnrichPayload(task *asynq.Task) (GeoEnrichPayload, error) {
	var payload GeoEnrichPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return GeoEnrichPayload{}, err
	}
	return payload, nil
}
