// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"campaign_tracking_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Tracking Domain Events
// =============================================================================

// VisitorCreated is published the first time a client ID is seen.
type VisitorCreated struct {
	BaseEvent
	VisitorID      uuid.UUID `json:"visitorId"`
	OrganizationID uuid.UUID `json:"organizationId"`
	ClientID       string    `json:"clientId"`
}

func (e VisitorCreated) EventName() string { return "tracking.visitor.created" }

// LeadCaptured is published when a form submission or login produces a lead.
// IsNew distinguishes a freshly created lead from a returning one.
type LeadCaptured struct {
	BaseEvent
	LeadID           uuid.UUID `json:"leadId"`
	OrganizationID   uuid.UUID `json:"organizationId"`
	OrganizationName string    `json:"organizationName"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	Source           string    `json:"source"`
	SourceName       string    `json:"sourceName"`
	PageURL          string    `json:"pageUrl"`
	LeadScore        int       `json:"leadScore"`
	IsNew            bool      `json:"isNew"`
}

func (e LeadCaptured) EventName() string { return "tracking.lead.captured" }

// LeadDeviceSwitched is published when an identified lead arrives with a
// client ID different from the one on record.
type LeadDeviceSwitched struct {
	BaseEvent
	LeadID         uuid.UUID `json:"leadId"`
	OrganizationID uuid.UUID `json:"organizationId"`
	OldClientID    string    `json:"oldClientId"`
	NewClientID    string    `json:"newClientId"`
}

func (e LeadDeviceSwitched) EventName() string { return "tracking.lead.device_switched" }

// ActivityRecorded is published for every appended timeline activity.
type ActivityRecorded struct {
	BaseEvent
	ActivityID     uuid.UUID  `json:"activityId"`
	OrganizationID uuid.UUID  `json:"organizationId"`
	VisitorID      *uuid.UUID `json:"visitorId,omitempty"`
	LeadID         *uuid.UUID `json:"leadId,omitempty"`
	ActivityType   string     `json:"activityType"`
}

func (e ActivityRecorded) EventName() string { return "tracking.activity.recorded" }
