// Package transport defines the wire shapes of the tracking endpoints.
// Requests arrive as arbitrary query/form/JSON fields and are normalized
// before validation, so only the response shapes live here.
package transport

import (
	"campaign_tracking_backend/internal/tracking/normalizer"
)

// TrackEventResponse is returned by POST /track/event.
type TrackEventResponse struct {
	Success        bool   `json:"success"`
	Organization   string `json:"organization"`
	ActivityType   string `json:"activity_type"`
	SourceDetected string `json:"source_detected"`
	VisitorID      string `json:"visitor_id,omitempty"`
	LeadID         string `json:"lead_id,omitempty"`
}

// SubmitFormResponse is returned by POST /track/submit.
type SubmitFormResponse struct {
	Success           bool                 `json:"success"`
	LeadID            string               `json:"lead_id"`
	Organization      string               `json:"organization"`
	SourceDetected    string               `json:"source_detected"`
	UTMCaptured       normalizer.UTMParams `json:"utm_captured"`
	FirstTouchUpdated bool                 `json:"first_touch_updated"`
	IsNewLead         bool                 `json:"is_new_lead"`
	LeadScore         int                  `json:"lead_score"`
}

// LoginResponse is returned by POST /track/login.
type LoginResponse struct {
	Success      bool   `json:"success"`
	LeadID       string `json:"lead_id"`
	Organization string `json:"organization"`
	IsNewLead    bool   `json:"is_new_lead"`
}
