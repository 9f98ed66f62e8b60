package repository

import (
	"time"

	"github.com/google/uuid"
)

// Visitor is one tracked browser, keyed by its analytics client ID.
// A visitor may be linked to a lead once the person identifies themselves.
type Visitor struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID uuid.UUID  `json:"organization_id"`
	ClientID       string     `json:"client_id"`
	LeadID         *uuid.UUID `json:"lead_id,omitempty"`
	UserAgent      string     `json:"user_agent,omitempty"`
	IPAddress      string     `json:"ip_address,omitempty"`
	Browser        string     `json:"browser,omitempty"`
	OS             string     `json:"os,omitempty"`
	Device         string     `json:"device,omitempty"`
	VisitCount     int        `json:"visit_count"`
	FirstSeenAt    time.Time  `json:"first_seen_at"`
	LastSeenAt     time.Time  `json:"last_seen_at"`
}

// Lead is a captured contact with first-touch attribution. Attribution
// columns are write-once: once non-empty they are never overwritten.
type Lead struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	ClientID       string    `json:"client_id,omitempty"`
	FirstName      string    `json:"first_name,omitempty"`
	LastName       string    `json:"last_name,omitempty"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Company        string    `json:"company,omitempty"`

	Source     string `json:"source"`
	SourceType string `json:"source_type,omitempty"`
	SourceName string `json:"source_name,omitempty"`
	PageURL    string `json:"page_url,omitempty"`
	Referrer   string `json:"referrer,omitempty"`

	UTMSource     string `json:"utm_source,omitempty"`
	UTMMedium     string `json:"utm_medium,omitempty"`
	UTMCampaign   string `json:"utm_campaign,omitempty"`
	UTMTerm       string `json:"utm_term,omitempty"`
	UTMContent    string `json:"utm_content,omitempty"`
	UTMCampaignID string `json:"utm_campaign_id,omitempty"`

	AdPlatform string     `json:"ad_platform,omitempty"`
	AdClickID  string     `json:"ad_click_id,omitempty"`
	AdClickAt  *time.Time `json:"ad_click_at,omitempty"`

	LeadScore       int       `json:"lead_score"`
	TrackingDetails []byte    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Activity is one append-only timeline entry carrying the snapshot of the
// visit that produced it. Exactly one is written per tracked request.
type Activity struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID uuid.UUID  `json:"organization_id"`
	VisitorID      *uuid.UUID `json:"visitor_id,omitempty"`
	LeadID         *uuid.UUID `json:"lead_id,omitempty"`
	ActivityType   string     `json:"activity_type"`

	PageURL     string `json:"page_url,omitempty"`
	Referrer    string `json:"referrer,omitempty"`
	UTMSource   string `json:"utm_source,omitempty"`
	UTMMedium   string `json:"utm_medium,omitempty"`
	UTMCampaign string `json:"utm_campaign,omitempty"`
	Source      string `json:"source,omitempty"`

	Browser   string `json:"browser,omitempty"`
	OS        string `json:"os,omitempty"`
	Device    string `json:"device,omitempty"`
	IPAddress string `json:"ip_address,omitempty"`
	Country   string `json:"country,omitempty"`
	Region    string `json:"region,omitempty"`
	City      string `json:"city,omitempty"`

	Details    []byte    `json:"-"`
	OccurredAt time.Time `json:"occurred_at"`
}

// LeadMerge carries values merged into an existing lead on a repeat
// submission. Contact fields and first-touch attribution fields are only
// written where the stored value is currently empty.
type LeadMerge struct {
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	Company       string
	UTMSource     string
	UTMMedium     string
	UTMCampaign   string
	UTMTerm       string
	UTMContent    string
	UTMCampaignID string
	AdPlatform    string
	AdClickID     string
	AdClickAt     *time.Time
}
