// Package repository persists visitors, leads, and the activity timeline.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the pgx-backed Store implementation.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a tracking repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ Store = (*Repository)(nil)

const visitorColumns = `id, organization_id, client_id, lead_id, user_agent, ip_address,
	browser, os, device, visit_count, first_seen_at, last_seen_at`

// UpsertVisitor finds or creates the visitor for a client ID. The unique index
// on client_id makes concurrent first visits converge on one row. The second
// return value reports whether the row was created by this call.
func (r *Repository) UpsertVisitor(ctx context.Context, v Visitor) (Visitor, bool, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO visitors (organization_id, client_id, user_agent, ip_address, browser, os, device)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (client_id) DO UPDATE SET
			user_agent = EXCLUDED.user_agent,
			ip_address = EXCLUDED.ip_address,
			browser = EXCLUDED.browser,
			os = EXCLUDED.os,
			device = EXCLUDED.device,
			visit_count = visitors.visit_count + 1,
			last_seen_at = now()
		RETURNING `+visitorColumns+`, (xmax = 0) AS inserted`,
		v.OrganizationID, v.ClientID, v.UserAgent, v.IPAddress, v.Browser, v.OS, v.Device,
	)

	var out Visitor
	var created bool
	err := row.Scan(&out.ID, &out.OrganizationID, &out.ClientID, &out.LeadID,
		&out.UserAgent, &out.IPAddress, &out.Browser, &out.OS, &out.Device,
		&out.VisitCount, &out.FirstSeenAt, &out.LastSeenAt, &created)
	if err != nil {
		return Visitor{}, false, fmt.Errorf("upsert visitor: %w", err)
	}
	return out, created, nil
}

// LinkVisitorToLead attaches the visitor's browsing history to a lead.
func (r *Repository) LinkVisitorToLead(ctx context.Context, visitorID, leadID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE visitors SET lead_id = $2, last_seen_at = now() WHERE id = $1`,
		visitorID, leadID,
	)
	if err != nil {
		return fmt.Errorf("link visitor to lead: %w", err)
	}
	return nil
}

const leadColumns = `id, organization_id, client_id, first_name, last_name, email, phone, company,
	source, source_type, source_name, page_url, referrer,
	utm_source, utm_medium, utm_campaign, utm_term, utm_content, utm_campaign_id,
	ad_platform, ad_click_id, ad_click_at, lead_score, tracking_details, created_at, updated_at`

func scanLead(row pgx.Row) (*Lead, error) {
	var l Lead
	err := row.Scan(&l.ID, &l.OrganizationID, &l.ClientID, &l.FirstName, &l.LastName,
		&l.Email, &l.Phone, &l.Company,
		&l.Source, &l.SourceType, &l.SourceName, &l.PageURL, &l.Referrer,
		&l.UTMSource, &l.UTMMedium, &l.UTMCampaign, &l.UTMTerm, &l.UTMContent, &l.UTMCampaignID,
		&l.AdPlatform, &l.AdClickID, &l.AdClickAt, &l.LeadScore, &l.TrackingDetails,
		&l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan lead: %w", err)
	}
	return &l, nil
}

// FindLeadByEmail returns the newest lead for (org, email), or nil.
func (r *Repository) FindLeadByEmail(ctx context.Context, orgID uuid.UUID, email string) (*Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+` FROM leads
		WHERE organization_id = $1 AND lower(email) = lower($2)
		ORDER BY created_at DESC LIMIT 1`,
		orgID, email,
	))
}

// FindLeadByClientID returns the newest lead for (org, client ID), or nil.
func (r *Repository) FindLeadByClientID(ctx context.Context, orgID uuid.UUID, clientID string) (*Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+` FROM leads
		WHERE organization_id = $1 AND client_id = $2
		ORDER BY created_at DESC LIMIT 1`,
		orgID, clientID,
	))
}

// CreateLead inserts a lead with its full first-touch attribution.
func (r *Repository) CreateLead(ctx context.Context, lead Lead) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (organization_id, client_id, first_name, last_name, email, phone, company,
			source, source_type, source_name, page_url, referrer,
			utm_source, utm_medium, utm_campaign, utm_term, utm_content, utm_campaign_id,
			ad_platform, ad_click_id, ad_click_at, lead_score, tracking_details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		RETURNING `+leadColumns,
		lead.OrganizationID, lead.ClientID, lead.FirstName, lead.LastName, lead.Email,
		lead.Phone, lead.Company,
		lead.Source, lead.SourceType, lead.SourceName, lead.PageURL, lead.Referrer,
		lead.UTMSource, lead.UTMMedium, lead.UTMCampaign, lead.UTMTerm, lead.UTMContent,
		lead.UTMCampaignID, lead.AdPlatform, lead.AdClickID, lead.AdClickAt,
		lead.LeadScore, lead.TrackingDetails,
	)

	created, err := scanLead(row)
	if err != nil {
		return Lead{}, fmt.Errorf("create lead: %w", err)
	}
	if created == nil {
		return Lead{}, fmt.Errorf("create lead: no row returned")
	}
	return *created, nil
}

// MergeLeadCapture fills empty contact and first-touch attribution fields on
// an existing lead. COALESCE(NULLIF(col, ''), $n) keeps any value already
// present, which is what makes first-touch attribution write-once.
func (r *Repository) MergeLeadCapture(ctx context.Context, leadID uuid.UUID, merge LeadMerge) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE leads SET
			first_name      = COALESCE(NULLIF(first_name, ''), $2),
			last_name       = COALESCE(NULLIF(last_name, ''), $3),
			email           = COALESCE(NULLIF(email, ''), $4),
			phone           = COALESCE(NULLIF(phone, ''), $5),
			company         = COALESCE(NULLIF(company, ''), $6),
			utm_source      = COALESCE(NULLIF(utm_source, ''), $7),
			utm_medium      = COALESCE(NULLIF(utm_medium, ''), $8),
			utm_campaign    = COALESCE(NULLIF(utm_campaign, ''), $9),
			utm_term        = COALESCE(NULLIF(utm_term, ''), $10),
			utm_content     = COALESCE(NULLIF(utm_content, ''), $11),
			utm_campaign_id = COALESCE(NULLIF(utm_campaign_id, ''), $12),
			ad_platform     = COALESCE(NULLIF(ad_platform, ''), $13),
			ad_click_id     = COALESCE(NULLIF(ad_click_id, ''), $14),
			ad_click_at     = COALESCE(ad_click_at, $15),
			updated_at      = now()
		WHERE id = $1`,
		leadID, merge.FirstName, merge.LastName, merge.Email, merge.Phone, merge.Company,
		merge.UTMSource, merge.UTMMedium, merge.UTMCampaign, merge.UTMTerm,
		merge.UTMContent, merge.UTMCampaignID,
		merge.AdPlatform, merge.AdClickID, merge.AdClickAt,
	)
	if err != nil {
		return fmt.Errorf("merge lead capture: %w", err)
	}
	return nil
}

// UpdateLeadClientID overwrites the lead's stored client ID (device switch).
func (r *Repository) UpdateLeadClientID(ctx context.Context, leadID uuid.UUID, clientID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE leads SET client_id = $2, updated_at = now() WHERE id = $1`,
		leadID, clientID,
	)
	if err != nil {
		return fmt.Errorf("update lead client id: %w", err)
	}
	return nil
}

// InsertActivity appends one timeline entry.
func (r *Repository) InsertActivity(ctx context.Context, a Activity) (Activity, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO activities (organization_id, visitor_id, lead_id, activity_type,
			page_url, referrer, utm_source, utm_medium, utm_campaign, source,
			browser, os, device, ip_address, country, region, city, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id, occurred_at`,
		a.OrganizationID, a.VisitorID, a.LeadID, a.ActivityType,
		a.PageURL, a.Referrer, a.UTMSource, a.UTMMedium, a.UTMCampaign, a.Source,
		a.Browser, a.OS, a.Device, a.IPAddress, a.Country, a.Region, a.City, a.Details,
	)
	if err := row.Scan(&a.ID, &a.OccurredAt); err != nil {
		return Activity{}, fmt.Errorf("insert activity: %w", err)
	}
	return a, nil
}

// BackfillVisitorActivities re-parents the visitor's lead-less activities to
// the given lead. This is the only write that mutates existing activities,
// and it is idempotent, so the async replay task can run it again safely.
func (r *Repository) BackfillVisitorActivities(ctx context.Context, visitorID, leadID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE activities SET lead_id = $2 WHERE visitor_id = $1 AND lead_id IS NULL`,
		visitorID, leadID,
	)
	if err != nil {
		return 0, fmt.Errorf("backfill visitor activities: %w", err)
	}
	return tag.RowsAffected(), nil
}

// UpdateActivityGeo fills geo fields on an activity whose synchronous lookup
// degraded. Already-populated fields are kept.
func (r *Repository) UpdateActivityGeo(ctx context.Context, activityID uuid.UUID, country, region, city string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE activities SET
			country = COALESCE(NULLIF(country, ''), $2),
			region  = COALESCE(NULLIF(region, ''), $3),
			city    = COALESCE(NULLIF(city, ''), $4)
		WHERE id = $1`,
		activityID, country, region, city,
	)
	if err != nil {
		return fmt.Errorf("update activity geo: %w", err)
	}
	return nil
}
