// Package service implements the tracking pipeline: tenant resolution,
// source classification, visitor/lead identity resolution, and the
// append-only activity timeline.
package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"campaign_tracking_backend/internal/attribution"
	"campaign_tracking_backend/internal/events"
	"campaign_tracking_backend/internal/geoip"
	"campaign_tracking_backend/internal/organizations"
	"campaign_tracking_backend/internal/tracking/normalizer"
	"campaign_tracking_backend/internal/tracking/repository"
	"campaign_tracking_backend/internal/tracking/transport"
	"campaign_tracking_backend/internal/useragent"
	"campaign_tracking_backend/platform/apperr"
	"campaign_tracking_backend/platform/logger"
	"campaign_tracking_backend/platform/phone"
	"campaign_tracking_backend/platform/validator"

	"github.com/google/uuid"
)

// TaskEnqueuer schedules background work. A nil enqueuer disables it; the
// inline code paths already cover correctness, the tasks are replay guards.
type TaskEnqueuer interface {
	EnqueueActivityBackfill(ctx context.Context, visitorID, leadID uuid.UUID) error
	EnqueueGeoEnrich(ctx context.Context, activityID uuid.UUID, ip string) error
}

// Service orchestrates the tracking pipeline.
type Service struct {
	repo        repository.Store
	orgs        *organizations.Resolver
	geo         geoip.Lookuper
	bus         events.Bus
	jobs        TaskEnqueuer
	val         *validator.Validator
	log         *logger.Logger
	phoneRegion string
}

// New creates the tracking service.
func New(repo repository.Store, orgs *organizations.Resolver, geo geoip.Lookuper,
	bus events.Bus, jobs TaskEnqueuer, val *validator.Validator, phoneRegion string, log *logger.Logger) *Service {
	return &Service{
		repo:        repo,
		orgs:        orgs,
		geo:         geo,
		bus:         bus,
		jobs:        jobs,
		val:         val,
		log:         log,
		phoneRegion: phoneRegion,
	}
}

// Request is one normalized tracking call plus its transport context.
type Request struct {
	Data      map[string]string
	Host      string
	ClientIP  string
	UserAgent string
}

// visit bundles everything derived from one request before persistence.
type visit struct {
	org      organizations.Organization
	utm      normalizer.UTMParams
	click    attribution.ClickID
	hasClick bool
	source   attribution.Source
	ua       useragent.Details
	geo      geoip.Info
	clientID string
	pageURL  string
	referrer string
}

func (s *Service) resolveVisit(ctx context.Context, req Request, hasEmail bool) (visit, error) {
	org, err := s.orgs.Resolve(ctx, req.Data, req.Host)
	if err != nil {
		return visit{}, err
	}

	utm := normalizer.ExtractUTM(req.Data)
	click, hasClick := attribution.DetectClickID(req.Data)
	source := attribution.Classify(attribution.Input{
		Data:       req.Data,
		UTMSource:  utm.Source,
		UTMMedium:  utm.Medium,
		Referrer:   normalizer.Referrer(req.Data),
		OrgDomains: org.Domains,
		HasEmail:   hasEmail,
	})

	return visit{
		org:      org,
		utm:      utm,
		click:    click,
		hasClick: hasClick,
		source:   source,
		ua:       useragent.Parse(req.UserAgent),
		geo:      s.geo.Lookup(ctx, req.ClientIP),
		clientID: normalizer.ClientID(req.Data),
		pageURL:  normalizer.PageURL(req.Data),
		referrer: normalizer.Referrer(req.Data),
	}, nil
}

// SubmitForm captures a form submission: resolves identity, merges or creates
// the lead, and appends the submission activity.
func (s *Service) SubmitForm(ctx context.Context, req Request) (transport.SubmitFormResponse, error) {
	email := normalizer.Email(req.Data)
	phoneNumber := phone.NormalizeE164(normalizer.Phone(req.Data), s.phoneRegion)
	fullName := normalizer.FullName(req.Data)

	if fullName == "" {
		return transport.SubmitFormResponse{}, apperr.Validation("a name is required")
	}
	if email == "" && phoneNumber == "" {
		return transport.SubmitFormResponse{}, apperr.Validation("an email address or phone number is required")
	}
	if email != "" {
		if err := s.val.Var(email, "email"); err != nil {
			return transport.SubmitFormResponse{}, apperr.Validation("invalid email address")
		}
	}

	v, err := s.resolveVisit(ctx, req, email != "")
	if err != nil {
		return transport.SubmitFormResponse{}, err
	}

	visitor, err := s.touchVisitor(ctx, req, v)
	if err != nil {
		return transport.SubmitFormResponse{}, err
	}

	lead, firstTouchUpdated, isNew, err := s.resolveLead(ctx, req, v, visitor, email, phoneNumber, fullName, "Form")
	if err != nil {
		return transport.SubmitFormResponse{}, err
	}

	if err := s.appendActivity(ctx, req, v, visitor, &lead.ID, "form_submission"); err != nil {
		return transport.SubmitFormResponse{}, err
	}

	s.publishLeadCaptured(ctx, *lead, v, fullName, isNew)
	s.log.TrackingEvent("form_submission", v.org.Key, v.clientID, string(v.source))

	return transport.SubmitFormResponse{
		Success:           true,
		LeadID:            lead.ID.String(),
		Organization:      v.org.Key,
		SourceDetected:    string(v.source),
		UTMCaptured:       v.utm,
		FirstTouchUpdated: firstTouchUpdated,
		IsNewLead:         isNew,
		LeadScore:         lead.LeadScore,
	}, nil
}

// TrackEvent records a behavioral event for a visitor, attaching it to the
// linked lead when one is known.
func (s *Service) TrackEvent(ctx context.Context, req Request) (transport.TrackEventResponse, error) {
	activityType := normalizer.First(req.Data, "activity_type", "event_name", "event")
	if activityType == "" {
		return transport.TrackEventResponse{}, apperr.Validation("activity_type is required")
	}
	if normalizer.ClientID(req.Data) == "" {
		return transport.TrackEventResponse{}, apperr.Validation("client_id is required")
	}

	// Scroll depth is folded into the activity type, e.g. scroll_75.
	if activityType == "scroll" {
		if pct := normalizer.First(req.Data, "percent_scrolled", "scroll_depth"); pct != "" {
			activityType = "scroll_" + pct
		}
	}

	v, err := s.resolveVisit(ctx, req, normalizer.Email(req.Data) != "")
	if err != nil {
		return transport.TrackEventResponse{}, err
	}

	visitor, err := s.touchVisitor(ctx, req, v)
	if err != nil {
		return transport.TrackEventResponse{}, err
	}

	var leadID *uuid.UUID
	if visitor.LeadID != nil {
		leadID = visitor.LeadID
	} else {
		lead, err := s.repo.FindLeadByClientID(ctx, v.org.ID, v.clientID)
		if err != nil {
			return transport.TrackEventResponse{}, apperr.Wrap(apperr.KindInternal, "lead lookup failed", err)
		}
		if lead != nil {
			leadID = &lead.ID
			if err := s.repo.LinkVisitorToLead(ctx, visitor.ID, lead.ID); err != nil {
				s.log.DatabaseError("link visitor to lead", err)
			}
		}
	}

	if err := s.appendActivity(ctx, req, v, visitor, leadID, activityType); err != nil {
		return transport.TrackEventResponse{}, err
	}

	s.log.TrackingEvent(activityType, v.org.Key, v.clientID, string(v.source))

	resp := transport.TrackEventResponse{
		Success:        true,
		Organization:   v.org.Key,
		ActivityType:   activityType,
		SourceDetected: string(v.source),
		VisitorID:      visitor.ID.String(),
	}
	if leadID != nil {
		resp.LeadID = leadID.String()
	}
	return resp, nil
}

// Login records an authenticated visit, linking the visitor's history to the
// lead behind the email and creating the lead when none exists yet.
func (s *Service) Login(ctx context.Context, req Request) (transport.LoginResponse, error) {
	email := normalizer.Email(req.Data)
	if email == "" {
		return transport.LoginResponse{}, apperr.Validation("email is required")
	}
	if err := s.val.Var(email, "email"); err != nil {
		return transport.LoginResponse{}, apperr.Validation("invalid email address")
	}
	if normalizer.ClientID(req.Data) == "" {
		return transport.LoginResponse{}, apperr.Validation("client_id is required")
	}

	v, err := s.resolveVisit(ctx, req, true)
	if err != nil {
		return transport.LoginResponse{}, err
	}

	visitor, err := s.touchVisitor(ctx, req, v)
	if err != nil {
		return transport.LoginResponse{}, err
	}

	fullName := normalizer.FullName(req.Data)
	if fullName == "" {
		fullName = nameFromEmail(email)
	}

	lead, _, isNew, err := s.resolveLead(ctx, req, v, visitor, email, "", fullName, "Login")
	if err != nil {
		return transport.LoginResponse{}, err
	}

	if err := s.appendActivity(ctx, req, v, visitor, &lead.ID, "login"); err != nil {
		return transport.LoginResponse{}, err
	}

	s.publishLeadCaptured(ctx, *lead, v, fullName, isNew)
	s.log.TrackingEvent("login", v.org.Key, v.clientID, string(v.source))

	return transport.LoginResponse{
		Success:      true,
		LeadID:       lead.ID.String(),
		Organization: v.org.Key,
		IsNewLead:    isNew,
	}, nil
}

// touchVisitor upserts the visitor row for the request's client ID. Requests
// without a client ID produce no visitor; the activity then hangs off the lead.
func (s *Service) touchVisitor(ctx context.Context, req Request, v visit) (*repository.Visitor, error) {
	if v.clientID == "" {
		return nil, nil
	}

	visitor, created, err := s.repo.UpsertVisitor(ctx, repository.Visitor{
		OrganizationID: v.org.ID,
		ClientID:       v.clientID,
		UserAgent:      req.UserAgent,
		IPAddress:      req.ClientIP,
		Browser:        v.ua.Browser,
		OS:             v.ua.OS,
		Device:         v.ua.Device,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "visitor upsert failed", err)
	}

	if created {
		s.bus.Publish(ctx, events.VisitorCreated{
			BaseEvent:      events.NewBaseEvent(),
			VisitorID:      visitor.ID,
			OrganizationID: v.org.ID,
			ClientID:       v.clientID,
		})
	}

	return &visitor, nil
}

// resolveLead finds the canonical lead for this identity, handling device
// switches, first-touch merging, and creation. Email outranks client ID.
func (s *Service) resolveLead(ctx context.Context, req Request, v visit, visitor *repository.Visitor,
	email, phoneNumber, fullName, sourceType string) (*repository.Lead, bool, bool, error) {

	var lead *repository.Lead
	var err error

	if email != "" {
		lead, err = s.repo.FindLeadByEmail(ctx, v.org.ID, email)
		if err != nil {
			return nil, false, false, apperr.Wrap(apperr.KindInternal, "lead lookup failed", err)
		}
		if lead != nil && v.clientID != "" && lead.ClientID != v.clientID {
			if lead.ClientID != "" {
				if err := s.recordDeviceSwitch(ctx, req, v, visitor, lead); err != nil {
					return nil, false, false, err
				}
			} else if err := s.repo.UpdateLeadClientID(ctx, lead.ID, v.clientID); err != nil {
				return nil, false, false, apperr.Wrap(apperr.KindInternal, "lead update failed", err)
			}
			lead.ClientID = v.clientID
		}
	}

	if lead == nil && v.clientID != "" {
		lead, err = s.repo.FindLeadByClientID(ctx, v.org.ID, v.clientID)
		if err != nil {
			return nil, false, false, apperr.Wrap(apperr.KindInternal, "lead lookup failed", err)
		}
	}

	if lead != nil {
		firstTouchUpdated, err := s.mergeLead(ctx, lead, v, req, email, phoneNumber, fullName)
		if err != nil {
			return nil, false, false, err
		}
		if visitor != nil && (visitor.LeadID == nil || *visitor.LeadID != lead.ID) {
			if err := s.repo.LinkVisitorToLead(ctx, visitor.ID, lead.ID); err != nil {
				s.log.DatabaseError("link visitor to lead", err)
			}
		}
		return lead, firstTouchUpdated, false, nil
	}

	created, err := s.createLead(ctx, req, v, visitor, email, phoneNumber, fullName, sourceType)
	if err != nil {
		return nil, false, false, err
	}
	return created, false, true, nil
}

// recordDeviceSwitch overwrites the lead's stored client ID with the new one,
// re-links the visitor, and leaves an audit activity on the timeline.
func (s *Service) recordDeviceSwitch(ctx context.Context, req Request, v visit,
	visitor *repository.Visitor, lead *repository.Lead) error {

	oldClientID := lead.ClientID
	if err := s.repo.UpdateLeadClientID(ctx, lead.ID, v.clientID); err != nil {
		return apperr.Wrap(apperr.KindInternal, "lead update failed", err)
	}
	if visitor != nil {
		if err := s.repo.LinkVisitorToLead(ctx, visitor.ID, lead.ID); err != nil {
			s.log.DatabaseError("link visitor to lead", err)
		}
	}

	details, _ := json.Marshal(map[string]string{
		"old_client_id": oldClientID,
		"new_client_id": v.clientID,
	})
	activity := repository.Activity{
		OrganizationID: v.org.ID,
		LeadID:         &lead.ID,
		ActivityType:   "device_switch",
		PageURL:        v.pageURL,
		Browser:        v.ua.Browser,
		OS:             v.ua.OS,
		Device:         v.ua.Device,
		IPAddress:      req.ClientIP,
		Details:        details,
	}
	if visitor != nil {
		activity.VisitorID = &visitor.ID
	}
	if _, err := s.repo.InsertActivity(ctx, activity); err != nil {
		return apperr.Wrap(apperr.KindInternal, "activity insert failed", err)
	}

	s.log.DeviceSwitch(lead.ID.String(), oldClientID, v.clientID)
	s.bus.Publish(ctx, events.LeadDeviceSwitched{
		BaseEvent:      events.NewBaseEvent(),
		LeadID:         lead.ID,
		OrganizationID: v.org.ID,
		OldClientID:    oldClientID,
		NewClientID:    v.clientID,
	})
	return nil
}

// mergeLead fills empty contact and attribution fields on an existing lead
// and reports whether any first-touch attribution field was populated.
func (s *Service) mergeLead(ctx context.Context, lead *repository.Lead, v visit, req Request,
	email, phoneNumber, fullName string) (bool, error) {

	firstName, lastName := normalizer.SplitName(fullName)

	merge := repository.LeadMerge{
		FirstName:     firstName,
		LastName:      lastName,
		Email:         email,
		Phone:         phoneNumber,
		Company:       normalizer.First(req.Data, "company", "organization_name"),
		UTMSource:     v.utm.Source,
		UTMMedium:     v.utm.Medium,
		UTMCampaign:   v.utm.Campaign,
		UTMTerm:       v.utm.Term,
		UTMContent:    v.utm.Content,
		UTMCampaignID: v.utm.CampaignID,
	}
	if v.hasClick {
		now := time.Now()
		merge.AdPlatform = v.click.Platform
		merge.AdClickID = v.click.Value
		merge.AdClickAt = &now
	}

	firstTouchUpdated := (lead.UTMSource == "" && merge.UTMSource != "") ||
		(lead.UTMMedium == "" && merge.UTMMedium != "") ||
		(lead.UTMCampaign == "" && merge.UTMCampaign != "") ||
		(lead.UTMCampaignID == "" && merge.UTMCampaignID != "") ||
		(lead.AdClickID == "" && merge.AdClickID != "")

	if err := s.repo.MergeLeadCapture(ctx, lead.ID, merge); err != nil {
		return false, apperr.Wrap(apperr.KindInternal, "lead merge failed", err)
	}
	return firstTouchUpdated, nil
}

// createLead inserts a new lead with full first-touch attribution, links the
// visitor, and re-parents the visitor's anonymous history onto the new lead.
func (s *Service) createLead(ctx context.Context, req Request, v visit, visitor *repository.Visitor,
	email, phoneNumber, fullName, sourceType string) (*repository.Lead, error) {

	firstName, lastName := normalizer.SplitName(fullName)

	blob, _ := json.Marshal(map[string]any{
		"browser":    v.ua.Browser,
		"os":         v.ua.OS,
		"device":     v.ua.Device,
		"ip_address": req.ClientIP,
		"location":   v.geo.Location(),
		"geo":        v.geo,
		"utm":        v.utm,
		"page_url":   v.pageURL,
		"referrer":   v.referrer,
		"host":       req.Host,
	})

	lead := repository.Lead{
		OrganizationID: v.org.ID,
		ClientID:       v.clientID,
		FirstName:      firstName,
		LastName:       lastName,
		Email:          email,
		Phone:          phoneNumber,
		Company:        normalizer.First(req.Data, "company", "organization_name"),
		Source:         string(v.source),
		SourceType:     sourceType,
		SourceName:     normalizer.First(req.Data, "form_name", "form_id", "source_name"),
		PageURL:        v.pageURL,
		Referrer:       v.referrer,
		UTMSource:      v.utm.Source,
		UTMMedium:      v.utm.Medium,
		UTMCampaign:    v.utm.Campaign,
		UTMTerm:        v.utm.Term,
		UTMContent:     v.utm.Content,
		UTMCampaignID:  v.utm.CampaignID,
		LeadScore: attribution.Score(v.utm.Source, v.utm.Medium,
			email != "", phoneNumber != ""),
		TrackingDetails: blob,
	}
	if v.hasClick {
		now := time.Now()
		lead.AdPlatform = v.click.Platform
		lead.AdClickID = v.click.Value
		lead.AdClickAt = &now
	}

	created, err := s.repo.CreateLead(ctx, lead)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "lead creation failed", err)
	}

	if visitor != nil {
		if err := s.repo.LinkVisitorToLead(ctx, visitor.ID, created.ID); err != nil {
			s.log.DatabaseError("link visitor to lead", err)
		}
		if _, err := s.repo.BackfillVisitorActivities(ctx, visitor.ID, created.ID); err != nil {
			// The async task replays this; losing the inline pass is recoverable.
			s.log.DatabaseError("backfill visitor activities", err)
		}
		if s.jobs != nil {
			if err := s.jobs.EnqueueActivityBackfill(ctx, visitor.ID, created.ID); err != nil {
				s.log.Warn("backfill task enqueue failed", "error", err)
			}
		}
	}

	return &created, nil
}

// appendActivity writes the single timeline entry every tracked request
// produces, carrying the current visit's snapshot.
func (s *Service) appendActivity(ctx context.Context, req Request, v visit,
	visitor *repository.Visitor, leadID *uuid.UUID, activityType string) error {

	activity := repository.Activity{
		OrganizationID: v.org.ID,
		LeadID:         leadID,
		ActivityType:   activityType,
		PageURL:        v.pageURL,
		Referrer:       v.referrer,
		UTMSource:      v.utm.Source,
		UTMMedium:      v.utm.Medium,
		UTMCampaign:    v.utm.Campaign,
		Source:         string(v.source),
		Browser:        v.ua.Browser,
		OS:             v.ua.OS,
		Device:         v.ua.Device,
		IPAddress:      req.ClientIP,
		Country:        v.geo.Country,
		Region:         v.geo.Region,
		City:           v.geo.City,
	}
	if visitor != nil {
		activity.VisitorID = &visitor.ID
	}

	inserted, err := s.repo.InsertActivity(ctx, activity)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "activity insert failed", err)
	}

	if v.geo.IsZero() && req.ClientIP != "" && s.jobs != nil {
		if err := s.jobs.EnqueueGeoEnrich(ctx, inserted.ID, req.ClientIP); err != nil {
			s.log.Warn("geo enrich task enqueue failed", "error", err)
		}
	}

	s.bus.Publish(ctx, events.ActivityRecorded{
		BaseEvent:      events.NewBaseEvent(),
		ActivityID:     inserted.ID,
		OrganizationID: v.org.ID,
		VisitorID:      activity.VisitorID,
		LeadID:         leadID,
		ActivityType:   activityType,
	})
	return nil
}

func (s *Service) publishLeadCaptured(ctx context.Context, lead repository.Lead, v visit, fullName string, isNew bool) {
	s.bus.Publish(ctx, events.LeadCaptured{
		BaseEvent:        events.NewBaseEvent(),
		LeadID:           lead.ID,
		OrganizationID:   v.org.ID,
		OrganizationName: v.org.Name,
		Name:             fullName,
		Email:            lead.Email,
		Phone:            lead.Phone,
		Source:           string(v.source),
		SourceName:       lead.SourceName,
		PageURL:          v.pageURL,
		LeadScore:        lead.LeadScore,
		IsNew:            isNew,
	})
}

// nameFromEmail derives a display name from the email local part, so a bare
// login still produces a usable lead record.
func nameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	local = strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(local)
	words := strings.Fields(local)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
