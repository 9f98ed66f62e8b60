// Package notification sends notification emails in response to domain
// events. It subscribes to the event bus so domain modules never need to
// know about email delivery.
package notification

import (
	"context"
	"fmt"
	"strings"

	"campaign_tracking_backend/internal/email"
	"campaign_tracking_backend/internal/events"
	"campaign_tracking_backend/platform/config"
	"campaign_tracking_backend/platform/logger"
)

// Module subscribes to domain events and sends notification emails.
type Module struct {
	sender   email.Sender
	notifyTo string
	log      *logger.Logger
}

// New creates the notification module.
func New(sender email.Sender, cfg config.EmailConfig, log *logger.Logger) *Module {
	return &Module{
		sender:   sender,
		notifyTo: cfg.GetLeadNotifyAddress(),
		log:      log,
	}
}

// RegisterHandlers subscribes to the events this module reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadCaptured{}.EventName(), events.HandlerFunc(m.onLeadCaptured))
}

// onLeadCaptured emails the configured address for freshly created leads.
// Delivery failures are logged, never propagated: notification is best-effort.
func (m *Module) onLeadCaptured(ctx context.Context, event events.Event) error {
	captured, ok := event.(events.LeadCaptured)
	if !ok || !captured.IsNew || m.notifyTo == "" {
		return nil
	}

	subject := fmt.Sprintf("New lead: %s (%s)", captured.Name, captured.OrganizationName)
	body := leadNotificationBody(captured)

	if err := m.sender.Send(ctx, m.notifyTo, subject, body); err != nil {
		m.log.Warn("lead notification email failed",
			"lead_id", captured.LeadID.String(),
			"error", err,
		)
	}
	return nil
}

func leadNotificationBody(e events.LeadCaptured) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A new lead was captured for %s.\n\n", e.OrganizationName)
	fmt.Fprintf(&b, "Name:   %s\n", e.Name)
	if e.Email != "" {
		fmt.Fprintf(&b, "Email:  %s\n", e.Email)
	}
	if e.Phone != "" {
		fmt.Fprintf(&b, "Phone:  %s\n", e.Phone)
	}
	fmt.Fprintf(&b, "Source: %s\n", e.Source)
	if e.SourceName != "" {
		fmt.Fprintf(&b, "Form:   %s\n", e.SourceName)
	}
	if e.PageURL != "" {
		fmt.Fprintf(&b, "Page:   %s\n", e.PageURL)
	}
	fmt.Fprintf(&b, "Score:  %d\n", e.LeadScore)
	return b.String()
}
