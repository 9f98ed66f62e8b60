package repository

import (
	"context"

	"github.com/google/uuid"
)

// Store is the persistence boundary of the tracking service.
type Store interface {
	UpsertVisitor(ctx context.Context, v Visitor) (Visitor, bool, error)
	LinkVisitorToLead(ctx context.Context, visitorID, leadID uuid.UUID) error

	FindLeadByEmail(ctx context.Context, orgID uuid.UUID, email string) (*Lead, error)
	FindLeadByClientID(ctx context.Context, orgID uuid.UUID, clientID string) (*Lead, error)
	CreateLead(ctx context.Context, lead Lead) (Lead, error)
	MergeLeadCapture(ctx context.Context, leadID uuid.UUID, merge LeadMerge) error
	UpdateLeadClientID(ctx context.Context, leadID uuid.UUID, clientID string) error

	InsertActivity(ctx context.Context, a Activity) (Activity, error)
	BackfillVisitorActivities(ctx context.Context, visitorID, leadID uuid.UUID) (int64, error)
	UpdateActivityGeo(ctx context.Context, activityID uuid.UUID, country, region, city string) error
}
