// Package tracking is the bounded context that ingests visitor telemetry and
// form submissions, resolves identity, and writes the attribution timeline.
package tracking

import (
	"campaign_tracking_backend/internal/events"
	"campaign_tracking_backend/internal/geoip"
	apphttp "campaign_tracking_backend/internal/http"
	"campaign_tracking_backend/internal/organizations"
	"campaign_tracking_backend/internal/tracking/handler"
	"campaign_tracking_backend/internal/tracking/repository"
	"campaign_tracking_backend/internal/tracking/service"
	"campaign_tracking_backend/platform/config"
	"campaign_tracking_backend/platform/logger"
	"campaign_tracking_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the tracking bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the tracking module with its dependencies.
// jobs may be nil when no task queue is configured.
func NewModule(pool *pgxpool.Pool, orgs *organizations.Resolver, geo geoip.Lookuper,
	bus events.Bus, jobs service.TaskEnqueuer, val *validator.Validator,
	cfg config.PhoneConfig, log *logger.Logger) *Module {

	repo := repository.New(pool)
	svc := service.New(repo, orgs, geo, bus, jobs, val, cfg.GetDefaultPhoneRegion(), log)

	return &Module{
		handler: handler.New(svc),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "tracking"
}

// Repository returns the repository for worker-side wiring.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts the public tracking endpoints on the rate-limited group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Tracking.POST("/event", m.handler.TrackEvent)
	ctx.Tracking.POST("/submit", m.handler.SubmitForm)
	ctx.Tracking.POST("/login", m.handler.Login)
}
