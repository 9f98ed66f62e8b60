package organizations

import (
	apphttp "campaign_tracking_backend/internal/http"
)

// Module is the organizations bounded context module implementing http.Module.
type Module struct {
	handler  *Handler
	resolver *Resolver
}

// NewModule creates the organizations module over the (cached) lister.
func NewModule(orgs Lister) *Module {
	return &Module{
		handler:  NewHandler(orgs),
		resolver: NewResolver(orgs),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "organizations"
}

// Resolver returns the tenant resolver for use by the tracking module.
func (m *Module) Resolver() *Resolver {
	return m.resolver
}

// RegisterRoutes mounts the registry read endpoint.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/organizations", m.handler.List)
}
