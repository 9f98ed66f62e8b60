package organizations

import (
	"github.com/gin-gonic/gin"

	"campaign_tracking_backend/platform/httpkit"
)

// Handler serves read access to the tenant registry.
type Handler struct {
	orgs Lister
}

// NewHandler creates an organizations handler.
func NewHandler(orgs Lister) *Handler {
	return &Handler{orgs: orgs}
}

// List returns all registered organizations.
// GET /api/v1/organizations
func (h *Handler) List(c *gin.Context) {
	orgs, err := h.orgs.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{
		"success":       true,
		"organizations": orgs,
		"count":         len(orgs),
	})
}
