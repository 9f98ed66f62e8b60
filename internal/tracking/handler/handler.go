// Package handler exposes the tracking pipeline over HTTP.
package handler

import (
	"github.com/gin-gonic/gin"

	"campaign_tracking_backend/internal/tracking/normalizer"
	"campaign_tracking_backend/internal/tracking/service"
	"campaign_tracking_backend/platform/httpkit"
)

// Handler handles the public tracking endpoints.
type Handler struct {
	svc *service.Service
}

// New creates a tracking handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// request normalizes the gin context into the service request shape.
// Flattening happens here so the service never sees transport encodings.
func request(c *gin.Context) service.Request {
	return service.Request{
		Data:      normalizer.Flatten(c),
		Host:      c.Request.Host,
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// TrackEvent records a behavioral event.
// POST /api/v1/track/event
func (h *Handler) TrackEvent(c *gin.Context) {
	resp, err := h.svc.TrackEvent(c.Request.Context(), request(c))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// SubmitForm captures a form submission as a lead.
// POST /api/v1/track/submit
func (h *Handler) SubmitForm(c *gin.Context) {
	resp, err := h.svc.SubmitForm(c.Request.Context(), request(c))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Login records an authenticated visit and links cross-device history.
// POST /api/v1/track/login
func (h *Handler) Login(c *gin.Context) {
	resp, err := h.svc.Login(c.Request.Context(), request(c))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}
