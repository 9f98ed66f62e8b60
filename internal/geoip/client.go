// Package geoip resolves geographic information for visitor IP addresses.
// Lookups are best-effort: private addresses, timeouts, and provider errors
// all degrade to an empty result and must never block lead capture.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"campaign_tracking_backend/platform/config"
	"campaign_tracking_backend/platform/logger"
)

// Info is the three-part geo result consumed by activity snapshots.
type Info struct {
	Country     string  `json:"country,omitempty"`
	CountryCode string  `json:"countryCode,omitempty"`
	Region      string  `json:"region,omitempty"`
	City        string  `json:"city,omitempty"`
	Latitude    float64 `json:"lat,omitempty"`
	Longitude   float64 `json:"lon,omitempty"`
}

// IsZero reports whether the lookup produced no usable data.
func (i Info) IsZero() bool {
	return i.Country == "" && i.City == ""
}

// Location formats the result for activity snapshots: "City, Country",
// falling back to the country alone.
func (i Info) Location() string {
	switch {
	case i.City != "" && i.Country != "":
		return i.City + ", " + i.Country
	case i.Country != "":
		return i.Country
	}
	return ""
}

// Lookuper is the geo-IP collaborator consumed by the tracking service.
type Lookuper interface {
	Lookup(ctx context.Context, ip string) Info
}

// Client queries the ip-api.com JSON endpoint.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

// NewClient creates a geo-IP client with the configured base URL and timeout.
func NewClient(cfg config.GeoIPConfig, log *logger.Logger) *Client {
	timeout := cfg.GetGeoIPTimeout()
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.GetGeoIPBaseURL(), "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

type providerResponse struct {
	Status      string  `json:"status"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	Region      string  `json:"region"`
	City        string  `json:"city"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// Lookup resolves ip to geographic info. All failures return the zero Info.
func (c *Client) Lookup(ctx context.Context, ip string) Info {
	if !isPublicIP(ip) {
		return Info{}
	}

	endpoint := fmt.Sprintf("%s/json/%s?fields=%s",
		c.baseURL,
		url.PathEscape(ip),
		url.QueryEscape("status,country,countryCode,region,city,lat,lon"),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.log.GeoLookupFailed(ip, err)
		return Info{}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.GeoLookupFailed(ip, err)
		return Info{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.GeoLookupFailed(ip, fmt.Errorf("provider returned status %d", resp.StatusCode))
		return Info{}
	}

	var parsed providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.log.GeoLookupFailed(ip, err)
		return Info{}
	}

	if parsed.Status != "success" {
		return Info{}
	}

	return Info{
		Country:     parsed.Country,
		CountryCode: parsed.CountryCode,
		Region:      parsed.Region,
		City:        parsed.City,
		Latitude:    parsed.Lat,
		Longitude:   parsed.Lon,
	}
}

// isPublicIP filters loopback, private, and unparsable addresses, which the
// provider cannot resolve anyway.
func isPublicIP(ip string) bool {
	if ip == "" || ip == "localhost" {
		return false
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	return !parsed.IsLoopback() && !parsed.IsPrivate() && !parsed.IsUnspecified() && !parsed.IsLinkLocalUnicast()
}
