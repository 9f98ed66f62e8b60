package organizations

import (
	"context"
	"net/url"
	"strings"

	"campaign_tracking_backend/internal/tracking/normalizer"
	"campaign_tracking_backend/platform/apperr"
)

// ErrUnresolved is returned when no organization matches and more than one is
// registered; callers must reject the request rather than guess a tenant.
var ErrUnresolved = apperr.Validation("organization could not be resolved from the request")

// Resolver maps an inbound request to the single best-matching organization.
type Resolver struct {
	orgs Lister
}

// NewResolver creates a resolver over the (cached) organization lister.
func NewResolver(orgs Lister) *Resolver {
	return &Resolver{orgs: orgs}
}

// Resolve finds the owning organization for a normalized request map.
//
// Priority, first match wins:
//  1. explicit "organization" key field
//  2. page URL domain against each org's domain list (substring)
//  3. org keyword occurring anywhere in the page URL
//  4. referrer domain against the domain lists
//  5. the request Host against the domain lists and keywords
//  6. if exactly one org is registered, default to it
func (r *Resolver) Resolve(ctx context.Context, data map[string]string, host string) (Organization, error) {
	orgs, err := r.orgs.List(ctx)
	if err != nil {
		return Organization{}, apperr.Wrap(apperr.KindInternal, "organization registry unavailable", err)
	}
	if len(orgs) == 0 {
		return Organization{}, ErrUnresolved
	}

	if key := strings.ToLower(strings.TrimSpace(data["organization"])); key != "" {
		for _, org := range orgs {
			if org.Key == key {
				return org, nil
			}
		}
	}

	pageURL := strings.ToLower(normalizer.PageURL(data))
	if pageURL != "" {
		domain := hostOf(pageURL)
		for _, org := range orgs {
			if matchDomain(org, domain) {
				return org, nil
			}
		}
		for _, org := range orgs {
			if matchKeyword(org, pageURL) {
				return org, nil
			}
		}
	}

	referrer := strings.ToLower(normalizer.Referrer(data))
	if referrer != "" && !isReferrerSentinel(referrer) {
		domain := hostOf(referrer)
		for _, org := range orgs {
			if matchDomain(org, domain) {
				return org, nil
			}
		}
	}

	if host = strings.ToLower(strings.TrimSpace(host)); host != "" {
		for _, org := range orgs {
			if matchDomain(org, host) || matchKeyword(org, host) {
				return org, nil
			}
		}
	}

	if len(orgs) == 1 {
		return orgs[0], nil
	}

	return Organization{}, ErrUnresolved
}

func matchDomain(org Organization, domain string) bool {
	if domain == "" {
		return false
	}
	for _, configured := range org.Domains {
		if configured != "" && strings.Contains(domain, configured) {
			return true
		}
	}
	return false
}

func matchKeyword(org Organization, haystack string) bool {
	for _, keyword := range org.Keywords {
		if keyword != "" && strings.Contains(haystack, keyword) {
			return true
		}
	}
	return false
}

// hostOf extracts the host portion of a URL that may arrive without a scheme.
func hostOf(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if host := parsed.Hostname(); host != "" {
		return host
	}
	host, _, _ := strings.Cut(parsed.Path, "/")
	return host
}

func isReferrerSentinel(ref string) bool {
	switch ref {
	case "direct", "null", "undefined", "(direct)":
		return true
	}
	return false
}
