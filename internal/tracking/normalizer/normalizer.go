// Package normalizer reduces the heterogeneous request encodings a tracking
// pixel or form can arrive in (query string, urlencoded/multipart body, JSON
// body) to one flat string map, isolating the rest of the pipeline from the
// transport. It also owns UTM extraction, which falls back from explicit
// fields to the page URL and referrer query strings.
package normalizer

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// Flatten merges every supported request encoding into one map.
// Precedence on key collision: JSON body > form body > query string,
// matching the order a client-side tracker writes them.
func Flatten(c *gin.Context) map[string]string {
	data := make(map[string]string)

	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			data[key] = values[0]
		}
	}

	// ParseMultipartForm also parses urlencoded bodies; errors mean the body
	// simply is not form-encoded.
	_ = c.Request.ParseMultipartForm(1 << 20)
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			data[key] = values[0]
		}
	}

	if strings.Contains(c.ContentType(), "application/json") {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err == nil {
			for key, value := range body {
				if s, ok := stringify(value); ok {
					data[key] = s
				}
			}
		}
	}

	return data
}

// stringify converts JSON scalars to their string form; objects and arrays
// are dropped since the pipeline only consumes flat fields.
func stringify(v any) (string, bool) {
	switch value := v.(type) {
	case string:
		return value, true
	case json.Number:
		return value.String(), true
	case float64:
		return fmt.Sprintf("%g", value), true
	case bool:
		return fmt.Sprintf("%t", value), true
	case nil:
		return "", false
	default:
		return "", false
	}
}

// First returns the first non-empty value among the named keys, trimmed.
func First(data map[string]string, keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(data[key]); v != "" {
			return v
		}
	}
	return ""
}

// Canonical field accessors. Clients differ on field naming; these encode the
// accepted aliases in one place.

func PageURL(data map[string]string) string {
	return First(data, "page_url", "page_location")
}

func Referrer(data map[string]string) string {
	return First(data, "referrer", "page_referrer")
}

func ClientID(data map[string]string) string {
	return First(data, "ga_client_id", "client_id")
}

func Email(data map[string]string) string {
	return strings.ToLower(First(data, "email", "lead_email", "email_id", "user_email"))
}

func Phone(data map[string]string) string {
	return First(data, "phone", "mobile_no", "mobile")
}

// FullName assembles a display name from whichever naming fields arrived.
func FullName(data map[string]string) string {
	if full := First(data, "full_name", "name"); full != "" {
		return full
	}
	first := First(data, "first_name", "firstName")
	last := First(data, "last_name", "lastName")
	return strings.TrimSpace(first + " " + last)
}

// SplitName divides a full name into first and last parts.
func SplitName(full string) (first, last string) {
	parts := strings.SplitN(strings.TrimSpace(full), " ", 2)
	if len(parts) == 0 || parts[0] == "" {
		return "", ""
	}
	first = parts[0]
	if len(parts) > 1 {
		last = strings.TrimSpace(parts[1])
	}
	return first, last
}

// UTMParams holds the standard UTM fields plus the campaign ID
// (utm_campaign_id, with utm_id accepted as an alias).
type UTMParams struct {
	Source     string `json:"utm_source,omitempty"`
	Medium     string `json:"utm_medium,omitempty"`
	Campaign   string `json:"utm_campaign,omitempty"`
	Term       string `json:"utm_term,omitempty"`
	Content    string `json:"utm_content,omitempty"`
	CampaignID string `json:"utm_campaign_id,omitempty"`
}

// IsZero reports whether no UTM field was captured.
func (u UTMParams) IsZero() bool {
	return u == UTMParams{}
}

// ExtractUTM collects UTM parameters with fallbacks, in priority order:
// explicit fields in the data map, then the page URL query string, then the
// referrer query string. A field found at a higher priority is never
// overwritten by a lower one.
func ExtractUTM(data map[string]string) UTMParams {
	var utm UTMParams

	fill := func(get func(string) string) {
		setIfEmpty(&utm.Source, get("utm_source"))
		setIfEmpty(&utm.Medium, get("utm_medium"))
		setIfEmpty(&utm.Campaign, get("utm_campaign"))
		setIfEmpty(&utm.Term, get("utm_term"))
		setIfEmpty(&utm.Content, get("utm_content"))
		setIfEmpty(&utm.CampaignID, get("utm_campaign_id"))
		setIfEmpty(&utm.CampaignID, get("utm_id"))
	}

	fill(func(key string) string { return strings.TrimSpace(data[key]) })

	for _, raw := range []string{PageURL(data), Referrer(data)} {
		if !strings.Contains(raw, "?") {
			continue
		}
		parsed, err := url.Parse(raw)
		if err != nil {
			continue
		}
		query := parsed.Query()
		fill(func(key string) string { return strings.TrimSpace(query.Get(key)) })
	}

	return utm
}

func setIfEmpty(dst *string, value string) {
	if *dst == "" && value != "" {
		*dst = value
	}
}
