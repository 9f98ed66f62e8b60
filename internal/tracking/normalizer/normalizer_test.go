package normalizer

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext(t *testing.T, method, target, contentType, body string) *gin.Context {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	c.Request = req
	return c
}

func TestFlattenMergesEncodings(t *testing.T) {
	c := testContext(t, "POST", "/track?utm_source=query&only_query=1",
		"application/x-www-form-urlencoded", "utm_source=form&only_form=2")

	data := Flatten(c)

	if data["utm_source"] != "form" {
		t.Errorf("form value should win over query, got %q", data["utm_source"])
	}
	if data["only_query"] != "1" || data["only_form"] != "2" {
		t.Errorf("missing merged keys: %v", data)
	}
}

func TestFlattenJSONWins(t *testing.T) {
	c := testContext(t, "POST", "/track?email=query@example.com",
		"application/json",
		`{"email":"json@example.com","score":42,"active":true,"nested":{"drop":"me"},"empty":null}`)

	data := Flatten(c)

	if data["email"] != "json@example.com" {
		t.Errorf("JSON value should win, got %q", data["email"])
	}
	if data["score"] != "42" {
		t.Errorf("numeric scalar should stringify, got %q", data["score"])
	}
	if data["active"] != "true" {
		t.Errorf("bool scalar should stringify, got %q", data["active"])
	}
	if _, ok := data["nested"]; ok {
		t.Error("nested objects must be dropped")
	}
	if _, ok := data["empty"]; ok {
		t.Error("null values must be dropped")
	}
}

func TestFieldAliases(t *testing.T) {
	data := map[string]string{
		"page_location": "https://acme.example/pricing",
		"page_referrer": "https://google.com",
		"ga_client_id":  "GA1.2.3",
		"lead_email":    "USER@Example.com",
		"mobile_no":     "+31612345678",
	}

	if got := PageURL(data); got != "https://acme.example/pricing" {
		t.Errorf("PageURL = %q", got)
	}
	if got := Referrer(data); got != "https://google.com" {
		t.Errorf("Referrer = %q", got)
	}
	if got := ClientID(data); got != "GA1.2.3" {
		t.Errorf("ClientID = %q", got)
	}
	if got := Email(data); got != "user@example.com" {
		t.Errorf("Email should lowercase, got %q", got)
	}
	if got := Phone(data); got != "+31612345678" {
		t.Errorf("Phone = %q", got)
	}
}

func TestFullNameAndSplit(t *testing.T) {
	tests := []struct {
		name  string
		data  map[string]string
		want  string
		first string
		last  string
	}{
		{"full name field", map[string]string{"full_name": "Jane van Doe"}, "Jane van Doe", "Jane", "van Doe"},
		{"separate fields", map[string]string{"first_name": "Jane", "last_name": "Doe"}, "Jane Doe", "Jane", "Doe"},
		{"camelCase aliases", map[string]string{"firstName": "Jane", "lastName": "Doe"}, "Jane Doe", "Jane", "Doe"},
		{"first only", map[string]string{"first_name": "Jane"}, "Jane", "Jane", ""},
		{"empty", map[string]string{}, "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			full := FullName(tt.data)
			if full != tt.want {
				t.Fatalf("FullName = %q, want %q", full, tt.want)
			}
			first, last := SplitName(full)
			if first != tt.first || last != tt.last {
				t.Errorf("SplitName(%q) = (%q, %q), want (%q, %q)", full, first, last, tt.first, tt.last)
			}
		})
	}
}

func TestExtractUTM(t *testing.T) {
	t.Run("direct fields win over page url", func(t *testing.T) {
		utm := ExtractUTM(map[string]string{
			"utm_source": "direct",
			"page_url":   "https://acme.example/?utm_source=page&utm_medium=cpc",
		})
		if utm.Source != "direct" {
			t.Errorf("Source = %q, want direct", utm.Source)
		}
		if utm.Medium != "cpc" {
			t.Errorf("Medium should fall back to page URL, got %q", utm.Medium)
		}
	})

	t.Run("referrer is the last fallback", func(t *testing.T) {
		utm := ExtractUTM(map[string]string{
			"referrer": "https://other.example/?utm_campaign=spring",
		})
		if utm.Campaign != "spring" {
			t.Errorf("Campaign = %q, want spring", utm.Campaign)
		}
	})

	t.Run("utm_id aliases campaign id", func(t *testing.T) {
		utm := ExtractUTM(map[string]string{"utm_id": "cmp-1"})
		if utm.CampaignID != "cmp-1" {
			t.Errorf("CampaignID = %q, want cmp-1", utm.CampaignID)
		}
	})

	t.Run("utm_campaign_id outranks utm_id", func(t *testing.T) {
		utm := ExtractUTM(map[string]string{"utm_campaign_id": "cmp-1", "utm_id": "cmp-2"})
		if utm.CampaignID != "cmp-1" {
			t.Errorf("CampaignID = %q, want cmp-1", utm.CampaignID)
		}
	})

	t.Run("zero value", func(t *testing.T) {
		if utm := ExtractUTM(map[string]string{"page_url": "https://acme.example/"}); !utm.IsZero() {
			t.Errorf("expected zero UTM, got %+v", utm)
		}
	})
}
