package geoip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campaign_tracking_backend/platform/logger"
)

type testConfig struct {
	baseURL string
	timeout time.Duration
}

func (c testConfig) GetGeoIPBaseURL() string        { return c.baseURL }
func (c testConfig) GetGeoIPTimeout() time.Duration { return c.timeout }

func newTestClient(baseURL string) *Client {
	return NewClient(testConfig{baseURL: baseURL, timeout: time.Second}, logger.New("development"))
}

func TestLookupSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/json/8.8.8.8" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","country":"United States","countryCode":"US","region":"CA","city":"Mountain View","lat":37.4,"lon":-122.0}`))
	}))
	defer server.Close()

	info := newTestClient(server.URL).Lookup(context.Background(), "8.8.8.8")
	if info.IsZero() {
		t.Fatal("expected a populated result")
	}
	if info.Country != "United States" || info.City != "Mountain View" || info.CountryCode != "US" {
		t.Errorf("unexpected info: %+v", info)
	}
	if got := info.Location(); got != "Mountain View, United States" {
		t.Errorf("Location() = %q", got)
	}
}

func TestLookupSkipsPrivateAddresses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("provider must not be called for %q", r.URL.Path)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	for _, ip := range []string{"", "localhost", "127.0.0.1", "10.1.2.3", "192.168.0.5", "0.0.0.0", "not-an-ip", "::1"} {
		if info := client.Lookup(context.Background(), ip); !info.IsZero() {
			t.Errorf("Lookup(%q) should be zero, got %+v", ip, info)
		}
	}
}

func TestLookupDegradesOnFailure(t *testing.T) {
	t.Run("provider error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"fail"}`))
		}))
		defer server.Close()

		if info := newTestClient(server.URL).Lookup(context.Background(), "8.8.8.8"); !info.IsZero() {
			t.Errorf("expected zero info, got %+v", info)
		}
	})

	t.Run("http error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		if info := newTestClient(server.URL).Lookup(context.Background(), "8.8.8.8"); !info.IsZero() {
			t.Errorf("expected zero info, got %+v", info)
		}
	})

	t.Run("unreachable provider", func(t *testing.T) {
		if info := newTestClient("http://127.0.0.1:1").Lookup(context.Background(), "8.8.8.8"); !info.IsZero() {
			t.Errorf("expected zero info, got %+v", info)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer server.Close()

		if info := newTestClient(server.URL).Lookup(context.Background(), "8.8.8.8"); !info.IsZero() {
			t.Errorf("expected zero info, got %+v", info)
		}
	})
}
