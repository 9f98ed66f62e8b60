package organizations

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type staticLister struct {
	orgs []Organization
	err  error
}

func (s staticLister) List(context.Context) ([]Organization, error) {
	return s.orgs, s.err
}

func testOrgs() []Organization {
	return []Organization{
		{
			ID:       uuid.New(),
			Key:      "acme",
			Name:     "Acme Industries",
			Domains:  []string{"acme.example"},
			Keywords: []string{"acme"},
		},
		{
			ID:       uuid.New(),
			Key:      "globex",
			Name:     "Globex Corporation",
			Domains:  []string{"globex.example", "globex-landing.example"},
			Keywords: []string{"globex"},
		},
	}
}

func TestResolvePriority(t *testing.T) {
	resolver := NewResolver(staticLister{orgs: testOrgs()})

	tests := []struct {
		name string
		data map[string]string
		host string
		want string
	}{
		{
			name: "explicit key wins over everything",
			data: map[string]string{
				"organization": "globex",
				"page_url":     "https://acme.example/contact",
			},
			want: "globex",
		},
		{
			name: "explicit key is case insensitive",
			data: map[string]string{"organization": " GLOBEX "},
			want: "globex",
		},
		{
			name: "page url domain",
			data: map[string]string{"page_url": "https://www.globex-landing.example/offer"},
			want: "globex",
		},
		{
			name: "page url keyword",
			data: map[string]string{"page_url": "https://campaigns.example/acme-spring-sale"},
			want: "acme",
		},
		{
			name: "referrer domain",
			data: map[string]string{"referrer": "https://acme.example/outbound"},
			want: "acme",
		},
		{
			name: "request host",
			data: map[string]string{},
			host: "track.globex.example",
			want: "globex",
		},
		{
			name: "sentinel referrer is skipped",
			data: map[string]string{"referrer": "(direct)"},
			host: "acme.example",
			want: "acme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			org, err := resolver.Resolve(context.Background(), tt.data, tt.host)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if org.Key != tt.want {
				t.Errorf("Resolve() = %q, want %q", org.Key, tt.want)
			}
		})
	}
}

func TestResolveNoMatch(t *testing.T) {
	resolver := NewResolver(staticLister{orgs: testOrgs()})

	_, err := resolver.Resolve(context.Background(), map[string]string{
		"page_url": "https://unrelated.example/",
	}, "unrelated.example")
	if !errors.Is(err, ErrUnresolved) {
		t.Fatalf("expected ErrUnresolved, got %v", err)
	}
}

func TestResolveSingleOrgDefault(t *testing.T) {
	orgs := testOrgs()[:1]
	resolver := NewResolver(staticLister{orgs: orgs})

	org, err := resolver.Resolve(context.Background(), map[string]string{}, "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if org.Key != "acme" {
		t.Errorf("single registered org should be the default, got %q", org.Key)
	}
}

func TestResolveUnknownExplicitKeyFallsThrough(t *testing.T) {
	resolver := NewResolver(staticLister{orgs: testOrgs()})

	org, err := resolver.Resolve(context.Background(), map[string]string{
		"organization": "nonexistent",
		"page_url":     "https://acme.example/",
	}, "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if org.Key != "acme" {
		t.Errorf("unknown key should fall through to domain match, got %q", org.Key)
	}
}
