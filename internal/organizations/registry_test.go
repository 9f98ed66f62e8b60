package organizations

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRegistry(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "organizations.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadRegistryFile(t *testing.T) {
	path := writeRegistry(t, `
organizations:
  - key: Acme
    name: Acme Industries
    website: https://acme.example
    type: manufacturer
    domains: [" Acme.Example ", "acme.shop"]
    keywords: ["ACME"]
`)

	orgs, err := LoadRegistryFile(path)
	if err != nil {
		t.Fatalf("LoadRegistryFile() error = %v", err)
	}
	if len(orgs) != 1 {
		t.Fatalf("expected 1 org, got %d", len(orgs))
	}

	org := orgs[0]
	if org.Key != "acme" {
		t.Errorf("key should be lowercased, got %q", org.Key)
	}
	if org.Domains[0] != "acme.example" || org.Domains[1] != "acme.shop" {
		t.Errorf("domains should be normalized, got %v", org.Domains)
	}
	if org.Keywords[0] != "acme" {
		t.Errorf("keywords should be lowercased, got %v", org.Keywords)
	}
}

func TestLoadRegistryFileRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing key", "organizations:\n  - name: No Key\n"},
		{"missing name", "organizations:\n  - key: nokey\n"},
		{"duplicate key", "organizations:\n  - key: a\n    name: A\n  - key: a\n    name: B\n"},
		{"invalid yaml", "organizations: ["},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadRegistryFile(writeRegistry(t, tt.content)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadRegistryFileMissing(t *testing.T) {
	if _, err := LoadRegistryFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
