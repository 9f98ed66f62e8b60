// Package organizations resolves inbound tracking traffic to a tenant.
// Tenant definitions are seeded from a YAML registry file into Postgres and
// served through a Redis cache with a bounded staleness window.
package organizations

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Organization is one tenant definition.
type Organization struct {
	ID       uuid.UUID `json:"id" yaml:"-"`
	Key      string    `json:"key" yaml:"key"`
	Name     string    `json:"name" yaml:"name"`
	Website  string    `json:"website" yaml:"website"`
	Type     string    `json:"type" yaml:"type"`
	Domains  []string  `json:"domains" yaml:"domains"`
	Keywords []string  `json:"keywords" yaml:"keywords"`
}

type registryFile struct {
	Organizations []Organization `yaml:"organizations"`
}

// LoadRegistryFile reads tenant definitions from the YAML registry file.
// Keys, domains, and keywords are lowercased; matching is case-insensitive.
func LoadRegistryFile(path string) ([]Organization, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read org registry: %w", err)
	}

	var parsed registryFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse org registry: %w", err)
	}

	seen := make(map[string]bool, len(parsed.Organizations))
	for i := range parsed.Organizations {
		org := &parsed.Organizations[i]
		org.Key = strings.ToLower(strings.TrimSpace(org.Key))
		if org.Key == "" {
			return nil, fmt.Errorf("org registry entry %d: key is required", i)
		}
		if seen[org.Key] {
			return nil, fmt.Errorf("org registry: duplicate key %q", org.Key)
		}
		seen[org.Key] = true
		if org.Name == "" {
			return nil, fmt.Errorf("org registry entry %q: name is required", org.Key)
		}
		for j, d := range org.Domains {
			org.Domains[j] = strings.ToLower(strings.TrimSpace(d))
		}
		for j, k := range org.Keywords {
			org.Keywords[j] = strings.ToLower(strings.TrimSpace(k))
		}
	}

	return parsed.Organizations, nil
}
