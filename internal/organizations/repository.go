package organizations

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists tenant definitions.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an organizations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Seed upserts the registry-file definitions, keyed by org key. Existing rows
// keep their ID so lead references stay stable across config edits.
func (r *Repository) Seed(ctx context.Context, orgs []Organization) error {
	for _, org := range orgs {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO organizations (key, name, website, org_type, domains, keywords)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (key) DO UPDATE SET
				name = EXCLUDED.name,
				website = EXCLUDED.website,
				org_type = EXCLUDED.org_type,
				domains = EXCLUDED.domains,
				keywords = EXCLUDED.keywords,
				updated_at = now()`,
			org.Key, org.Name, org.Website, org.Type, org.Domains, org.Keywords,
		)
		if err != nil {
			return fmt.Errorf("seed organization %q: %w", org.Key, err)
		}
	}
	return nil
}

// List returns all registered organizations.
func (r *Repository) List(ctx context.Context) ([]Organization, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, key, name, website, org_type, domains, keywords
		FROM organizations
		ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []Organization
	for rows.Next() {
		var org Organization
		if err := rows.Scan(&org.ID, &org.Key, &org.Name, &org.Website, &org.Type, &org.Domains, &org.Keywords); err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

// GetByKey returns one organization, or pgx.ErrNoRows wrapped as not found.
func (r *Repository) GetByKey(ctx context.Context, key string) (Organization, error) {
	var org Organization
	err := r.pool.QueryRow(ctx, `
		SELECT id, key, name, website, org_type, domains, keywords
		FROM organizations
		WHERE key = $1`, key,
	).Scan(&org.ID, &org.Key, &org.Name, &org.Website, &org.Type, &org.Domains, &org.Keywords)
	if errors.Is(err, pgx.ErrNoRows) {
		return Organization{}, err
	}
	if err != nil {
		return Organization{}, fmt.Errorf("get organization %q: %w", key, err)
	}
	return org, nil
}
