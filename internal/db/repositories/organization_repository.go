// organization_repository.go implements OrganizationRepository, providing database queries
// for organization listing, lookup, creation, full and status-only updates, and deletion.
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/orgadmin/orgadmin/internal/db/models"
)

const organizationColumns = `id, name, slug, email, contact, phone, alt_phone, max_coordinators,
		timezone, region, language, website, logo, status, pending_requests, created_at`

// OrganizationRepository handles database operations for organizations
type OrganizationRepository struct {
	db *sqlx.DB
}

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(db *sqlx.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// List returns every organization ordered by id. A non-empty search narrows the
// result to organizations whose name, slug or email contains it, ignoring case.
func (r *OrganizationRepository) List(ctx context.Context, search string) ([]models.Organization, error) {
	orgs := []models.Organization{}

	search = strings.TrimSpace(search)
	var err error
	if search == "" {
		err = r.db.SelectContext(ctx, &orgs,
			`SELECT `+organizationColumns+` FROM organizations ORDER BY id`)
	} else {
		err = r.db.SelectContext(ctx, &orgs,
			`SELECT `+organizationColumns+` FROM organizations
			WHERE name ILIKE $1 OR slug ILIKE $1 OR email ILIKE $1
			ORDER BY id`,
			"%"+escapeLike(search)+"%")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", classify(err))
	}

	return orgs, nil
}

// GetByID retrieves an organization by ID
func (r *OrganizationRepository) GetByID(ctx context.Context, id int64) (*models.Organization, error) {
	org := &models.Organization{}
	err := r.db.GetContext(ctx, org,
		`SELECT `+organizationColumns+` FROM organizations WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("organization %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get organization: %w", classify(err))
	}

	return org, nil
}

// Create inserts an organization from its name, slug, email and contact. Every other
// column takes its default; org is refreshed with the stored row.
func (r *OrganizationRepository) Create(ctx context.Context, org *models.Organization) error {
	query := `
		INSERT INTO organizations (name, slug, email, contact)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + organizationColumns

	err := r.db.GetContext(ctx, org, query, org.Name, org.Slug, org.Email, org.Contact)
	if err != nil {
		return fmt.Errorf("failed to create organization: %w", classify(err))
	}

	return nil
}

// Update overwrites every settable column of the organization with the values in
// org. Nil fields are stored as NULL.
func (r *OrganizationRepository) Update(ctx context.Context, org *models.Organization) error {
	query := `
		UPDATE organizations
		SET name = $2, slug = $3, email = $4, contact = $5, phone = $6, alt_phone = $7,
			max_coordinators = $8, timezone = $9, region = $10, language = $11,
			website = $12, status = $13, logo = $14
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		org.ID,
		org.Name,
		org.Slug,
		org.Email,
		org.Contact,
		org.Phone,
		org.AltPhone,
		org.MaxCoordinators,
		org.Timezone,
		org.Region,
		org.Language,
		org.Website,
		org.Status,
		org.Logo,
	)
	if err != nil {
		return fmt.Errorf("failed to update organization: %w", classify(err))
	}

	return requireRow(result, "organization", org.ID)
}

// UpdateStatus changes only the status of an organization.
func (r *OrganizationRepository) UpdateStatus(ctx context.Context, id int64, status models.OrganizationStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE organizations SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update organization status: %w", classify(err))
	}

	return requireRow(result, "organization", id)
}

// Delete removes an organization and, through the foreign key, all of its users.
// Deleting an id that does not exist is not an error.
func (r *OrganizationRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM organizations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete organization: %w", classify(err))
	}
	return nil
}

// Count returns the number of organizations
func (r *OrganizationRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM organizations`); err != nil {
		return 0, fmt.Errorf("failed to count organizations: %w", classify(err))
	}
	return n, nil
}

// requireRow turns a zero-row UPDATE into ErrNotFound.
func requireRow(result sql.Result, entity string, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
