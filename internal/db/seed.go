package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/orgadmin/orgadmin/internal/db/models"
)

type sampleOrganization struct {
	Name            string
	Slug            string
	Email           string
	Contact         string
	Phone           string
	Website         string
	Status          models.OrganizationStatus
	PendingRequests int
	Logo            string
}

var sampleOrganizations = []sampleOrganization{
	{"Massachusetts Institute of Technology", "mit", "gitam@gitam.in", "Taylor Jones", "91-9676456543", "Gitam.edu", models.StatusActive, 45, "🎓"},
	{"Stanford University", "stanford", "contact@stanford.edu", "John Smith", "91-9876543210", "Stanford.edu", models.StatusBlocked, 45, "🏛️"},
	{"Harvard University", "harvard", "info@harvard.edu", "Jane Doe", "91-9123456789", "Harvard.edu", models.StatusInactive, 45, "📚"},
}

// sampleUsers are created under the first sample organization.
var sampleUsers = []struct{ Name, Role string }{
	{"Dave Richards", models.RoleAdmin},
	{"Abhishek Hari", models.RoleCoordinator},
	{"Nishta Gupta", models.RoleAdmin},
}

// SeedSampleData inserts demo organizations and users when the organizations
// table is empty. It reports whether anything was written. All rows go in one
// transaction, so a failure leaves the table empty.
func SeedSampleData(ctx context.Context, db *sqlx.DB) (bool, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var count int
	if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM organizations`); err != nil {
		return false, fmt.Errorf("failed to count organizations: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	var firstOrgID int64
	for i, o := range sampleOrganizations {
		var id int64
		err := tx.GetContext(ctx, &id, `
			INSERT INTO organizations (name, slug, email, contact, phone, website, status, pending_requests, logo)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id`,
			o.Name, o.Slug, o.Email, o.Contact, o.Phone, o.Website, o.Status, o.PendingRequests, o.Logo)
		if err != nil {
			return false, fmt.Errorf("failed to seed organization %s: %w", o.Slug, err)
		}
		if i == 0 {
			firstOrgID = id
		}
	}

	for _, u := range sampleUsers {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (organization_id, name, role) VALUES ($1, $2, $3)`,
			firstOrgID, u.Name, u.Role); err != nil {
			return false, fmt.Errorf("failed to seed user %s: %w", u.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit seed transaction: %w", err)
	}
	return true, nil
}
