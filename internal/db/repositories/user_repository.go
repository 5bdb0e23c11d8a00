// Package repositories implements the data access layer for the console.
// Each repository type holds all queries for one table and tags driver failures
// with ErrNotFound, ErrConflict or ErrInvalid so handlers can pick a status code.
package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/orgadmin/orgadmin/internal/db/models"
)

// UserRepository handles user database operations
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// ListByOrganization returns the users of an organization in insertion order.
// An unknown organization yields an empty list.
func (r *UserRepository) ListByOrganization(ctx context.Context, orgID int64) ([]models.User, error) {
	users := []models.User{}
	query := `
		SELECT id, organization_id, name, role, created_at
		FROM users
		WHERE organization_id = $1
		ORDER BY id
	`
	if err := r.db.SelectContext(ctx, &users, query, orgID); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", classify(err))
	}
	return users, nil
}

// Create inserts a user under user.OrganizationID. A missing organization is
// reported as ErrNotFound by the foreign key.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (organization_id, name, role)
		VALUES ($1, $2, $3)
		RETURNING id, organization_id, name, role, created_at
	`
	if err := r.db.GetContext(ctx, user, query, user.OrganizationID, user.Name, user.Role); err != nil {
		return fmt.Errorf("failed to create user: %w", classify(err))
	}
	return nil
}

// Update overwrites the name and role of a user
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = $2, role = $3 WHERE id = $1`,
		user.ID, user.Name, user.Role)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", classify(err))
	}
	return requireRow(result, "user", user.ID)
}

// Delete removes a user. Deleting an id that does not exist is not an error.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", classify(err))
	}
	return nil
}
