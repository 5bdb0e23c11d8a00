// Package models - user.go defines the User record, a named member owned by exactly one
// organization.
package models

import "time"

// Roles the console offers. The store accepts any short text.
const (
	RoleAdmin       = "Admin"
	RoleCoordinator = "Co-ordinator"
)

// User is a member of an organization. Deleting the organization deletes its users.
type User struct {
	ID             int64     `db:"id" json:"id"`
	OrganizationID int64     `db:"organization_id" json:"organization_id"`
	Name           string    `db:"name" json:"name"`
	Role           string    `db:"role" json:"role"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
