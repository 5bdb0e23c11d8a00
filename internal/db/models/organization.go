// Package models - organization.go defines the Organization record administered by the
// console, together with its lifecycle statuses and column defaults.
package models

import "time"

// OrganizationStatus is the lifecycle flag of an organization.
type OrganizationStatus string

const (
	StatusActive   OrganizationStatus = "Active"
	StatusBlocked  OrganizationStatus = "Blocked"
	StatusInactive OrganizationStatus = "Inactive"
)

// Valid reports whether s is one of the known statuses.
func (s OrganizationStatus) Valid() bool {
	switch s {
	case StatusActive, StatusBlocked, StatusInactive:
		return true
	}
	return false
}

// Column defaults applied by the store when an organization is created.
const (
	DefaultMaxCoordinators = 5
	DefaultTimezone        = "India Standard Time"
	DefaultRegion          = "Asia/Colombo"
	DefaultLanguage        = "English"
)

// Organization is a B2B customer account. Nullable columns are pointers so a
// full-record update can write NULL for anything the caller left out.
type Organization struct {
	ID              int64               `db:"id" json:"id"`
	Name            string              `db:"name" json:"name"`
	Slug            string              `db:"slug" json:"slug"`
	Email           string              `db:"email" json:"email"`
	Contact         *string             `db:"contact" json:"contact"`
	Phone           *string             `db:"phone" json:"phone"`
	AltPhone        *string             `db:"alt_phone" json:"alt_phone"`
	MaxCoordinators *int                `db:"max_coordinators" json:"max_coordinators"`
	Timezone        *string             `db:"timezone" json:"timezone"`
	Region          *string             `db:"region" json:"region"`
	Language        *string             `db:"language" json:"language"`
	Website         *string             `db:"website" json:"website"`
	Logo            *string             `db:"logo" json:"logo"` // emoji token or base64 data URL
	Status          *OrganizationStatus `db:"status" json:"status"`
	PendingRequests *int                `db:"pending_requests" json:"pending_requests"`
	CreatedAt       time.Time           `db:"created_at" json:"created_at"`
}
