// organizations.go implements handlers for organization listing, lookup, creation, full and
// status-only updates, and deletion.
package admin

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/orgadmin/orgadmin/internal/config"
	"github.com/orgadmin/orgadmin/internal/db/models"
	"github.com/orgadmin/orgadmin/internal/db/repositories"
	"github.com/orgadmin/orgadmin/internal/telemetry"
)

const orgNotFound = "Organization not found"

// OrganizationHandlers handles organization management endpoints
type OrganizationHandlers struct {
	errs    errorWriter
	orgRepo *repositories.OrganizationRepository
}

// NewOrganizationHandlers creates a new OrganizationHandlers instance
func NewOrganizationHandlers(cfg *config.Config, db *sqlx.DB) *OrganizationHandlers {
	return &OrganizationHandlers{
		errs:    errorWriter{strict: cfg.API.StrictStatusCodes},
		orgRepo: repositories.NewOrganizationRepository(db),
	}
}

// CreateOrganizationRequest is the body of POST /api/organizations
type CreateOrganizationRequest struct {
	Name    string  `json:"name" binding:"required"`
	Slug    string  `json:"slug" binding:"required"`
	Email   string  `json:"email" binding:"required"`
	Contact *string `json:"contact"`
}

// UpdateOrganizationRequest is the body of PUT /api/organizations/:id. Every
// settable column is overwritten; a field left out of the body becomes NULL.
type UpdateOrganizationRequest struct {
	Name            string                     `json:"name" binding:"required"`
	Slug            string                     `json:"slug" binding:"required"`
	Email           string                     `json:"email" binding:"required"`
	Contact         *string                    `json:"contact"`
	Phone           *string                    `json:"phone"`
	AltPhone        *string                    `json:"alt_phone"`
	MaxCoordinators *coordinatorLimit          `json:"max_coordinators"`
	Timezone        *string                    `json:"timezone"`
	Region          *string                    `json:"region"`
	Language        *string                    `json:"language"`
	Website         *string                    `json:"website"`
	Status          *models.OrganizationStatus `json:"status"`
	Logo            *string                    `json:"logo"`
}

// coordinatorLimit is max_coordinators as sent by the console, which posts the
// value of a <select> and so may quote the number.
type coordinatorLimit int

// UnmarshalJSON accepts 10 or "10".
func (n *coordinatorLimit) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("max_coordinators: %q is not an integer", s)
		}
		*n = coordinatorLimit(v)
		return nil
	}

	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("max_coordinators: %s is not an integer", b)
	}
	*n = coordinatorLimit(v)
	return nil
}

func (n *coordinatorLimit) intPtr() *int {
	if n == nil {
		return nil
	}
	v := int(*n)
	return &v
}

// UpdateStatusRequest is the body of PATCH /api/organizations/:id/status
type UpdateStatusRequest struct {
	Status models.OrganizationStatus `json:"status" binding:"required"`
}

// @Summary      List organizations
// @Description  List every organization ordered by id. q filters by name, slug or email.
// @Tags         Organizations
// @Produce      json
// @Param        q  query  string  false  "Case-insensitive substring filter"
// @Success      200  {array}   models.Organization
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/organizations [get]
func (h *OrganizationHandlers) ListOrganizationsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgs, err := h.orgRepo.List(c.Request.Context(), c.Query("q"))
		if err != nil {
			h.errs.write(c, err, orgNotFound, "Failed to list organizations")
			return
		}
		c.JSON(http.StatusOK, orgs)
	}
}

// @Summary      Get organization
// @Tags         Organizations
// @Produce      json
// @Param        id  path  int  true  "Organization ID"
// @Success      200  {object}  models.Organization
// @Failure      400  {object}  map[string]interface{}  "Invalid organization id"
// @Failure      404  {object}  map[string]interface{}  "Organization not found"
// @Router       /api/organizations/{id} [get]
func (h *OrganizationHandlers) GetOrganizationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id", "organization")
		if !ok {
			return
		}

		org, err := h.orgRepo.GetByID(c.Request.Context(), id)
		if err != nil {
			h.errs.write(c, err, orgNotFound, "Failed to retrieve organization")
			return
		}
		c.JSON(http.StatusOK, org)
	}
}

// @Summary      Create organization
// @Description  Create an organization from name, slug, email and contact. Other fields take their defaults.
// @Tags         Organizations
// @Accept       json
// @Produce      json
// @Param        body  body  CreateOrganizationRequest  true  "Organization"
// @Success      200  {object}  map[string]interface{}  "id, name, slug, email, contact"
// @Failure      400  {object}  map[string]interface{}  "Invalid request or duplicate slug"
// @Failure      409  {object}  map[string]interface{}  "Duplicate slug (strict status codes)"
// @Router       /api/organizations [post]
func (h *OrganizationHandlers) CreateOrganizationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateOrganizationRequest
		if !bindJSON(c, &req) {
			return
		}

		org := &models.Organization{
			Name:    req.Name,
			Slug:    req.Slug,
			Email:   req.Email,
			Contact: req.Contact,
		}
		if err := h.orgRepo.Create(c.Request.Context(), org); err != nil {
			h.errs.write(c, err, orgNotFound, "Failed to create organization")
			return
		}

		telemetry.OrganizationMutationsTotal.WithLabelValues("create").Inc()
		slog.Info("organization created", "org_id", org.ID, "slug", org.Slug)

		c.JSON(http.StatusOK, gin.H{
			"id":      org.ID,
			"name":    org.Name,
			"slug":    org.Slug,
			"email":   org.Email,
			"contact": org.Contact,
		})
	}
}

// @Summary      Update organization
// @Description  Replace every settable field of an organization. Omitted fields are cleared.
// @Tags         Organizations
// @Accept       json
// @Produce      json
// @Param        id    path  int                        true  "Organization ID"
// @Param        body  body  UpdateOrganizationRequest  true  "Organization"
// @Success      200  {object}  map[string]interface{}  "success: true"
// @Failure      400  {object}  map[string]interface{}  "Invalid request or constraint violation"
// @Failure      404  {object}  map[string]interface{}  "Organization not found"
// @Router       /api/organizations/{id} [put]
func (h *OrganizationHandlers) UpdateOrganizationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id", "organization")
		if !ok {
			return
		}
		var req UpdateOrganizationRequest
		if !bindJSON(c, &req) {
			return
		}

		org := &models.Organization{
			ID:              id,
			Name:            req.Name,
			Slug:            req.Slug,
			Email:           req.Email,
			Contact:         req.Contact,
			Phone:           req.Phone,
			AltPhone:        req.AltPhone,
			MaxCoordinators: req.MaxCoordinators.intPtr(),
			Timezone:        req.Timezone,
			Region:          req.Region,
			Language:        req.Language,
			Website:         req.Website,
			Status:          req.Status,
			Logo:            req.Logo,
		}
		if err := h.orgRepo.Update(c.Request.Context(), org); err != nil {
			h.errs.write(c, err, orgNotFound, "Failed to update organization")
			return
		}

		telemetry.OrganizationMutationsTotal.WithLabelValues("update").Inc()
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// @Summary      Update organization status
// @Tags         Organizations
// @Accept       json
// @Produce      json
// @Param        id    path  int                  true  "Organization ID"
// @Param        body  body  UpdateStatusRequest  true  "Active, Blocked or Inactive"
// @Success      200  {object}  map[string]interface{}  "success: true"
// @Failure      400  {object}  map[string]interface{}  "Unknown status"
// @Failure      404  {object}  map[string]interface{}  "Organization not found"
// @Router       /api/organizations/{id}/status [patch]
func (h *OrganizationHandlers) UpdateOrganizationStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id", "organization")
		if !ok {
			return
		}
		var req UpdateStatusRequest
		if !bindJSON(c, &req) {
			return
		}

		if err := h.orgRepo.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
			h.errs.write(c, err, orgNotFound, "Failed to update organization status")
			return
		}

		telemetry.OrganizationMutationsTotal.WithLabelValues("update_status").Inc()
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// @Summary      Delete organization
// @Description  Delete an organization and all of its users. Deleting a missing id succeeds.
// @Tags         Organizations
// @Produce      json
// @Param        id  path  int  true  "Organization ID"
// @Success      200  {object}  map[string]interface{}  "success: true"
// @Router       /api/organizations/{id} [delete]
func (h *OrganizationHandlers) DeleteOrganizationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id", "organization")
		if !ok {
			return
		}

		if err := h.orgRepo.Delete(c.Request.Context(), id); err != nil {
			h.errs.write(c, err, orgNotFound, "Failed to delete organization")
			return
		}

		telemetry.OrganizationMutationsTotal.WithLabelValues("delete").Inc()
		slog.Info("organization deleted", "org_id", id)
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
