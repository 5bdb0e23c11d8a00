// users.go implements handlers for the users of an organization.
package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/orgadmin/orgadmin/internal/config"
	"github.com/orgadmin/orgadmin/internal/db/models"
	"github.com/orgadmin/orgadmin/internal/db/repositories"
	"github.com/orgadmin/orgadmin/internal/telemetry"
)

const userNotFound = "User not found"

// UserHandlers handles user management endpoints
type UserHandlers struct {
	errs     errorWriter
	userRepo *repositories.UserRepository
}

// NewUserHandlers creates a new UserHandlers instance
func NewUserHandlers(cfg *config.Config, db *sqlx.DB) *UserHandlers {
	return &UserHandlers{
		errs:     errorWriter{strict: cfg.API.StrictStatusCodes},
		userRepo: repositories.NewUserRepository(db),
	}
}

// UserRequest is the body of POST /api/organizations/:id/users and PUT /api/users/:id.
// Role may be empty.
type UserRequest struct {
	Name string `json:"name" binding:"required"`
	Role string `json:"role"`
}

// @Summary      List organization users
// @Tags         Users
// @Produce      json
// @Param        id  path  int  true  "Organization ID"
// @Success      200  {array}   models.User
// @Failure      400  {object}  map[string]interface{}  "Invalid organization id"
// @Router       /api/organizations/{id}/users [get]
func (h *UserHandlers) ListUsersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID, ok := pathID(c, "id", "organization")
		if !ok {
			return
		}

		users, err := h.userRepo.ListByOrganization(c.Request.Context(), orgID)
		if err != nil {
			h.errs.write(c, err, orgNotFound, "Failed to list users")
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// @Summary      Add user to organization
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        id    path  int          true  "Organization ID"
// @Param        body  body  UserRequest  true  "User"
// @Success      200  {object}  map[string]interface{}  "id, name, role"
// @Failure      400  {object}  map[string]interface{}  "Invalid request"
// @Failure      404  {object}  map[string]interface{}  "Organization not found"
// @Router       /api/organizations/{id}/users [post]
func (h *UserHandlers) CreateUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID, ok := pathID(c, "id", "organization")
		if !ok {
			return
		}
		var req UserRequest
		if !bindJSON(c, &req) {
			return
		}

		user := &models.User{OrganizationID: orgID, Name: req.Name, Role: req.Role}
		if err := h.userRepo.Create(c.Request.Context(), user); err != nil {
			h.errs.write(c, err, orgNotFound, "Failed to create user")
			return
		}

		telemetry.UserMutationsTotal.WithLabelValues("create").Inc()
		c.JSON(http.StatusOK, gin.H{
			"id":   user.ID,
			"name": user.Name,
			"role": user.Role,
		})
	}
}

// @Summary      Update user
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        id    path  int          true  "User ID"
// @Param        body  body  UserRequest  true  "User"
// @Success      200  {object}  map[string]interface{}  "success: true"
// @Failure      400  {object}  map[string]interface{}  "Invalid request"
// @Failure      404  {object}  map[string]interface{}  "User not found"
// @Router       /api/users/{id} [put]
func (h *UserHandlers) UpdateUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id", "user")
		if !ok {
			return
		}
		var req UserRequest
		if !bindJSON(c, &req) {
			return
		}

		if err := h.userRepo.Update(c.Request.Context(), &models.User{ID: id, Name: req.Name, Role: req.Role}); err != nil {
			h.errs.write(c, err, userNotFound, "Failed to update user")
			return
		}

		telemetry.UserMutationsTotal.WithLabelValues("update").Inc()
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// @Summary      Delete user
// @Description  Deleting a missing id succeeds.
// @Tags         Users
// @Produce      json
// @Param        id  path  int  true  "User ID"
// @Success      200  {object}  map[string]interface{}  "success: true"
// @Router       /api/users/{id} [delete]
func (h *UserHandlers) DeleteUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id", "user")
		if !ok {
			return
		}

		if err := h.userRepo.Delete(c.Request.Context(), id); err != nil {
			h.errs.write(c, err, userNotFound, "Failed to delete user")
			return
		}

		telemetry.UserMutationsTotal.WithLabelValues("delete").Inc()
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
