// Package api wires together all HTTP routes for the console backend.
//
// The console API lives under /api and is unauthenticated: the admin console is
// expected to run on a trusted network. Liveness, readiness and version probes sit
// at the root so load balancers can reach them without the /api prefix.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/orgadmin/orgadmin/internal/api/admin"
	"github.com/orgadmin/orgadmin/internal/config"
	"github.com/orgadmin/orgadmin/internal/middleware"
)

// Version is reported by GET /version. cmd/server overrides it at link time.
var Version = "dev"

// probeTimeout bounds the database round trips made by /health and /ready.
const probeTimeout = 2 * time.Second

// NewRouter creates and configures the gin router. db is owned by the caller.
func NewRouter(cfg *config.Config, db *sqlx.DB) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Security.CORS))
	router.Use(middleware.SecurityHeadersMiddleware(middleware.APISecurityHeadersConfig(cfg.Security.HSTS)))
	router.Use(middleware.BodyLimitMiddleware(cfg.Server.MaxBodyBytes))

	router.GET("/health", healthCheckHandler(db))
	router.GET("/ready", readinessHandler(db))
	router.GET("/version", versionHandler())

	orgHandlers := admin.NewOrganizationHandlers(cfg, db)
	userHandlers := admin.NewUserHandlers(cfg, db)

	apiGroup := router.Group("/api")
	{
		orgs := apiGroup.Group("/organizations")
		{
			orgs.GET("", orgHandlers.ListOrganizationsHandler())
			orgs.POST("", orgHandlers.CreateOrganizationHandler())
			orgs.GET("/:id", orgHandlers.GetOrganizationHandler())
			orgs.PUT("/:id", orgHandlers.UpdateOrganizationHandler())
			orgs.DELETE("/:id", orgHandlers.DeleteOrganizationHandler())
			orgs.PATCH("/:id/status", orgHandlers.UpdateOrganizationStatusHandler())

			orgs.GET("/:id/users", userHandlers.ListUsersHandler())
			orgs.POST("/:id/users", userHandlers.CreateUserHandler())
		}

		users := apiGroup.Group("/users")
		{
			users.PUT("/:id", userHandlers.UpdateUserHandler())
			users.DELETE("/:id", userHandlers.DeleteUserHandler())
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "code": "not_found"})
	})

	return router
}

// @Summary      Health check
// @Description  Liveness probe. Pings the database.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status: healthy, time: RFC3339 timestamp"
// @Failure      503  {object}  map[string]interface{}  "status: unhealthy"
// @Router       /health [get]
func healthCheckHandler(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// @Summary      Readiness check
// @Description  Ready once the database answers and the schema has been migrated.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "ready: true"
// @Failure      503  {object}  map[string]interface{}  "ready: false"
// @Router       /ready [get]
func readinessHandler(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
		defer cancel()

		checks := gin.H{}
		if err := db.PingContext(ctx); err != nil {
			checks["database"] = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"ready":  false,
				"checks": checks,
				"error":  "database not ready",
			})
			return
		}
		checks["database"] = "healthy"

		if _, err := db.ExecContext(ctx, `SELECT 1 FROM organizations LIMIT 1`); err != nil {
			checks["schema"] = "missing"
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"ready":  false,
				"checks": checks,
				"error":  "schema not migrated",
			})
			return
		}
		checks["schema"] = "ready"

		c.JSON(http.StatusOK, gin.H{
			"ready":  true,
			"checks": checks,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// @Summary      API version
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "version"
// @Router       /version [get]
func versionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": Version})
	}
}
