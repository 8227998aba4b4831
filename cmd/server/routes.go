package main

import (
	"github.com/DocksDocks/oauth-api/internal/middleware"
	"github.com/DocksDocks/oauth-api/internal/models"
	"github.com/DocksDocks/oauth-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for credential-bearing auth routes
	authLimiter := middleware.NewRateLimiter(10, 20)

	// Health check
	r.GET("/health", svc.healthHandler.CheckHealth)

	api := r.Group("")
	{
		// Setup routes run before any API key exists, so they sit outside
		// the gate. Completion itself is one-winner.
		setup := api.Group("/setup")
		{
			setup.GET("/status", svc.setupHandler.Status)
			setup.POST("/complete", authLimiter.Middleware(), svc.setupHandler.Complete)
		}

		// Everything else requires an API key; admin-and-above bearer
		// tokens skip that gate.
		gated := api.Group("", middleware.APIKeyRequired(svc.apiKeyService))

		// Auth routes (public within the gate)
		auth := gated.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/login", svc.authHandler.Login)
			auth.POST("/refresh", svc.authHandler.Refresh)
			auth.POST("/logout", svc.authHandler.Logout)
		}

		// Protected routes
		protected := gated.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.GET("/auth/verify", svc.authHandler.Verify)
			protected.GET("/auth/sessions", svc.authHandler.Sessions)
			protected.DELETE("/auth/sessions/:id", svc.authHandler.DeleteSession)
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.PUT("/auth/me", svc.userHandler.UpdateProfile)

			// Provider account linking
			protected.GET("/accounts", svc.accountHandler.List)
			protected.POST("/accounts/link", svc.accountHandler.Link)
			protected.DELETE("/accounts/:provider", svc.accountHandler.Unlink)
			protected.PUT("/accounts/:provider/primary", svc.accountHandler.SetPrimary)

			// API keys
			protected.POST("/apikeys", svc.apiKeyHandler.Create)
			protected.GET("/apikeys", svc.apiKeyHandler.List)
			protected.PUT("/apikeys/:id/revoke", svc.apiKeyHandler.Revoke)
			protected.DELETE("/apikeys/:id", svc.apiKeyHandler.Delete)
		}

		// Admin only routes
		admin := gated.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.RequireRole(models.RoleAdmin))
		admin.Use(middleware.AuditLog(svc.systemLogService))
		{
			// Users
			admin.GET("/users", svc.userHandler.List)
			admin.GET("/users/:id", svc.userHandler.Get)
			admin.DELETE("/users/:id", svc.userHandler.Delete)

			// Role grants go through the service-level superadmin guard as
			// well; this gate just fails fast for plain admins.
			admin.PUT("/users/:id/role", svc.userHandler.UpdateRole)

			// Collection browser
			admin.GET("/collections", svc.collectionHandler.List)
			admin.GET("/collections/:name", svc.collectionHandler.Browse)

			// System Config
			admin.GET("/config/auth-session", svc.systemConfigHandler.GetAuthSessionConfig)
			admin.PUT("/config/auth-session", svc.systemConfigHandler.UpdateAuthSessionConfig)

			// System Logs
			admin.GET("/system-logs", svc.systemLogHandler.List)
			admin.GET("/system-logs/modules", svc.systemLogHandler.GetModules)
			admin.GET("/system-logs/retention", svc.systemLogHandler.GetRetention)
			admin.PUT("/system-logs/retention", svc.systemLogHandler.UpdateRetention)
			admin.POST("/system-logs/cleanup", svc.systemLogHandler.Cleanup)
		}
	}
}
