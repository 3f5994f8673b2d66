package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/halcyonlabs/argus/internal/api/handlers"
	"github.com/halcyonlabs/argus/internal/api/middleware"
	"github.com/halcyonlabs/argus/internal/config"
	"github.com/halcyonlabs/argus/internal/metrics"
	"github.com/halcyonlabs/argus/internal/models"
	"github.com/halcyonlabs/argus/internal/services"
)

// Register wires up API routes and performs automatic migrations.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) (*services.SnapshotService, error) {
	if err := db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Asset{},
		&models.Threat{},
		&models.Vulnerability{},
		&models.ComplianceFramework{},
		&models.ComplianceControl{},
		&models.ComplianceAssessment{},
		&models.SecurityEvent{},
		&models.Notification{},
		&models.NotificationProvider{},
		&models.PostureSnapshot{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics.Register(registry)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	router.GET("/api/v1/health", handlers.HealthHandler)

	api := router.Group("/api/v1")

	// Services
	authService := services.NewAuthService(db, cfg)
	notificationService := services.NewNotificationService(db)
	assetService := services.NewAssetService(db)
	threatService := services.NewThreatService(db, notificationService)
	vulnService := services.NewVulnerabilityService(db)
	complianceService := services.NewComplianceService(db)
	eventService := services.NewEventService(db)
	dashboardService := services.NewDashboardService(db, assetService, vulnService, complianceService, eventService)
	snapshotService := services.NewSnapshotService(db, assetService, vulnService, complianceService, notificationService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	assetHandler := handlers.NewAssetHandler(assetService)
	threatHandler := handlers.NewThreatHandler(threatService)
	vulnHandler := handlers.NewVulnerabilityHandler(vulnService)
	complianceHandler := handlers.NewComplianceHandler(complianceService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, snapshotService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/register", authHandler.Register)

	protected := api.Group("/")
	protected.Use(middleware.Auth(authService))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)
		protected.POST("/auth/change-password", authHandler.ChangePassword)

		// Assets
		protected.GET("/assets", assetHandler.List)
		protected.GET("/assets/:id", assetHandler.Get)
		protected.POST("/assets", assetHandler.Create)
		protected.PUT("/assets/:id", assetHandler.Update)
		protected.DELETE("/assets/:id", middleware.AdminRequired(), assetHandler.Delete)

		// Threats
		protected.GET("/threats", threatHandler.List)
		protected.GET("/threats/stats", threatHandler.Stats)
		protected.GET("/threats/:uuid", threatHandler.Get)
		protected.POST("/threats", middleware.AdminRequired(), threatHandler.Create)
		protected.POST("/threats/:uuid/action", threatHandler.Act)
		protected.POST("/threats/:uuid/assign", threatHandler.Assign)

		// Vulnerabilities
		protected.GET("/vulnerabilities", vulnHandler.List)
		protected.GET("/vulnerabilities/stats", vulnHandler.Stats)
		protected.GET("/vulnerabilities/:uuid", vulnHandler.Get)
		protected.POST("/vulnerabilities", middleware.AdminRequired(), vulnHandler.Create)
		protected.POST("/vulnerabilities/:uuid/action", vulnHandler.Act)
		protected.POST("/vulnerabilities/:uuid/assign", vulnHandler.Assign)

		// Compliance
		protected.GET("/compliance/frameworks", complianceHandler.Frameworks)
		protected.GET("/compliance/frameworks/:id", complianceHandler.Framework)
		protected.POST("/compliance/frameworks/:id/setup", middleware.AdminRequired(), complianceHandler.Setup)
		protected.GET("/compliance/controls/:id", complianceHandler.Control)
		protected.PUT("/compliance/controls/:id/assessment", complianceHandler.UpdateAssessment)
		protected.GET("/compliance/stats", complianceHandler.Stats)

		// Dashboard
		protected.GET("/dashboard", dashboardHandler.Summary)
		protected.GET("/dashboard/overview", dashboardHandler.Overview)
		protected.GET("/dashboard/history", dashboardHandler.History)
		protected.POST("/dashboard/snapshot", middleware.AdminRequired(), dashboardHandler.Snapshot)

		// Notifications
		protected.GET("/notifications", notificationHandler.List)
		protected.POST("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.POST("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/providers", notificationHandler.ListProviders)
		protected.POST("/notifications/providers", middleware.AdminRequired(), notificationHandler.CreateProvider)
		protected.DELETE("/notifications/providers/:id", middleware.AdminRequired(), notificationHandler.DeleteProvider)
	}

	return snapshotService, nil
}
