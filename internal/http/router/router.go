package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/lexsuite-backend/internal/config"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lexsuite-backend/internal/http/middleware"
	"github.com/ignatzorin/lexsuite-backend/internal/interface/http/handler"
)

func SetupRouter(
	cfg *config.Config,
	tokens middleware.AccessParser,
	healthHandler *handler.HealthHandler,
	wsHandler *handler.WSHandler,
	keyDateHandler *handler.KeyDateHandler,
	directionHandler *handler.DirectionHandler,
	calendarHandler *handler.CalendarHandler,
	notificationHandler *handler.NotificationHandler,
	policyHandler *handler.PolicyHandler,
	escalationHandler *handler.EscalationHandler,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod, middleware.ByClientIP))

	// Токен передаётся в query, поэтому ws вне группы с AuthMiddleware.
	api.GET("/ws", wsHandler.Handle)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(tokens))
	protected.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit*10, cfg.RateLimitPeriod, middleware.ByFirm))

	keyDates := protected.Group("/key-dates")
	{
		keyDates.GET("", keyDateHandler.List)
		keyDates.POST("", middleware.RequireRole(valueobject.RoleSolicitor), keyDateHandler.Create)

		item := keyDates.Group("/:id")
		item.Use(middleware.UUIDValidator("id"))
		item.GET("", keyDateHandler.Get)
		item.PATCH("", keyDateHandler.Update)
		item.POST("/complete", keyDateHandler.Complete)
		item.GET("/ics", keyDateHandler.ExportICS)
		item.DELETE("", middleware.RequireRole(valueobject.RoleAdmin), keyDateHandler.Delete)
	}

	protected.GET("/matters/:id/directions", middleware.UUIDValidator("id"), directionHandler.ListByMatter)

	directions := protected.Group("/directions")
	{
		directions.POST("", directionHandler.Create)

		item := directions.Group("/:id")
		item.Use(middleware.UUIDValidator("id"))
		item.GET("", directionHandler.Get)
		item.PATCH("", directionHandler.Update)
		item.POST("/submit", directionHandler.Submit)
		item.POST("/vacate", directionHandler.Vacate)
		item.POST("/confirm", middleware.RequireRole(valueobject.RoleSolicitor), directionHandler.Confirm)
	}

	cal := protected.Group("/calendar")
	{
		cal.GET("", calendarHandler.List)
		cal.POST("/deadlines", calendarHandler.CreateDeadline)
		cal.POST("/events/:id/complete", middleware.UUIDValidator("id"), calendarHandler.Complete)
	}

	notifications := protected.Group("/notifications")
	{
		notifications.GET("", notificationHandler.List)
		notifications.GET("/unread-count", notificationHandler.UnreadCount)
		notifications.POST("/read-all", notificationHandler.MarkAllRead)
		notifications.POST("/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkRead)
		notifications.POST("/:id/acknowledge", middleware.UUIDValidator("id"), notificationHandler.Acknowledge)
	}

	policies := protected.Group("/escalation-policies")
	{
		policies.GET("", middleware.RequireRole(valueobject.RoleSupervisor), policyHandler.List)
		policies.PUT("/:tier", middleware.RequireRole(valueobject.RoleAdmin), policyHandler.Upsert)
		policies.POST("/seed", middleware.RequireRole(valueobject.RoleAdmin), policyHandler.Seed)
	}

	protected.POST("/escalation/recompute",
		middleware.RequireRole(valueobject.RoleSupervisor),
		middleware.RateLimitMiddleware(cfg.Scheduler.RecomputeRateLimit, cfg.RateLimitPeriod, middleware.ByFirm),
		escalationHandler.Recompute,
	)

	return r
}
