package app

import (
	attendanceHandler "dabbatrack-service/internal/handlers/attendance"
	authHandler "dabbatrack-service/internal/handlers/auth"
	billingHandler "dabbatrack-service/internal/handlers/billing"
	customerHandler "dabbatrack-service/internal/handlers/customer"
	dashboardHandler "dabbatrack-service/internal/handlers/dashboard"
	pauseHandler "dabbatrack-service/internal/handlers/pause"
	userHandler "dabbatrack-service/internal/handlers/user"
	"dabbatrack-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	AuthHandler       *authHandler.AuthHandler
	UserHandler       *userHandler.UserHandler
	CustomerHandler   *customerHandler.CustomerHandler
	AttendanceHandler *attendanceHandler.AttendanceHandler
	PauseHandler      *pauseHandler.PauseHandler
	BillingHandler    *billingHandler.BillingHandler
	DashboardHandler  *dashboardHandler.DashboardHandler
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== Public Auth Routes ====================
	authPublic := api.Group("/auth")
	{
		authPublic.POST("/login", h.AuthHandler.Login)
		authPublic.POST("/login/password", h.AuthHandler.LoginWithPassword)
	}

	// ==================== Authenticated Auth Routes ====================
	authProtected := api.Group("/auth")
	authProtected.Use(middleware.RequireAuth())
	{
		authProtected.GET("/me", h.AuthHandler.Me)
		authProtected.POST("/logout", h.AuthHandler.Logout)
		authProtected.POST("/logout-all", h.AuthHandler.LogoutAll)
	}

	// ==================== Users (admin) ====================
	users := api.Group("/users")
	users.Use(middleware.RequireAdmin())
	{
		users.POST("", h.UserHandler.Create)
		users.PATCH("/:id", h.UserHandler.Update)
	}

	// ==================== Customers ====================
	customers := api.Group("/customers")
	customers.Use(middleware.RequireAuth())
	{
		customers.GET("", h.CustomerHandler.List)
		customers.POST("", h.CustomerHandler.Create)
		customers.GET("/:id", h.CustomerHandler.Get)
		customers.PATCH("/:id/status", h.CustomerHandler.SetStatus)

		// Per-customer views from the other modules.
		customers.GET("/:id/attendance", h.AttendanceHandler.LatestForCustomer)
		customers.GET("/:id/pause-windows", h.PauseHandler.ListByCustomer)
		customers.GET("/:id/paused", h.PauseHandler.IsPaused)
		customers.GET("/:id/plan", h.BillingHandler.PlanForCustomer)
	}

	// ==================== Attendance ====================
	attendance := api.Group("/attendance")
	attendance.Use(middleware.RequireAuth())
	{
		attendance.GET("", h.AttendanceHandler.List)
		attendance.POST("", h.AttendanceHandler.Record)
		attendance.POST("/opt-out", h.AttendanceHandler.OptOut)
		attendance.GET("/opt-outs", h.AttendanceHandler.OptOuts)
	}

	// ==================== Pause Windows ====================
	pauses := api.Group("/pause-windows")
	pauses.Use(middleware.RequireAuth())
	{
		pauses.POST("", h.PauseHandler.Create)
	}

	// ==================== Billing ====================
	billing := api.Group("/billing")
	billing.Use(middleware.RequireAuth())
	{
		billing.GET("/summary", h.BillingHandler.Summary)
		billing.GET("/ledger", h.BillingHandler.Ledger)
		billing.GET("/usage", h.BillingHandler.Usage)
	}

	plans := api.Group("/plans")
	plans.Use(middleware.RequireAuth())
	{
		plans.GET("", h.BillingHandler.ListPlans)

		// Plan and payment mutations are admin-only.
		plansAdmin := plans.Group("")
		plansAdmin.Use(middleware.RequireAdmin())
		{
			plansAdmin.PUT("", h.BillingHandler.UpsertPlan)
		}
	}

	payments := api.Group("/payments")
	payments.Use(middleware.RequireAdmin())
	{
		payments.POST("", h.BillingHandler.MarkPayment)
	}

	// ==================== Dashboard ====================
	dashboard := api.Group("/dashboard")
	dashboard.Use(middleware.RequireAuth())
	{
		dashboard.GET("", h.DashboardHandler.Summary)
	}
}
