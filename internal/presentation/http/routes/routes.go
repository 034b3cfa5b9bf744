package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/salon-api/internal/config"
	domainRepo "github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/internal/infrastructure/metrics"
	"github.com/sangkips/salon-api/internal/presentation/http/handler"
	"github.com/sangkips/salon-api/internal/presentation/http/middleware"
	"github.com/sangkips/salon-api/pkg/utils"
	"go.uber.org/zap"
)

// Roles allowed to change commission configuration and read team reports
var managerRoles = []string{"owner", "manager", "admin"}

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Sale              *handler.SaleHandler
	Staff             *handler.StaffHandler
	Customer          *handler.CustomerHandler
	CommissionProfile *handler.CommissionProfileHandler
	Report            *handler.ReportHandler
	Printer           *handler.PrinterHandler
	Health            *handler.HealthHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Metrics         *metrics.Metrics
	Logger          *zap.Logger
	RateLimiter     *middleware.TenantRateLimiter
}

// NewRateLimiter builds the per-tenant limiter from configuration.
func NewRateLimiter(cfg config.RateLimitConfig) *middleware.TenantRateLimiter {
	duration := cfg.Duration
	if duration <= 0 {
		duration = 1
	}
	return middleware.NewTenantRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: float64(cfg.Requests) / float64(duration),
		BurstSize:         cfg.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.MetricsMiddleware(deps.Metrics))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", h.Health.Health)
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(middleware.RequireTenant())

		rateLimiter := deps.RateLimiter
		if rateLimiter == nil {
			rateLimiter = NewRateLimiter(deps.Cfg.RateLimit)
		}
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Sales
	registerSaleRoutes(protected, h, deps)

	// Staff
	registerStaffRoutes(protected, h)

	// Customers
	registerCustomerRoutes(protected, h)

	// Commission profiles
	registerCommissionProfileRoutes(protected, h)

	// Reports
	registerReportRoutes(protected, h)

	// Printer
	registerPrinterRoutes(protected, h)
}

func registerSaleRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotency := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo:   deps.IdempotencyRepo,
		Logger: deps.Logger,
	})

	sales := protected.Group("/sales")
	{
		sales.GET("", h.Sale.List)
		sales.POST("", idempotency, h.Sale.Create)
		sales.GET("/:id", h.Sale.Get)
		sales.GET("/:id/receipt", h.Sale.Receipt)
		sales.PUT("/:id/status", h.Sale.UpdateStatus)
		sales.POST("/:id/cancel", h.Sale.Cancel)
		sales.POST("/:id/print", h.Printer.PrintSaleReceipt)
	}

	protected.POST("/receipts/preview", h.Sale.Preview)
}

func registerStaffRoutes(protected *gin.RouterGroup, h *Handlers) {
	staff := protected.Group("/staff")
	{
		staff.GET("", h.Staff.List)
		staff.POST("", h.Staff.Create)
		staff.GET("/:id", h.Staff.Get)
		staff.PUT("/:id", h.Staff.Update)
		staff.DELETE("/:id", h.Staff.Delete)
		staff.PUT("/:id/profiles", middleware.RequireRole(managerRoles...), h.Staff.AssignProfiles)
		staff.GET("/:id/commission", h.Staff.Commission)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
	}
}

func registerCommissionProfileRoutes(protected *gin.RouterGroup, h *Handlers) {
	profiles := protected.Group("/commission-profiles")
	{
		profiles.GET("", h.CommissionProfile.List)
		profiles.GET("/:id", h.CommissionProfile.Get)
	}

	managed := profiles.Group("")
	managed.Use(middleware.RequireRole(managerRoles...))
	{
		managed.POST("", h.CommissionProfile.Create)
		managed.PUT("/:id", h.CommissionProfile.Update)
		managed.DELETE("/:id", h.CommissionProfile.Delete)
	}
}

func registerReportRoutes(protected *gin.RouterGroup, h *Handlers) {
	reports := protected.Group("/reports")
	reports.Use(middleware.RequireRole(managerRoles...))
	{
		reports.GET("/commissions", h.Report.Commissions)
		reports.GET("/commissions/export", h.Report.ExportCommissions)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	protected.GET("/printer/status", h.Printer.GetStatus)
}
