package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-backoffice/internal/config"
	"github.com/sangkips/pos-backoffice/internal/domain/enum"
	domainRepo "github.com/sangkips/pos-backoffice/internal/domain/repository"
	"github.com/sangkips/pos-backoffice/internal/presentation/http/handler"
	"github.com/sangkips/pos-backoffice/internal/presentation/http/middleware"
	"github.com/sangkips/pos-backoffice/pkg/logger"
	"github.com/sangkips/pos-backoffice/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Product  *handler.ProductHandler
	Category *handler.CategoryHandler
	Order    *handler.OrderHandler
	Customer *handler.CustomerHandler
	Employee *handler.EmployeeHandler
	Invoice  *handler.InvoiceHandler
	Printer  *handler.PrinterHandler
	Report   *handler.ReportHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	Logger          *logger.Logger
	TenantRepo      domainRepo.TenantRepository
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.RateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		// Public routes share the limiter keyed by client IP
		public := v1.Group("")
		public.Use(deps.RateLimiter.Middleware())
		registerAuthRoutes(public, h)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(middleware.TenantMiddleware(deps.TenantRepo))
		protected.Use(deps.RateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(public *gin.RouterGroup, h *Handlers) {
	auth := public.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	protected.GET("/auth/me", h.Auth.Me)
	protected.PUT("/auth/password", h.Auth.ChangePassword)

	registerUserRoutes(protected, h)
	registerProductRoutes(protected, h)
	registerCategoryRoutes(protected, h)
	registerOrderRoutes(protected, h, deps)
	registerCustomerRoutes(protected, h)
	registerEmployeeRoutes(protected, h)
	registerInvoiceRoutes(protected, h)
	registerPrinterRoutes(protected, h)
	registerReportRoutes(protected, h)
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequirePermission(enum.PermManageSettings))
	{
		users.GET("", h.User.List)
		users.POST("", h.User.Create)
		users.PUT("/:id", h.User.Update)
	}
}

// Every role can read the catalog; changing it needs manage-products.
func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/low-stock", h.Product.GetLowStock)
		products.GET("/:slug", h.Product.Get)
	}

	manage := products.Group("")
	manage.Use(middleware.RequirePermission(enum.PermManageProducts))
	{
		manage.POST("", h.Product.Create)
		manage.POST("/import", h.Product.Import)
		manage.GET("/import/template", h.Product.Template)
		manage.GET("/export", h.Product.Export)
		manage.PUT("/:slug", h.Product.Update)
		manage.DELETE("/:slug", h.Product.Delete)
	}
}

func registerCategoryRoutes(protected *gin.RouterGroup, h *Handlers) {
	categories := protected.Group("/categories")
	{
		categories.GET("", h.Category.List)
		categories.GET("/:slug", h.Category.Get)
	}

	manage := categories.Group("")
	manage.Use(middleware.RequirePermission(enum.PermManageCategories))
	{
		manage.POST("", h.Category.Create)
		manage.PUT("/:slug", h.Category.Update)
		manage.DELETE("/:slug", h.Category.Delete)
	}
}

func registerOrderRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	orders := protected.Group("/orders")
	orders.Use(middleware.RequirePermission(enum.PermManageOrders))
	{
		orders.GET("", h.Order.List)
		orders.POST("", middleware.Idempotency(deps.IdempotencyRepo), h.Order.Create)
		orders.GET("/:id", h.Order.Get)
		orders.POST("/:id/cancel", h.Order.Cancel)
		orders.GET("/:id/invoice", h.Invoice.Get)
		orders.GET("/:id/invoice/pdf", h.Invoice.PDF)
		orders.POST("/:id/print", h.Printer.PrintOrderReceipt)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	customers.Use(middleware.RequirePermission(enum.PermManageCustomers))
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
	}
}

func registerEmployeeRoutes(protected *gin.RouterGroup, h *Handlers) {
	employees := protected.Group("/employees")
	employees.Use(middleware.RequirePermission(enum.PermManageEmployees))
	{
		employees.GET("", h.Employee.List)
		employees.POST("", h.Employee.Create)
		employees.GET("/:id", h.Employee.Get)
		employees.PUT("/:id", h.Employee.Update)
		employees.DELETE("/:id", h.Employee.Delete)
		employees.POST("/:id/check-in", h.Employee.CheckIn)
		employees.POST("/:id/check-out", h.Employee.CheckOut)
		employees.GET("/:id/attendance", h.Employee.ListAttendance)
	}

	attendance := protected.Group("/attendance")
	attendance.Use(middleware.RequirePermission(enum.PermManageEmployees))
	attendance.GET("", h.Employee.ListAttendance)
}

func registerInvoiceRoutes(protected *gin.RouterGroup, h *Handlers) {
	settings := protected.Group("/settings/invoice")
	{
		settings.GET("", h.Invoice.GetSettings)
		settings.PUT("", middleware.RequirePermission(enum.PermManageSettings), h.Invoice.UpdateSettings)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printers := protected.Group("/printers")
	printers.Use(middleware.RequirePermission(enum.PermManagePrinters))
	{
		printers.GET("", h.Printer.List)
		printers.POST("", h.Printer.Create)
		printers.GET("/:id", h.Printer.Get)
		printers.PUT("/:id", h.Printer.Update)
		printers.DELETE("/:id", h.Printer.Delete)
		printers.POST("/:id/default", h.Printer.SetDefault)
		printers.GET("/:id/status", h.Printer.GetStatus)
		printers.POST("/:id/test", h.Printer.TestPrint)
	}
}

func registerReportRoutes(protected *gin.RouterGroup, h *Handlers) {
	reports := protected.Group("/reports")
	reports.Use(middleware.RequirePermission(enum.PermViewReports))
	{
		reports.GET("", h.Report.Kinds)
		reports.GET("/:kind", h.Report.Get)
	}
}
