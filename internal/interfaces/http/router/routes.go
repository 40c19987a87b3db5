package router

import (
	"github.com/exonyb/backoffice/internal/domain/identity"
	"github.com/exonyb/backoffice/internal/infrastructure/config"
	"github.com/exonyb/backoffice/internal/infrastructure/logger"
	"github.com/exonyb/backoffice/internal/infrastructure/telemetry"
	"github.com/exonyb/backoffice/internal/interfaces/http/handler"
	"github.com/exonyb/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

const (
	imageUploadRoute = "/api/v1/products/:id/image"
	// multipart framing on top of the image itself
	multipartOverhead = 1 << 20
)

// Handlers groups every HTTP handler served by the API
type Handlers struct {
	Auth         *handler.AuthHandler
	Client       *handler.ClientHandler
	Supplier     *handler.SupplierHandler
	Product      *handler.ProductHandler
	Order        *handler.OrderHandler
	Return       *handler.ReturnHandler
	Accounting   *handler.AccountingHandler
	Notification *handler.NotificationHandler
	Audit        *handler.AuditHandler
	User         *handler.UserHandler
	Report       *handler.ReportHandler
	System       *handler.SystemHandler
}

// Dependencies holds what the engine needs besides the handlers
type Dependencies struct {
	Logger      *zap.Logger
	Tokens      middleware.TokenValidator
	Metrics     *telemetry.HTTPMetrics // nil disables request metrics
	RateLimiter *middleware.RateLimiter
}

// New builds the gin engine: global middleware, the /api/v1 routes and the
// public system routes.
func New(cfg *config.Config, deps Dependencies, h Handlers) (*gin.Engine, error) {
	if err := middleware.SetupValidator(); err != nil {
		return nil, err
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			return nil, err
		}
	}
	engine.HandleMethodNotAllowed = true
	engine.NoRoute(middleware.NoRoute)
	engine.NoMethod(middleware.NoMethod)

	engine.Use(logger.Recovery(deps.Logger))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(deps.Logger))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName), middleware.SpanEnricher())
	}
	engine.Use(middleware.HTTPMetrics(deps.Metrics))
	engine.Use(middleware.Secure(middleware.DefaultSecurityConfig(cfg.App.IsProduction())))
	engine.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.HTTP.CORSAllowedOrigins)))
	engine.Use(middleware.ClientContext())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize, map[string]int64{
		imageUploadRoute: cfg.Storage.MaxImageSize + multipartOverhead,
	}))
	if deps.RateLimiter != nil {
		engine.Use(middleware.RateLimit(deps.RateLimiter))
	}
	engine.Use(middleware.ErrorHandler())

	engine.GET("/health", h.System.Health)
	engine.GET("/swagger/*any", middleware.SwaggerProtection(cfg.Swagger), ginSwagger.WrapHandler(swaggerFiles.Handler))
	if cfg.Storage.Type != "s3" && cfg.Storage.LocalDir != "" {
		engine.Static("/uploads", cfg.Storage.LocalDir)
	}

	r := NewRouter(engine, WithAPIVersion("v1"), WithAuth(middleware.Auth(deps.Tokens)))
	r.Public(publicAuthRoutes(h))
	for _, group := range apiGroups(h) {
		r.Register(group)
	}
	r.Setup()

	return engine, nil
}

func publicAuthRoutes(h Handlers) *DomainGroup {
	return NewDomainGroup("auth", "/auth").
		POST("/login", "", h.Auth.Login).
		POST("/refresh", "", h.Auth.Refresh)
}

// apiGroups lists the authenticated route groups with the action each route requires
func apiGroups(h Handlers) []*DomainGroup {
	const (
		read   = identity.ActionRead
		create = identity.ActionCreate
		update = identity.ActionUpdate
		del    = identity.ActionDelete
	)

	auth := NewDomainGroup("auth", "/auth").
		POST("/logout", "", h.Auth.Logout).
		GET("/me", "", h.Auth.Me).
		PUT("/password", "", h.Auth.ChangePassword)

	clients := NewDomainGroup(identity.ResourceClient, "/clients").
		GET("", read, h.Client.List).
		GET("/:id", read, h.Client.GetByID).
		GET("/:id/orders", read, h.Client.ListOrders).
		POST("", create, h.Client.Create).
		PUT("/:id", update, h.Client.Update).
		DELETE("/:id", del, h.Client.Delete)

	suppliers := NewDomainGroup(identity.ResourceSupplier, "/suppliers").
		GET("", read, h.Supplier.List).
		GET("/:id", read, h.Supplier.GetByID).
		POST("", create, h.Supplier.Create).
		PUT("/:id", update, h.Supplier.Update).
		DELETE("/:id", del, h.Supplier.Delete)

	products := NewDomainGroup(identity.ResourceProduct, "/products").
		GET("", read, h.Product.List).
		GET("/:id", read, h.Product.GetByID).
		POST("", create, h.Product.Create).
		PUT("/:id", update, h.Product.Update).
		DELETE("/:id", del, h.Product.Delete).
		POST("/:id/stock", update, h.Product.AdjustStock).
		POST("/:id/image", update, h.Product.UploadImage).
		GET("/:id/image", read, h.Product.GetImage)

	orders := NewDomainGroup(identity.ResourceOrder, "/orders").
		GET("", read, h.Order.List).
		GET("/:id", read, h.Order.GetByID).
		POST("", create, h.Order.Create).
		PATCH("/:id/status", update, h.Order.UpdateStatus).
		DELETE("/:id", del, h.Order.Delete)

	returns := NewDomainGroup(identity.ResourceReturn, "/returns").
		GET("", read, h.Return.List).
		GET("/:id", read, h.Return.GetByID).
		POST("", create, h.Return.Create).
		POST("/:id/approve", update, h.Return.Approve).
		POST("/:id/reject", update, h.Return.Reject).
		POST("/:id/refund", update, h.Return.Refund).
		DELETE("/:id", del, h.Return.Delete)

	accounting := NewDomainGroup(identity.ResourceAccounting, "/accounting").
		GET("/entries", read, h.Accounting.List).
		GET("/entries/:id", read, h.Accounting.GetByID).
		POST("/entries", create, h.Accounting.Create).
		PUT("/entries/:id", update, h.Accounting.Update).
		DELETE("/entries/:id", del, h.Accounting.Delete).
		GET("/summary", read, h.Accounting.Summary)

	notifications := NewDomainGroup(identity.ResourceNotification, "/notifications").
		GET("", read, h.Notification.List).
		GET("/unread-count", read, h.Notification.UnreadCount).
		POST("", create, h.Notification.Create).
		PATCH("/read-all", read, h.Notification.MarkAllRead).
		PATCH("/:id/read", read, h.Notification.MarkRead).
		DELETE("/:id", del, h.Notification.Delete)

	audit := NewDomainGroup(identity.ResourceAudit, "/audit-logs").
		GET("", read, h.Audit.List).
		GET("/:id", read, h.Audit.GetByID).
		POST("/purge", del, middleware.RequireRole(identity.RoleAdmin), h.Audit.Purge)

	users := NewDomainGroup(identity.ResourceUser, "/users").
		GET("", read, h.User.List).
		GET("/:id", read, h.User.GetByID).
		POST("", create, h.User.Create).
		PUT("/:id", update, h.User.Update).
		PUT("/:id/password", update, h.User.ResetPassword).
		DELETE("/:id", del, h.User.Delete)

	reports := NewDomainGroup(identity.ResourceReport, "/reports").
		GET("/orders/:id/invoice", read, h.Report.Invoice).
		GET("/sales", read, h.Report.Sales).
		GET("/stock", read, h.Report.Stock)

	return []*DomainGroup{
		auth, clients, suppliers, products, orders, returns,
		accounting, notifications, audit, users, reports,
	}
}
