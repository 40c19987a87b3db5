package router

import (
	"net/http"

	"github.com/exonyb/backoffice/internal/domain/identity"
	"github.com/exonyb/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration under /api/<version>
type Router struct {
	engine     *gin.Engine
	apiVersion string
	protect    []gin.HandlerFunc
	public     []RouteRegistrar
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// WithAuth sets the middleware run before every non-public route
func WithAuth(handlers ...gin.HandlerFunc) RouterOption {
	return func(r *Router) {
		r.protect = append(r.protect, handlers...)
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a registrar whose routes require authentication
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Public adds a registrar whose routes skip authentication
func (r *Router) Public(registrar RouteRegistrar) *Router {
	r.public = append(r.public, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.public {
		registrar.RegisterRoutes(api)
	}

	protected := api.Group("")
	protected.Use(r.protect...)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(protected)
	}
}

// DomainGroup collects the routes of one resource. A route carrying an action
// requires the "resource:action" permission; an empty action only needs a caller.
type DomainGroup struct {
	resource   string
	prefix     string
	routes     []routeDefinition
	middleware []gin.HandlerFunc
}

type routeDefinition struct {
	method   string
	path     string
	action   string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a route group for a resource
func NewDomainGroup(resource, prefix string) *DomainGroup {
	return &DomainGroup{
		resource: resource,
		prefix:   prefix,
	}
}

// Use adds middleware to this group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// Handle registers a route guarded by action
func (dg *DomainGroup) Handle(method, path, action string, handlers ...gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{
		method:   method,
		path:     path,
		action:   action,
		handlers: handlers,
	})
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(path, action string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodGet, path, action, handlers...)
}

// POST registers a POST route
func (dg *DomainGroup) POST(path, action string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPost, path, action, handlers...)
}

// PUT registers a PUT route
func (dg *DomainGroup) PUT(path, action string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPut, path, action, handlers...)
}

// PATCH registers a PATCH route
func (dg *DomainGroup) PATCH(path, action string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPatch, path, action, handlers...)
}

// DELETE registers a DELETE route
func (dg *DomainGroup) DELETE(path, action string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodDelete, path, action, handlers...)
}

// RegisterRoutes implements RouteRegistrar
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix)
	if len(dg.middleware) > 0 {
		group.Use(dg.middleware...)
	}

	for _, route := range dg.routes {
		handlers := route.handlers
		if route.action != "" {
			guard := middleware.RequirePermission(dg.permission(route.action))
			handlers = append([]gin.HandlerFunc{guard}, handlers...)
		}
		group.Handle(route.method, route.path, handlers...)
	}
}

// Permissions maps "METHOD /prefix/path" to the permission it requires
func (dg *DomainGroup) Permissions() map[string]string {
	out := make(map[string]string, len(dg.routes))
	for _, route := range dg.routes {
		perm := ""
		if route.action != "" {
			perm = dg.permission(route.action)
		}
		out[route.method+" "+dg.prefix+route.path] = perm
	}
	return out
}

func (dg *DomainGroup) permission(action string) string {
	return string(identity.NewPermission(dg.resource, action))
}

// Resource returns the guarded resource
func (dg *DomainGroup) Resource() string {
	return dg.resource
}

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}
