// Package router mounts the workbench handlers onto a gin engine.
package router

import (
	"net/http"
	"path"

	"github.com/erp/workbench/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
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

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
		registrars: make([]RouteRegistrar, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds RouteRegistrars to be registered later
func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group(r.Prefix())
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// Prefix returns the versioned API prefix
func (r *Router) Prefix() string {
	return "/api/" + r.apiVersion
}

// Handlers are the endpoints mounted under the API prefix
type Handlers struct {
	GridLayouts *handler.GridLayoutHandler
	Settings    *handler.SettingsHandler
	Invoices    *handler.PurchaseInvoiceHandler
	Employees   *handler.EmployeeHandler
	Dashboard   *handler.DashboardHandler
}

// WorkbenchGroups lays out the API routes
func WorkbenchGroups(h Handlers) []RouteRegistrar {
	layouts := NewDomainGroup("grid-layouts", "/grid-layouts").
		GET("", h.GridLayouts.List).
		POST("", h.GridLayouts.Save).
		GET("/:module/:transaction/:grid", h.GridLayouts.Get).
		DELETE("/:module/:transaction/:grid", h.GridLayouts.Reset).
		POST("/:module/:transaction/:grid/move", h.GridLayouts.Move)

	settings := NewDomainGroup("settings", "/settings").
		GET("/:category", h.Settings.List).
		GET("/:category/:key", h.Settings.Get).
		PUT("/:category/:key", h.Settings.Save).
		POST("/:category/:key/lock", h.Settings.Lock).
		POST("/:category/:key/unlock", h.Settings.Unlock).
		POST("/:category/:key/issue", h.Settings.IssueNumber)

	finance := NewDomainGroup("finance", "/finance")
	finance.Group("purchase-invoices", "/purchase-invoices").
		GET("", h.Invoices.List).
		POST("", h.Invoices.Create).
		GET("/export", h.Invoices.Export).
		POST("/bulk-delete", h.Invoices.BulkDelete).
		GET("/:id", h.Invoices.Get).
		PUT("/:id", h.Invoices.Update).
		DELETE("/:id", h.Invoices.Delete).
		POST("/:id/post", h.Invoices.Post).
		POST("/:id/cancel", h.Invoices.Cancel).
		POST("/:id/debit-note", h.Invoices.LinkDebitNote)

	hr := NewDomainGroup("hr", "/hr")
	hr.Group("employees", "/employees").
		GET("", h.Employees.List).
		GET("/export", h.Employees.Export)

	dashboard := NewDomainGroup("dashboard", "/dashboard").
		GET("/panels", h.Dashboard.Panels)

	return []RouteRegistrar{layouts, settings, finance, hr, dashboard}
}

// DomainGroup creates a route group for a specific domain
type DomainGroup struct {
	name       string
	prefix     string
	routes     []routeDefinition
	subgroups  []*DomainGroup
	middleware []gin.HandlerFunc
}

type routeDefinition struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a new domain-specific route group
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{
		name:       name,
		prefix:     prefix,
		routes:     make([]routeDefinition, 0),
		subgroups:  make([]*DomainGroup, 0),
		middleware: make([]gin.HandlerFunc, 0),
	}
}

// Use adds middleware to this group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

func (dg *DomainGroup) handle(method, path string, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{method: method, path: path, handlers: handlers})
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodGet, path, handlers)
}

// POST registers a POST route
func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPost, path, handlers)
}

// PUT registers a PUT route
func (dg *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPut, path, handlers)
}

// DELETE registers a DELETE route
func (dg *DomainGroup) DELETE(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodDelete, path, handlers)
}

// Group creates a sub-group within this domain
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	subgroup := NewDomainGroup(name, prefix)
	dg.subgroups = append(dg.subgroups, subgroup)
	return subgroup
}

// RegisterRoutes implements RouteRegistrar interface
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix)
	if len(dg.middleware) > 0 {
		group.Use(dg.middleware...)
	}
	for _, route := range dg.routes {
		group.Handle(route.method, route.path, route.handlers...)
	}
	for _, subgroup := range dg.subgroups {
		subgroup.RegisterRoutes(group)
	}
}

// Paths lists "METHOD /path" for every route of the group, relative to
// the API prefix
func (dg *DomainGroup) Paths() []string {
	return dg.paths("/")
}

func (dg *DomainGroup) paths(parent string) []string {
	base := path.Join(parent, dg.prefix)
	var out []string
	for _, route := range dg.routes {
		p := base
		if route.path != "" {
			p = path.Join(base, route.path)
		}
		out = append(out, route.method+" "+p)
	}
	for _, subgroup := range dg.subgroups {
		out = append(out, subgroup.paths(base)...)
	}
	return out
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}
