package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/workbench/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRouter(t *testing.T) {
	t.Run("should default to v1", func(t *testing.T) {
		r := NewRouter(gin.New())
		assert.Equal(t, "/api/v1", r.Prefix())
		assert.Empty(t, r.registrars)
	})

	t.Run("should honour the configured version", func(t *testing.T) {
		r := NewRouter(gin.New(), WithAPIVersion("v2"))
		assert.Equal(t, "/api/v2", r.Prefix())
	})

	t.Run("should mount every registered group under the prefix", func(t *testing.T) {
		engine := gin.New()
		a := NewDomainGroup("a", "/a").GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "a") })
		b := NewDomainGroup("b", "/b").POST("", func(c *gin.Context) { c.String(http.StatusCreated, "b") })

		NewRouter(engine).Register(a, b).Setup()

		assert.Equal(t, "a", serve(engine, http.MethodGet, "/api/v1/a/ping").Body.String())
		assert.Equal(t, http.StatusCreated, serve(engine, http.MethodPost, "/api/v1/b").Code)
		assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/a/ping").Code)
	})
}

func TestDomainGroup(t *testing.T) {
	t.Run("should apply group middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test").
			Use(func(c *gin.Context) {
				c.Header("X-Test-Middleware", "applied")
				c.Next()
			}).
			GET("/items", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

		g.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, http.MethodGet, "/api/v1/test/items")
		assert.Equal(t, "applied", w.Header().Get("X-Test-Middleware"))
	})

	t.Run("should register static and parameter routes side by side", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("finance", "/finance")
		g.Group("invoices", "/invoices").
			GET("/export", func(c *gin.Context) { c.String(http.StatusOK, "export") }).
			GET("/:id", func(c *gin.Context) { c.String(http.StatusOK, c.Param("id")) }).
			DELETE("/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

		g.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, "export", serve(engine, http.MethodGet, "/api/v1/finance/invoices/export").Body.String())
		assert.Equal(t, "42", serve(engine, http.MethodGet, "/api/v1/finance/invoices/42").Body.String())
		assert.Equal(t, http.StatusNoContent, serve(engine, http.MethodDelete, "/api/v1/finance/invoices/42").Code)
	})

	t.Run("should list its paths", func(t *testing.T) {
		g := NewDomainGroup("hr", "/hr")
		g.Group("employees", "/employees").GET("", nil).GET("/export", nil)

		assert.Equal(t, []string{"GET /hr/employees", "GET /hr/employees/export"}, g.Paths())
		assert.Equal(t, "hr", g.Name())
		assert.Equal(t, "/hr", g.Prefix())
	})
}

func TestWorkbenchGroups(t *testing.T) {
	engine := gin.New()
	groups := WorkbenchGroups(Handlers{
		GridLayouts: handler.NewGridLayoutHandler(nil, nil),
		Settings:    handler.NewSettingsHandler(nil),
		Invoices:    handler.NewPurchaseInvoiceHandler(nil, nil),
		Employees:   handler.NewEmployeeHandler(nil, nil),
		Dashboard:   handler.NewDashboardHandler(nil),
	})
	require.NotPanics(t, func() { NewRouter(engine).Register(groups...).Setup() })

	registered := make(map[string]bool)
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"GET /api/v1/grid-layouts",
		"POST /api/v1/grid-layouts",
		"GET /api/v1/grid-layouts/:module/:transaction/:grid",
		"DELETE /api/v1/grid-layouts/:module/:transaction/:grid",
		"POST /api/v1/grid-layouts/:module/:transaction/:grid/move",
		"GET /api/v1/settings/:category",
		"PUT /api/v1/settings/:category/:key",
		"POST /api/v1/settings/:category/:key/lock",
		"POST /api/v1/settings/:category/:key/issue",
		"GET /api/v1/finance/purchase-invoices",
		"GET /api/v1/finance/purchase-invoices/export",
		"POST /api/v1/finance/purchase-invoices/bulk-delete",
		"POST /api/v1/finance/purchase-invoices/:id/debit-note",
		"GET /api/v1/hr/employees",
		"GET /api/v1/hr/employees/export",
		"GET /api/v1/dashboard/panels",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}

	t.Run("should require a signed in user on every route", func(t *testing.T) {
		w := serve(engine, http.MethodGet, "/api/v1/dashboard/panels")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
