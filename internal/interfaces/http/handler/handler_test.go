package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	dashboardapp "github.com/erp/workbench/internal/application/dashboard"
	exportapp "github.com/erp/workbench/internal/application/export"
	financeapp "github.com/erp/workbench/internal/application/finance"
	layoutapp "github.com/erp/workbench/internal/application/gridlayout"
	hrapp "github.com/erp/workbench/internal/application/hr"
	settingsapp "github.com/erp/workbench/internal/application/settings"
	"github.com/erp/workbench/internal/domain/export"
	"github.com/erp/workbench/internal/infrastructure/config"
	"github.com/erp/workbench/internal/infrastructure/mockdata"
	"github.com/erp/workbench/internal/infrastructure/persistence"
	"github.com/erp/workbench/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubWriter records the sheet it was asked to write
type stubWriter struct {
	format  export.Format
	headers []string
}

func (w *stubWriter) Format() export.Format { return w.format }

func (w *stubWriter) Write(_ context.Context, sheet export.Sheet) ([]byte, error) {
	w.headers = sheet.Headers()
	return []byte("%" + string(w.format)), nil
}

type testEnv struct {
	router   *gin.Engine
	db       *persistence.Database
	owner    layoutapp.Owner
	invoices *persistence.GormPurchaseInvoiceRepository
	xlsx     *stubWriter
}

var anchor = time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

// newTestEnv wires the handlers over an in-memory sqlite database. Requests
// are authenticated as env.owner unless anonymous is set.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := persistence.NewDatabase(&config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"}, nil)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })

	env := &testEnv{
		db:       db,
		owner:    layoutapp.Owner{TenantID: uuid.New(), UserID: uuid.New()},
		invoices: persistence.NewGormPurchaseInvoiceRepository(db.DB),
		xlsx:     &stubWriter{format: export.FormatXLSX},
	}

	layouts := layoutapp.NewLayoutService(persistence.NewGormGridLayoutRepository(db.DB))
	registry := layoutapp.NewRegistry()
	require.NoError(t, registry.Register(financeapp.PurchaseInvoiceGridKey, financeapp.PurchaseInvoiceTable.Columns()))
	require.NoError(t, registry.Register(hrapp.EmployeeGridKey, hrapp.EmployeeTable.Columns()))

	directory := mockdata.NewEmployeeDirectory(7, 20, anchor)
	invoiceSvc := financeapp.NewPurchaseInvoiceService(env.invoices, layouts, nil)
	employeeSvc := hrapp.NewEmployeeService(directory, layouts)
	exports := exportapp.NewService(layouts, nil, exportapp.Config{MaxRows: 1000}, nil, env.xlsx)

	gridH := NewGridLayoutHandler(layouts, registry)
	settingsH := NewSettingsHandler(settingsapp.NewSettingsService(persistence.NewGormSettingRepository(db.DB), nil))
	invoiceH := NewPurchaseInvoiceHandler(invoiceSvc, exports)
	employeeH := NewEmployeeHandler(employeeSvc, exports)
	dashboardH := NewDashboardHandler(dashboardapp.NewService(mockdata.NewCashBook(7, 30, anchor), env.invoices, directory))
	healthH := NewHealthHandler(db, "test")

	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/health", healthH.Health)
	r.Use(func(c *gin.Context) {
		if c.GetHeader("X-Anonymous") == "" {
			c.Set(middleware.JWTTenantIDKey, env.owner.TenantID)
			c.Set(middleware.JWTUserIDKey, env.owner.UserID)
		}
		c.Next()
	})

	r.GET("/grid-layouts", gridH.List)
	r.POST("/grid-layouts", gridH.Save)
	r.GET("/grid-layouts/:module/:transaction/:grid", gridH.Get)
	r.DELETE("/grid-layouts/:module/:transaction/:grid", gridH.Reset)
	r.POST("/grid-layouts/:module/:transaction/:grid/move", gridH.Move)

	r.GET("/settings/:category", settingsH.List)
	r.GET("/settings/:category/:key", settingsH.Get)
	r.PUT("/settings/:category/:key", settingsH.Save)
	r.POST("/settings/:category/:key/lock", settingsH.Lock)
	r.POST("/settings/:category/:key/unlock", settingsH.Unlock)
	r.POST("/settings/:category/:key/issue", settingsH.IssueNumber)

	r.GET("/invoices", invoiceH.List)
	r.GET("/invoices/export", invoiceH.Export)
	r.POST("/invoices", invoiceH.Create)
	r.POST("/invoices/bulk-delete", invoiceH.BulkDelete)
	r.GET("/invoices/:id", invoiceH.Get)
	r.PUT("/invoices/:id", invoiceH.Update)
	r.DELETE("/invoices/:id", invoiceH.Delete)
	r.POST("/invoices/:id/post", invoiceH.Post)
	r.POST("/invoices/:id/cancel", invoiceH.Cancel)
	r.POST("/invoices/:id/debit-note", invoiceH.LinkDebitNote)

	r.GET("/employees", employeeH.List)
	r.GET("/employees/export", employeeH.Export)
	r.GET("/dashboard", dashboardH.Panels)

	env.router = r
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return e.send(t, method, path, body, false)
}

func (e *testEnv) anonymous(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	return e.send(t, method, path, nil, true)
}

func (e *testEnv) send(t *testing.T, method, path string, body any, anonymous bool) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if anonymous {
		req.Header.Set("X-Anonymous", "1")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func parse(rec *httptest.ResponseRecorder) gjson.Result {
	return gjson.ParseBytes(rec.Body.Bytes())
}

// createInvoice stores a draft invoice through the API and returns its id
func (e *testEnv) createInvoice(t *testing.T, number, supplier string, amount int) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/invoices", map[string]any{
		"invoice_number": number,
		"supplier_name":  supplier,
		"invoice_date":   anchor.Format(time.RFC3339),
		"due_date":       anchor.AddDate(0, 1, 0).Format(time.RFC3339),
		"amount":         amount,
		"tax_amount":     0,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	res := parse(rec)
	require.Equal(t, int64(1), res.Get("result").Int(), rec.Body.String())
	return res.Get("data.id").String()
}
