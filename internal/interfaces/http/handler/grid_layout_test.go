package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const invoiceLayoutPath = "/grid-layouts/3/21/purchaseInvoice"

func TestGridLayoutHandler_Get(t *testing.T) {
	t.Run("should serve defaults when nothing is saved", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(t, http.MethodGet, invoiceLayoutPath, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		res := parse(rec)
		assert.True(t, res.Get("success").Bool())
		assert.False(t, res.Get("data.persisted").Bool())
		assert.Equal(t, "invoiceNumber", res.Get("data.state.order.0").String())
		assert.Equal(t, int64(10), res.Get("data.columns.#").Int())
	})

	t.Run("should reject unknown grids", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(t, http.MethodGet, "/grid-layouts/3/21/nope", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "ERR_GRID_NOT_FOUND", parse(rec).Get("error.code").String())
	})

	t.Run("should reject a known grid under the wrong module or transaction", func(t *testing.T) {
		env := newTestEnv(t)

		for _, path := range []string{"/grid-layouts/999/7/purchaseInvoice", "/grid-layouts/3/7/purchaseInvoice", "/grid-layouts/5/1/purchaseInvoice"} {
			rec := env.do(t, http.MethodGet, path, nil)
			assert.Equal(t, http.StatusNotFound, rec.Code, path)
			assert.Equal(t, "ERR_GRID_NOT_FOUND", parse(rec).Get("error.code").String(), path)
		}

		rec := env.do(t, http.MethodPost, "/grid-layouts", map[string]any{
			"module_id":      999,
			"transaction_id": 7,
			"grid_name":      "purchaseInvoice",
			"grdColOrder":    `["supplierName"]`,
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, parse(env.do(t, http.MethodGet, "/grid-layouts", nil)).Get("data").Array())
	})

	t.Run("should reject non numeric module ids", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(t, http.MethodGet, "/grid-layouts/x/21/purchaseInvoice", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should require authentication", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.anonymous(t, http.MethodGet, invoiceLayoutPath)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGridLayoutHandler_SaveAndReset(t *testing.T) {
	env := newTestEnv(t)

	save := map[string]any{
		"module_id":      3,
		"transaction_id": 21,
		"grid_name":      "purchaseInvoice",
		"grdColVisible":  `{"remark":false}`,
		"grdColOrder":    `["supplierName","invoiceNumber"]`,
		"grdColSize":     `{"supplierName":180.6}`,
		"grdSort":        `[{"id":"amount","desc":true}]`,
	}

	t.Run("should persist the four layout strings", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/grid-layouts", save)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		res := parse(env.do(t, http.MethodGet, invoiceLayoutPath, nil))
		assert.True(t, res.Get("data.persisted").Bool())
		assert.Equal(t, "supplierName", res.Get("data.state.order.0").String())
		assert.Equal(t, "invoiceNumber", res.Get("data.state.order.1").String())
		assert.False(t, res.Get("data.state.visibility.remark").Bool())
		assert.Equal(t, int64(181), res.Get("data.state.sizes.supplierName").Int())
		assert.Equal(t, "amount", res.Get("data.state.sort.0.id").String())
		assert.NotEmpty(t, res.Get("data.layout.grdColOrder").String())
	})

	t.Run("should drop the sort when include_sort is false", func(t *testing.T) {
		body := map[string]any{}
		for k, v := range save {
			body[k] = v
		}
		body["include_sort"] = false
		require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/grid-layouts", body).Code)

		res := parse(env.do(t, http.MethodGet, invoiceLayoutPath, nil))
		assert.Equal(t, int64(0), res.Get("data.state.sort.#").Int())
	})

	t.Run("should reject malformed layout strings", func(t *testing.T) {
		body := map[string]any{"module_id": 3, "transaction_id": 21, "grid_name": "purchaseInvoice", "grdColOrder": "[oops"}
		rec := env.do(t, http.MethodPost, "/grid-layouts", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should list saved grids", func(t *testing.T) {
		res := parse(env.do(t, http.MethodGet, "/grid-layouts", nil))
		require.Equal(t, int64(1), res.Get("data.#").Int())
		assert.Equal(t, "purchaseInvoice", res.Get("data.0.grid_name").String())
	})

	t.Run("should move a column and save", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, invoiceLayoutPath+"/move", map[string]int{"from": 0, "to": 2})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		res := parse(rec)
		assert.Equal(t, "invoiceNumber", res.Get("data.state.order.0").String())
		assert.Equal(t, "supplierName", res.Get("data.state.order.2").String())
	})

	t.Run("should restore defaults on reset", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, invoiceLayoutPath, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		res := parse(rec)
		assert.False(t, res.Get("data.persisted").Bool())
		assert.Equal(t, "invoiceNumber", res.Get("data.state.order.0").String())
	})
}
