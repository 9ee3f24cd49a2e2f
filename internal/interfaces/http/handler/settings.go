package handler

import (
	"encoding/json"

	"github.com/erp/workbench/internal/application/common"
	settingsapp "github.com/erp/workbench/internal/application/settings"
	"github.com/erp/workbench/internal/domain/settings"
	"github.com/erp/workbench/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// SettingsHandler serves the settings forms. Every endpoint answers with
// the {result, message, data} envelope.
type SettingsHandler struct {
	BaseHandler
	settings *settingsapp.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settings *settingsapp.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// SaveSettingRequest wraps the form payload
type SaveSettingRequest struct {
	Payload json.RawMessage `json:"payload" binding:"required"`
}

// List returns every saved form of a category
// GET /settings/:category
func (h *SettingsHandler) List(c *gin.Context) {
	o, ok := owner(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	ctx := c.Request.Context()
	category, err := settings.ParseCategory(c.Param("category"))
	if err != nil {
		Result(c, common.Envelope[[]settingsapp.SettingView](ctx, nil, err, ""))
		return
	}
	views, err := h.settings.List(ctx, o.TenantID, category)
	Result(c, common.Envelope(ctx, views, err, ""))
}

// Get returns one form, or the category defaults when it was never saved
// GET /settings/:category/:key
func (h *SettingsHandler) Get(c *gin.Context) {
	o, ok := owner(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	ctx := c.Request.Context()
	category, err := settings.ParseCategory(c.Param("category"))
	if err != nil {
		Result(c, common.Envelope[*settingsapp.SettingView](ctx, nil, err, ""))
		return
	}
	view, err := h.settings.Get(ctx, o.TenantID, category, c.Param("key"))
	Result(c, common.Envelope(ctx, view, err, ""))
}

// Save validates and stores a form
// PUT /settings/:category/:key
func (h *SettingsHandler) Save(c *gin.Context) {
	o, ok := owner(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	var req SaveSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	ctx := c.Request.Context()
	category, err := settings.ParseCategory(c.Param("category"))
	if err != nil {
		Result(c, common.Envelope[*settingsapp.SettingView](ctx, nil, err, ""))
		return
	}
	Result(c, h.settings.Save(ctx, settingsapp.SaveSettingRequest{
		TenantID: o.TenantID,
		UserID:   o.UserID,
		Category: category,
		Key:      c.Param("key"),
		Payload:  req.Payload,
	}))
}

// Lock locks a form against further saves
// POST /settings/:category/:key/lock
func (h *SettingsHandler) Lock(c *gin.Context) {
	h.toggleLock(c, true)
}

// Unlock releases a form lock
// POST /settings/:category/:key/unlock
func (h *SettingsHandler) Unlock(c *gin.Context) {
	h.toggleLock(c, false)
}

func (h *SettingsHandler) toggleLock(c *gin.Context, lock bool) {
	o, ok := owner(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	ctx := c.Request.Context()
	category, err := settings.ParseCategory(c.Param("category"))
	if err != nil {
		Result(c, common.Envelope[*settingsapp.SettingView](ctx, nil, err, ""))
		return
	}
	if lock {
		Result(c, h.settings.Lock(ctx, o.TenantID, o.UserID, category, c.Param("key")))
		return
	}
	Result(c, h.settings.Unlock(ctx, o.TenantID, o.UserID, category, c.Param("key")))
}

// IssueNumber hands out the next document number of a numbering scheme.
// Only the document_numbering category issues numbers.
// POST /settings/:category/:key/issue
func (h *SettingsHandler) IssueNumber(c *gin.Context) {
	o, ok := owner(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	ctx := c.Request.Context()
	category, err := settings.ParseCategory(c.Param("category"))
	if err == nil && category != settings.CategoryDocumentNumbering {
		err = shared.NewDomainError("INVALID_CATEGORY", "Only document numbering issues numbers")
	}
	if err != nil {
		Result(c, common.Envelope[*settingsapp.IssuedNumber](ctx, nil, err, ""))
		return
	}
	Result(c, h.settings.IssueNumber(ctx, o.TenantID, o.UserID, c.Param("key")))
}
