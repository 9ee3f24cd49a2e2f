package handler

import (
	"mime"
	"net/http"

	exportapp "github.com/erp/workbench/internal/application/export"
	"github.com/erp/workbench/internal/domain/export"
	"github.com/erp/workbench/internal/domain/gridlayout"
	"github.com/erp/workbench/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// exportGrid writes src in the requested format. With delivery=link and an
// archived file the response is the file metadata with its download URL;
// otherwise the file itself is streamed.
func (h *BaseHandler) exportGrid(c *gin.Context, svc *exportapp.Service, src exportapp.Source, key gridlayout.GridKey) {
	o, ok := owner(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	var q dto.ExportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	format, err := export.ParseFormat(q.Format)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	file, err := svc.Export(c.Request.Context(), src, exportapp.Request{
		Owner:  o,
		Key:    key,
		Format: format,
		Title:  q.Title,
		Search: q.Search,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if c.Query("delivery") == "link" && file.DownloadURL != "" {
		h.Success(c, file)
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
