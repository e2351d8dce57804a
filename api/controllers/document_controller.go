package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/loaniq/loaniq-go/api/models"
	"github.com/loaniq/loaniq-go/tool"
)

type DocumentController struct {
	app *models.App
}

func NewDocumentController(app *models.App) *DocumentController {
	return &DocumentController{app: app}
}

// HandleList GET /api/self/v1/documents
func (ctrl *DocumentController) HandleList(c *gin.Context) {
	resp, err := ctrl.app.Client.ListDocuments(c.Request.Context())
	if err != nil {
		tool.DefaultLogger.Warnf("[Documents] List failed: %v", err)
		replyBackendError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleCount GET /api/self/v1/documents/count
func (ctrl *DocumentController) HandleCount(c *gin.Context) {
	count, err := ctrl.app.Counter.Count(c.Request.Context())
	if err != nil {
		replyBackendError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// HandleDelete DELETE /api/self/v1/documents/:id
func (ctrl *DocumentController) HandleDelete(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Missing required parameter: id"))
		return
	}
	if err := ctrl.app.Client.DeleteDocument(c.Request.Context(), id); err != nil {
		tool.DefaultLogger.Warnf("[Documents] Delete %s failed: %v", id, err)
		replyBackendError(c, err)
		return
	}
	if doc := ctrl.app.Chat.Document(); doc != nil && doc.DocumentId == id {
		ctrl.app.Chat.SetDocument(nil)
	}
	ctrl.app.Counter.Invalidate()
	if _, err := ctrl.app.Counter.RefreshDocumentCount(c.Request.Context()); err != nil {
		tool.DefaultLogger.Debugf("[Documents] Count refresh after delete failed: %v", err)
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}
