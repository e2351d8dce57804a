package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/loaniq/loaniq-go/api/models"
	"github.com/loaniq/loaniq-go/chat"
	"github.com/loaniq/loaniq-go/tool"
	"github.com/loaniq/loaniq-go/types"
)

type ChatController struct {
	app *models.App
}

func NewChatController(app *models.App) *ChatController {
	return &ChatController{app: app}
}

// HandleAsk answers with the assistant message. A backend failure still answers 200 with
// an error message, since the conversation shows it like any other reply.
// POST /api/self/v1/chat/ask
func (ctrl *ChatController) HandleAsk(c *gin.Context) {
	var request types.UserAskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid JSON request: "+err.Error()))
		return
	}
	reply, err := ctrl.app.Chat.Ask(c.Request.Context(), request.Question, request.DocumentId)
	if errors.Is(err, chat.ErrEmptyQuestion) {
		c.JSON(http.StatusBadRequest, tool.FastReturnError(err.Error()))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(reply))
}

// HandleHistory GET /api/self/v1/chat/history
func (ctrl *ChatController) HandleHistory(c *gin.Context) {
	var documentId string
	if doc := ctrl.app.Chat.Document(); doc != nil {
		documentId = doc.DocumentId
	}
	c.JSON(http.StatusOK, gin.H{
		"messages":   ctrl.app.Chat.History(),
		"documentId": documentId,
		"language":   ctrl.app.Preferences.Language(),
	})
}

// HandleClear DELETE /api/self/v1/chat/history
func (ctrl *ChatController) HandleClear(c *gin.Context) {
	ctrl.app.Chat.Clear()
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}
