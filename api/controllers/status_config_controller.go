package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/loaniq/loaniq-go/api/models"
	"github.com/loaniq/loaniq-go/notify"
	"github.com/loaniq/loaniq-go/tool"
	"github.com/loaniq/loaniq-go/types"
)

const statusHealthTimeout = 3 * time.Second

type StatusController struct {
	app *models.App
}

func NewStatusController(app *models.App) *StatusController {
	return &StatusController{app: app}
}

// HandleStatus returns server status for the web UI.
// GET /api/self/v1/status
func (ctrl *StatusController) HandleStatus(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), statusHealthTimeout)
	defer cancel()

	backendOK := true
	backendError := ""
	if err := ctrl.app.Client.Health(ctx); err != nil {
		backendOK = false
		backendError = err.Error()
	}
	running := 0
	for _, entry := range ctrl.app.Sessions.List() {
		if entry.Session.Running() || uploadRunActive(entry.ID) {
			running++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"running":           true,
		"notify_ws_enabled": notify.NotifyWSEnabled(),
		"backend_ok":        backendOK,
		"backend_error":     backendError,
		"active_uploads":    running,
		"language":          ctrl.app.Preferences.Language(),
	})
}

// HandleConfig returns the active config without secrets.
// GET /api/self/v1/config
func (ctrl *StatusController) HandleConfig(c *gin.Context) {
	cfg := tool.GetCurrentConfig()
	c.JSON(http.StatusOK, types.ConfigResponse{
		Alias:              cfg.Alias,
		Port:               cfg.Port,
		BackendURL:         cfg.BackendURL,
		HasAPIKey:          cfg.APIKey != "",
		AllowProfile:       cfg.AllowProfile,
		MaxFileSizeMB:      cfg.MaxFileSizeMB,
		ProgressIntervalMs: cfg.ProgressIntervalMs,
		ProgressStep:       cfg.ProgressStep,
		ProgressCap:        cfg.ProgressCap,
		NotifyWebsocket:    cfg.NotifyWebsocket,
	})
}
