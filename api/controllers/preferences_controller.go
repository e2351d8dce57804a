package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/loaniq/loaniq-go/api/models"
	"github.com/loaniq/loaniq-go/tool"
	"github.com/loaniq/loaniq-go/types"
)

type PreferencesController struct {
	app *models.App
}

func NewPreferencesController(app *models.App) *PreferencesController {
	return &PreferencesController{app: app}
}

func (ctrl *PreferencesController) response() types.PreferencesResponse {
	return types.PreferencesResponse{
		Language:  ctrl.app.Preferences.Language(),
		Available: types.LanguageCodes,
	}
}

// HandleGet GET /api/self/v1/preferences
func (ctrl *PreferencesController) HandleGet(c *gin.Context) {
	c.JSON(http.StatusOK, ctrl.response())
}

// HandlePatch PATCH /api/self/v1/preferences
func (ctrl *PreferencesController) HandlePatch(c *gin.Context) {
	var body types.PreferencesPatchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError(err.Error()))
		return
	}
	if body.Language != nil {
		if !tool.IsSupportedLanguage(*body.Language) {
			c.JSON(http.StatusBadRequest, tool.FastReturnError("Unsupported language: "+*body.Language))
			return
		}
		if err := ctrl.app.Preferences.SetLanguage(*body.Language); err != nil {
			c.JSON(http.StatusInternalServerError, tool.FastReturnError(err.Error()))
			return
		}
		tool.DefaultLogger.Infof("[Preferences] Language set to %s", *body.Language)
	}
	c.JSON(http.StatusOK, ctrl.response())
}
