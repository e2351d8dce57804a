package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/loaniq/loaniq-go/api/models"
	"github.com/loaniq/loaniq-go/compare"
	"github.com/loaniq/loaniq-go/tool"
	"github.com/loaniq/loaniq-go/types"
)

type CompareController struct {
	app *models.App
}

func NewCompareController(app *models.App) *CompareController {
	return &CompareController{app: app}
}

// HandleCompare POST /api/self/v1/compare
func (ctrl *CompareController) HandleCompare(c *gin.Context) {
	var request types.CompareRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid JSON request: "+err.Error()))
		return
	}
	if len(request.DocumentIds) < 2 {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("At least two document_ids are required"))
		return
	}
	result, err := ctrl.app.Client.CompareLoans(c.Request.Context(), request.DocumentIds)
	if err != nil {
		tool.DefaultLogger.Warnf("[Compare] Backend comparison failed: %v", err)
		replyBackendError(c, err)
		return
	}
	c.JSON(http.StatusOK, compare.Table(*result))
}

// HandleSample GET /api/self/v1/compare/sample
func (ctrl *CompareController) HandleSample(c *gin.Context) {
	sample, err := compare.Sample()
	if err != nil {
		c.JSON(http.StatusInternalServerError, tool.FastReturnError(err.Error()))
		return
	}
	c.JSON(http.StatusOK, compare.Table(sample))
}
