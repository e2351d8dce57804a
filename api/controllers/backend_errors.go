package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/loaniq/loaniq-go/tool"
	"github.com/loaniq/loaniq-go/transfer"
)

// replyBackendError maps a transfer error onto the local API: auth and rate limit keep
// their status, other backend answers become 502, anything else 503.
func replyBackendError(c *gin.Context, err error) {
	var apiErr *transfer.APIError
	switch {
	case errors.Is(err, transfer.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, tool.FastReturnError(err.Error()))
	case errors.Is(err, transfer.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, tool.FastReturnError(err.Error()))
	case errors.As(err, &apiErr):
		if apiErr.StatusCode == http.StatusNotFound {
			c.JSON(http.StatusNotFound, tool.FastReturnError(err.Error()))
			return
		}
		c.JSON(http.StatusBadGateway, tool.FastReturnError(err.Error()))
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, tool.FastReturnError(err.Error()))
	default:
		c.JSON(http.StatusServiceUnavailable, tool.FastReturnError(err.Error()))
	}
}
