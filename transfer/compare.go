package transfer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/loaniq/loaniq-go/tool"
	"github.com/loaniq/loaniq-go/types"
)

// CompareLoans asks the backend to compare at least two documents.
func (c *Client) CompareLoans(ctx context.Context, documentIds []string) (*types.ComparisonResult, error) {
	if len(documentIds) < 2 {
		return nil, fmt.Errorf("invalid parameters: at least two documents are required")
	}
	url, err := tool.BuildCompareURL(c.baseURL)
	if err != nil {
		return nil, err
	}
	req, err := c.newJSONRequest(ctx, http.MethodPost, url, types.CompareRequest{DocumentIds: documentIds})
	if err != nil {
		return nil, err
	}
	var resp types.ComparisonResult
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
