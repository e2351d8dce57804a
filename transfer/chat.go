package transfer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/loaniq/loaniq-go/tool"
	"github.com/loaniq/loaniq-go/types"
)

// AskChatbot sends a question, optionally with document context, to the chatbot endpoint.
func (c *Client) AskChatbot(ctx context.Context, request types.ChatRequest) (*types.ChatResponse, error) {
	if request.Question == "" {
		return nil, fmt.Errorf("invalid parameters: question must not be empty")
	}
	url, err := tool.BuildChatURL(c.baseURL)
	if err != nil {
		return nil, err
	}
	req, err := c.newJSONRequest(ctx, http.MethodPost, url, request)
	if err != nil {
		return nil, err
	}
	var resp types.ChatResponse
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
