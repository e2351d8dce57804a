package transfer

import (
	"context"
	"net/http"

	"github.com/loaniq/loaniq-go/tool"
	"github.com/loaniq/loaniq-go/types"
)

// ListDocuments returns every document the backend holds.
func (c *Client) ListDocuments(ctx context.Context) (*types.DocumentListResponse, error) {
	url, err := tool.BuildDocumentsURL(c.baseURL)
	if err != nil {
		return nil, err
	}
	req, err := c.newJSONRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	var resp types.DocumentListResponse
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, err
	}
	if resp.Count == 0 {
		resp.Count = len(resp.Documents)
	}
	return &resp, nil
}

// CountDocuments is ListDocuments reduced to the count.
func (c *Client) CountDocuments(ctx context.Context) (int, error) {
	resp, err := c.ListDocuments(ctx)
	if err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (c *Client) DeleteDocument(ctx context.Context, documentId string) error {
	url, err := tool.BuildDocumentURL(c.baseURL, documentId)
	if err != nil {
		return err
	}
	req, err := c.newJSONRequest(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	if err := c.do(ctx, req, nil); err != nil {
		return err
	}
	tool.DefaultLogger.Infof("Deleted document %q", documentId)
	return nil
}
