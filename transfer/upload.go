package transfer

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"

	"github.com/loaniq/loaniq-go/tool"
	"github.com/loaniq/loaniq-go/types"
)

// UploadDocument sends one file to the extraction endpoint as multipart field "file".
// The body is streamed from disk, so large scans are never held in memory.
func (c *Client) UploadDocument(ctx context.Context, file types.FileHandle) (*types.ExtractionResult, error) {
	if file.Path == "" {
		return nil, fmt.Errorf("invalid parameters: file path must not be empty")
	}
	url, err := tool.BuildUploadDocumentURL(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload URL: %w", err)
	}

	src, err := os.Open(file.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", file.Name, err)
	}

	pr, pw := io.Pipe()
	defer pr.Close()
	writer := multipart.NewWriter(pw)
	go func() {
		defer src.Close()
		pw.CloseWithError(writeFilePart(ctx, writer, file, src))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, pr)
	if err != nil {
		_ = pr.CloseWithError(err)
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result types.ExtractionResult
	if err := c.do(ctx, req, &result); err != nil {
		return nil, err
	}
	if result.DocumentName == "" {
		result.DocumentName = file.Name
	}
	tool.DefaultLogger.Infof("Uploaded %s as document %q", file.Name, result.DocumentId)
	return &result, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeFilePart(ctx context.Context, writer *multipart.Writer, file types.FileHandle, src io.Reader) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(file.Name)))
	contentType := file.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := tool.CopyWithContext(ctx, part, src); err != nil {
		return fmt.Errorf("failed to write file data: %w", err)
	}
	return writer.Close()
}
