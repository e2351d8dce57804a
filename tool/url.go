package tool

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildBackendURL joins the configured backend base URL with an endpoint path.
func BuildBackendURL(base, endpoint string) (string, error) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return "", fmt.Errorf("backend URL is not configured")
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("failed to parse backend URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported backend URL scheme: %q", u.Scheme)
	}
	return base + "/" + strings.TrimLeft(endpoint, "/"), nil
}

func BuildUploadDocumentURL(base string) (string, error) {
	return BuildBackendURL(base, "documents/upload")
}

func BuildDocumentsURL(base string) (string, error) {
	return BuildBackendURL(base, "documents")
}

// BuildDocumentURL builds the per-document URL, escaping the id.
func BuildDocumentURL(base, documentId string) (string, error) {
	if documentId == "" {
		return "", fmt.Errorf("document id must not be empty")
	}
	return BuildBackendURL(base, "documents/"+url.PathEscape(documentId))
}

func BuildChatURL(base string) (string, error) {
	return BuildBackendURL(base, "chatbot/ask")
}

func BuildCompareURL(base string) (string, error) {
	return BuildBackendURL(base, "compare")
}

func BuildHealthURL(base string) (string, error) {
	return BuildBackendURL(base, "health")
}
