package transfer

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loaniq/loaniq-go/types"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/api/v1", "secret", 5*time.Second, 0)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, _ := sonic.Marshal(v)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func TestUploadDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loan.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 test"), 0o600))

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/documents/upload", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		body, _ := io.ReadAll(file)
		assert.Equal(t, "loan.pdf", header.Filename)
		assert.Equal(t, "application/pdf", header.Header.Get("Content-Type"))
		assert.Equal(t, "%PDF-1.4 test", string(body))

		writeJSON(w, http.StatusOK, map[string]any{
			"document_id":     "doc-1",
			"normalized_data": map[string]any{"principal_amount": 10000, "interest_rate": 5.5},
		})
	})

	result, err := client.UploadDocument(context.Background(), types.FileHandle{
		Name: "loan.pdf", Size: 13, MimeType: "application/pdf", Path: path,
	})
	require.NoError(t, err)
	assert.Equal(t, "doc-1", result.DocumentId)
	assert.Equal(t, "loan.pdf", result.DocumentName, "name defaults to the file name")
	require.NotNil(t, result.Loan())
	assert.Equal(t, 10000.0, result.Loan().PrincipalAmount)
}

func TestUploadDocument_MissingFile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called")
	})
	_, err := client.UploadDocument(context.Background(), types.FileHandle{Name: "x.pdf", Path: "/no/such/file.pdf"})
	assert.ErrorContains(t, err, "failed to open x.pdf")

	_, err = client.UploadDocument(context.Background(), types.FileHandle{Name: "x.pdf"})
	assert.ErrorContains(t, err, "file path must not be empty")
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		wantErr  error
		wantCode int
	}{
		{"unauthorized", http.StatusUnauthorized, `{"detail":"bad key"}`, "invalid API key", ErrUnauthorized, 401},
		{"rate limited", http.StatusTooManyRequests, `{"detail":"slow down"}`, "rate limit exceeded: slow down", ErrRateLimited, 429},
		{"detail string", http.StatusBadRequest, `{"detail":"Unsupported file type"}`, "Unsupported file type", nil, 400},
		{"detail object", http.StatusUnprocessableEntity, `{"detail":{"message":"Could not parse PDF"}}`, "Could not parse PDF", nil, 422},
		{"error field", http.StatusInternalServerError, `{"error":"processor crashed"}`, "processor crashed", nil, 500},
		{"plain text", http.StatusBadGateway, `upstream down`, "upstream down", nil, 502},
		{"empty body", http.StatusServiceUnavailable, ``, "API error 503: Service Unavailable", nil, 503},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := client.ListDocuments(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.wantCode, apiErr.StatusCode)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestConnectionError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(url, "", time.Second, 0)
	_, err := client.ListDocuments(context.Background())
	assert.ErrorContains(t, err, "connection error")
}

func TestDocumentsAndCount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/documents":
			writeJSON(w, http.StatusOK, map[string]any{
				"documents": []map[string]any{{"document_id": "a"}, {"document_id": "b"}},
			})
		case r.Method == http.MethodDelete && r.URL.EscapedPath() == "/api/v1/documents/a%2Fb":
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	})

	count, err := client.CountDocuments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count, "count falls back to the list length")

	assert.NoError(t, client.DeleteDocument(context.Background(), "a/b"))
	assert.Error(t, client.DeleteDocument(context.Background(), ""))
}

func TestAskChatbotAndCompare(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		switch r.URL.Path {
		case "/api/v1/chatbot/ask":
			var req types.ChatRequest
			assert.NoError(t, sonic.Unmarshal(body, &req))
			assert.Equal(t, "te", req.Language)
			writeJSON(w, http.StatusOK, types.ChatResponse{Answer: "answer to " + req.Question})
		case "/api/v1/compare":
			var req types.CompareRequest
			if !assert.NoError(t, sonic.Unmarshal(body, &req)) || len(req.DocumentIds) < 2 {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			writeJSON(w, http.StatusOK, types.ComparisonResult{BestOverall: req.DocumentIds[1]})
		default:
			http.NotFound(w, r)
		}
	})

	resp, err := client.AskChatbot(context.Background(), types.ChatRequest{Question: "emi?", Language: "te"})
	require.NoError(t, err)
	assert.Equal(t, "answer to emi?", resp.Answer)

	_, err = client.AskChatbot(context.Background(), types.ChatRequest{})
	assert.Error(t, err)

	result, err := client.CompareLoans(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "b", result.BestOverall)

	_, err = client.CompareLoans(context.Background(), []string{"a"})
	assert.ErrorContains(t, err, "at least two documents")
}

func TestRateLimiterHonoursContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"documents": []any{}})
	})
	client = NewClient(client.BaseURL(), "", time.Second, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.ListDocuments(ctx)
	assert.ErrorContains(t, err, "request cancelled")
}

func TestHealth(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/health", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	assert.NoError(t, client.Health(context.Background()))

	bad := NewClient("ftp://example.com", "", time.Second, 0)
	assert.ErrorContains(t, bad.Health(context.Background()), "unsupported backend URL scheme")
}

func TestParseDetail_RawBodyCutOnRuneBoundary(t *testing.T) {
	assert.Equal(t, "not found", parseDetail([]byte(`{"detail":"not found"}`)))
	assert.Equal(t, "bad", parseDetail([]byte(`{"detail":{"message":"bad"}}`)))

	raw := strings.Repeat("a", maxRawDetailLen-1) + "€ tail"
	got := parseDetail([]byte(raw))
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", maxRawDetailLen-1), got)
}
