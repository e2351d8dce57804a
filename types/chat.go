package types

import "time"

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	IsError   bool      `json:"isError,omitempty"`
}

// ChatRequest is sent to the backend chatbot endpoint.
type ChatRequest struct {
	Question     string          `json:"question"`
	DocumentId   string          `json:"document_id,omitempty"`
	DocumentData *NormalizedData `json:"document_data,omitempty"`
	UseContext   bool            `json:"use_context"`
	Language     string          `json:"language,omitempty"`
}

type ChatSource struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

type ChatResponse struct {
	Answer           string       `json:"answer"`
	Sources          []ChatSource `json:"sources,omitempty"`
	Confidence       float64      `json:"confidence"`
	ContextUsed      bool         `json:"context_used"`
	ProcessingTimeMs int64        `json:"processing_time_ms"`
}

// UserAskRequest is the local API body for POST /api/self/v1/chat/ask.
type UserAskRequest struct {
	Question   string `json:"question"`
	DocumentId string `json:"documentId,omitempty"`
}
