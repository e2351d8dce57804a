package types

const (
	NotifyTypeUploadItem       = "upload_item"
	NotifyTypeUploadEnd        = "upload_end"
	NotifyTypeDocumentsChanged = "documents_changed"
	NotifyTypeDocumentCount    = "document_count"
	NotifyTypeInfo             = "info"
)

// Notification represents a notification message structure
type Notification struct {
	Type    string         `json:"type,omitempty"`    // Notification type, e.g. "upload_item", "upload_end", etc.
	Title   string         `json:"title,omitempty"`   // Notification title
	Message string         `json:"message,omitempty"` // Notification message/content
	Data    map[string]any `json:"data,omitempty"`    // Additional data fields
}

// NotifyHub receives every notification for live delivery (e.g. websocket clients).
type NotifyHub interface {
	Broadcast(notification *Notification)
}
