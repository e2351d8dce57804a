package notify

import (
	"fmt"

	"github.com/loaniq/loaniq-go/tool"
	"github.com/loaniq/loaniq-go/types"
	"github.com/loaniq/loaniq-go/upload"
)

func truncateName(name string) string {
	if short := tool.TruncateUTF8(name, MaxNotifyFileNameLen); short != name {
		return short + "..."
	}
	return name
}

// itemData keeps upload_item payloads small: the extraction record is reduced to its id.
func itemData(sessionId string, item types.UploadItem) map[string]any {
	data := map[string]any{
		"sessionId": sessionId,
		"index":     item.Index,
		"fileName":  truncateName(item.File.Name),
		"fileType":  item.File.MimeType,
		"size":      item.File.Size,
		"status":    item.Status,
		"progress":  item.Progress,
	}
	if item.ErrorMessage != "" {
		data["error"] = item.ErrorMessage
	}
	if item.Document != nil {
		data["documentId"] = item.Document.DocumentId
	}
	return data
}

// SendUploadItemNotification publishes one item state change of a session.
func SendUploadItemNotification(sessionId string, event upload.Event) error {
	data := itemData(sessionId, event.Item)
	data["kind"] = event.Kind
	return Publish(&types.Notification{
		Type:    types.NotifyTypeUploadItem,
		Title:   "Upload " + string(event.Item.Status),
		Message: fmt.Sprintf("%s: %s %d%%", truncateName(event.Item.File.Name), event.Item.Status, event.Item.Progress),
		Data:    data,
	})
}

// SendUploadEndNotification publishes the summary of a finished run.
func SendUploadEndNotification(sessionId string, summary types.BatchSummary) error {
	title := "Upload Completed"
	if summary.Aborted {
		title = "Upload Cancelled"
	}
	return Publish(&types.Notification{
		Type:    types.NotifyTypeUploadEnd,
		Title:   title,
		Message: summary.String(),
		Data: map[string]any{
			"sessionId":        sessionId,
			"total":            summary.Total,
			"succeeded":        summary.Succeeded,
			"failed":           summary.Failed,
			"aborted":          summary.Aborted,
			"refreshAttempted": summary.RefreshAttempted,
			"refreshError":     summary.RefreshError,
		},
	})
}

func SendDocumentCountNotification(count int) error {
	return Publish(&types.Notification{
		Type:    types.NotifyTypeDocumentCount,
		Title:   "Documents",
		Message: fmt.Sprintf("%d documents", count),
		Data:    map[string]any{"count": count},
	})
}

// SessionNotifier forwards a session's events under its id. It satisfies upload.Notifier.
type SessionNotifier struct {
	SessionId string
}

func (n SessionNotifier) DocumentsChanged(item types.UploadItem) error {
	return Publish(&types.Notification{
		Type:    types.NotifyTypeDocumentsChanged,
		Title:   "Document Added",
		Message: truncateName(item.File.Name),
		Data:    itemData(n.SessionId, item),
	})
}

// Observe is an upload.Options.Observer; delivery failures only reach the debug log.
func (n SessionNotifier) Observe(event upload.Event) {
	if err := SendUploadItemNotification(n.SessionId, event); err != nil {
		tool.DefaultLogger.Debugf("Failed to send upload item notification: %v", err)
	}
}
