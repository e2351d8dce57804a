package types

import "fmt"

// ItemStatus is the upload state of a single file within a batch.
type ItemStatus string

const (
	StatusPending   ItemStatus = "pending"
	StatusUploading ItemStatus = "uploading"
	StatusSuccess   ItemStatus = "success"
	StatusError     ItemStatus = "error"
)

// Terminal reports whether no further automatic transition can occur.
func (s ItemStatus) Terminal() bool {
	return s == StatusSuccess || s == StatusError
}

// UploadItem is a copy of one tracked file's state.
type UploadItem struct {
	Index        int               `json:"index"`
	File         FileHandle        `json:"file"`
	Status       ItemStatus        `json:"status"`
	Progress     int               `json:"progress"`
	ErrorMessage string            `json:"error,omitempty"`
	Document     *ExtractionResult `json:"document,omitempty"`
}

// BatchSummary is the aggregate outcome of one upload run.
type BatchSummary struct {
	Total            int    `json:"total"`
	Succeeded        int    `json:"succeeded"`
	Failed           int    `json:"failed"`
	Aborted          bool   `json:"aborted,omitempty"`
	RefreshAttempted bool   `json:"refreshAttempted"`
	RefreshError     string `json:"refreshError,omitempty"`
}

func (s BatchSummary) String() string {
	return fmt.Sprintf("%d succeeded, %d failed", s.Succeeded, s.Failed)
}

// UploadSessionView is the JSON shape of a session for the web UI.
type UploadSessionView struct {
	SessionId  string        `json:"sessionId"`
	Label      string        `json:"label"`
	Items      []UploadItem  `json:"items"`
	AnyPending bool          `json:"anyPending"`
	AllDone    bool          `json:"allDone"`
	Running    bool          `json:"running"`
	Last       *BatchSummary `json:"lastSummary,omitempty"`
}

// AddFilesRequest is the JSON body for adding local files to a session.
type AddFilesRequest struct {
	Files   []FileInput `json:"files"`
	Profile string      `json:"profile,omitempty"`
}

// AddFilesResult reports which files became items and which were refused.
type AddFilesResult struct {
	Added    []UploadItem    `json:"added"`
	Rejected []FileRejection `json:"rejected,omitempty"`
}
