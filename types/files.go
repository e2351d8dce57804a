package types

// FileHandle is a user-selected file. It is immutable once added to a batch.
type FileHandle struct {
	Name     string `json:"fileName"`
	Size     int64  `json:"size"`
	MimeType string `json:"fileType"`
	Path     string `json:"-"`
}

// FileInput is a file reference sent by the UI, resolved from fileUrl (file:// only).
type FileInput struct {
	FileUrl  string `json:"fileUrl"`
	FileName string `json:"fileName,omitempty"` // overrides the base name of the path
}

// FileRejection reports a file refused by the allow-list before any network call.
type FileRejection struct {
	FileName string `json:"fileName"`
	Reason   string `json:"reason"`
}
