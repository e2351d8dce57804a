package tool

import (
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/loaniq/loaniq-go/types"
)

const (
	ProfileDocuments = "documents"
	ProfileScans     = "scans"
)

// AllowList is a client-side filter applied before any network call.
type AllowList struct {
	Name       string
	Extensions []string
	MaxSize    int64
}

// AllowLists holds both upload entry points' filters; neither is authoritative.
var AllowLists = map[string]AllowList{
	ProfileDocuments: {
		Name:       ProfileDocuments,
		Extensions: []string{".pdf", ".doc", ".docx", ".txt"},
		MaxSize:    DefaultMaxFileSizeMB << 20,
	},
	ProfileScans: {
		Name:       ProfileScans,
		Extensions: []string{".pdf", ".png", ".jpg", ".jpeg", ".tiff", ".tif"},
		MaxSize:    DefaultMaxFileSizeMB << 20,
	},
}

// LookupAllowList returns the named profile with maxSizeMB applied (when > 0).
func LookupAllowList(profile string, maxSizeMB int) (AllowList, error) {
	al, ok := AllowLists[strings.ToLower(strings.TrimSpace(profile))]
	if !ok {
		return AllowList{}, fmt.Errorf("unknown allow profile %q", profile)
	}
	if maxSizeMB > 0 {
		al.MaxSize = int64(maxSizeMB) << 20
	}
	return al, nil
}

// Validate checks the extension and size of f. The returned error text is shown to the user.
func (a AllowList) Validate(f types.FileHandle) error {
	ext := strings.ToLower(filepath.Ext(f.Name))
	if !slices.Contains(a.Extensions, ext) {
		return fmt.Errorf("unsupported file type %q (allowed: %s)", ext, strings.Join(a.Extensions, ", "))
	}
	if f.Size <= 0 {
		return fmt.Errorf("file is empty")
	}
	if a.MaxSize > 0 && f.Size > a.MaxSize {
		return fmt.Errorf("file is too large: %d bytes (max %d)", f.Size, a.MaxSize)
	}
	return nil
}

// Filter splits files into accepted handles and rejections.
func (a AllowList) Filter(files []types.FileHandle) ([]types.FileHandle, []types.FileRejection) {
	accepted := make([]types.FileHandle, 0, len(files))
	var rejected []types.FileRejection
	for _, f := range files {
		if err := a.Validate(f); err != nil {
			rejected = append(rejected, types.FileRejection{FileName: f.Name, Reason: err.Error()})
			continue
		}
		accepted = append(accepted, f)
	}
	return accepted, rejected
}

// ResolveFileInput turns a file:// reference into a FileHandle.
func ResolveFileInput(input types.FileInput) (types.FileHandle, error) {
	parsedUrl, err := url.Parse(input.FileUrl)
	if err != nil {
		return types.FileHandle{}, fmt.Errorf("invalid fileUrl: %w", err)
	}
	if parsedUrl.Scheme != "file" {
		return types.FileHandle{}, fmt.Errorf("only file:// protocol is supported for fileUrl")
	}
	handle, err := DetectFile(parsedUrl.Path)
	if err != nil {
		return types.FileHandle{}, err
	}
	if input.FileName != "" {
		handle.Name = input.FileName
	}
	return handle, nil
}

// DetectFile stats filePath and sniffs its MIME type from content,
// falling back to the extension when sniffing gives nothing useful.
func DetectFile(filePath string) (types.FileHandle, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return types.FileHandle{}, fmt.Errorf("failed to stat file: %w", err)
	}
	if fileInfo.IsDir() {
		return types.FileHandle{}, fmt.Errorf("path is a directory, not a file")
	}

	fileType := ""
	if mtype, err := mimetype.DetectFile(filePath); err == nil {
		fileType = mtype.String()
	} else {
		DefaultLogger.Debugf("MIME sniffing failed for %s: %v", filePath, err)
	}
	if fileType == "" || strings.HasPrefix(fileType, "application/octet-stream") {
		if byExt := mime.TypeByExtension(filepath.Ext(filePath)); byExt != "" {
			fileType = byExt
		}
	}
	if fileType == "" {
		fileType = "application/octet-stream"
	}
	if mediaType, _, err := mime.ParseMediaType(fileType); err == nil {
		fileType = mediaType
	}

	return types.FileHandle{
		Name:     filepath.Base(filePath),
		Size:     fileInfo.Size(),
		MimeType: fileType,
		Path:     filePath,
	}, nil
}
