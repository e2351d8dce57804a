package tool

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loaniq/loaniq-go/types"
)

func TestLoadConfig_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, ProfileDocuments, cfg.AllowProfile)
	assert.Equal(t, 300, cfg.ProgressIntervalMs)
	assert.Equal(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_RepairsValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 99999\nallowProfile: music\nprogressCap: 150\nlanguage: xx\nbackendURL: http://backend:9000/api/v1\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, ProfileDocuments, cfg.AllowProfile)
	assert.Equal(t, 90, cfg.ProgressCap)
	assert.Equal(t, "en", cfg.Language)
	assert.Equal(t, "http://backend:9000/api/v1", cfg.BackendURL)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "progressCap: 90")
}

func TestLoadConfig_Directory(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := DefaultConfig()
	ApplyFlagOverrides(&cfg, types.Config{
		UsePort:       8080,
		UseBackendURL: "https://loans.example/api/v1",
		UseLanguage:   "klingon",
		SkipNotifyWS:  true,
	})
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "https://loans.example/api/v1", cfg.BackendURL)
	assert.Equal(t, "en", cfg.Language, "unsupported language is ignored")
	assert.False(t, cfg.NotifyWebsocket)
	assert.Equal(t, 8080, GetCurrentConfig().Port)
}

func TestAllowList(t *testing.T) {
	docs, err := LookupAllowList(" Documents ", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1<<20), docs.MaxSize)

	_, err = LookupAllowList("music", 0)
	assert.Error(t, err)

	tests := []struct {
		name    string
		file    types.FileHandle
		wantErr string
	}{
		{"pdf", types.FileHandle{Name: "loan.PDF", Size: 10}, ""},
		{"docx", types.FileHandle{Name: "offer.docx", Size: 10}, ""},
		{"image", types.FileHandle{Name: "scan.png", Size: 10}, "unsupported file type"},
		{"no extension", types.FileHandle{Name: "README", Size: 10}, "unsupported file type"},
		{"empty", types.FileHandle{Name: "loan.pdf"}, "empty"},
		{"too large", types.FileHandle{Name: "loan.pdf", Size: 2 << 20}, "too large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := docs.Validate(tt.file)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	scans, err := LookupAllowList(ProfileScans, 0)
	require.NoError(t, err)
	assert.NoError(t, scans.Validate(types.FileHandle{Name: "scan.png", Size: 10}))
	assert.Error(t, scans.Validate(types.FileHandle{Name: "notes.txt", Size: 10}))

	accepted, rejected := docs.Filter([]types.FileHandle{
		{Name: "a.pdf", Size: 1}, {Name: "b.exe", Size: 1}, {Name: "c.txt", Size: 1},
	})
	require.Len(t, accepted, 2)
	assert.Equal(t, "c.txt", accepted[1].Name)
	require.Len(t, rejected, 1)
	assert.Equal(t, "b.exe", rejected[0].FileName)
}

func TestResolveFileInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.7\n"), 0o600))

	fh, err := ResolveFileInput(types.FileInput{FileUrl: "file://" + path})
	require.NoError(t, err)
	assert.Equal(t, "statement.pdf", fh.Name)
	assert.Equal(t, "application/pdf", fh.MimeType)
	assert.Equal(t, int64(9), fh.Size)
	assert.Equal(t, path, fh.Path)

	fh, err = ResolveFileInput(types.FileInput{FileUrl: "file://" + path, FileName: "renamed.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "renamed.pdf", fh.Name)

	_, err = ResolveFileInput(types.FileInput{FileUrl: "https://example.com/a.pdf"})
	assert.Error(t, err)
	_, err = ResolveFileInput(types.FileInput{FileUrl: "file://" + filepath.Dir(path)})
	assert.Error(t, err)
}

func TestDetectFile_FallsBackToExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain words"), 0o600))
	fh, err := DetectFile(path)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", fh.MimeType)
}

func TestNextAvailablePath(t *testing.T) {
	dir := t.TempDir()
	first := NextAvailablePath(dir, "../loan.pdf")
	assert.Equal(t, filepath.Join(dir, "loan.pdf"), first)
	require.NoError(t, os.WriteFile(first, nil, 0o600))

	second := NextAvailablePath(dir, "loan.pdf")
	assert.Equal(t, filepath.Join(dir, "loan-2.pdf"), second)
	require.NoError(t, os.WriteFile(second, nil, 0o600))
	assert.Equal(t, filepath.Join(dir, "loan-3.pdf"), NextAvailablePath(dir, "loan.pdf"))
}

func TestCopyWithContext(t *testing.T) {
	var dst bytes.Buffer
	n, err := CopyWithContext(context.Background(), &dst, strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.Equal(t, "hello", dst.String())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = CopyWithContext(ctx, &dst, strings.NewReader("more"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildBackendURL(t *testing.T) {
	u, err := BuildUploadDocumentURL("http://localhost:8000/api/v1/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/api/v1/documents/upload", u)

	u, err = BuildDocumentURL("http://localhost:8000/api/v1", "a b/c")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/api/v1/documents/a%20b%2Fc", u)

	_, err = BuildDocumentURL("http://localhost:8000/api/v1", "")
	assert.Error(t, err)
	_, err = BuildChatURL("")
	assert.Error(t, err)
	_, err = BuildCompareURL("ftp://host")
	assert.Error(t, err)
}

func TestIDs(t *testing.T) {
	assert.NotEqual(t, GenerateRandomUUID(), GenerateRandomUUID())
	assert.NotEmpty(t, NameGenerator())
}

func TestTruncateUTF8(t *testing.T) {
	assert.Equal(t, "loan.pdf", TruncateUTF8("loan.pdf", 20))
	assert.Equal(t, "loan", TruncateUTF8("loan.pdf", 4))
	assert.Equal(t, "", TruncateUTF8("loan.pdf", 0))

	// "ऋण" is two 3-byte runes; cutting at 4 must not leave half of the second one
	name := "ऋण.pdf"
	got := TruncateUTF8(name, 4)
	assert.Equal(t, "ऋ", got)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "ऋण", TruncateUTF8(name, 6))
}
