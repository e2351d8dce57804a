package notify

import (
	"bytes"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loaniq/loaniq-go/types"
	"github.com/loaniq/loaniq-go/upload"
)

type recordingHub struct {
	mu   sync.Mutex
	seen []*types.Notification
}

func (h *recordingHub) Broadcast(n *types.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, n)
}

// listen starts a socket server that answers every frame with reply.
func listen(t *testing.T, reply string) (string, <-chan []byte) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notify.sock")
	ln, err := net.Listen("unix", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	frames := make(chan []byte, 8)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			payload, err := readFrame(conn)
			if err == nil {
				frames <- payload
			}
			_, _ = conn.Write([]byte(reply))
			_ = conn.Close()
		}
	}()
	return path, frames
}

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeFrame(&buf, []byte(`{"type":"info"}`)))
	assert.Equal(t, []byte{15, 0, 0, 0}, buf.Bytes()[:4])

	payload, err := readFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"info"}`, string(payload))
}

func TestSendNotification(t *testing.T) {
	path, frames := listen(t, `{"ok":true}`)

	err := SendNotification(&types.Notification{Type: types.NotifyTypeInfo, Title: "hi"}, path)
	require.NoError(t, err)

	var got types.Notification
	require.NoError(t, sonic.Unmarshal(<-frames, &got))
	assert.Equal(t, types.NotifyTypeInfo, got.Type)
	assert.Equal(t, "hi", got.Title)
}

func TestSendNotification_ServerError(t *testing.T) {
	path, _ := listen(t, `{"error":"busy"}`)
	err := SendNotification(&types.Notification{Type: types.NotifyTypeInfo}, path)
	assert.EqualError(t, err, "server returned error: busy")
}

func TestSendNotification_MissingSocket(t *testing.T) {
	err := SendNotification(&types.Notification{}, filepath.Join(t.TempDir(), "absent.sock"))
	assert.ErrorContains(t, err, "unix socket not found")
}

func TestSendNotification_Disabled(t *testing.T) {
	SetUseNotify(false)
	defer SetUseNotify(true)
	assert.NoError(t, SendNotification(&types.Notification{}, "/definitely/not/here.sock"))
}

func TestSessionNotifier(t *testing.T) {
	hub := &recordingHub{}
	SetHub(hub)
	defer SetHub(nil)
	SetUseNotify(false)
	defer SetUseNotify(true)

	n := SessionNotifier{SessionId: "s-1"}
	item := types.UploadItem{
		Index:    2,
		File:     types.FileHandle{Name: "loan.pdf", MimeType: "application/pdf"},
		Status:   types.StatusSuccess,
		Progress: 100,
		Document: &types.ExtractionResult{DocumentId: "d-9"},
	}
	n.Observe(upload.Event{Kind: upload.EventUpdated, Item: item})
	require.NoError(t, n.DocumentsChanged(item))
	require.NoError(t, SendUploadEndNotification("s-1", types.BatchSummary{Total: 1, Succeeded: 1}))

	require.Len(t, hub.seen, 3)
	assert.Equal(t, types.NotifyTypeUploadItem, hub.seen[0].Type)
	assert.Equal(t, "s-1", hub.seen[0].Data["sessionId"])
	assert.Equal(t, "d-9", hub.seen[0].Data["documentId"])
	assert.Equal(t, upload.EventUpdated, hub.seen[0].Data["kind"])
	assert.NotContains(t, hub.seen[0].Data, "document")
	assert.Equal(t, types.NotifyTypeDocumentsChanged, hub.seen[1].Type)
	assert.Equal(t, types.NotifyTypeUploadEnd, hub.seen[2].Type)
	assert.Equal(t, "1 succeeded, 0 failed", hub.seen[2].Message)
}

func TestTruncateName_KeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "short.pdf", truncateName("short.pdf"))

	long := strings.Repeat("ऋ", MaxNotifyFileNameLen) + ".pdf"
	got := truncateName(long)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len(got), MaxNotifyFileNameLen+len("..."))
}

func TestSetUseNotify_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(on bool) {
			defer wg.Done()
			SetUseNotify(on)
		}(i%2 == 0)
		go func() {
			defer wg.Done()
			_ = UseNotify()
		}()
	}
	wg.Wait()
	SetUseNotify(true)
	assert.True(t, UseNotify())
}
