package notify

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"
	"github.com/loaniq/loaniq-go/tool"
	"github.com/loaniq/loaniq-go/types"
)

// NotifyWriteChunkSize is the chunk size when writing payload to Unix socket (avoid large single write).
const NotifyWriteChunkSize = 32 * 1024 // 32KB

const MaxNotifyFileNameLen = 128

// Configuration for Unix Domain Socket notification
var (
	// DefaultUnixSocketPath is the default Unix socket path for IPC
	DefaultUnixSocketPath = "/tmp/loaniq-notify.sock"
	// UnixSocketTimeout is the timeout for Unix socket operations
	UnixSocketTimeout = 3 * time.Second

	useNotify atomic.Bool

	hubMu sync.RWMutex
	hub   types.NotifyHub
)

func init() {
	useNotify.Store(true)
}

// SetUseNotify sets whether to use notify
func SetUseNotify(use bool) {
	useNotify.Store(use)
}

// UseNotify reports whether unix socket notifications are sent.
func UseNotify() bool {
	return useNotify.Load()
}

// SetSocketPath overrides DefaultUnixSocketPath; empty keeps the default.
func SetSocketPath(path string) {
	if path != "" {
		DefaultUnixSocketPath = path
	}
}

// SetHub registers the live (websocket) receiver. nil disables it.
func SetHub(h types.NotifyHub) {
	hubMu.Lock()
	defer hubMu.Unlock()
	hub = h
}

func currentHub() types.NotifyHub {
	hubMu.RLock()
	defer hubMu.RUnlock()
	return hub
}

// Publish hands the notification to the websocket hub and then to the Unix socket.
// Only the socket can fail.
func Publish(notification *types.Notification) error {
	if h := currentHub(); h != nil && notification != nil {
		h.Broadcast(notification)
	}
	return SendNotification(notification, DefaultUnixSocketPath)
}

// SendNotification sends notification via Unix Domain Socket
func SendNotification(notification *types.Notification, socketPath string) error {
	if !useNotify.Load() {
		return nil
	}
	if socketPath == "" {
		socketPath = DefaultUnixSocketPath
	}

	// Check if socket file exists
	if _, err := os.Stat(socketPath); os.IsNotExist(err) {
		return fmt.Errorf("unix socket not found: %s (is the desktop shell running?)", socketPath)
	}

	var payload []byte
	var err error
	if notification != nil {
		payload, err = sonic.Marshal(notification)
		if err != nil {
			return fmt.Errorf("failed to serialize notification data: %v", err)
		}
	} else {
		payload = []byte("{}")
	}

	// Reject payload over 32KB
	if len(payload) > NotifyWriteChunkSize {
		return fmt.Errorf("notification payload too large: %d bytes (max %d)", len(payload), NotifyWriteChunkSize)
	}

	conn, err := net.DialTimeout("unix", socketPath, UnixSocketTimeout)
	if err != nil {
		return fmt.Errorf("failed to connect to Unix socket %s: %v", socketPath, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close Unix socket connection: %v", err)
		}
	}()

	if err = conn.SetWriteDeadline(time.Now().Add(UnixSocketTimeout)); err != nil {
		tool.DefaultLogger.Errorf("Failed to set write deadline: %v", err)
	}

	// Send length prefix (4 bytes, little-endian uint32) then payload
	if err = writeFrame(conn, payload); err != nil {
		return err
	}

	if err = conn.SetReadDeadline(time.Now().Add(UnixSocketTimeout)); err != nil {
		tool.DefaultLogger.Errorf("Failed to set read deadline: %v", err)
	}

	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read response from Unix socket: %v", err)
	}

	if n > 0 {
		var response map[string]any
		if err := sonic.Unmarshal(buf[:n], &response); err != nil {
			tool.DefaultLogger.Debugf("Unix socket response (raw): %s", string(buf[:n]))
		} else {
			tool.DefaultLogger.Debugf("Unix socket response: %v", response)
			if errMsg, ok := response["error"].(string); ok && errMsg != "" {
				return fmt.Errorf("server returned error: %s", errMsg)
			}
		}
	}

	if notification != nil {
		tool.DefaultLogger.Debugf("[UnixSocket] Notification sent: %s - %s", notification.Type, notification.Title)
	}
	return nil
}

func writeFrame(w io.Writer, payload []byte) error {
	lengthBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lengthBuf, uint32(len(payload)))
	if _, err := w.Write(lengthBuf); err != nil {
		return fmt.Errorf("failed to write length to Unix socket: %v", err)
	}
	for off := 0; off < len(payload); {
		chunkEnd := min(off+NotifyWriteChunkSize, len(payload))
		nw, err := w.Write(payload[off:chunkEnd])
		if err != nil {
			return fmt.Errorf("failed to write payload to Unix socket: %v", err)
		}
		off += nw
	}
	return nil
}

// readFrame is the receiving side of writeFrame.
func readFrame(r io.Reader) ([]byte, error) {
	lengthBuf := make([]byte, 4)
	if _, err := io.ReadFull(r, lengthBuf); err != nil {
		return nil, err
	}
	size := binary.LittleEndian.Uint32(lengthBuf)
	if size > NotifyWriteChunkSize {
		return nil, fmt.Errorf("frame too large: %d", size)
	}
	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// SendSimpleNotification sends a simple text notification
func SendSimpleNotification(title, message string) error {
	return Publish(&types.Notification{
		Type:    types.NotifyTypeInfo,
		Title:   title,
		Message: message,
	})
}

// NotifyWSEnabled reports whether a websocket hub is receiving notifications.
func NotifyWSEnabled() bool {
	return currentHub() != nil
}
