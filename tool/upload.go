package tool

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const copyBufferSize = 256 << 10

// NextAvailablePath picks a staging path under dir for fileName that does not exist yet:
// loan.pdf, then loan-2.pdf, loan-3.pdf and so on. Directory parts of fileName are dropped.
func NextAvailablePath(dir, fileName string) string {
	name := filepath.Base(fileName)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if stem == "" {
		// dotfile such as ".env": keep the whole name as the stem
		stem, ext = name, ""
	}
	candidate := filepath.Join(dir, name)
	for n := 2; exists(candidate); n++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, n, ext))
	}
	return candidate
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// CopyWithContext is io.Copy that stops with ctx.Err() between reads.
func CopyWithContext(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	return io.CopyBuffer(dst, contextReader{ctx: ctx, r: src}, make([]byte, copyBufferSize))
}
