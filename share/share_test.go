package share

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loaniq/loaniq-go/notify"
	"github.com/loaniq/loaniq-go/upload"
)

func TestSessionRegistry(t *testing.T) {
	r := NewSessionRegistry(time.Minute)
	var builtFor string
	entry := r.Create(func(id string) *upload.Session {
		builtFor = id
		return upload.New(nil, upload.Options{})
	})
	require.NotNil(t, entry.Session)
	assert.Equal(t, entry.ID, builtFor)
	assert.NotEmpty(t, entry.Label)

	got, ok := r.Get(entry.ID)
	require.True(t, ok)
	assert.Same(t, entry, got)

	second := r.Create(func(string) *upload.Session { return upload.New(nil, upload.Options{}) })
	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, entry.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)

	r.Delete(entry.ID)
	_, ok = r.Get(entry.ID)
	assert.False(t, ok)
	_, ok = r.Get("missing")
	assert.False(t, ok)
}

type fakeFetcher struct {
	calls int
	count int
	err   error
}

func (f *fakeFetcher) CountDocuments(ctx context.Context) (int, error) {
	f.calls++
	return f.count, f.err
}

func TestDocumentCounter(t *testing.T) {
	notify.SetUseNotify(false)
	defer notify.SetUseNotify(true)

	fetcher := &fakeFetcher{count: 4}
	d := NewDocumentCounter(fetcher, time.Minute)

	n, err := d.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	n, err = d.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 1, fetcher.calls, "second read is cached")

	fetcher.count = 5
	n, err = d.RefreshDocumentCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	d.Invalidate()
	fetcher.err = errors.New("backend down")
	_, err = d.Count(context.Background())
	assert.EqualError(t, err, "backend down")
	assert.Equal(t, 3, fetcher.calls)
}
