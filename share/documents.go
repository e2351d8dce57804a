package share

import (
	"context"
	"time"

	ttlworker "github.com/FloatTech/ttl"

	"github.com/loaniq/loaniq-go/notify"
	"github.com/loaniq/loaniq-go/tool"
)

const (
	DefaultCountTTL  = 60 * time.Second
	documentCountKey = "documents"
)

// CountFetcher asks the backend how many documents it stores.
type CountFetcher interface {
	CountDocuments(ctx context.Context) (int, error)
}

type documentCount struct {
	count     int
	fetchedAt time.Time
}

// DocumentCounter caches the backend document count. It satisfies upload.Refresher.
type DocumentCounter struct {
	fetcher CountFetcher
	cache   *ttlworker.Cache[string, documentCount]
}

func NewDocumentCounter(fetcher CountFetcher, ttl time.Duration) *DocumentCounter {
	if ttl <= 0 {
		ttl = DefaultCountTTL
	}
	return &DocumentCounter{
		fetcher: fetcher,
		cache:   ttlworker.NewCache[string, documentCount](ttl),
	}
}

// RefreshDocumentCount always asks the backend and publishes the new count.
func (d *DocumentCounter) RefreshDocumentCount(ctx context.Context) (int, error) {
	count, err := d.fetcher.CountDocuments(ctx)
	if err != nil {
		return 0, err
	}
	d.cache.Set(documentCountKey, documentCount{count: count, fetchedAt: time.Now()})
	if err := notify.SendDocumentCountNotification(count); err != nil {
		tool.DefaultLogger.Debugf("Failed to send document count notification: %v", err)
	}
	return count, nil
}

// Count returns the cached count, fetching it when absent or expired.
func (d *DocumentCounter) Count(ctx context.Context) (int, error) {
	if cached := d.cache.Get(documentCountKey); !cached.fetchedAt.IsZero() {
		return cached.count, nil
	}
	return d.RefreshDocumentCount(ctx)
}

// Invalidate drops the cached count, e.g. after a delete.
func (d *DocumentCounter) Invalidate() {
	d.cache.Delete(documentCountKey)
}
