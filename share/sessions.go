package share

import (
	"sort"
	"time"

	ttlworker "github.com/FloatTech/ttl"

	"github.com/loaniq/loaniq-go/tool"
	"github.com/loaniq/loaniq-go/upload"
)

const (
	DefaultSessionTTL = 30 * time.Minute
)

// UploadSessionEntry is a registered upload session with its display label.
type UploadSessionEntry struct {
	ID        string
	Label     string
	CreatedAt time.Time
	Session   *upload.Session
}

// SessionRegistry keeps upload sessions addressable by id until they go unused for the TTL.
type SessionRegistry struct {
	sessions *ttlworker.Cache[string, *UploadSessionEntry]
}

func NewSessionRegistry(ttl time.Duration) *SessionRegistry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionRegistry{
		sessions: ttlworker.NewCache[string, *UploadSessionEntry](ttl),
	}
}

// Create registers a new session; build receives the generated id.
func (r *SessionRegistry) Create(build func(id string) *upload.Session) *UploadSessionEntry {
	id := tool.GenerateRandomUUID()
	entry := &UploadSessionEntry{
		ID:        id,
		Label:     tool.NameGenerator(),
		CreatedAt: time.Now(),
		Session:   build(id),
	}
	r.sessions.Set(id, entry)
	tool.DefaultLogger.Debugf("Created upload session: %s (%s)", id, entry.Label)
	return entry
}

func (r *SessionRegistry) Get(id string) (*UploadSessionEntry, bool) {
	entry := r.sessions.Get(id)
	if entry == nil {
		return nil, false
	}
	// keep active sessions alive
	r.sessions.Set(id, entry)
	return entry, true
}

func (r *SessionRegistry) Delete(id string) {
	r.sessions.Delete(id)
}

// List returns every live session, oldest first.
func (r *SessionRegistry) List() []*UploadSessionEntry {
	entries := make([]*UploadSessionEntry, 0)
	err := r.sessions.Range(func(k string, v *UploadSessionEntry) error {
		if v != nil {
			entries = append(entries, v)
		}
		return nil
	})
	if err != nil {
		return nil
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries
}
