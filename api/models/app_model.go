package models

import (
	"fmt"
	"time"

	"github.com/loaniq/loaniq-go/api/notifyhub"
	"github.com/loaniq/loaniq-go/chat"
	"github.com/loaniq/loaniq-go/glossary"
	"github.com/loaniq/loaniq-go/share"
	"github.com/loaniq/loaniq-go/transfer"
	"github.com/loaniq/loaniq-go/types"
)

const defaultSessionTTL = 60 * time.Minute

// App is everything the local API handlers work with.
type App struct {
	Client      *transfer.Client
	Sessions    *share.SessionRegistry
	Counter     *share.DocumentCounter
	Chat        *chat.Session
	Glossary    *glossary.Glossary
	Preferences *Preferences
	Hub         *notifyhub.Hub // nil when websocket notifications are off
}

// NewApp wires the backend client and the shared state from cfg.
func NewApp(cfg types.AppConfig) (*App, error) {
	g, err := glossary.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load glossary: %w", err)
	}
	ttl := defaultSessionTTL
	if cfg.SessionTTLMinutes > 0 {
		ttl = time.Duration(cfg.SessionTTLMinutes) * time.Minute
	}

	client := transfer.NewClientFromConfig(cfg)
	prefs := NewPreferences(cfg.Language, true)
	app := &App{
		Client:      client,
		Sessions:    share.NewSessionRegistry(ttl),
		Counter:     share.NewDocumentCounter(client, share.DefaultCountTTL),
		Chat:        chat.New(client, prefs),
		Glossary:    g,
		Preferences: prefs,
	}
	if cfg.NotifyWebsocket {
		app.Hub = notifyhub.New()
	}
	return app, nil
}
