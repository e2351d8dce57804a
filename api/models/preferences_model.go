package models

import (
	"fmt"
	"strings"
	"sync"

	"github.com/loaniq/loaniq-go/tool"
)

// Preferences holds the user's answer language. It is shared by the chat session and the
// preferences endpoints; changes are written back to config.yaml.
type Preferences struct {
	mu       sync.RWMutex
	language string
	persist  bool
}

// NewPreferences starts from language (falls back to "en"). persist controls whether
// SetLanguage writes config.yaml.
func NewPreferences(language string, persist bool) *Preferences {
	if !tool.IsSupportedLanguage(language) {
		language = "en"
	}
	return &Preferences{language: language, persist: persist}
}

func (p *Preferences) Language() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.language
}

func (p *Preferences) SetLanguage(code string) error {
	code = strings.ToLower(strings.TrimSpace(code))
	if !tool.IsSupportedLanguage(code) {
		return fmt.Errorf("unsupported language %q", code)
	}
	p.mu.Lock()
	p.language = code
	p.mu.Unlock()

	if p.persist {
		cfg := tool.GetCurrentConfig()
		cfg.Language = code
		if err := tool.PersistAppConfig(cfg); err != nil {
			return fmt.Errorf("language changed but config was not saved: %w", err)
		}
	}
	return nil
}
