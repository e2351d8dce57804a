package tool

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/loaniq/loaniq-go/types"
)

var (
	ConfigPath    = "config.yaml" // be aware that it can be changed, default to ./config.yaml
	currentConfig types.AppConfig
	configMu      sync.RWMutex
)

const (
	DefaultPort          = 53380
	DefaultBackendURL    = "http://localhost:8000/api/v1"
	DefaultUploadFolder  = "uploads"
	DefaultMaxFileSizeMB = 50
)

func DefaultConfig() types.AppConfig {
	return types.AppConfig{
		Alias:                 NameGenerator(),
		Port:                  DefaultPort,
		BackendURL:            DefaultBackendURL,
		RequestTimeoutSeconds: int(DefaultTimeout / time.Second),
		RateLimitPerSecond:    5,
		UploadFolder:          DefaultUploadFolder,
		AllowProfile:          ProfileDocuments,
		MaxFileSizeMB:         DefaultMaxFileSizeMB,
		ProgressIntervalMs:    300,
		ProgressStep:          10,
		ProgressCap:           90,
		Language:              "en",
		NotifyWebsocket:       true,
		SessionTTLMinutes:     60,
	}
}

// LoadConfig reads path (or ConfigPath). A missing file is created with defaults.
func LoadConfig(path string) (types.AppConfig, error) {
	if path == "" {
		path = ConfigPath
	}
	ConfigPath = path

	cfg := DefaultConfig()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			if writeErr := writeConfig(path, cfg); writeErr != nil {
				return cfg, fmt.Errorf("config file not found, and failed to generate default config: %w", writeErr)
			}
			DefaultLogger.Infof("Created new config file at %s", path)
			setCurrentConfig(cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if info.IsDir() {
		return cfg, fmt.Errorf("config file path is a directory: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	if normalizeConfig(&cfg) {
		if writeErr := writeConfig(path, cfg); writeErr != nil {
			DefaultLogger.Warnf("Failed to update config file: %v", writeErr)
		}
	}

	setCurrentConfig(cfg)
	return cfg, nil
}

// normalizeConfig repairs out-of-range values and reports whether anything changed.
func normalizeConfig(cfg *types.AppConfig) bool {
	def := DefaultConfig()
	changed := false
	if cfg.Port <= 0 || cfg.Port > 65535 {
		cfg.Port = def.Port
		changed = true
	}
	if strings.TrimSpace(cfg.BackendURL) == "" {
		cfg.BackendURL = def.BackendURL
		changed = true
	}
	if _, ok := AllowLists[cfg.AllowProfile]; !ok {
		DefaultLogger.Warnf("Unknown allow profile %q, using %q", cfg.AllowProfile, def.AllowProfile)
		cfg.AllowProfile = def.AllowProfile
		changed = true
	}
	if cfg.MaxFileSizeMB <= 0 {
		cfg.MaxFileSizeMB = def.MaxFileSizeMB
		changed = true
	}
	if cfg.ProgressIntervalMs <= 0 {
		cfg.ProgressIntervalMs = def.ProgressIntervalMs
		changed = true
	}
	if cfg.ProgressStep <= 0 {
		cfg.ProgressStep = def.ProgressStep
		changed = true
	}
	if cfg.ProgressCap <= 0 || cfg.ProgressCap >= 100 {
		cfg.ProgressCap = def.ProgressCap
		changed = true
	}
	if !IsSupportedLanguage(cfg.Language) {
		cfg.Language = def.Language
		changed = true
	}
	if cfg.SessionTTLMinutes <= 0 {
		cfg.SessionTTLMinutes = def.SessionTTLMinutes
		changed = true
	}
	if cfg.UploadFolder == "" {
		cfg.UploadFolder = def.UploadFolder
		changed = true
	}
	return changed
}

// ApplyFlagOverrides merges non-empty CLI flags into cfg. Flags are not persisted.
func ApplyFlagOverrides(cfg *types.AppConfig, flags types.Config) {
	if flags.UsePort > 0 {
		cfg.Port = flags.UsePort
	}
	if flags.UseBackendURL != "" {
		cfg.BackendURL = flags.UseBackendURL
	}
	if flags.UseAPIKey != "" {
		cfg.APIKey = flags.UseAPIKey
	}
	if flags.UseUploadFolder != "" {
		cfg.UploadFolder = flags.UseUploadFolder
	}
	if flags.UseAllowProfile != "" {
		cfg.AllowProfile = flags.UseAllowProfile
	}
	if flags.UseLanguage != "" && IsSupportedLanguage(flags.UseLanguage) {
		cfg.Language = flags.UseLanguage
	}
	if flags.UseNotifySocket != "" {
		cfg.NotifySocket = flags.UseNotifySocket
	}
	if flags.SkipNotifyWS {
		cfg.NotifyWebsocket = false
	}
	setCurrentConfig(*cfg)
}

func IsSupportedLanguage(code string) bool {
	for _, c := range types.LanguageCodes {
		if c == code {
			return true
		}
	}
	return false
}

func writeConfig(path string, cfg types.AppConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func setCurrentConfig(cfg types.AppConfig) {
	configMu.Lock()
	defer configMu.Unlock()
	currentConfig = cfg
}

// GetCurrentConfig returns a copy of the active config.
func GetCurrentConfig() types.AppConfig {
	configMu.RLock()
	defer configMu.RUnlock()
	return currentConfig
}

// PersistAppConfig updates the in-memory config and writes config.yaml.
func PersistAppConfig(cfg types.AppConfig) error {
	setCurrentConfig(cfg)
	if err := writeConfig(ConfigPath, cfg); err != nil {
		DefaultLogger.Warnf("Failed to persist config: %v", err)
		return err
	}
	return nil
}
