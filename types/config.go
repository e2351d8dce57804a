package types

// AppConfig represents the application configuration loaded from config file
type AppConfig struct {
	Alias                 string `yaml:"alias"`
	Port                  int    `yaml:"port"`
	BackendURL            string `yaml:"backendURL"`
	APIKey                string `yaml:"apiKey,omitempty"`
	RequestTimeoutSeconds int    `yaml:"requestTimeoutSeconds"`
	RateLimitPerSecond    int    `yaml:"rateLimitPerSecond"` // 0 disables the outgoing limiter
	UploadFolder          string `yaml:"uploadFolder"`
	AllowProfile          string `yaml:"allowProfile"`
	MaxFileSizeMB         int    `yaml:"maxFileSizeMB"`
	ProgressIntervalMs    int    `yaml:"progressIntervalMs"`
	ProgressStep          int    `yaml:"progressStep"`
	ProgressCap           int    `yaml:"progressCap"`
	Language              string `yaml:"language"`
	NotifySocket          string `yaml:"notifySocket,omitempty"`
	NotifyWebsocket       bool   `yaml:"notifyWebsocket"`
	SessionTTLMinutes     int    `yaml:"sessionTTLMinutes"`
}

// Config holds runtime overrides from CLI flags
type Config struct {
	Log             string
	UseConfigPath   string
	UsePort         int
	UseBackendURL   string
	UseAPIKey       string
	UseUploadFolder string
	UseAllowProfile string
	UseLanguage     string
	UseNotifySocket string
	SkipNotify      bool // if true, no unix socket notifications are sent.
	SkipNotifyWS    bool
}

// ConfigResponse is the JSON shape for GET /api/self/v1/config.
// The API key is never echoed back, only whether one is set.
type ConfigResponse struct {
	Alias              string `json:"alias"`
	Port               int    `json:"port"`
	BackendURL         string `json:"backend_url"`
	HasAPIKey          bool   `json:"has_api_key"`
	AllowProfile       string `json:"allow_profile"`
	MaxFileSizeMB      int    `json:"max_file_size_mb"`
	ProgressIntervalMs int    `json:"progress_interval_ms"`
	ProgressStep       int    `json:"progress_step"`
	ProgressCap        int    `json:"progress_cap"`
	NotifyWebsocket    bool   `json:"notify_websocket"`
}
