package tool

import (
	"flag"

	"github.com/loaniq/loaniq-go/types"
)

// SetFlags parses CLI flags and returns the override config.
func SetFlags() types.Config {
	var cfg types.Config
	flag.StringVar(&cfg.Log, "log", "", "log mode: dev|prod|none")
	flag.StringVar(&cfg.UseConfigPath, "useConfigPath", "", "override config file path")
	flag.IntVar(&cfg.UsePort, "usePort", 0, "override local API port")
	flag.StringVar(&cfg.UseBackendURL, "useBackendURL", "", "override backend base URL, e.g. http://localhost:8000/api/v1")
	flag.StringVar(&cfg.UseAPIKey, "useAPIKey", "", "override backend API key (sent as X-API-Key)")
	flag.StringVar(&cfg.UseUploadFolder, "useUploadFolder", "", "override folder where browser uploads are staged")
	flag.StringVar(&cfg.UseAllowProfile, "useAllowProfile", "", "default allow-list profile: documents|scans")
	flag.StringVar(&cfg.UseLanguage, "useLanguage", "", "override assistant language, e.g. en, hi, es")
	flag.StringVar(&cfg.UseNotifySocket, "useNotifySocket", "", "unix socket path for notifications")
	flag.BoolVar(&cfg.SkipNotify, "skipNotify", false, "if true, do not send unix socket notifications")
	flag.BoolVar(&cfg.SkipNotifyWS, "skipNotifyWS", false, "if true, disable the notify websocket")
	flag.Parse()
	return cfg
}
