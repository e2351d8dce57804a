package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/loaniq/loaniq-go/api"
	"github.com/loaniq/loaniq-go/api/models"
	"github.com/loaniq/loaniq-go/notify"
	"github.com/loaniq/loaniq-go/tool"
)

func main() {
	cfg := tool.SetFlags()
	appCfg, err := tool.LoadConfig(cfg.UseConfigPath)
	if err != nil {
		tool.DefaultLogger.Fatalf("%v", err)
	}
	tool.ApplyFlagOverrides(&appCfg, cfg)

	// initialize logger
	tool.InitLogger()
	tool.SetLogMode(cfg.Log)

	if cfg.SkipNotify {
		notify.SetUseNotify(false)
	}
	if appCfg.NotifySocket != "" {
		notify.SetSocketPath(appCfg.NotifySocket)
	}

	app, err := models.NewApp(appCfg)
	if err != nil {
		tool.DefaultLogger.Fatalf("%v", err)
	}
	if app.Hub != nil {
		notify.SetHub(app.Hub)
	}

	tool.DefaultLogger.Infof("%s using backend %s", appCfg.Alias, app.Client.BaseURL())
	apiServer := api.NewServer(appCfg.Port, app)
	go func() {
		if err := apiServer.Start(); err != nil {
			tool.DefaultLogger.Fatalf("API server startup failed: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	tool.DefaultLogger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		tool.DefaultLogger.Errorf("Shutdown failed: %v", err)
	}
}
