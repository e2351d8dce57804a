package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/loaniq/loaniq-go/api"
	"github.com/loaniq/loaniq-go/api/models"
	"github.com/loaniq/loaniq-go/notify"
	"github.com/loaniq/loaniq-go/tool"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local API for the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := models.NewApp(appCfg)
			if err != nil {
				return err
			}
			if app.Hub != nil {
				notify.SetHub(app.Hub)
			}
			server := api.NewServer(appCfg.Port, app)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			errCh := make(chan error, 1)
			go func() { errCh <- server.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			tool.DefaultLogger.Info("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().IntVar(&flags.UsePort, "port", 0, "local API port")
	cmd.Flags().BoolVar(&flags.SkipNotifyWS, "no-notify-ws", false, "disable the notify websocket")
	return cmd
}
