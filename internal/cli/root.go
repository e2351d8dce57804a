package cli

import (
	"github.com/spf13/cobra"

	"github.com/loaniq/loaniq-go/notify"
	"github.com/loaniq/loaniq-go/tool"
	"github.com/loaniq/loaniq-go/transfer"
	"github.com/loaniq/loaniq-go/types"
)

var (
	flags  types.Config
	appCfg types.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "loaniq",
	Short: "Loan document assistant client",
	Long:  "Upload loan documents, ask questions about them and compare offers against the document backend",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		tool.InitLogger()
		tool.SetLogMode(flags.Log)
		cfg, err := tool.LoadConfig(flags.UseConfigPath)
		if err != nil {
			return err
		}
		tool.ApplyFlagOverrides(&cfg, flags)
		appCfg = cfg
		notify.SetUseNotify(!flags.SkipNotify)
		if appCfg.NotifySocket != "" {
			notify.SetSocketPath(appCfg.NotifySocket)
		}
		return nil
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flags.Log, "log", "prod", "log mode: dev|prod|none")
	rootCmd.PersistentFlags().StringVarP(&flags.UseConfigPath, "config", "c", "", "config file path (default ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&flags.UseBackendURL, "backend", "b", "", "backend base URL, e.g. http://localhost:8000/api/v1")
	rootCmd.PersistentFlags().StringVar(&flags.UseAPIKey, "api-key", "", "backend API key")
	rootCmd.PersistentFlags().StringVar(&flags.UseLanguage, "lang", "", "answer language, e.g. en, hi, es")
	rootCmd.PersistentFlags().BoolVar(&flags.SkipNotify, "no-notify", true, "do not send unix socket notifications")
	_ = rootCmd.PersistentFlags().MarkHidden("api-key")

	rootCmd.AddCommand(newUploadCmd())
	rootCmd.AddCommand(newDocsCmd())
	rootCmd.AddCommand(newAskCmd())
	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newGlossaryCmd())
	rootCmd.AddCommand(newServeCmd())
}

func newClient() *transfer.Client {
	return transfer.NewClientFromConfig(appCfg)
}
