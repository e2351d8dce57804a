package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/loaniq/loaniq-go/share"
	"github.com/loaniq/loaniq-go/tool"
	"github.com/loaniq/loaniq-go/types"
	"github.com/loaniq/loaniq-go/upload"
)

func newUploadCmd() *cobra.Command {
	var profile string
	cmd := &cobra.Command{
		Use:   "upload FILE...",
		Short: "Upload documents one at a time and print per-file progress",
		Long: `Upload every FILE to the backend for extraction. Files are sent in order, one at a time.
Ctrl-C aborts the file being sent, which fails with "upload cancelled"; the remaining files are not sent.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(cmd, args, profile)
		},
	}
	cmd.Flags().StringVarP(&profile, "profile", "p", "", "allow-list profile: documents|scans (default from config)")
	return cmd
}

func runUpload(cmd *cobra.Command, args []string, profile string) error {
	if profile == "" {
		profile = appCfg.AllowProfile
	}
	if profile == "" {
		profile = tool.ProfileDocuments
	}
	allow, err := tool.LookupAllowList(profile, appCfg.MaxFileSizeMB)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	files := make([]types.FileHandle, 0, len(args))
	for _, path := range args {
		fh, err := tool.DetectFile(path)
		if err != nil {
			fmt.Fprintf(out, "skip %s: %v\n", path, err)
			continue
		}
		files = append(files, fh)
	}
	accepted, rejected := allow.Filter(files)
	for _, r := range rejected {
		fmt.Fprintf(out, "skip %s: %s\n", r.FileName, r.Reason)
	}
	if len(accepted) == 0 {
		return fmt.Errorf("no files to upload")
	}

	client := newClient()
	opts := upload.OptionsFromConfig(appCfg)
	opts.Refresher = share.NewDocumentCounter(client, share.DefaultCountTTL)
	opts.Observer = progressPrinter(out, len(accepted))
	session := upload.New(client, opts)
	session.AddFiles(accepted...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := session.StartUpload(ctx)
	if err != nil {
		return err
	}
	printSummary(out, summary)
	if summary.Failed > 0 || summary.Aborted {
		return fmt.Errorf("%s", summary)
	}
	return nil
}

// progressPrinter prints one line per status change and per 30% progress step.
func progressPrinter(w io.Writer, total int) func(upload.Event) {
	lastShown := make(map[int]int)
	return func(ev upload.Event) {
		if ev.Kind != upload.EventUpdated {
			return
		}
		it := ev.Item
		prefix := fmt.Sprintf("[%d/%d] %s", it.Index+1, total, it.File.Name)
		switch it.Status {
		case types.StatusUploading:
			if last, ok := lastShown[it.Index]; ok && it.Progress-last < 30 {
				return
			}
			lastShown[it.Index] = it.Progress
			fmt.Fprintf(w, "%s %3d%%\n", prefix, it.Progress)
		case types.StatusSuccess:
			fmt.Fprintf(w, "%s done\n", prefix)
		case types.StatusError:
			fmt.Fprintf(w, "%s failed: %s\n", prefix, it.ErrorMessage)
		}
	}
}

func printSummary(w io.Writer, summary types.BatchSummary) {
	fmt.Fprintln(w, summary.String())
	if summary.Aborted {
		fmt.Fprintln(w, "upload was cancelled; remaining files were not sent")
	}
	if summary.RefreshError != "" {
		fmt.Fprintf(w, "document list refresh failed: %s\n", summary.RefreshError)
	}
}
