package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/loaniq/loaniq-go/api/models"
	"github.com/loaniq/loaniq-go/chat"
)

func newAskCmd() *cobra.Command {
	var documentId string
	cmd := &cobra.Command{
		Use:   "ask QUESTION...",
		Short: "Ask the assistant a question, optionally about one document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			session := chat.New(newClient(), models.NewPreferences(appCfg.Language, false))
			reply, err := session.Ask(ctx, strings.Join(args, " "), documentId)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply.Content)
			if reply.IsError {
				return fmt.Errorf("chatbot request failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&documentId, "document", "d", "", "document id to use as context")
	return cmd
}
