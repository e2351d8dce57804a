package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newDocsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "List or delete documents stored by the backend",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List documents",
		Args:  cobra.NoArgs,
		RunE:  runDocsList,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete DOCUMENT_ID",
		Short: "Delete a document",
		Args:  cobra.ExactArgs(1),
		RunE:  runDocsDelete,
	})
	return cmd
}

func runDocsList(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := newClient().ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(resp.Documents) == 0 {
		fmt.Fprintln(out, "No documents found")
		return nil
	}
	for _, d := range resp.Documents {
		fmt.Fprintf(out, "%s  %s  %s  %d bytes  %s\n", d.DocumentId, d.DocumentName, d.FileType, d.FileSize, d.UploadedAt)
	}
	fmt.Fprintf(out, "%d document(s)\n", resp.Count)
	return nil
}

func runDocsDelete(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := newClient().DeleteDocument(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to delete %s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}
