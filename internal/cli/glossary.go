package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loaniq/loaniq-go/glossary"
)

func newGlossaryCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "glossary [QUERY...]",
		Short: "Look up loan terms",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := glossary.Default()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			terms := g.Search(strings.Join(args, " "), category)
			if len(terms) == 0 {
				fmt.Fprintln(out, "No matching terms")
				return nil
			}
			for _, t := range terms {
				fmt.Fprintf(out, "%s [%s]\n  %s\n  Example: %s\n  Why it matters: %s\n\n",
					glossary.Title(t, appCfg.Language), t.Category, t.SimpleExplanation, t.Example, t.WhyItMatters)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", glossary.CategoryAll, "only terms of this category")
	return cmd
}
