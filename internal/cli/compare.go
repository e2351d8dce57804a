package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/loaniq/loaniq-go/compare"
	"github.com/loaniq/loaniq-go/types"
)

func newCompareCmd() *cobra.Command {
	var sample bool
	cmd := &cobra.Command{
		Use:   "compare DOCUMENT_ID DOCUMENT_ID...",
		Short: "Compare loan offers side by side",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				result types.ComparisonResult
				err    error
			)
			if sample {
				result, err = compare.Sample()
			} else {
				if len(args) < 2 {
					return fmt.Errorf("at least two document ids are required")
				}
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
				defer cancel()
				var resp *types.ComparisonResult
				resp, err = newClient().CompareLoans(ctx, args)
				if resp != nil {
					result = *resp
				}
			}
			if err != nil {
				return err
			}
			return printTable(cmd.OutOrStdout(), compare.Table(result))
		},
	}
	cmd.Flags().BoolVar(&sample, "sample", false, "show the built-in three bank example")
	return cmd
}

// printTable writes one row per column and one column per loan; the best value is starred.
func printTable(w io.Writer, table types.ComparisonTable) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprint(tw, "metric")
	for _, m := range table.Metrics {
		name := m.BankName
		if name == "" {
			name = m.LoanId
		}
		fmt.Fprintf(tw, "\t%s", name)
	}
	fmt.Fprintln(tw)
	for _, column := range compare.Columns {
		fmt.Fprint(tw, column)
		for _, m := range table.Metrics {
			mark := ""
			if table.BestByColumn[column] == m.LoanId {
				mark = " *"
			}
			fmt.Fprintf(tw, "\t%s%s", compare.FormatColumn(m, column), mark)
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if table.Recommendation != "" {
		fmt.Fprintf(w, "\n%s\n", table.Recommendation)
	}
	return nil
}
