package cli

import (
	"fmt"
	"text/tabwriter"

	"lending-backoffice/internal/engine"

	"github.com/spf13/cobra"
)

func newCommissionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commission",
		Short: "Project the agent commission on a loan",
		Example: `  lendctl commission --principal 100000 --rate 3 --tenure 12 --pct 10 --paid 60277.26
  lendctl commission --principal 100000 --rate 3 --tenure 12 --pct 10 --paid 120554.52 --closed`,
		RunE: runCommission,
	}
	termsFlags(cmd)
	cmd.Flags().String("pct", "", "Commission percentage of interest, 0..100 (required)")
	cmd.Flags().String("paid", "0", "Total paid so far")
	cmd.Flags().Bool("closed", false, "Loan is no longer active; nothing is projected")
	_ = cmd.MarkFlagRequired("pct")
	return cmd
}

func runCommission(cmd *cobra.Command, _ []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	terms, err := readTerms(cmd)
	if err != nil {
		return err
	}
	pct, err := amountFlag(cmd, "pct")
	if err != nil {
		return err
	}
	paid, err := amountFlag(cmd, "paid")
	if err != nil {
		return err
	}
	closed, _ := cmd.Flags().GetBool("closed")

	p, err := engine.ProjectLoanCommission(engine.CommissionLoan{Terms: terms, TotalPaid: paid, Active: !closed}, pct)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == outputJSON {
		return writeJSON(out, p)
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "total interest\t%s\n", p.TotalInterest.StringFixed(2))
	fmt.Fprintf(tw, "full commission\t%s\n", p.FullCommission.StringFixed(2))
	fmt.Fprintf(tw, "progress\t%s\n", p.PaymentProgress.StringFixed(4))
	fmt.Fprintf(tw, "earned\t%s\n", p.EarnedCommission.StringFixed(2))
	fmt.Fprintf(tw, "projected\t%s\n", p.ProjectedCommission.StringFixed(2))
	fmt.Fprintf(tw, "total\t%s\n", p.TotalCommission.StringFixed(2))
	return tw.Flush()
}
