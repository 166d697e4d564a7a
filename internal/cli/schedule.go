package cli

import (
	"fmt"
	"text/tabwriter"

	"lending-backoffice/internal/engine"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type scheduleOutput struct {
	Terms         engine.LoanTerms      `json:"terms"`
	Installment   decimal.Decimal       `json:"installment_amount"`
	TotalInterest decimal.Decimal       `json:"total_interest"`
	Items         []engine.ScheduleItem `json:"items"`
}

func newScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the fixed-installment amortization schedule",
		Example: `  lendctl schedule --principal 100000 --rate 3 --tenure 12 --start 2024-01-15
  lendctl schedule --principal 5000000 --rate 1.5 --tenure 6 --frequency weekly -o json`,
		RunE: runSchedule,
	}
	termsFlags(cmd)
	return cmd
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	terms, err := readTerms(cmd)
	if err != nil {
		return err
	}
	items, err := engine.GenerateSchedule(terms)
	if err != nil {
		return err
	}
	emi, _, err := engine.Installment(terms)
	if err != nil {
		return err
	}
	interest, err := engine.TotalInterest(terms)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == outputJSON {
		return writeJSON(out, scheduleOutput{Terms: terms, Installment: emi, TotalInterest: interest, Items: items})
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tDue date\tPrincipal\tInterest\tTotal\tBalance\t")
	for _, it := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t\n", it.PaymentNumber, it.DueDate,
			it.PrincipalDue.StringFixed(2), it.InterestDue.StringFixed(2),
			it.TotalDue.StringFixed(2), it.RemainingBalance.StringFixed(2))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "installment %s, total interest %s\n", emi.StringFixed(2), interest.StringFixed(2))
	return nil
}
