package cli

import (
	"fmt"

	"lending-backoffice/internal/engine"

	"github.com/spf13/cobra"
)

func newPenaltyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "penalty",
		Short: "Compute the late penalty on one overdue amount",
		Example: `  lendctl penalty --due-amount 10046.21 --due-date 2024-02-15 --as-of 2024-03-16
  lendctl penalty --due-amount 500 --due-date 2024-02-15 --monthly-rate 2 --days-in-month 31`,
		RunE: runPenalty,
	}
	defaults := engine.DefaultPenaltyPolicy()
	cmd.Flags().String("due-amount", "", "Amount left unpaid (required)")
	cmd.Flags().String("due-date", "", "Installment due date, YYYY-MM-DD (required)")
	cmd.Flags().String("as-of", "", "Accrual date (YYYY-MM-DD, default: today)")
	cmd.Flags().String("monthly-rate", defaults.MonthlyRatePercent.String(), "Monthly penalty rate in percent")
	cmd.Flags().Int("days-in-month", defaults.DaysInMonth, "Days the monthly rate is spread over")
	_ = cmd.MarkFlagRequired("due-amount")
	_ = cmd.MarkFlagRequired("due-date")
	return cmd
}

func runPenalty(cmd *cobra.Command, _ []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	due, err := amountFlag(cmd, "due-amount")
	if err != nil {
		return err
	}
	rate, err := amountFlag(cmd, "monthly-rate")
	if err != nil {
		return err
	}
	days, _ := cmd.Flags().GetInt("days-in-month")
	dueDate, err := engine.ParseDate(stringFlag(cmd, "due-date"))
	if err != nil {
		return fmt.Errorf("--due-date: use YYYY-MM-DD: %w", err)
	}
	asOf, err := dateFlag(cmd, "as-of")
	if err != nil {
		return err
	}

	policy := engine.PenaltyPolicy{MonthlyRatePercent: rate, DaysInMonth: days, Attribution: engine.AttributeByInstallment}
	acc, err := policy.Accrue(due, dueDate, asOf)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == outputJSON {
		return writeJSON(out, acc)
	}
	if !acc.IsPastDue {
		fmt.Fprintf(out, "not past due as of %s\n", asOf)
		return nil
	}
	fmt.Fprintf(out, "%d days overdue at %s/day: penalty %s\n",
		acc.DaysOverdue, acc.DailyRate.String(), acc.PenaltyAmount.StringFixed(2))
	return nil
}

func stringFlag(cmd *cobra.Command, name string) string {
	s, _ := cmd.Flags().GetString(name)
	return s
}
