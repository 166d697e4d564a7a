// Package cli is the lendctl command tree: offline calculators over the
// loan financial engine. Nothing here touches a database.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"lending-backoffice/internal/engine"
	"lending-backoffice/internal/logger"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	nowFn   = time.Now
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

// NewRootCmd builds a fresh command tree writing to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "lendctl",
		Short: "Loan schedule, penalty and commission calculator",
		Long: `lendctl runs the lending back-office financial engine from the command line.

It previews amortization schedules, late-payment penalties and agent
commission projections with the exact rounding the service uses.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringP("output", "o", outputTable, "Output format: table or json")

	root.AddCommand(newScheduleCmd(), newPenaltyCmd(), newCommissionCmd())
	return root
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := NewRootCmd(os.Stdout).Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

// termsFlags registers the loan-terms flags shared by schedule and commission.
func termsFlags(cmd *cobra.Command) {
	cmd.Flags().String("principal", "", "Principal amount (required)")
	cmd.Flags().String("rate", "", "Monthly interest rate in percent (required)")
	cmd.Flags().Int("tenure", 0, "Tenure in months (required)")
	cmd.Flags().String("frequency", string(engine.Monthly), "Payment frequency: monthly, bi-monthly or weekly")
	cmd.Flags().String("start", "", "Start date (YYYY-MM-DD, default: today)")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("rate")
	_ = cmd.MarkFlagRequired("tenure")
}

func readTerms(cmd *cobra.Command) (engine.LoanTerms, error) {
	principalStr, _ := cmd.Flags().GetString("principal")
	rateStr, _ := cmd.Flags().GetString("rate")
	tenure, _ := cmd.Flags().GetInt("tenure")
	freqStr, _ := cmd.Flags().GetString("frequency")

	principal, err := engine.ParseAmount(principalStr)
	if err != nil {
		return engine.LoanTerms{}, fmt.Errorf("--principal: %w", err)
	}
	rate, err := engine.ParseAmount(rateStr)
	if err != nil {
		return engine.LoanTerms{}, fmt.Errorf("--rate: %w", err)
	}
	freq, err := engine.ParseFrequency(freqStr)
	if err != nil {
		return engine.LoanTerms{}, err
	}
	start, err := dateFlag(cmd, "start")
	if err != nil {
		return engine.LoanTerms{}, err
	}
	return engine.LoanTerms{
		Principal:          principal,
		MonthlyRatePercent: rate,
		TenureMonths:       tenure,
		Frequency:          freq,
		StartDate:          start,
	}, nil
}

// dateFlag parses a YYYY-MM-DD flag; empty means today.
func dateFlag(cmd *cobra.Command, name string) (engine.Date, error) {
	raw, _ := cmd.Flags().GetString(name)
	if strings.TrimSpace(raw) == "" {
		return engine.DateOf(nowFn().UTC()), nil
	}
	d, err := engine.ParseDate(raw)
	if err != nil {
		return engine.Date{}, fmt.Errorf("--%s: use YYYY-MM-DD: %w", name, err)
	}
	return d, nil
}

func amountFlag(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	raw, _ := cmd.Flags().GetString(name)
	d, err := engine.ParseAmount(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("--%s: %w", name, err)
	}
	return d, nil
}

func outputFormat(cmd *cobra.Command) (string, error) {
	f, _ := cmd.Flags().GetString("output")
	switch f = strings.ToLower(f); f {
	case outputTable, outputJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q", f)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
