package payment

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestToEngine_SkipsReversed(t *testing.T) {
	day := time.Date(2025, 2, 10, 15, 4, 0, 0, time.UTC)
	ps := []Payment{
		{PaymentDate: day, Amount: decimal.NewFromInt(500), AppliedToInterest: decimal.NewFromInt(100), AppliedToPrincipal: decimal.NewFromInt(400), InstallmentNumber: 1, Status: StatusCompleted},
		{PaymentDate: day, Amount: decimal.NewFromInt(900), AppliedToPenalty: decimal.NewFromInt(900), Status: StatusReversed},
		{PaymentDate: day, Amount: decimal.NewFromInt(20), AppliedToPenalty: decimal.NewFromInt(20), Status: StatusCompleted},
	}

	got := ToEngine(ps)
	if len(got) != 2 {
		t.Fatalf("want 2 engine payments, got %d", len(got))
	}
	if got[0].PaymentDate.String() != "2025-02-10" || got[0].InstallmentNumber != 1 {
		t.Fatalf("unexpected first payment: %+v", got[0])
	}
	if paid := PenaltyPaid(ps); !paid.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("penalty paid = %s, want 20", paid)
	}
}

func TestParseType(t *testing.T) {
	if ty, ok := ParseType(""); !ok || ty != TypeInstallment {
		t.Fatalf("empty type should default to installment, got %q %v", ty, ok)
	}
	if _, ok := ParseType("refund"); ok {
		t.Fatalf("refund must not parse")
	}
	if ty, ok := ParseType("payoff"); !ok || ty != TypePayoff {
		t.Fatalf("payoff: got %q %v", ty, ok)
	}
}
