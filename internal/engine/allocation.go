package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Allocation is how a single payment amount splits across its components.
type Allocation struct {
	Principal         decimal.Decimal `json:"applied_to_principal"`
	Interest          decimal.Decimal `json:"applied_to_interest"`
	Penalty           decimal.Decimal `json:"applied_to_penalty"`
	InstallmentNumber int             `json:"installment_number,omitempty"`
}

// Outstanding is what is still owed on one installment. InterestOwed plus
// PrincipalOwed is the unpaid part of its total due.
type Outstanding struct {
	Item          ScheduleItem
	InterestOwed  decimal.Decimal
	PrincipalOwed decimal.Decimal
}

// OpenInstallment is the installment a payment is linked to, together with
// what is still owed on it. Later holds the other unsettled installments in
// schedule order; AllocatePayment settles them after Item.
type OpenInstallment struct {
	Item          ScheduleItem
	InterestOwed  decimal.Decimal
	PrincipalOwed decimal.Decimal
	Found         bool
	Later         []Outstanding
}

// Through keeps only the later installments due on or before day, so a
// payment catches up on overdue installments without prepaying future
// interest.
func (o OpenInstallment) Through(day Date) OpenInstallment {
	kept := make([]Outstanding, 0, len(o.Later))
	for _, out := range o.Later {
		if !out.Item.DueDate.After(day) {
			kept = append(kept, out)
		}
	}
	o.Later = kept
	return o
}

// NextOpenInstallment finds the first installment the payments do not
// settle. Settlement follows the same rules as penalty attribution: linked
// payments credit their installment, overpayments and unlinked payments fill
// the earliest short installments.
func NextOpenInstallment(schedule []ScheduleItem, payments []Payment) OpenInstallment {
	open := outstanding(schedule, settle(schedule, payments, nil))
	if len(open) == 0 {
		return OpenInstallment{InterestOwed: decimal.Zero, PrincipalOwed: decimal.Zero}
	}
	return openAt(open, 0)
}

// InstallmentByNumber returns installment number with what is still owed on
// it. Found is false when the schedule has no such installment or it is
// already settled.
func InstallmentByNumber(schedule []ScheduleItem, payments []Payment, number int) OpenInstallment {
	open := outstanding(schedule, settle(schedule, payments, nil))
	for i, out := range open {
		if out.Item.PaymentNumber == number {
			return openAt(open, i)
		}
	}
	return OpenInstallment{InterestOwed: decimal.Zero, PrincipalOwed: decimal.Zero}
}

func openAt(open []Outstanding, i int) OpenInstallment {
	later := make([]Outstanding, 0, len(open)-1)
	later = append(later, open[:i]...)
	later = append(later, open[i+1:]...)
	return OpenInstallment{
		Item:          open[i].Item,
		InterestOwed:  open[i].InterestOwed,
		PrincipalOwed: open[i].PrincipalOwed,
		Found:         true,
		Later:         later,
	}
}

// credit is what the payments settle on one installment.
type credit struct {
	paid     decimal.Decimal
	interest decimal.Decimal
}

// settle credits payments to the schedule. Linked payments go to their
// installment first; anything over an installment's total due (or interest
// due) and every unlinked payment pools and fills the earliest short
// installments in order. include filters payments; nil takes all of them.
func settle(schedule []ScheduleItem, payments []Payment, include func(Payment) bool) []credit {
	credits := make([]credit, len(schedule))
	index := make(map[int]int, len(schedule))
	for i, item := range schedule {
		credits[i] = credit{paid: decimal.Zero, interest: decimal.Zero}
		index[item.PaymentNumber] = i
	}

	pool, interestPool := decimal.Zero, decimal.Zero
	for _, pm := range payments {
		if include != nil && !include(pm) {
			continue
		}
		if i, ok := index[pm.InstallmentNumber]; ok && pm.InstallmentNumber > 0 {
			credits[i].paid = credits[i].paid.Add(pm.scheduled())
			credits[i].interest = credits[i].interest.Add(pm.AppliedToInterest)
			continue
		}
		pool = pool.Add(pm.scheduled())
		interestPool = interestPool.Add(pm.AppliedToInterest)
	}

	for i, item := range schedule {
		if excess := credits[i].paid.Sub(item.TotalDue); excess.IsPositive() {
			credits[i].paid = item.TotalDue
			pool = pool.Add(excess)
		}
		if excess := credits[i].interest.Sub(item.InterestDue); excess.IsPositive() {
			credits[i].interest = item.InterestDue
			interestPool = interestPool.Add(excess)
		}
	}
	for i, item := range schedule {
		if !pool.IsPositive() {
			break
		}
		take := minDecimal(nonNegative(item.TotalDue.Sub(credits[i].paid)), pool)
		credits[i].paid = credits[i].paid.Add(take)
		pool = pool.Sub(take)
	}
	// interest credited never exceeds what the installment received
	for i, item := range schedule {
		if !interestPool.IsPositive() {
			break
		}
		room := minDecimal(item.InterestDue.Sub(credits[i].interest), credits[i].paid.Sub(credits[i].interest))
		take := minDecimal(nonNegative(room), interestPool)
		credits[i].interest = credits[i].interest.Add(take)
		interestPool = interestPool.Sub(take)
	}
	return credits
}

func outstanding(schedule []ScheduleItem, credits []credit) []Outstanding {
	var out []Outstanding
	for i, item := range schedule {
		short := item.TotalDue.Sub(credits[i].paid)
		if !short.IsPositive() {
			continue
		}
		interest := minDecimal(nonNegative(item.InterestDue.Sub(credits[i].interest)), short)
		out = append(out, Outstanding{Item: item, InterestOwed: interest, PrincipalOwed: short.Sub(interest)})
	}
	return out
}

// AllocatePayment applies amount to outstanding penalty first, then to the
// open installment (interest, then principal) and on through open.Later in
// order. Whatever is left goes to principal. The allocation is linked to
// open.Item.
func AllocatePayment(amount, outstandingPenalty decimal.Decimal, open OpenInstallment) (Allocation, error) {
	if !amount.IsPositive() {
		return Allocation{}, fmt.Errorf("%w: payment amount must be positive, got %s", ErrInvalidAmount, amount)
	}
	if outstandingPenalty.IsNegative() {
		return Allocation{}, fmt.Errorf("%w: negative outstanding penalty %s", ErrInvalidAmount, outstandingPenalty)
	}
	rest := roundMoney(amount)
	a := Allocation{Principal: decimal.Zero, Interest: decimal.Zero}
	a.Penalty = minDecimal(rest, roundMoney(outstandingPenalty))
	rest = rest.Sub(a.Penalty)
	if !open.Found {
		a.Principal = rest
		return a, nil
	}

	a.InstallmentNumber = open.Item.PaymentNumber
	owed := append([]Outstanding{{Item: open.Item, InterestOwed: open.InterestOwed, PrincipalOwed: open.PrincipalOwed}}, open.Later...)
	for _, o := range owed {
		if !rest.IsPositive() {
			break
		}
		interest := minDecimal(rest, roundMoney(o.InterestOwed))
		rest = rest.Sub(interest)
		principal := minDecimal(rest, roundMoney(o.PrincipalOwed))
		rest = rest.Sub(principal)
		a.Interest = a.Interest.Add(interest)
		a.Principal = a.Principal.Add(principal)
	}
	a.Principal = a.Principal.Add(rest)
	return a, nil
}
