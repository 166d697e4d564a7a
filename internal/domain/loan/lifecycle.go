package loan

import (
	"fmt"
	"strings"
	"time"

	"lending-backoffice/internal/engine"
)

type Action string

const (
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionActivate Action = "activate"
	ActionClose    Action = "close"
)

// TransitionPayload carries what a transition may write. At is supplied by the
// caller; the state machine never reads the clock.
type TransitionPayload struct {
	At       time.Time
	Reason   string
	Schedule []engine.ScheduleItem
}

var allowedFrom = map[Action]State{
	ActionApprove:  StatePendingApproval,
	ActionReject:   StatePendingApproval,
	ActionActivate: StateApproved,
	ActionClose:    StateActive,
}

// Transition applies action to l and returns the updated copy. On error l is
// returned untouched alongside an ErrInvalidTransition.
func Transition(l *Loan, action Action, actorID string, p TransitionPayload) (*Loan, error) {
	from, ok := allowedFrom[action]
	if !ok {
		return l, fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}
	if l.Status != from {
		return l, fmt.Errorf("%w: cannot %s a loan in state %s", ErrInvalidTransition, action, l.Status)
	}
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return l, fmt.Errorf("%w: %s requires an actor", ErrInvalidTransition, action)
	}
	if p.At.IsZero() {
		return l, fmt.Errorf("%w: %s requires a timestamp", ErrInvalidTransition, action)
	}

	next := *l
	at := p.At.UTC()
	switch action {
	case ActionApprove, ActionReject:
		// approval metadata is write-once
		if l.ApprovedBy != "" || l.ApprovalDate != nil || l.RejectionReason != "" {
			return l, fmt.Errorf("%w: loan %s already decided", ErrInvalidTransition, l.LoanID)
		}
		next.ApprovedBy = actorID
		if action == ActionApprove {
			next.Status = StateApproved
			next.ApprovalDate = &at
		} else {
			reason := strings.TrimSpace(p.Reason)
			if reason == "" {
				return l, fmt.Errorf("%w: rejection requires a reason", ErrInvalidTransition)
			}
			next.Status = StateRejected
			next.RejectionReason = reason
		}
	case ActionActivate:
		if len(p.Schedule) == 0 {
			return l, fmt.Errorf("%w: activation requires a schedule", ErrInvalidTransition)
		}
		next.Status = StateActive
		next.DisbursedAt = &at
		next.AmortizationSchedule = append([]engine.ScheduleItem(nil), p.Schedule...)
		next.CurrentBalance = l.PrincipalAmount
		if next.StartDate == nil {
			next.StartDate = DateColumn(at)
		}
	case ActionClose:
		reason := strings.TrimSpace(p.Reason)
		if l.CurrentBalance.IsPositive() && reason == "" {
			return l, fmt.Errorf("%w: closing with balance %s requires a reason", ErrInvalidTransition, l.CurrentBalance.StringFixed(2))
		}
		next.Status = StateClosed
		next.ClosedAt = &at
		next.ClosureReason = reason
	}
	next.StatusUpdatedAt = at
	return &next, nil
}
