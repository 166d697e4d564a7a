package loanmock

import (
	"context"
	"errors"
	"testing"

	domain "lending-backoffice/internal/domain/loan"
)

func TestRepo_Defaults(t *testing.T) {
	ctx := context.Background()
	m := &Repo{}

	if err := m.Create(ctx, &domain.Loan{}); err != nil {
		t.Fatalf("Create default: %v", err)
	}
	if err := m.Save(ctx, &domain.Loan{}); err != nil {
		t.Fatalf("Save default: %v", err)
	}

	getters := map[string]func() (*domain.Loan, error){
		"GetByLoanID":                func() (*domain.Loan, error) { return m.GetByLoanID(ctx, "x") },
		"GetByLoanIDForUpdate":       func() (*domain.Loan, error) { return m.GetByLoanIDForUpdate(ctx, "x") },
		"GetPendingLoanByBorrowerID": func() (*domain.Loan, error) { return m.GetPendingLoanByBorrowerID(ctx, "x") },
	}
	for name, get := range getters {
		if l, err := get(); l != nil || !errors.Is(err, context.Canceled) {
			t.Fatalf("%s default: want (nil, context.Canceled), got (%v, %v)", name, l, err)
		}
	}

	if ls, err := m.ListByStatus(ctx, domain.StateActive); err != nil || ls == nil || len(ls) != 0 {
		t.Fatalf("ListByStatus default: want empty non-nil slice, got %v %v", ls, err)
	}
	if ls, err := m.ListByAgentID(ctx, "t", "a"); err != nil || ls == nil || len(ls) != 0 {
		t.Fatalf("ListByAgentID default: want empty non-nil slice, got %v %v", ls, err)
	}
}

func TestRepo_Delegates(t *testing.T) {
	ctx := context.Background()
	active := &domain.Loan{LoanID: "ln-active", TenantID: "t1", AgentID: "ag", Status: domain.StateActive}
	boom := errors.New("boom")
	var saw []string

	m := &Repo{
		CreateFn: func(_ context.Context, l *domain.Loan) error {
			saw = append(saw, "create:"+l.LoanID)
			return boom
		},
		SaveFn: func(_ context.Context, l *domain.Loan) error {
			saw = append(saw, "save:"+l.LoanID)
			return nil
		},
		GetByLoanIDFn: func(_ context.Context, id string) (*domain.Loan, error) {
			saw = append(saw, "get:"+id)
			return active, nil
		},
		GetByLoanIDForUpdateFn: func(_ context.Context, id string) (*domain.Loan, error) {
			saw = append(saw, "lock:"+id)
			return active, nil
		},
		GetPendingLoanByBorrowerIDFn: func(_ context.Context, b string) (*domain.Loan, error) {
			saw = append(saw, "pending:"+b)
			return nil, domain.ErrNotFound
		},
		ListByStatusFn: func(_ context.Context, s domain.State) ([]domain.Loan, error) {
			saw = append(saw, "status:"+string(s))
			return []domain.Loan{*active}, nil
		},
		ListByAgentIDFn: func(_ context.Context, tenant, agent string) ([]domain.Loan, error) {
			saw = append(saw, "agent:"+tenant+"/"+agent)
			return []domain.Loan{*active}, nil
		},
	}

	if err := m.Create(ctx, active); !errors.Is(err, boom) {
		t.Fatalf("Create: want boom, got %v", err)
	}
	_ = m.Save(ctx, active)
	if got, _ := m.GetByLoanID(ctx, "ln-active"); got != active {
		t.Fatalf("GetByLoanID returned %v", got)
	}
	if got, _ := m.GetByLoanIDForUpdate(ctx, "ln-active"); got != active {
		t.Fatalf("GetByLoanIDForUpdate returned %v", got)
	}
	if _, err := m.GetPendingLoanByBorrowerID(ctx, "b1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetPendingLoanByBorrowerID: want ErrNotFound, got %v", err)
	}
	if ls, _ := m.ListByStatus(ctx, domain.StateActive); len(ls) != 1 {
		t.Fatalf("ListByStatus returned %v", ls)
	}
	if ls, _ := m.ListByAgentID(ctx, "t1", "ag"); len(ls) != 1 {
		t.Fatalf("ListByAgentID returned %v", ls)
	}

	want := []string{"create:ln-active", "save:ln-active", "get:ln-active", "lock:ln-active", "pending:b1", "status:active", "agent:t1/ag"}
	if len(saw) != len(want) {
		t.Fatalf("calls = %v, want %v", saw, want)
	}
	for i := range want {
		if saw[i] != want[i] {
			t.Fatalf("call %d = %q, want %q", i, saw[i], want[i])
		}
	}
}
