package http

import (
	"errors"
	"strings"
	"testing"

	"lending-backoffice/internal/engine"

	"github.com/shopspring/decimal"
)

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestHex32Validation(t *testing.T) {
	type P struct {
		LoanID string `json:"loan_id" validate:"hex32"`
	}
	cv := NewValidator()

	cases := map[string]bool{
		strings.Repeat("a", 32):             true,
		"0123456789abcdef0123456789abcdef":  true,
		"":                                  false,
		strings.Repeat("A", 32):             false,
		"deadbeef":                          false,
		strings.Repeat("g", 32):             false,
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c8":   false,
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c88x": false,
	}
	for in, valid := range cases {
		err := cv.Validate(P{LoanID: in})
		if valid {
			if err != nil {
				t.Errorf("%q: unexpected error %v", in, err)
			}
			continue
		}
		if err == nil {
			t.Errorf("%q: accepted", in)
			continue
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "loan_id", "32-char lowercase hex") {
			t.Errorf("%q: field errors %+v", in, fe)
		}
	}
}

func TestDecimalValidation(t *testing.T) {
	type P struct {
		Amount decimal.Decimal  `json:"amount" validate:"gt=0,dec2"`
		Pct    decimal.Decimal  `json:"pct" validate:"gte=0,lte=100"`
		Split  *decimal.Decimal `json:"split" validate:"omitempty,gte=0"`
	}
	cv := NewValidator()

	for _, s := range []string{"1", "1500.25", "0.9"} {
		if err := cv.Validate(P{Amount: decimal.RequireFromString(s), Pct: decimal.NewFromInt(10)}); err != nil {
			t.Fatalf("expected OK for %s, got %v", s, err)
		}
	}

	neg := decimal.NewFromInt(-1)
	err := cv.Validate(P{Amount: decimal.RequireFromString("1.234"), Pct: decimal.NewFromInt(101), Split: &neg})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	fe := ToFieldErrors(err)
	if !containsFieldMsg(fe, "amount", "at most 2 decimal places") {
		t.Fatalf("missing dec2 message: %+v", fe)
	}
	if !containsFieldMsg(fe, "pct", "less than or equal to 100") {
		t.Fatalf("missing lte message: %+v", fe)
	}
	if !containsFieldMsg(fe, "split", "greater than or equal to 0") {
		t.Fatalf("missing gte message: %+v", fe)
	}

	fe = ToFieldErrors(cv.Validate(P{Pct: decimal.Zero}))
	if !containsFieldMsg(fe, "amount", "greater than 0") {
		t.Fatalf("zero amount must fail gt=0: %+v", fe)
	}
}

func TestDateValidation(t *testing.T) {
	type P struct {
		Due engine.Date `json:"due" validate:"required"`
	}
	cv := NewValidator()

	if err := cv.Validate(P{Due: engine.NewDate(2024, 1, 15)}); err != nil {
		t.Fatalf("expected OK, got %v", err)
	}
	if fe := ToFieldErrors(cv.Validate(P{})); !containsFieldMsg(fe, "due", "is required") {
		t.Fatalf("zero date must fail required: %+v", fe)
	}
}

func TestRequiredAndBoundsMapping(t *testing.T) {
	type P struct {
		Name string `json:"name" validate:"required"`
		Min  int    `json:"min" validate:"gte=10"`
		Max  int    `json:"max" validate:"lte=5"`
		Kind string `json:"kind" validate:"oneof=a b"`
		Code string `validate:"max=3"`
	}
	cv := NewValidator()

	err := cv.Validate(P{Min: 9, Max: 6, Kind: "c", Code: "abcd"})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	fe := ToFieldErrors(err)

	if !containsFieldMsg(fe, "name", "is required") {
		t.Fatalf("missing 'is required' for name: %+v", fe)
	}
	if !containsFieldMsg(fe, "min", "greater than or equal to 10") {
		t.Fatalf("missing gte message for min: %+v", fe)
	}
	if !containsFieldMsg(fe, "max", "less than or equal to 5") {
		t.Fatalf("missing lte message for max: %+v", fe)
	}
	if !containsFieldMsg(fe, "kind", "one of: a b") {
		t.Fatalf("missing oneof message for kind: %+v", fe)
	}
	// no json tag: Go field name
	if !containsFieldMsg(fe, "Code", "at most 3 characters") {
		t.Fatalf("missing max message for Code: %+v", fe)
	}
}

func TestToFieldErrors_NonValidation(t *testing.T) {
	fe := ToFieldErrors(errors.New("boom"))
	if len(fe) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(fe))
	}
	if fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe[0])
	}
}
