package engine

import "errors"

var (
	// ErrInvalidLoanTerms is returned for negative principal, rate or tenure,
	// a missing start date, or a tenure beyond MaxTenureMonths.
	ErrInvalidLoanTerms = errors.New("invalid loan terms")

	// ErrInvalidFrequency is returned for a payment cadence that is not
	// monthly, bi-monthly or weekly.
	ErrInvalidFrequency = errors.New("invalid payment frequency")

	// ErrInvalidPolicy is returned when the penalty policy would divide by zero
	// or charge a negative rate.
	ErrInvalidPolicy = errors.New("invalid penalty policy")

	// ErrInvalidAmount is returned for negative monetary inputs.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidPercentage is returned for a commission percentage outside 0..100.
	ErrInvalidPercentage = errors.New("invalid commission percentage")
)
