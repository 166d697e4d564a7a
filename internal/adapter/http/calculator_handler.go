package http

import (
	"net/http"

	"lending-backoffice/internal/engine"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CalculatorHandler previews schedules straight from the engine; nothing is stored.
type CalculatorHandler struct{ log zerolog.Logger }

func NewCalculatorHandler(log zerolog.Logger) *CalculatorHandler {
	return &CalculatorHandler{log: log}
}

type scheduleReq struct {
	PrincipalAmount  decimal.Decimal `json:"principal_amount"  validate:"gt=0,dec2"`
	InterestRate     decimal.Decimal `json:"interest_rate"     validate:"gte=0"`
	TenureMonths     int             `json:"tenure_months"     validate:"gt=0,lte=600"`
	PaymentFrequency string          `json:"payment_frequency" validate:"required"`
	StartDate        engine.Date     `json:"start_date"        validate:"required"`
}

type scheduleResp struct {
	Installment   decimal.Decimal       `json:"installment_amount"`
	Installments  int                   `json:"installments"`
	TotalInterest decimal.Decimal       `json:"total_interest"`
	TotalPayment  decimal.Decimal       `json:"total_payment"`
	Items         []engine.ScheduleItem `json:"items"`
}

func (h *CalculatorHandler) Schedule(c echo.Context) error {
	var req scheduleReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	freq, err := engine.ParseFrequency(req.PaymentFrequency)
	if err != nil {
		return fail(c, h.log, err)
	}
	terms := engine.LoanTerms{
		Principal:          req.PrincipalAmount,
		MonthlyRatePercent: req.InterestRate,
		TenureMonths:       req.TenureMonths,
		Frequency:          freq,
		StartDate:          req.StartDate,
	}
	items, err := engine.GenerateSchedule(terms)
	if err != nil {
		return fail(c, h.log, err)
	}
	emi, n, err := engine.Installment(terms)
	if err != nil {
		return fail(c, h.log, err)
	}
	interest, err := engine.TotalInterest(terms)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, scheduleResp{
		Installment:   emi,
		Installments:  n,
		TotalInterest: interest,
		TotalPayment:  emi.Mul(decimal.NewFromInt(int64(n))),
		Items:         items,
	})
}
