package http

import "github.com/labstack/echo/v4"

type Handlers struct {
	Health     *Handler
	Loans      *LoanHandler
	Payments   *PaymentHandler
	Penalties  *PenaltyHandler
	Commission *CommissionHandler
	Calculator *CalculatorHandler
}

// Register mounts every route on e. Mutating loan routes run behind idem.
func Register(e *echo.Echo, h Handlers, idem echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Health)
	e.POST("/calculator/schedule", h.Calculator.Schedule)

	loans := e.Group("/loans")
	if idem != nil {
		loans.Use(idem)
	}
	loans.POST("", h.Loans.CreateLoan)
	loans.GET("/:loan_id", h.Loans.GetLoan)
	loans.GET("/:loan_id/schedule", h.Loans.GetSchedule)
	loans.POST("/:loan_id/approve", h.Loans.Approve)
	loans.POST("/:loan_id/reject", h.Loans.Reject)
	loans.POST("/:loan_id/activate", h.Loans.Activate)
	loans.POST("/:loan_id/close", h.Loans.Close)

	loans.POST("/:loan_id/payments", h.Payments.Record)
	loans.GET("/:loan_id/payments", h.Payments.List)

	loans.GET("/:loan_id/penalties", h.Penalties.Preview)
	loans.POST("/:loan_id/penalties/refresh", h.Penalties.Refresh)

	loans.GET("/:loan_id/commission", h.Commission.Loan)
	e.GET("/agents/:agent_id/commissions", h.Commission.Agent)
}
