package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpadp "lending-backoffice/internal/adapter/http"
	idem "lending-backoffice/internal/adapter/middleware"
	"lending-backoffice/internal/adapter/repository/mysql"
	"lending-backoffice/internal/config"
	"lending-backoffice/internal/engine"
	"lending-backoffice/internal/infrastructure/cache"
	"lending-backoffice/internal/infrastructure/db"
	"lending-backoffice/internal/infrastructure/scheduler"
	"lending-backoffice/internal/logger"
	ucCommission "lending-backoffice/internal/usecase/commission"
	ucLoan "lending-backoffice/internal/usecase/loan"
	ucPayment "lending-backoffice/internal/usecase/payment"
	ucPenalty "lending-backoffice/internal/usecase/penalty"
)

func main() {
	cfg := config.Load()
	if err := logger.Setup(logger.LogConfig{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stdout}); err != nil {
		l := logger.Get()
		l.Fatal().Err(err).Msg("logger setup")
	}
	log := logger.Get()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	policy, err := cfg.PenaltyPolicy()
	if err != nil {
		log.Fatal().Err(err).Msg("penalty policy")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.OpenGorm(db.Options{Driver: cfg.DBDriver, DSN: cfg.DSN(), Log: logger.WithComponent("gorm")})
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	if err := db.AutoMigrate(gdb); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("database handle")
	}
	defer sqlDB.Close()

	rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal().Err(err).Msg("open redis")
	}
	defer rdb.Close()

	// repositories and use cases
	loans := mysql.NewLoanRepository(gdb)
	payments := mysql.NewPaymentRepository(gdb)
	tx := mysql.NewGormUoW(gdb)

	ucLog := logger.WithComponent("usecase")
	loanUC := ucLoan.NewUsecase(loans, tx, ucLog)
	paymentUC := ucPayment.NewUsecase(loans, payments, tx, policy, ucLog)
	penaltyUC := ucPenalty.NewUsecase(loans, payments, tx, policy, ucLog)
	commissionUC := ucCommission.NewUsecase(loans, ucLog)

	sweep, err := scheduler.New("penalty-sweep", cfg.PenaltySweepCron, func(ctx context.Context, now time.Time) error {
		_, err := penaltyUC.Sweep(ctx, engine.DateOf(now))
		return err
	}, logger.WithComponent("scheduler"))
	if err != nil {
		log.Fatal().Err(err).Msg("penalty sweep")
	}
	sweep.Start()

	httpLog := logger.WithComponent("http")
	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	httpadp.Register(e, httpadp.Handlers{
		Health: httpadp.NewHandler(map[string]httpadp.Check{
			"db":    sqlDB.PingContext,
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
		Loans:      httpadp.NewLoanHandler(loanUC, httpLog),
		Payments:   httpadp.NewPaymentHandler(paymentUC, httpLog),
		Penalties:  httpadp.NewPenaltyHandler(penaltyUC, httpLog),
		Commission: httpadp.NewCommissionHandler(commissionUC, httpLog),
		Calculator: httpadp.NewCalculatorHandler(httpLog),
	}, idem.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, logger.WithComponent("idempotency")))

	addr := ":" + cfg.AppPort
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := sweep.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("scheduler shutdown")
	}
}
