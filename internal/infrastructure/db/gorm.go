package db

import (
	"fmt"
	"time"

	"lending-backoffice/internal/domain/loan"
	"lending-backoffice/internal/domain/payment"

	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Options struct {
	Driver string // mysql or sqlite
	DSN    string
	Log    zerolog.Logger
}

func OpenGorm(opts Options) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch opts.Driver {
	case "mysql":
		dial = mysql.Open(opts.DSN)
	case "sqlite":
		dial = sqlite.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("db: unsupported driver %q", opts.Driver)
	}

	gdb, err := OpenGormWithDialector(dial, &opts.Log)
	if err != nil {
		return nil, err
	}
	if opts.Driver == "sqlite" {
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		// single writer
		sqlDB.SetMaxOpenConns(1)
	}
	opts.Log.Info().Str("driver", opts.Driver).Msg("gorm: connected")
	return gdb, nil
}

// OpenGormWithDialector opens gorm on an existing dialector, sizes the pool
// and pings once. A nil log discards gorm's own output.
func OpenGormWithDialector(dial gorm.Dialector, log *zerolog.Logger) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:               newGormLogger(log),
		DisableAutomaticPing: true,
	}
	gdb, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return gdb, nil
}

// AutoMigrate creates or updates the loans and payments tables.
func AutoMigrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(&loan.Loan{}, &payment.Payment{})
}

// gormWriter sends gorm's warn/slow/error lines to zerolog at warn level.
type gormWriter struct{ log zerolog.Logger }

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Warn().Msgf(format, args...)
}

func newGormLogger(log *zerolog.Logger) gormlogger.Interface {
	if log == nil {
		return gormlogger.Discard
	}
	return gormlogger.New(gormWriter{log: *log}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
