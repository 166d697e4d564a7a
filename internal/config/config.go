package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"lending-backoffice/internal/engine"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Config struct {
	AppPort string

	DBDriver   string
	MySQLHost  string
	MySQLPort  string
	MySQLDB    string
	MySQLUser  string
	MySQLPass  string
	SQLitePath string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	LogLevel  string
	LogFormat string

	PenaltyMonthlyRate string
	PenaltyDaysInMonth int
	PenaltyAttribution string
	PenaltySweepCron   string
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

// Load reads the environment. Values from a .env file in the working
// directory fill in anything not already set.
func Load() *Config {
	_ = godotenv.Load()

	c := &Config{
		AppPort:    getenv("APP_PORT", "8080"),
		DBDriver:   strings.ToLower(getenv("DB_DRIVER", DriverMySQL)),
		MySQLHost:  getenv("MYSQL_HOST", "mysql"),
		MySQLPort:  getenv("MYSQL_PORT", "3306"),
		MySQLDB:    getenv("MYSQL_DB", "lending"),
		MySQLUser:  getenv("MYSQL_USER", "lending"),
		MySQLPass:  getenv("MYSQL_PASS", "lending"),
		SQLitePath: getenv("SQLITE_PATH", "lending.db"),

		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:      getint("REDIS_DB", 0),
		IdempTTLSecs: getint("IDEMPOTENCY_TTL_SECONDS", 300),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "json"),

		PenaltyMonthlyRate: getenv("PENALTY_MONTHLY_RATE", "3"),
		PenaltyDaysInMonth: getint("PENALTY_DAYS_IN_MONTH", 30),
		PenaltyAttribution: getenv("PENALTY_ATTRIBUTION", string(engine.AttributeByInstallment)),
	}
	// an explicitly empty PENALTY_SWEEP_CRON disables the sweep
	if v, ok := os.LookupEnv("PENALTY_SWEEP_CRON"); ok {
		c.PenaltySweepCron = v
	} else {
		c.PenaltySweepCron = "@daily"
	}
	return c
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if _, err := c.PenaltyPolicy(); err != nil {
		return err
	}
	return nil
}

// PenaltyPolicy builds the engine policy from the PENALTY_* settings.
func (c *Config) PenaltyPolicy() (engine.PenaltyPolicy, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(c.PenaltyMonthlyRate))
	if err != nil {
		return engine.PenaltyPolicy{}, fmt.Errorf("invalid PENALTY_MONTHLY_RATE %q: %w", c.PenaltyMonthlyRate, err)
	}
	attr, err := engine.ParseAttribution(c.PenaltyAttribution)
	if err != nil {
		return engine.PenaltyPolicy{}, fmt.Errorf("invalid PENALTY_ATTRIBUTION: %w", err)
	}
	p := engine.PenaltyPolicy{
		MonthlyRatePercent: rate,
		DaysInMonth:        c.PenaltyDaysInMonth,
		Attribution:        attr,
	}
	if err := p.Validate(); err != nil {
		return engine.PenaltyPolicy{}, err
	}
	return p, nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&loc=UTC&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// DSN is the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == DriverSQLite {
		return c.SQLitePath
	}
	return c.MySQLDSN()
}
