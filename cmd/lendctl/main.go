package main

import (
	"log"
	"os"

	"lending-backoffice/internal/cli"
	"lending-backoffice/internal/config"
	"lending-backoffice/internal/logger"
)

func main() {
	// lendctl logs to stderr so table/json output stays clean
	cfg := config.Load()
	lc := logger.DefaultConfig()
	lc.Level, lc.Format = cfg.LogLevel, "console"
	lc.Output = os.Stderr
	if err := logger.Setup(lc); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	cli.Execute()
}
