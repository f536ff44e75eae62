package main

import (
	"context"
	"fmt"
	"os"

	"github.com/de-tools/sales-report/pkg/config"
	"github.com/de-tools/sales-report/pkg/runtime/export"
	"github.com/de-tools/sales-report/pkg/runtime/terminal"
	"github.com/de-tools/sales-report/pkg/services/report"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("SALESREPORT_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(cfg.Log.ZerologLevel()).
		With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	writers := export.DefaultRegistry()
	cli := terminal.NewCLI(terminal.Options{
		Renderer: report.NewService(report.Config{
			Currency:     cfg.Report.Currency,
			Dependencies: report.Dependencies{Writers: writers},
		}),
		Writers: writers,
		Output:  os.Stdout,
	})

	if err := cli.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
