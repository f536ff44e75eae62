package main

import (
	"fmt"
	"os"

	"github.com/de-tools/sales-report/pkg/config"
	"github.com/de-tools/sales-report/pkg/metrics"
	"github.com/de-tools/sales-report/pkg/runtime/export"
	"github.com/de-tools/sales-report/pkg/server"
	"github.com/de-tools/sales-report/pkg/services/report"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for the weekly sales report generator",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the config file (default is ./salesreport.yaml or $XDG_CONFIG_HOME/salesreport/salesreport.yaml)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := zerolog.New(os.Stdout).
		Level(cfg.Log.ZerologLevel()).
		With().Timestamp().Logger()

	m := metrics.New()
	writers := export.DefaultRegistry()
	renderer := report.NewService(report.Config{
		Currency: cfg.Report.Currency,
		Dependencies: report.Dependencies{
			Writers: writers,
			Metrics: m,
		},
	})

	logger.Info().
		Str("currency", cfg.Report.Currency).
		Str("default_format", string(cfg.Report.Format())).
		Msgf("supported formats: %v", writers.Formats())

	api := server.NewWebAPI(logger, server.Config{
		Addr:            cfg.Server.Addr(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		DefaultFormat:   cfg.Report.Format(),
		MaxBodyBytes:    cfg.Server.MaxFormBytes,
		Dependencies: server.Dependencies{
			Renderer: renderer,
			Metrics:  m,
		},
	})

	return api.Start()
}
