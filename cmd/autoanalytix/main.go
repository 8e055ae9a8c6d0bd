package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ps-pro/AutoAnalytiX/internal/config"
	"github.com/ps-pro/AutoAnalytiX/internal/export"
	"github.com/ps-pro/AutoAnalytiX/internal/logger"
	"github.com/ps-pro/AutoAnalytiX/internal/models"
	"github.com/ps-pro/AutoAnalytiX/internal/notify"
	"github.com/ps-pro/AutoAnalytiX/internal/quality"
	"github.com/ps-pro/AutoAnalytiX/internal/report"
	"github.com/ps-pro/AutoAnalytiX/internal/telemetry"
	"github.com/ps-pro/AutoAnalytiX/internal/theft"
	"github.com/ps-pro/AutoAnalytiX/internal/utilization"
)

var (
	configPath string
	dataDir    string
	outputDir  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "autoanalytix",
		Short: "AutoAnalytiX - Fleet telemetry analytics",
		Long: `Batch analytics over vehicle telemetry: merges and cleans speed, odometer,
and fuel-level streams, detects fuel theft via cross-sensor MPG consistency
checks, and quantifies idle cost and fleet utilization.`,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (defaults + env when empty)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "Override data directory")
	rootCmd.PersistentFlags().StringVar(&outputDir, "out", "", "Override output directory")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(theftCmd())
	rootCmd.AddCommand(utilizationCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration, applies flag overrides, and initializes logging.
func setup() (*config.Config, error) {
	// Best effort: a missing .env file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.Data.Dir = dataDir
	}
	if outputDir != "" {
		cfg.Export.OutputDir = outputDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	return cfg, nil
}

// loadAndClean runs the ETL and data quality stages, returning the cleaned
// fleet along with the per-vehicle cleaning reports.
func loadAndClean(cfg *config.Config) (telemetry.Fleet, map[string]models.VehicleSpec, *telemetry.RawSummary, map[string]quality.VehicleReport, error) {
	fleet, specs, raw, err := telemetry.LoadFleet(cfg.Data)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	cleaning := quality.CleanFleet(fleet, cfg)
	return fleet, specs, raw, cleaning, nil
}

func theftAnalyzer(cfg *config.Config) *theft.Analyzer {
	return theft.NewAnalyzer(theft.Options{
		Window: cfg.Sync.Window,
		Thresholds: theft.Thresholds{
			SensorError: cfg.MPG.SensorErrorThreshold,
			Theft:       cfg.MPG.TheftThreshold,
		},
		Bands: theft.RatioBands{
			Critical: cfg.Theft.RatioCritical,
			High:     cfg.Theft.RatioHigh,
			Medium:   cfg.Theft.RatioMedium,
		},
		FuelPricePerGallon: cfg.Theft.FuelPricePerGallon,
	})
}

func utilizationAnalyzer(cfg *config.Config) *utilization.Analyzer {
	return utilization.NewAnalyzer(utilization.Options{
		MinIdleDuration: cfg.Idle.MinDuration,
		Rates: utilization.CostRates{
			FuelWastePerHour:   cfg.Idle.FuelWasteRatePerHour,
			OperationalPerHour: cfg.Idle.OperationalRatePerHour,
			ExcessiveThreshold: cfg.Idle.ExcessiveCostThreshold,
		},
		Grades: utilization.GradeThresholds{
			Excellent: cfg.Utilization.GradeExcellent,
			Good:      cfg.Utilization.GradeGood,
			Fair:      cfg.Utilization.GradeFair,
		},
	})
}

// runCmd executes the full pipeline.
func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full analytics pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}

			fleet, specs, raw, cleaning, err := loadAndClean(cfg)
			if err != nil {
				return err
			}

			exporter := export.New(cfg.Export.OutputDir)
			if err := exporter.WriteJSON("Data_Exports/raw_data_summary.json", raw); err != nil {
				return err
			}
			if err := exporter.WriteQualityReports(cleaning, time.Now()); err != nil {
				return err
			}

			theftResults, theftSummary := theftAnalyzer(cfg).Run(fleet, specs)
			if err := exporter.WriteTheftResults(theftResults, cfg.Sync.Window); err != nil {
				return err
			}

			utilResults, utilSummary := utilizationAnalyzer(cfg).Run(fleet)
			if err := exporter.WriteUtilizationResults(utilResults); err != nil {
				return err
			}

			summary := report.ExecutiveSummary(theftSummary, utilResults, utilSummary, cfg.Idle.ExcessiveCostThreshold, time.Now())
			if err := exporter.WriteText(report.FileName, summary); err != nil {
				return err
			}
			exporter.LogCreatedFiles()

			sendAlerts(cfg, theftResults)

			logger.Info("Pipeline complete: $%.2f total financial impact identified",
				theftSummary.TotalEstimatedLoss+utilSummary.TotalIdleCost)
			return nil
		},
	}
}

// theftCmd runs only the theft detection half.
func theftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "theft",
		Short: "Run fuel theft detection only",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}

			fleet, specs, _, _, err := loadAndClean(cfg)
			if err != nil {
				return err
			}

			results, summary := theftAnalyzer(cfg).Run(fleet, specs)

			exporter := export.New(cfg.Export.OutputDir)
			if err := exporter.WriteTheftResults(results, cfg.Sync.Window); err != nil {
				return err
			}
			exporter.LogCreatedFiles()

			sendAlerts(cfg, results)

			logger.Info("Theft detection complete: %d events, estimated loss $%.2f",
				summary.TotalEvents, summary.TotalEstimatedLoss)
			return nil
		},
	}
}

// utilizationCmd runs only the utilization half.
func utilizationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "utilization",
		Short: "Run idle cost and utilization analysis only",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}

			fleet, _, _, _, err := loadAndClean(cfg)
			if err != nil {
				return err
			}

			results, summary := utilizationAnalyzer(cfg).Run(fleet)

			exporter := export.New(cfg.Export.OutputDir)
			if err := exporter.WriteUtilizationResults(results); err != nil {
				return err
			}
			exporter.LogCreatedFiles()

			logger.Info("Utilization analysis complete: %.1f idle hours costing $%.2f",
				summary.TotalIdleHours, summary.TotalIdleCost)
			return nil
		},
	}
}

// sendAlerts delivers priority-1 theft events via Telegram when enabled.
// Alerting failures are logged, never fatal: the analysis already succeeded.
func sendAlerts(cfg *config.Config, results []theft.VehicleResult) {
	if !cfg.Telegram.Enabled {
		return
	}

	var urgent []models.TheftEvent
	for _, r := range results {
		for _, ev := range r.Events {
			if ev.InvestigationPriority == 1 {
				urgent = append(urgent, ev)
			}
		}
	}
	if len(urgent) == 0 {
		return
	}

	client, err := notify.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.MaxRetries, cfg.Telegram.RetryDelayBase)
	if err != nil {
		logger.Error("Failed to create Telegram client: %v", err)
		return
	}
	if err := client.SendTheftAlert(urgent); err != nil {
		logger.Error("Failed to send theft alert: %v", err)
		return
	}
	logger.Info("Sent Telegram alert for %d high-priority theft events", len(urgent))
}
