package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Data        DataConfig        `mapstructure:"data"`
	Sync        SyncConfig        `mapstructure:"sync"`
	MPG         MPGConfig         `mapstructure:"mpg"`
	Theft       TheftConfig       `mapstructure:"theft"`
	Idle        IdleConfig        `mapstructure:"idle"`
	Odometer    OdometerConfig    `mapstructure:"odometer"`
	Speed       SpeedConfig       `mapstructure:"speed"`
	Utilization UtilizationConfig `mapstructure:"utilization"`
	Export      ExportConfig      `mapstructure:"export"`
	Telegram    TelegramConfig    `mapstructure:"telegram"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// DataConfig locates the raw input files
type DataConfig struct {
	Dir           string `mapstructure:"dir"`
	Telemetry1    string `mapstructure:"telemetry_1"`
	Telemetry2    string `mapstructure:"telemetry_2"`
	VehicleMaster string `mapstructure:"vehicle_master"`
}

// SyncConfig holds window synchronization settings
type SyncConfig struct {
	Window time.Duration `mapstructure:"window"`
}

// MPGConfig holds the physics-based MPG validation thresholds
type MPGConfig struct {
	SensorErrorThreshold float64 `mapstructure:"sensor_error_threshold"` // above = sensor fault
	TheftThreshold       float64 `mapstructure:"theft_threshold"`        // below = investigate
}

// TheftConfig holds efficiency-ratio bands and fuel pricing for theft grading
type TheftConfig struct {
	RatioCritical      float64 `mapstructure:"ratio_critical"`
	RatioHigh          float64 `mapstructure:"ratio_high"`
	RatioMedium        float64 `mapstructure:"ratio_medium"`
	FuelPricePerGallon float64 `mapstructure:"fuel_price_per_gallon"`
}

// IdleConfig holds idle detection and cost settings
type IdleConfig struct {
	MinDuration            time.Duration `mapstructure:"min_duration"`
	FuelWasteRatePerHour   float64       `mapstructure:"fuel_waste_rate_per_hour"`
	OperationalRatePerHour float64       `mapstructure:"operational_rate_per_hour"`
	ExcessiveCostThreshold float64       `mapstructure:"excessive_cost_threshold"`
}

// OdometerConfig holds the reset-classification heuristics. The thresholds
// have no physical derivation, so they are configurable rather than constants.
type OdometerConfig struct {
	LowReadingThreshold  float64 `mapstructure:"low_reading_threshold"` // moving average below this counts as "low"
	ContextPoints        int     `mapstructure:"context_points"`        // neighbors examined on each side of a zero
	MinContextPoints     int     `mapstructure:"min_context_points"`    // low points needed to call a legitimate reset
	LargeDecreaseMiles   float64 `mapstructure:"large_decrease_miles"`
	MovingAverageWindows []int   `mapstructure:"moving_average_windows"`
}

// SpeedConfig holds speed validation thresholds
type SpeedConfig struct {
	MaxReasonable      float64       `mapstructure:"max_reasonable"`      // mph
	SevereAcceleration float64       `mapstructure:"severe_acceleration"` // mph/min
	MaxAccelerationGap time.Duration `mapstructure:"max_acceleration_gap"`
}

// UtilizationConfig holds the efficiency grading thresholds
type UtilizationConfig struct {
	GradeExcellent float64 `mapstructure:"grade_excellent"`
	GradeGood      float64 `mapstructure:"grade_good"`
	GradeFair      float64 `mapstructure:"grade_fair"`
}

// ExportConfig holds flat-file export settings
type ExportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// TelegramConfig holds Telegram alert configuration
type TelegramConfig struct {
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	Enabled        bool          `mapstructure:"enabled"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from an optional file and environment variables.
// An empty path uses defaults plus environment overrides only.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("AUTOANALYTIX")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options.
// The analysis defaults match the thresholds the detection algorithms were
// calibrated with.
func setDefaults(v *viper.Viper) {
	v.SetDefault("data.dir", "./data")
	v.SetDefault("data.telemetry_1", "telemetry_1.csv")
	v.SetDefault("data.telemetry_2", "telemetry_2.csv")
	v.SetDefault("data.vehicle_master", "vehicle_data.csv")

	v.SetDefault("sync.window", "10m")

	v.SetDefault("mpg.sensor_error_threshold", 50.0)
	v.SetDefault("mpg.theft_threshold", 2.0)

	v.SetDefault("theft.ratio_critical", 0.3)
	v.SetDefault("theft.ratio_high", 0.5)
	v.SetDefault("theft.ratio_medium", 0.7)
	v.SetDefault("theft.fuel_price_per_gallon", 5.00)

	v.SetDefault("idle.min_duration", "5m")
	v.SetDefault("idle.fuel_waste_rate_per_hour", 4.00)
	v.SetDefault("idle.operational_rate_per_hour", 30.00)
	v.SetDefault("idle.excessive_cost_threshold", 200.0)

	v.SetDefault("odometer.low_reading_threshold", 1000.0)
	v.SetDefault("odometer.context_points", 10)
	v.SetDefault("odometer.min_context_points", 5)
	v.SetDefault("odometer.large_decrease_miles", 50.0)
	v.SetDefault("odometer.moving_average_windows", []int{5, 10, 20})

	v.SetDefault("speed.max_reasonable", 200.0)
	v.SetDefault("speed.severe_acceleration", 50.0)
	v.SetDefault("speed.max_acceleration_gap", "60m")

	v.SetDefault("utilization.grade_excellent", 85.0)
	v.SetDefault("utilization.grade_good", 70.0)
	v.SetDefault("utilization.grade_fair", 55.0)

	v.SetDefault("export.output_dir", "AutoAnalytiX__Reports")

	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay_base", "1s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir is required")
	}
	if c.Data.Telemetry1 == "" || c.Data.Telemetry2 == "" || c.Data.VehicleMaster == "" {
		return fmt.Errorf("data file names must not be empty")
	}

	if c.Sync.Window < 1*time.Minute {
		return fmt.Errorf("sync.window must be at least 1 minute")
	}

	if c.MPG.TheftThreshold <= 0 {
		return fmt.Errorf("mpg.theft_threshold must be positive")
	}
	if c.MPG.SensorErrorThreshold <= c.MPG.TheftThreshold {
		return fmt.Errorf("mpg.sensor_error_threshold must exceed mpg.theft_threshold")
	}

	if !(c.Theft.RatioCritical < c.Theft.RatioHigh && c.Theft.RatioHigh < c.Theft.RatioMedium) {
		return fmt.Errorf("theft efficiency ratio bands must be strictly increasing")
	}
	if c.Theft.RatioCritical <= 0 || c.Theft.RatioMedium >= 1.0 {
		return fmt.Errorf("theft efficiency ratio bands must lie inside (0, 1)")
	}
	if c.Theft.FuelPricePerGallon <= 0 {
		return fmt.Errorf("theft.fuel_price_per_gallon must be positive")
	}

	if c.Idle.MinDuration <= 0 {
		return fmt.Errorf("idle.min_duration must be positive")
	}
	if c.Idle.FuelWasteRatePerHour < 0 || c.Idle.OperationalRatePerHour < 0 {
		return fmt.Errorf("idle cost rates must not be negative")
	}

	if c.Odometer.ContextPoints < 1 {
		return fmt.Errorf("odometer.context_points must be at least 1")
	}
	if c.Odometer.MinContextPoints < 1 {
		return fmt.Errorf("odometer.min_context_points must be at least 1")
	}
	if len(c.Odometer.MovingAverageWindows) == 0 {
		return fmt.Errorf("odometer.moving_average_windows must contain at least one window")
	}

	if c.Speed.MaxReasonable <= 0 {
		return fmt.Errorf("speed.max_reasonable must be positive")
	}

	if !(c.Utilization.GradeFair < c.Utilization.GradeGood && c.Utilization.GradeGood < c.Utilization.GradeExcellent) {
		return fmt.Errorf("utilization grade thresholds must be strictly increasing")
	}

	if c.Export.OutputDir == "" {
		return fmt.Errorf("export.output_dir is required")
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
