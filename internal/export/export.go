// Package export writes the analysis results to flat files under an output
// root: per-vehicle synchronized window and theft event CSVs, idle period
// CSVs, a fleet utilization summary, and a raw data JSON summary. All writes
// are atomic (temp file + rename) so a failed run never leaves a truncated
// report behind.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/ps-pro/AutoAnalytiX/internal/logger"
	"github.com/ps-pro/AutoAnalytiX/internal/models"
	"github.com/ps-pro/AutoAnalytiX/internal/quality"
	"github.com/ps-pro/AutoAnalytiX/internal/theft"
	"github.com/ps-pro/AutoAnalytiX/internal/utilization"
)

// Subdirectories under the output root.
const (
	dirSynchronized = "Synchronized_Data"
	dirTheft        = "Theft_Detection"
	dirUtilization  = "Utilization_Analysis"
	dirDataExports  = "Data_Exports"
	dirQuality      = "Quality_Reports"
	dirBeforeAfter  = "Before_After"
)

// Exporter writes analysis artifacts under a root directory and tracks every
// file it creates.
type Exporter struct {
	root            string
	filePermissions os.FileMode
	dirPermissions  os.FileMode
	created         []string
}

// New creates an exporter rooted at dir.
func New(dir string) *Exporter {
	return &Exporter{
		root:            dir,
		filePermissions: 0o644,
		dirPermissions:  0o755,
	}
}

// CreatedFiles returns the paths written so far, in creation order.
func (e *Exporter) CreatedFiles() []string {
	return e.created
}

// writeAtomic writes data to path via a temporary file and rename, creating
// parent directories as needed.
func (e *Exporter) writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), e.dirPermissions); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, e.filePermissions); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}

	e.created = append(e.created, path)
	return nil
}

// writeCSV renders rows (header first) and writes them atomically.
func (e *Exporter) writeCSV(path string, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to encode CSV: %w", err)
	}
	return e.writeAtomic(path, buf.Bytes())
}

// WriteJSON marshals v with indentation and writes it atomically.
func (e *Exporter) WriteJSON(relPath string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}
	return e.writeAtomic(filepath.Join(e.root, relPath), data)
}

// WriteText writes a plain-text artifact atomically.
func (e *Exporter) WriteText(relPath, content string) error {
	return e.writeAtomic(filepath.Join(e.root, relPath), []byte(content))
}

// WriteSynchronizedWindows writes one CSV per vehicle holding its
// synchronized windows. The file name carries the window width.
func (e *Exporter) WriteSynchronizedWindows(vehicleID string, windows []models.SynchronizedWindow, width time.Duration) error {
	rows := [][]string{{"timestamp", "fuel_level", "odometer", "speed", "fuel_readings", "odometer_readings", "speed_readings"}}
	for _, w := range windows {
		rows = append(rows, []string{
			w.Center.Format(time.RFC3339),
			optFloat(w.FuelLevel),
			optFloat(w.Odometer),
			optFloat(w.Speed),
			strconv.Itoa(w.Counts.Fuel),
			strconv.Itoa(w.Counts.Odometer),
			strconv.Itoa(w.Counts.Speed),
		})
	}

	name := fmt.Sprintf("%s_synchronized_%dmin.csv", vehicleID, int(width.Minutes()))
	return e.writeCSV(filepath.Join(e.root, dirSynchronized, name), rows)
}

// WriteTheftEvents writes one CSV per vehicle holding its theft events.
func (e *Exporter) WriteTheftEvents(vehicleID string, events []models.TheftEvent) error {
	rows := [][]string{{
		"id", "timestamp", "fuel_drop_percent", "fuel_gallons_consumed", "distance_traveled",
		"calculated_mpg", "rated_mpg", "efficiency_ratio", "threat_level",
		"investigation_priority", "estimated_theft_value", "time_window_hours",
	}}
	for _, ev := range events {
		rows = append(rows, []string{
			ev.ID,
			ev.Timestamp.Format(time.RFC3339),
			ff(ev.FuelDropPercent),
			ff(ev.FuelGallonsConsumed),
			ff(ev.DistanceTraveled),
			ff(ev.CalculatedMPG),
			ff(ev.RatedMPG),
			ff(ev.EfficiencyRatio),
			string(ev.ThreatLevel),
			strconv.Itoa(ev.InvestigationPriority),
			fmt.Sprintf("%.2f", ev.EstimatedTheftValue),
			ff(ev.TimeWindowHours),
		})
	}
	return e.writeCSV(filepath.Join(e.root, dirTheft, vehicleID+"_theft_events.csv"), rows)
}

// WriteIdlePeriods writes one CSV per vehicle holding its idle periods.
func (e *Exporter) WriteIdlePeriods(vehicleID string, periods []models.IdlePeriod) error {
	rows := [][]string{{"start_time", "end_time", "duration_minutes", "duration_hours"}}
	for _, p := range periods {
		rows = append(rows, []string{
			p.Start.Format(time.RFC3339),
			p.End.Format(time.RFC3339),
			ff(p.DurationMinutes),
			ff(p.DurationHours),
		})
	}
	return e.writeCSV(filepath.Join(e.root, dirUtilization, vehicleID+"_idle_periods.csv"), rows)
}

// WriteUtilizationSummary writes the fleet utilization summary, one row per
// analyzed vehicle in result order.
func (e *Exporter) WriteUtilizationSummary(results []utilization.VehicleResult) error {
	rows := [][]string{{
		"vehicle_id", "span_hours", "active_hours", "idle_hours",
		"utilization_percentage", "idle_percentage", "efficiency_score", "efficiency_grade",
		"idle_events", "total_idle_cost",
	}}
	for _, r := range results {
		if !r.Analyzed {
			continue
		}
		rows = append(rows, []string{
			r.VehicleID,
			ff(r.Metrics.SpanHours),
			ff(r.Metrics.ActiveHours),
			ff(r.Metrics.IdleHours),
			ff(r.Metrics.UtilizationPercent),
			ff(r.Metrics.IdlePercent),
			ff(r.Metrics.EfficiencyScore),
			r.Metrics.EfficiencyGrade,
			strconv.Itoa(r.Costs.IdleEvents),
			fmt.Sprintf("%.2f", r.Costs.TotalIdleCost),
		})
	}
	return e.writeCSV(filepath.Join(e.root, dirUtilization, "utilization_summary.csv"), rows)
}

// WriteTheftResults writes all per-vehicle theft artifacts for analyzed
// vehicles: synchronized windows and, when present, theft events.
func (e *Exporter) WriteTheftResults(results []theft.VehicleResult, width time.Duration) error {
	for _, r := range results {
		if !r.Analyzed {
			continue
		}
		if err := e.WriteSynchronizedWindows(r.VehicleID, r.Windows, width); err != nil {
			return err
		}
		if len(r.Events) > 0 {
			if err := e.WriteTheftEvents(r.VehicleID, r.Events); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteUtilizationResults writes all per-vehicle utilization artifacts plus
// the fleet summary.
func (e *Exporter) WriteUtilizationResults(results []utilization.VehicleResult) error {
	for _, r := range results {
		if !r.Analyzed || len(r.Periods) == 0 {
			continue
		}
		if err := e.WriteIdlePeriods(r.VehicleID, r.Periods); err != nil {
			return err
		}
	}
	return e.WriteUtilizationSummary(results)
}

// cleaningReport is the JSON document written per vehicle after the data
// quality pass: before/after record counts overall and per meter, the
// inspection findings, and a coarse assessment of how much the cleaning
// changed the data.
type cleaningReport struct {
	VehicleID             string                             `json:"vehicle_id"`
	CleaningTimestamp     string                             `json:"cleaning_timestamp"`
	OverallSummary        quality.CleaningSummary            `json:"overall_summary"`
	MeterSpecificCleaning map[string]quality.CleaningSummary `json:"meter_specific_cleaning"`
	Findings              cleaningFindings                   `json:"findings"`
	DataQualityImpact     dataQualityImpact                  `json:"data_quality_impact"`
}

type cleaningFindings struct {
	Fuel     quality.FuelFindings     `json:"fuel"`
	Speed    quality.SpeedFindings    `json:"speed"`
	Odometer quality.OdometerFindings `json:"odometer"`
}

type dataQualityImpact struct {
	SignificantCleaningRequired bool   `json:"significant_cleaning_required"`
	DataReliability             string `json:"data_reliability"`
}

// WriteQualityReports writes one before/after cleaning report per vehicle,
// in lexical vehicle-ID order.
func (e *Exporter) WriteQualityReports(reports map[string]quality.VehicleReport, now time.Time) error {
	ids := make([]string, 0, len(reports))
	for id := range reports {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		r := reports[id]
		overall := r.Overall()

		doc := cleaningReport{
			VehicleID:         id,
			CleaningTimestamp: now.Format(time.RFC3339),
			OverallSummary:    overall,
			MeterSpecificCleaning: map[string]quality.CleaningSummary{
				"fuel":     r.Fuel,
				"speed":    r.Speed,
				"odometer": r.Odometer,
			},
			Findings: cleaningFindings{
				Fuel:     r.FuelFindings,
				Speed:    r.SpeedFindings,
				Odometer: r.OdometerFindings,
			},
			DataQualityImpact: dataQualityImpact{
				SignificantCleaningRequired: float64(overall.Removed) > 0.05*float64(overall.InitialRecords),
				DataReliability:             reliability(overall),
			},
		}

		path := filepath.Join(e.root, dirQuality, dirBeforeAfter, id+"_cleaning_report.json")
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal cleaning report: %w", err)
		}
		if err := e.writeAtomic(path, data); err != nil {
			return err
		}
	}
	return nil
}

// reliability grades the cleaned series: HIGH when more than 90% of the raw
// records survived, MEDIUM otherwise.
func reliability(overall quality.CleaningSummary) string {
	if float64(overall.FinalRecords) > 0.90*float64(overall.InitialRecords) {
		return "HIGH"
	}
	return "MEDIUM"
}

// LogCreatedFiles reports how many artifacts the run produced.
func (e *Exporter) LogCreatedFiles() {
	logger.Info("Export complete: %d files written under %s", len(e.created), e.root)
}

func ff(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return ff(*v)
}
