package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced to users but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding.
//
// Path is the dotted YAML path of the offending field (e.g. "offers.db_kind").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be returned as an error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

var storageKinds = map[string]bool{"sqlite": true, "postgres": true, "mssql": true}

// Validate performs static checks over the resolved configuration for the
// named pipelines ("offers", "schedule", "weather"); shared settings are
// always checked. It never mutates c.
func (c Config) Validate(pipelines ...string) []Issue {
	var issues []Issue

	if c.BatchSize <= 0 {
		issues = append(issues, errIssue("batch_size", "must be > 0, got %d", c.BatchSize))
	}
	issues = append(issues, c.Metrics.validate()...)
	if c.RunLog.DSN != "" && !storageKinds[c.RunLog.Kind] {
		issues = append(issues, errIssue("runlog.kind", "unsupported storage kind %q", c.RunLog.Kind))
	}

	for _, p := range pipelines {
		switch p {
		case "offers":
			issues = append(issues, c.Offers.validate()...)
		case "schedule":
			issues = append(issues, c.Schedule.validate()...)
		case "weather":
			issues = append(issues, c.Weather.validate()...)
		default:
			issues = append(issues, errIssue("pipeline", "unknown pipeline %q", p))
		}
	}
	return issues
}

func (m MetricsConfig) validate() []Issue {
	switch strings.ToLower(m.Backend) {
	case "", "none":
		return nil
	case "pushgateway", "prom", "prometheus":
		if strings.TrimSpace(m.PushgatewayURL) == "" {
			return []Issue{errIssue("metrics.pushgateway_url", "required when metrics.backend=%s", m.Backend)}
		}
	case "datadog", "dd":
		if strings.TrimSpace(m.DatadogAddr) == "" {
			return []Issue{errIssue("metrics.datadog_addr", "required when metrics.backend=%s", m.Backend)}
		}
	default:
		return []Issue{errIssue("metrics.backend", "unknown backend %q (want none, pushgateway or datadog)", m.Backend)}
	}
	return nil
}

func (o OffersConfig) validate() []Issue {
	var issues []Issue
	issues = append(issues, required("offers.input", o.Input)...)
	issues = append(issues, required("offers.snapshot", o.Snapshot)...)
	issues = append(issues, required("offers.dsn", o.DSN)...)
	issues = append(issues, required("offers.table", o.Table)...)
	issues = append(issues, required("offers.export", o.Export)...)
	if !storageKinds[o.DBKind] {
		issues = append(issues, errIssue("offers.db_kind", "unsupported storage kind %q", o.DBKind))
	}
	if o.DBKind != "sqlite" && o.Table != "" && !strings.Contains(o.Table, ".") {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "offers.table",
			Message:  fmt.Sprintf("table %q is not schema-qualified; the server default schema will be used", o.Table),
		})
	}
	return issues
}

func (s ScheduleConfig) validate() []Issue {
	var issues []Issue
	issues = append(issues, required("schedule.master_xlsx", s.MasterXLSX)...)
	issues = append(issues, required("schedule.ddec_csv", s.DDECCSV)...)
	issues = append(issues, required("schedule.output", s.Output)...)
	if len(s.PlantTypes) == 0 {
		issues = append(issues, errIssue("schedule.plant_types", "at least one plant type is required"))
	}
	if strings.TrimSpace(s.AgentFilter) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "schedule.agent_filter",
			Message:  "empty agent filter keeps every agent",
		})
	}
	return issues
}

func (w WeatherConfig) validate() []Issue {
	var issues []Issue
	issues = append(issues, required("weather.db_path", w.DBPath)...)
	issues = append(issues, required("weather.export_dir", w.ExportDir)...)
	if w.Records <= 0 {
		issues = append(issues, errIssue("weather.records", "must be > 0, got %d", w.Records))
	}
	return issues
}

func required(path, v string) []Issue {
	if strings.TrimSpace(v) == "" {
		return []Issue{errIssue(path, "must not be empty")}
	}
	return nil
}

func errIssue(path, format string, args ...any) Issue {
	return Issue{Severity: SeverityError, Path: path, Message: fmt.Sprintf(format, args...)}
}
