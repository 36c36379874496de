package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func paths(issues []Issue) map[string]IssueSeverity {
	out := map[string]IssueSeverity{}
	for _, iss := range issues {
		out[iss.Path] = iss.Severity
	}
	return out
}

func TestValidate_DefaultsAreClean(t *testing.T) {
	t.Parallel()

	issues := Defaults().Validate("offers", "schedule", "weather")
	assert.Empty(t, issues)
	assert.False(t, HasErrors(issues))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(c *Config)
		pipelines []string
		wantPath  string
		wantSev   IssueSeverity
	}{
		{"batch size", func(c *Config) { c.BatchSize = 0 }, nil, "batch_size", SeverityError},
		{"unknown metrics backend", func(c *Config) { c.Metrics.Backend = "graphite" }, nil, "metrics.backend", SeverityError},
		{"pushgateway without url", func(c *Config) { c.Metrics.Backend = "pushgateway" }, nil, "metrics.pushgateway_url", SeverityError},
		{"datadog without addr", func(c *Config) { c.Metrics.Backend = "datadog" }, nil, "metrics.datadog_addr", SeverityError},
		{"runlog kind", func(c *Config) { c.RunLog.Kind = "mysql" }, nil, "runlog.kind", SeverityError},
		{"offers kind", func(c *Config) { c.Offers.DBKind = "oracle" }, []string{"offers"}, "offers.db_kind", SeverityError},
		{"offers unqualified table", func(c *Config) { c.Offers.DBKind = "postgres" }, []string{"offers"}, "offers.table", SeverityWarning},
		{"offers input", func(c *Config) { c.Offers.Input = " " }, []string{"offers"}, "offers.input", SeverityError},
		{"no plant types", func(c *Config) { c.Schedule.PlantTypes = nil }, []string{"schedule"}, "schedule.plant_types", SeverityError},
		{"empty agent filter", func(c *Config) { c.Schedule.AgentFilter = "" }, []string{"schedule"}, "schedule.agent_filter", SeverityWarning},
		{"weather records", func(c *Config) { c.Weather.Records = -1 }, []string{"weather"}, "weather.records", SeverityError},
		{"unknown pipeline", func(c *Config) {}, []string{"forecast"}, "pipeline", SeverityError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := Defaults()
			tt.mutate(&c)
			got := paths(c.Validate(tt.pipelines...))
			assert.Equal(t, tt.wantSev, got[tt.wantPath], "issues: %v", got)
		})
	}
}

func TestIssueError(t *testing.T) {
	t.Parallel()

	iss := Issue{Severity: SeverityError, Path: "offers.dsn", Message: "must not be empty"}
	assert.Equal(t, "error at offers.dsn: must not be empty", iss.Error())
}
