// Package config centralizes process configuration for energyetl. All
// tunables live outside the code and resolve in this order (later wins):
//
//  1. compiled defaults (Defaults)
//  2. an optional YAML file (--config / ETL_CONFIG)
//  3. environment variables, including an optional .env file (--env-file)
//  4. flags explicitly set on the command line
//
// For tests, prefer LoadFromArgs to keep them hermetic:
//
//	fs := flag.NewFlagSet("test", flag.ContinueOnError)
//	getenv := func(k string) string { return testEnv[k] }
//	cfg, err := config.LoadFromArgs(fs, getenv, []string{"--batch-size=50"})
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all process configuration. It is a plain value so it can be
// copied and shared read-only across goroutines after Resolve.
type Config struct {
	ConfigFile string `yaml:"-"`
	EnvFile    string `yaml:"-"`

	LogFile   string        `yaml:"log_file"`
	BatchSize int           `yaml:"batch_size"`
	Metrics   MetricsConfig `yaml:"metrics"`
	RunLog    RunLogConfig  `yaml:"runlog"`

	Offers   OffersConfig   `yaml:"offers"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Weather  WeatherConfig  `yaml:"weather"`
}

// MetricsConfig selects and configures the metrics backend.
type MetricsConfig struct {
	Backend        string `yaml:"backend"` // none | pushgateway | datadog
	PushgatewayURL string `yaml:"pushgateway_url"`
	DatadogAddr    string `yaml:"datadog_addr"`
}

// RunLogConfig points at the run ledger store. An empty DSN disables it.
type RunLogConfig struct {
	Kind string `yaml:"kind"`
	DSN  string `yaml:"dsn"`
}

// OffersConfig drives the offers pipeline.
type OffersConfig struct {
	Input    string `yaml:"input"`
	Snapshot string `yaml:"snapshot"`
	DBKind   string `yaml:"db_kind"`
	DSN      string `yaml:"dsn"`
	Table    string `yaml:"table"`
	Export   string `yaml:"export"`
}

// ScheduleConfig drives the schedule pipeline.
type ScheduleConfig struct {
	MasterXLSX  string   `yaml:"master_xlsx"`
	MasterSheet string   `yaml:"master_sheet"`
	DDECCSV     string   `yaml:"ddec_csv"`
	Output      string   `yaml:"output"`
	XLSXReport  string   `yaml:"xlsx_report"`
	PDFReport   string   `yaml:"pdf_report"`
	AgentFilter string   `yaml:"agent_filter"`
	PlantTypes  []string `yaml:"plant_types"`
}

// WeatherConfig drives the weather pipeline.
type WeatherConfig struct {
	DBPath    string `yaml:"db_path"`
	ExportDir string `yaml:"export_dir"`
	Records   int    `yaml:"records"`
	Seed      int64  `yaml:"seed"` // 0 picks a random seed
}

// Defaults returns the compiled defaults. Relative paths match the layout
// the pipelines were first run from (a scripts/ directory next to raw_data/).
func Defaults() Config {
	return Config{
		EnvFile:   ".env",
		LogFile:   "../logs/energyetl.log",
		BatchSize: 500,
		Metrics:   MetricsConfig{Backend: "none"},
		RunLog:    RunLogConfig{Kind: "sqlite", DSN: "../database/etl_runs.db"},
		Offers: OffersConfig{
			Input:    "../raw_data/OFEI1204.txt",
			Snapshot: "../processed_data/punto_1_data.parquet",
			DBKind:   "sqlite",
			DSN:      "../database/ofertas.db",
			Table:    "ofertas",
			Export:   "../processed_data/ofertas_table.csv",
		},
		Schedule: ScheduleConfig{
			MasterXLSX:  "../raw_data/Datos Maestros VF.xlsx",
			DDECCSV:     "../raw_data/dDEC1204.txt",
			Output:      "../processed_data/filtered_results.csv",
			AgentFilter: "EMGESA",
			PlantTypes:  []string{"H", "T"},
		},
		Weather: WeatherConfig{
			DBPath:    "../database/weather_data.db",
			ExportDir: "../database_data",
			Records:   200,
		},
	}
}

// field binds one flag and one environment variable to a Config field.
type field struct {
	flag  string
	env   string
	usage string
	ptr   func(*Config) any
}

var fields = []field{
	{"config", "ETL_CONFIG", "YAML config file overlaid on the defaults", func(c *Config) any { return &c.ConfigFile }},
	{"env-file", "ETL_ENV_FILE", ".env file with environment overrides", func(c *Config) any { return &c.EnvFile }},
	{"log-file", "ETL_LOG_FILE", "append-mode log file (empty logs to stderr only)", func(c *Config) any { return &c.LogFile }},
	{"batch-size", "BATCH_SIZE", "rows per loader batch", func(c *Config) any { return &c.BatchSize }},
	{"metrics-backend", "METRICS_BACKEND", "metrics backend: none, pushgateway, datadog", func(c *Config) any { return &c.Metrics.Backend }},
	{"pushgateway-url", "PUSHGATEWAY_URL", "Prometheus Pushgateway base URL", func(c *Config) any { return &c.Metrics.PushgatewayURL }},
	{"datadog-addr", "DD_AGENT_ADDR", "DogStatsD address", func(c *Config) any { return &c.Metrics.DatadogAddr }},
	{"runlog-kind", "RUNLOG_KIND", "storage kind of the run ledger", func(c *Config) any { return &c.RunLog.Kind }},
	{"runlog-dsn", "RUNLOG_DSN", "DSN of the run ledger (empty disables it)", func(c *Config) any { return &c.RunLog.DSN }},

	{"offers-input", "OFFERS_INPUT", "OFEI offers text file", func(c *Config) any { return &c.Offers.Input }},
	{"offers-snapshot", "OFFERS_SNAPSHOT", "Parquet snapshot path", func(c *Config) any { return &c.Offers.Snapshot }},
	{"offers-db-kind", "OFFERS_DB_KIND", "storage kind: sqlite, postgres, mssql", func(c *Config) any { return &c.Offers.DBKind }},
	{"offers-dsn", "OFFERS_DSN", "offers database DSN", func(c *Config) any { return &c.Offers.DSN }},
	{"offers-table", "OFFERS_TABLE", "offers table name", func(c *Config) any { return &c.Offers.Table }},
	{"offers-export", "OFFERS_EXPORT", "CSV export of the offers table", func(c *Config) any { return &c.Offers.Export }},

	{"master-xlsx", "MASTER_XLSX", "master data workbook", func(c *Config) any { return &c.Schedule.MasterXLSX }},
	{"master-sheet", "MASTER_SHEET", "master data sheet (default: first sheet)", func(c *Config) any { return &c.Schedule.MasterSheet }},
	{"ddec-csv", "DDEC_CSV", "headerless dDEC schedule file", func(c *Config) any { return &c.Schedule.DDECCSV }},
	{"schedule-output", "SCHEDULE_OUTPUT", "filtered schedule CSV", func(c *Config) any { return &c.Schedule.Output }},
	{"schedule-xlsx", "SCHEDULE_XLSX", "optional XLSX report of the filtered schedule", func(c *Config) any { return &c.Schedule.XLSXReport }},
	{"schedule-pdf", "SCHEDULE_PDF", "optional PDF report of the filtered schedule", func(c *Config) any { return &c.Schedule.PDFReport }},
	{"agent-filter", "AGENT_FILTER", "substring the agent name must contain", func(c *Config) any { return &c.Schedule.AgentFilter }},
	{"plant-types", "PLANT_TYPES", "comma-separated allowed plant types", func(c *Config) any { return &c.Schedule.PlantTypes }},

	{"weather-db", "WEATHER_DB", "weather SQLite database", func(c *Config) any { return &c.Weather.DBPath }},
	{"weather-export-dir", "WEATHER_EXPORT_DIR", "directory for weather CSV exports", func(c *Config) any { return &c.Weather.ExportDir }},
	{"weather-records", "WEATHER_RECORDS", "synthetic observations to generate", func(c *Config) any { return &c.Weather.Records }},
	{"weather-seed", "WEATHER_SEED", "generator seed (0 = random)", func(c *Config) any { return &c.Weather.Seed }},
}

// Register defines every flag on fs, bound to cfg and defaulting to cfg's
// current values so -help shows the effective defaults.
func Register(fs *flag.FlagSet, cfg *Config) {
	for _, f := range fields {
		switch p := f.ptr(cfg).(type) {
		case *string:
			fs.StringVar(p, f.flag, *p, f.usage+" [$"+f.env+"]")
		case *int:
			fs.IntVar(p, f.flag, *p, f.usage+" [$"+f.env+"]")
		case *int64:
			fs.Int64Var(p, f.flag, *p, f.usage+" [$"+f.env+"]")
		case *[]string:
			fs.Var((*listValue)(p), f.flag, f.usage+" [$"+f.env+"]")
		}
	}
}

// LoadFromArgs registers the flags on fs, parses args and resolves the
// layered configuration. It is the hermetic entry point used by tests.
func LoadFromArgs(fs *flag.FlagSet, getenv func(string) string, args []string) (*Config, error) {
	scratch := Defaults()
	Register(fs, &scratch)
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	explicit := map[string]string{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = f.Value.String() })
	return Resolve(explicit, getenv)
}

// Resolve layers defaults, the YAML file, the environment (process env first,
// then the .env file) and the explicitly set flags. explicit maps flag names
// to their raw command-line values.
func Resolve(explicit map[string]string, getenv func(string) string) (*Config, error) {
	cfg := Defaults()

	cfgPath := firstNonEmpty(explicit["config"], getenv("ETL_CONFIG"))
	if cfgPath != "" {
		if err := overlayYAML(&cfg, cfgPath); err != nil {
			return nil, err
		}
		cfg.ConfigFile = cfgPath
	}

	envPath := firstNonEmpty(explicit["env-file"], getenv("ETL_ENV_FILE"))
	required := envPath != ""
	if envPath == "" {
		envPath = cfg.EnvFile
	}
	fileEnv, err := readEnvFile(envPath, required)
	if err != nil {
		return nil, err
	}
	cfg.EnvFile = envPath

	lookup := func(k string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return fileEnv[k]
	}

	for _, f := range fields {
		if f.flag == "config" || f.flag == "env-file" {
			continue
		}
		if v := lookup(f.env); v != "" {
			if err := set(&cfg, f, v); err != nil {
				return nil, fmt.Errorf("env %s: %w", f.env, err)
			}
		}
	}
	for _, f := range fields {
		v, ok := explicit[f.flag]
		if !ok {
			continue
		}
		if err := set(&cfg, f, v); err != nil {
			return nil, fmt.Errorf("flag --%s: %w", f.flag, err)
		}
	}
	return &cfg, nil
}

func overlayYAML(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

// readEnvFile parses a .env file without touching the process environment.
// A missing file is only an error when the path was asked for explicitly.
func readEnvFile(path string, required bool) (map[string]string, error) {
	m, err := godotenv.Read(path)
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return m, nil
}

func set(cfg *Config, f field, raw string) error {
	switch p := f.ptr(cfg).(type) {
	case *string:
		*p = raw
	case *int:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid integer %q", raw)
		}
		*p = n
	case *int64:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer %q", raw)
		}
		*p = n
	case *[]string:
		*p = splitList(raw)
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// listValue is a flag.Value for comma-separated lists.
type listValue []string

func (l *listValue) String() string {
	if l == nil {
		return ""
	}
	return strings.Join(*l, ",")
}

func (l *listValue) Set(s string) error {
	*l = splitList(s)
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
