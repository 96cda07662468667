package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tradematch/journal"
	"github.com/rustyeddy/tradematch/ledger"
	"github.com/rustyeddy/tradematch/market"
	"github.com/rustyeddy/tradematch/match"
)

// Config represents the complete merge configuration
type Config struct {
	Inputs InputsConfig `json:"inputs" yaml:"inputs"`
	Output OutputConfig `json:"output" yaml:"output"`
	Match  MatchConfig  `json:"match" yaml:"match"`
	Ledger LedgerConfig `json:"ledger" yaml:"ledger"`
	Parse  ParseConfig  `json:"parse" yaml:"parse"`
	Log    LogConfig    `json:"log" yaml:"log"`
}

// InputsConfig names the two broker exports
type InputsConfig struct {
	Trades string `json:"trades" yaml:"trades"` // summary log of closed positions
	Fills  string `json:"fills" yaml:"fills"`   // detailed fill log
}

// OutputConfig controls the merged file
type OutputConfig struct {
	Path   string `json:"path" yaml:"path"`
	Format string `json:"format" yaml:"format"` // "csv" or "org"
	BOM    bool   `json:"bom" yaml:"bom"`
}

// MatchConfig contains opening fill search parameters
type MatchConfig struct {
	Window  int `json:"window" yaml:"window"`
	Workers int `json:"workers" yaml:"workers"` // 0 = one per CPU
}

// LedgerConfig selects the ledger index backend
type LedgerConfig struct {
	Backend string `json:"backend" yaml:"backend"` // "memory" or "sqlite"
}

// ParseConfig tunes how the exports are read
type ParseConfig struct {
	Timezone     string              `json:"timezone" yaml:"timezone"`
	TimeLayouts  []string            `json:"time_layouts,omitempty" yaml:"time_layouts,omitempty"`
	TradeAliases map[string][]string `json:"trade_aliases,omitempty" yaml:"trade_aliases,omitempty"`
	FillAliases  map[string][]string `json:"fill_aliases,omitempty" yaml:"fill_aliases,omitempty"`
}

// LogConfig contains logger settings
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // "console" or "json"
}

// Location resolves Parse.Timezone.
func (p ParseConfig) Location() (*time.Location, error) {
	if p.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(p.Timezone)
}

// TimeParser builds the parser for execution timestamps.
func (p ParseConfig) TimeParser() (*market.TimeParser, error) {
	loc, err := p.Location()
	if err != nil {
		return nil, fmt.Errorf("parse.timezone: %w", err)
	}
	return market.NewTimeParser(loc, p.TimeLayouts...), nil
}

// LoadFromFile loads configuration from a file (JSON or YAML)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// missing keys keep their defaults
	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML for .yaml/.yml, JSON otherwise)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Environment variables read by ApplyEnv.
const (
	EnvWindow   = "TRADEMATCH_WINDOW"
	EnvWorkers  = "TRADEMATCH_WORKERS"
	EnvLedger   = "TRADEMATCH_LEDGER"
	EnvLogLevel = "TRADEMATCH_LOG_LEVEL"
)

// ApplyEnv loads envFile when it exists (a missing file is fine) and then
// overrides settings from TRADEMATCH_* variables. Malformed numbers are
// reported, not ignored.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if v := os.Getenv(EnvWindow); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWindow, err)
		}
		c.Match.Window = n
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		c.Match.Workers = n
	}
	if v := os.Getenv(EnvLedger); v != "" {
		c.Ledger.Backend = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Inputs.Trades == "" {
		return fmt.Errorf("inputs.trades is required")
	}
	if c.Inputs.Fills == "" {
		return fmt.Errorf("inputs.fills is required")
	}
	if c.Output.Path == "" {
		return fmt.Errorf("output.path is required")
	}
	switch strings.ToLower(c.Output.Format) {
	case journal.FormatCSV, journal.FormatOrg:
	default:
		return fmt.Errorf("output.format must be 'csv' or 'org'")
	}
	if c.Match.Window < 1 {
		return fmt.Errorf("match.window must be at least 1")
	}
	if c.Match.Workers < 0 {
		return fmt.Errorf("match.workers must not be negative")
	}
	switch strings.ToLower(c.Ledger.Backend) {
	case ledger.BackendMemory, ledger.BackendSQLite:
	default:
		return fmt.Errorf("ledger.backend must be 'memory' or 'sqlite'")
	}
	if _, err := c.Parse.Location(); err != nil {
		return fmt.Errorf("parse.timezone: %w", err)
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Inputs: InputsConfig{
			Trades: "2021-2025 交易明细 工作表1.csv",
			Fills:  "成交紀錄 2021-2025.csv",
		},
		Output: OutputConfig{
			Path:   "合併交易紀錄.csv",
			Format: journal.FormatCSV,
			BOM:    true,
		},
		Match: MatchConfig{
			Window: match.DefaultWindow,
		},
		Ledger: LedgerConfig{
			Backend: ledger.BackendMemory,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
