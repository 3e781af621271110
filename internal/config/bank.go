package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/banshee-data/hexbank/internal/bank"
	"github.com/banshee-data/hexbank/internal/bank/geometry"
	"github.com/banshee-data/hexbank/internal/metric"
	"github.com/banshee-data/hexbank/internal/units"
)

// DefaultConfigPath is the path to the canonical bank defaults file.
// This is the single source of truth for all default bank parameters.
const DefaultConfigPath = "config/bank.defaults.json"

// Metric provider kinds.
const (
	MetricConstant = "constant"
	MetricTensor   = "tensor"
)

// BankConfig is the file form of a bank construction. Pointer fields are
// optional; the Get* methods supply defaults for omitted ones.
type BankConfig struct {
	MinimumMismatch *float64 `json:"minimum_mismatch,omitempty" yaml:"minimum_mismatch,omitempty"`
	FLower          *float64 `json:"f_lower,omitempty" yaml:"f_lower,omitempty"`

	// Component and total mass ranges in solar masses.
	MassMin      *float64 `json:"mass_min,omitempty" yaml:"mass_min,omitempty"`
	MassMax      *float64 `json:"mass_max,omitempty" yaml:"mass_max,omitempty"`
	TotalMassMin *float64 `json:"total_mass_min,omitempty" yaml:"total_mass_min,omitempty"`
	TotalMassMax *float64 `json:"total_mass_max,omitempty" yaml:"total_mass_max,omitempty"`
	EtaMin       *float64 `json:"eta_min,omitempty" yaml:"eta_min,omitempty"`

	// Box overrides the search box derived from the mass range.
	Box *BoxConfig `json:"box,omitempty" yaml:"box,omitempty"`

	// Placement tuning
	DedupeRadius *float64 `json:"dedupe_radius,omitempty" yaml:"dedupe_radius,omitempty"`
	Tolerance    *float64 `json:"tolerance,omitempty" yaml:"tolerance,omitempty"`
	MaxPasses    *int     `json:"max_passes,omitempty" yaml:"max_passes,omitempty"`
	MaxCells     *int     `json:"max_cells,omitempty" yaml:"max_cells,omitempty"`

	// MassUnits selects the units masses are written in.
	MassUnits *string `json:"mass_units,omitempty" yaml:"mass_units,omitempty"`

	Metric *MetricConfig `json:"metric,omitempty" yaml:"metric,omitempty"`
}

// BoxConfig is a search box in seconds.
type BoxConfig struct {
	T0Min float64 `json:"t0_min" yaml:"t0_min"`
	T0Max float64 `json:"t0_max" yaml:"t0_max"`
	T3Min float64 `json:"t3_min" yaml:"t3_min"`
	T3Max float64 `json:"t3_max" yaml:"t3_max"`
}

// MetricConfig selects the metric provider. A constant provider takes the
// unit-mismatch ellipse directly (A, B in seconds, Theta in radians); a
// tensor provider takes the metric components.
type MetricConfig struct {
	Kind  string  `json:"kind" yaml:"kind"`
	A     float64 `json:"a,omitempty" yaml:"a,omitempty"`
	B     float64 `json:"b,omitempty" yaml:"b,omitempty"`
	Theta float64 `json:"theta,omitempty" yaml:"theta,omitempty"`
	G00   float64 `json:"g00,omitempty" yaml:"g00,omitempty"`
	G01   float64 `json:"g01,omitempty" yaml:"g01,omitempty"`
	G11   float64 `json:"g11,omitempty" yaml:"g11,omitempty"`
}

// EmptyBankConfig returns a BankConfig with all fields set to nil.
// Use LoadBankConfig to load actual values from the defaults file.
func EmptyBankConfig() *BankConfig {
	return &BankConfig{}
}

// LoadBankConfig loads a BankConfig from a JSON or YAML file, chosen by
// extension. Fields omitted from the file keep their defaults, so partial
// configs are safe.
func LoadBankConfig(path string) (*BankConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := filepath.Ext(cleanPath)
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyBankConfig()
	if ext == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical bank defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *BankConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // from internal/bank/cells/
	}
	for _, path := range candidates {
		if cfg, err := LoadBankConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks the values that are set. Cross-field checks on the
// resulting bank parameters are left to bank.GridParam.Validate.
func (c *BankConfig) Validate() error {
	if c.MinimumMismatch != nil && (*c.MinimumMismatch <= 0 || *c.MinimumMismatch >= 1) {
		return fmt.Errorf("minimum_mismatch must be between 0 and 1, got %f", *c.MinimumMismatch)
	}
	if c.FLower != nil && *c.FLower <= 0 {
		return fmt.Errorf("f_lower must be positive, got %f", *c.FLower)
	}
	if c.MassMin != nil && *c.MassMin <= 0 {
		return fmt.Errorf("mass_min must be positive, got %f", *c.MassMin)
	}
	if c.MassMin != nil && c.MassMax != nil && *c.MassMax <= *c.MassMin {
		return fmt.Errorf("mass_max (%f) must exceed mass_min (%f)", *c.MassMax, *c.MassMin)
	}
	if c.EtaMin != nil && (*c.EtaMin < 0 || *c.EtaMin > 0.25) {
		return fmt.Errorf("eta_min must be between 0 and 0.25, got %f", *c.EtaMin)
	}
	if c.MaxPasses != nil && *c.MaxPasses < 0 {
		return fmt.Errorf("max_passes must be non-negative, got %d", *c.MaxPasses)
	}
	if c.MaxCells != nil && *c.MaxCells < 0 {
		return fmt.Errorf("max_cells must be non-negative, got %d", *c.MaxCells)
	}
	if c.MassUnits != nil && !units.IsValid(*c.MassUnits) {
		return fmt.Errorf("mass_units must be one of %s, got %q", units.GetValidUnitsString(), *c.MassUnits)
	}
	if c.Metric != nil && c.Metric.Kind != MetricConstant && c.Metric.Kind != MetricTensor {
		return fmt.Errorf("metric kind must be %q or %q, got %q", MetricConstant, MetricTensor, c.Metric.Kind)
	}
	return nil
}

// GetMinimumMismatch returns the minimum_mismatch value or the default.
func (c *BankConfig) GetMinimumMismatch() float64 {
	if c.MinimumMismatch == nil {
		return 0.03
	}
	return *c.MinimumMismatch
}

// GetFLower returns the f_lower value or the default.
func (c *BankConfig) GetFLower() float64 {
	if c.FLower == nil {
		return 40
	}
	return *c.FLower
}

// GetMassMin returns the mass_min value or the default.
func (c *BankConfig) GetMassMin() float64 {
	if c.MassMin == nil {
		return 1
	}
	return *c.MassMin
}

// GetMassMax returns the mass_max value or the default.
func (c *BankConfig) GetMassMax() float64 {
	if c.MassMax == nil {
		return 20
	}
	return *c.MassMax
}

// GetTotalMassMin returns the total_mass_min value, defaulting to twice mass_min.
func (c *BankConfig) GetTotalMassMin() float64 {
	if c.TotalMassMin == nil {
		return 2 * c.GetMassMin()
	}
	return *c.TotalMassMin
}

// GetTotalMassMax returns the total_mass_max value, defaulting to twice mass_max.
func (c *BankConfig) GetTotalMassMax() float64 {
	if c.TotalMassMax == nil {
		return 2 * c.GetMassMax()
	}
	return *c.TotalMassMax
}

// GetEtaMin returns the eta_min value or the default (disabled).
func (c *BankConfig) GetEtaMin() float64 {
	if c.EtaMin == nil {
		return 0
	}
	return *c.EtaMin
}

// GetDedupeRadius returns the dedupe_radius value or the default.
func (c *BankConfig) GetDedupeRadius() float64 {
	if c.DedupeRadius == nil {
		return bank.DefaultDedupeRadius
	}
	return *c.DedupeRadius
}

// GetTolerance returns the tolerance value or the default.
func (c *BankConfig) GetTolerance() float64 {
	if c.Tolerance == nil {
		return bank.DefaultTolerance
	}
	return *c.Tolerance
}

// GetMaxPasses returns the max_passes value or the default (derived).
func (c *BankConfig) GetMaxPasses() int {
	if c.MaxPasses == nil {
		return 0
	}
	return *c.MaxPasses
}

// GetMaxCells returns the max_cells value or the default (unlimited).
func (c *BankConfig) GetMaxCells() int {
	if c.MaxCells == nil {
		return 0
	}
	return *c.MaxCells
}

// GetMassUnits returns the mass_units value or the default.
func (c *BankConfig) GetMassUnits() string {
	if c.MassUnits == nil {
		return units.MSun
	}
	return *c.MassUnits
}

// GridParam converts the configuration into bank parameters.
func (c *BankConfig) GridParam() bank.GridParam {
	gp := bank.GridParam{
		MinimumMismatch: c.GetMinimumMismatch(),
		FLower:          c.GetFLower(),
		MassMin:         c.GetMassMin(),
		MassMax:         c.GetMassMax(),
		TotalMin:        c.GetTotalMassMin(),
		TotalMax:        c.GetTotalMassMax(),
		EtaMin:          c.GetEtaMin(),
		DedupeRadius:    c.GetDedupeRadius(),
		Tolerance:       c.GetTolerance(),
		MaxPasses:       c.GetMaxPasses(),
		MaxCells:        c.GetMaxCells(),
	}
	if c.Box != nil {
		gp.Box = geometry.Box{T0Min: c.Box.T0Min, T0Max: c.Box.T0Max, T3Min: c.Box.T3Min, T3Max: c.Box.T3Max}
	}
	return gp
}

// Provider builds the configured metric provider. Without a metric section
// the default constant ellipse is used.
func (c *BankConfig) Provider() (metric.Provider, error) {
	m := c.Metric
	if m == nil {
		m = defaultMetric()
	}
	switch m.Kind {
	case MetricConstant:
		e := metric.Ellipse{A: m.A, B: m.B, Theta: m.Theta}
		if err := e.Validate(); err != nil {
			return nil, err
		}
		return metric.Constant{Ellipse: e}, nil
	case MetricTensor:
		t, err := metric.NewTensor(m.G00, m.G01, m.G11)
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, fmt.Errorf("unknown metric kind %q", m.Kind)
	}
}

// defaultMetric is a nearly vertical ellipse matching config/bank.defaults.json.
func defaultMetric() *MetricConfig {
	return &MetricConfig{
		Kind:  MetricConstant,
		A:     0.4618802153517006,
		B:     0.11547005383792516,
		Theta: 1.4707963267948966,
	}
}
