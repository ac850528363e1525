package sim

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// TaskMode selects between fulfilling orders and putting stock away.
type TaskMode string

const (
	ModePicking  TaskMode = "picking"
	ModeStocking TaskMode = "stocking"
)

// PlayStyle controls whether pending tasks must be picked up in order.
type PlayStyle string

const (
	StyleGuided PlayStyle = "guided"
	StyleFree   PlayStyle = "free"
)

// PickingPipeline selects the picking lifecycle.
//   - full:    pending → carrying → processing → processed → ready-for-dispatch → completed
//   - reduced: pending → carrying → processing → completed
type PickingPipeline string

const (
	PipelineFull    PickingPipeline = "full"
	PipelineReduced PickingPipeline = "reduced"
)

var validTaskModes = map[TaskMode]bool{ModePicking: true, ModeStocking: true}

var validPlayStyles = map[PlayStyle]bool{StyleGuided: true, StyleFree: true}

var validPipelines = map[PickingPipeline]bool{PipelineFull: true, PipelineReduced: true}

// IsValidTaskMode returns true if name is "picking" or "stocking".
func IsValidTaskMode(name string) bool { return validTaskModes[TaskMode(name)] }

// IsValidPlayStyle returns true if name is "guided" or "free".
func IsValidPlayStyle(name string) bool { return validPlayStyles[PlayStyle(name)] }

// IsValidPipeline returns true if name is "full" or "reduced".
func IsValidPipeline(name string) bool { return validPipelines[PickingPipeline(name)] }

const (
	// DefaultRoundSize is the number of tasks generated per order.
	DefaultRoundSize = 5
	// DefaultTickIntervalMs is the period of the elapsed-seconds clock.
	DefaultTickIntervalMs = 1000
)

// Config groups the tunables of one simulation engine. Loadable from YAML.
type Config struct {
	RoundSize          int             `yaml:"round_size"`
	Costs              CostModel       `yaml:"costs"`
	ProcessingDelayMin int             `yaml:"processing_delay_min_seconds"` // inclusive
	ProcessingDelayMax int             `yaml:"processing_delay_max_seconds"` // inclusive
	TickIntervalMs     int64           `yaml:"tick_interval_ms"`
	Pipeline           PickingPipeline `yaml:"picking_pipeline"`
}

// DefaultConfig returns round size 5, the default cost model, 2–6 second
// processing and the full picking pipeline.
func DefaultConfig() Config {
	return Config{
		RoundSize:          DefaultRoundSize,
		Costs:              DefaultCostModel(),
		ProcessingDelayMin: 2,
		ProcessingDelayMax: 6,
		TickIntervalMs:     DefaultTickIntervalMs,
		Pipeline:           PipelineFull,
	}
}

// LoadConfig reads a YAML config file over DefaultConfig. Unknown keys are errors.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading simulation config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing simulation config: %w", err)
	}
	return cfg, nil
}

// Validate checks ranges and enum values.
func (c Config) Validate() error {
	if c.RoundSize <= 0 {
		return fmt.Errorf("round_size must be positive, got %d", c.RoundSize)
	}
	if err := validateRate("costs.move_cost", c.Costs.MoveCost); err != nil {
		return err
	}
	if err := validateRate("costs.time_cost", c.Costs.TimeCost); err != nil {
		return err
	}
	if c.ProcessingDelayMin < 0 {
		return fmt.Errorf("processing_delay_min_seconds must be non-negative, got %d", c.ProcessingDelayMin)
	}
	if c.ProcessingDelayMax < c.ProcessingDelayMin {
		return fmt.Errorf("processing_delay_max_seconds (%d) must be >= processing_delay_min_seconds (%d)",
			c.ProcessingDelayMax, c.ProcessingDelayMin)
	}
	if c.TickIntervalMs <= 0 {
		return fmt.Errorf("tick_interval_ms must be positive, got %d", c.TickIntervalMs)
	}
	if !validPipelines[c.Pipeline] {
		return fmt.Errorf("unknown picking_pipeline %q; valid: full, reduced", c.Pipeline)
	}
	return nil
}

func validateRate(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, val)
	}
	if val < 0 {
		return fmt.Errorf("%s must be non-negative, got %f", name, val)
	}
	return nil
}
