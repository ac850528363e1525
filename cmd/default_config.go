package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/warehouse-sim/warehouse-sim/sim"
	"github.com/warehouse-sim/warehouse-sim/sim/floorplan"
)

// Defaults represents the full defaults.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Defaults struct {
	Version    string                    `yaml:"version"`
	Simulation sim.Config                `yaml:"simulation"`
	Layouts    map[string]floorplan.File `yaml:"layouts"`
}

// loadDefaults parses a defaults file over sim.DefaultConfig. A missing file
// is not an error unless required is set.
func loadDefaults(path string, required bool) (Defaults, error) {
	d := Defaults{Simulation: sim.DefaultConfig()}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		logrus.Debugf("defaults file %s not found, using built-in defaults", path)
		return d, nil
	}
	if err != nil {
		return d, fmt.Errorf("reading defaults file: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&d); err != nil {
		return d, fmt.Errorf("parsing defaults file %s: %w", path, err)
	}
	return d, nil
}

// LayoutNames lists the named layouts, sorted.
func (d Defaults) LayoutNames() []string {
	names := make([]string, 0, len(d.Layouts))
	for name := range d.Layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Layout returns a named layout. The empty name and floorplan.BuiltinName
// resolve to the built-in depot unless the defaults file defines that name.
func (d Defaults) Layout(name string) (*sim.Layout, error) {
	if f, ok := d.Layouts[name]; ok {
		if f.Name == "" {
			f.Name = name
		}
		return f.Layout()
	}
	if name == "" || name == floorplan.BuiltinName {
		return floorplan.Builtin(), nil
	}
	return nil, fmt.Errorf("unknown layout %q; valid: %v", name, d.LayoutNames())
}

// settings bundles what every subcommand resolves from flags and files.
type settings struct {
	Config sim.Config
	Layout *sim.Layout
	Key    sim.SimulationKey
}

// resolveSettings reads the persistent flags (or their WAREHOUSE_SIM_* env
// equivalents) and loads config and layout.
func resolveSettings() (settings, error) {
	var st settings
	defaultsPath := viper.GetString("defaults")
	d, err := loadDefaults(defaultsPath, rootCmd.PersistentFlags().Changed("defaults"))
	if err != nil {
		return st, err
	}

	st.Config = d.Simulation
	if path := viper.GetString("config"); path != "" {
		if st.Config, err = sim.LoadConfig(path); err != nil {
			return st, err
		}
	}
	if err := st.Config.Validate(); err != nil {
		return st, fmt.Errorf("invalid simulation config: %w", err)
	}

	st.Key = sim.NewSimulationKey(viper.GetInt64("seed"))
	if path := viper.GetString("floorplan"); path != "" {
		st.Layout, _, err = floorplan.Load(path)
	} else {
		st.Layout, err = d.Layout(viper.GetString("layout"))
	}
	if err != nil {
		return st, err
	}

	if viper.GetBool("fill-inventory") {
		rng := sim.NewPartitionedRNG(st.Key).ForSubsystem(sim.SubsystemInventory)
		if st.Layout, err = sim.GenerateInventory(rng, st.Layout); err != nil {
			return st, err
		}
	}
	return st, nil
}
