package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "warehouse-sim",
	Short: "Grid-based forklift simulator for warehouse picking and stocking",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(viper.GetString("log"))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", viper.GetString("log"), err)
		}
		logrus.SetLevel(level)
		return nil
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("WAREHOUSE_SIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// init sets up persistent flags and subcommands
func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	flags.Int64("seed", 42, "Seed for order generation, inventory and processing times")
	flags.String("defaults", "defaults.yaml", "Defaults file with simulation settings and named layouts")
	flags.String("config", "", "Simulation config YAML; replaces the defaults file's simulation block")
	flags.String("floorplan", "", "Floor plan YAML file; overrides --layout")
	flags.String("layout", "", "Named layout from the defaults file (empty uses the built-in depot)")
	flags.Bool("fill-inventory", true, "Stock empty shelves with generated inventory")
	flags.String("user", "local-user", "User id recorded with each session")
	flags.String("history-db", ".warehouse-sim/history.db", "SQLite file holding finished sessions")
	flags.String("nats-url", "", "Publish session notices to this NATS server")
	for _, name := range []string{"log", "seed", "defaults", "config", "floorplan", "layout", "fill-inventory", "user", "history-db", "nats-url"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(orderCmd)
	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(watchCmd)
}
