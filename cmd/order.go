package cmd

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/warehouse-sim/warehouse-sim/sim"
)

var (
	orderMode string
	orderSize int // 0 uses the config round size
)

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Generate and print an order for the resolved layout",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !sim.IsValidTaskMode(orderMode) {
			return fmt.Errorf("unknown --mode %q; valid: picking, stocking", orderMode)
		}
		st, err := resolveSettings()
		if err != nil {
			return err
		}
		size := orderSize
		if size <= 0 {
			size = st.Config.RoundSize
		}
		rng := sim.NewPartitionedRNG(st.Key).ForSubsystem(sim.SubsystemOrders)
		order, err := sim.GenerateOrder(rng, st.Layout, sim.TaskMode(orderMode), size)
		if err != nil {
			return err
		}
		order.Round = 1
		printOrder(cmd.OutOrStdout(), sim.TaskMode(orderMode), order)
		return nil
	},
}

func printOrder(out io.Writer, mode sim.TaskMode, order sim.Order) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetTitle(fmt.Sprintf("%s order", mode))
	tw.AppendHeader(table.Row{"#", "ID", "Product", "Qty", "Origin", "Target"})
	for i, it := range order.Items {
		origin := "-"
		if it.Origin != nil {
			origin = it.Origin.String()
		}
		tw.AppendRow(table.Row{i + 1, it.ProductID, it.ProductName, it.Quantity, origin, it.Target.String()})
	}
	tw.Render()
}

func init() {
	orderCmd.Flags().StringVar(&orderMode, "mode", string(sim.ModePicking), "Task mode (picking, stocking)")
	orderCmd.Flags().IntVar(&orderSize, "size", 0, "Number of tasks (0 uses round_size)")
}
