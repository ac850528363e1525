package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/warehouse-sim/warehouse-sim/sim"
	"github.com/warehouse-sim/warehouse-sim/sim/floorplan"
)

var exportPath string

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Validate and draw the resolved layout, optionally exporting it as a floor plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := resolveSettings()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		printLayout(out, st.Layout)
		if exportPath == "" {
			return nil
		}
		data, err := floorplan.Encode(strings.TrimSuffix(filepath.Base(exportPath), ".yaml"), st.Layout)
		if err != nil {
			return err
		}
		if err := os.WriteFile(exportPath, data, 0o644); err != nil {
			return fmt.Errorf("writing floor plan: %w", err)
		}
		fmt.Fprintf(out, "Wrote %s\n", exportPath)
		return nil
	},
}

var layoutKinds = []sim.CellKind{sim.KindShelf, sim.KindBayIn, sim.KindBayOut, sim.KindProcessing, sim.KindForkliftHome, sim.KindFloor}

func printLayout(out io.Writer, l *sim.Layout) {
	fmt.Fprintf(out, "%dx%d, start %s\n", l.Width(), l.Height(), l.StartPosition())
	for _, row := range floorplan.Rows(l) {
		fmt.Fprintln(out, row)
	}
	fmt.Fprintln(out, strings.Join(floorplan.LegendText(), "  "))

	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.AppendHeader(table.Row{"Kind", "Cells", "Stock"})
	for _, kind := range layoutKinds {
		stock := 0
		for _, c := range l.CellsOfKind(kind) {
			for _, e := range c.Inventory {
				stock += e.Quantity
			}
		}
		tw.AppendRow(table.Row{kind, l.Count(kind), stock})
	}
	tw.Render()
}

func init() {
	layoutCmd.Flags().StringVar(&exportPath, "export", "", "Write the layout to this floor plan file")
}
