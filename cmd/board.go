package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/warehouse-sim/warehouse-sim/sim"
	"github.com/warehouse-sim/warehouse-sim/sim/floorplan"
)

var facingGlyph = map[sim.Direction]rune{
	sim.DirUp:    '^',
	sim.DirDown:  'v',
	sim.DirLeft:  '<',
	sim.DirRight: '>',
}

// renderBoard draws the grid with the forklift as an arrow. Cells holding
// staged cargo are drawn as '*'.
func renderBoard(s *sim.Session) string {
	cargo := map[sim.Coord]bool{}
	for _, it := range s.Order.Items {
		if it.ProductID != s.Carried && it.Status.Obstructs() && it.Status != sim.StatusPending {
			cargo[it.Location] = true
		}
	}
	var b strings.Builder
	for y := 0; y < s.Layout.Height(); y++ {
		for x := 0; x < s.Layout.Width(); x++ {
			at := sim.Coord{X: x, Y: y}
			c, _ := s.Layout.Cell(at)
			switch {
			case at == s.Position:
				b.WriteRune(facingGlyph[s.Facing])
			case cargo[at]:
				b.WriteRune('*')
			default:
				b.WriteRune(floorplan.Symbol(c.Kind))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// renderOrder writes the current order as a table. The carried item is marked.
func renderOrder(out io.Writer, s *sim.Session) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetTitle(fmt.Sprintf("Round %d", s.Order.Round))
	tw.AppendHeader(table.Row{"#", "Product", "Qty", "From", "To", "Status"})
	for i, it := range s.Order.Items {
		from := it.Target.String()
		to := "processing"
		if it.Origin != nil {
			from, to = it.Origin.String(), it.Target.String()
		}
		status := string(it.Status)
		if it.ProductID == s.Carried {
			status += " (on forks)"
		}
		tw.AppendRow(table.Row{i + 1, it.ProductName, it.Quantity, from, to, status})
	}
	tw.Render()
}

// renderStatus is the one-line session header.
func renderStatus(s *sim.Session) string {
	return fmt.Sprintf("pos %s facing %s | moves %d | time %ds | cost $%.2f", s.Position, s.Facing, s.Moves, s.Elapsed, s.Cost)
}

// renderRecord writes the final summary of a finished session.
func renderRecord(out io.Writer, rec *sim.FinishedSession) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetTitle("Session finished")
	tw.AppendRows([]table.Row{
		{"Mode", rec.Mode},
		{"Style", rec.PlayStyle},
		{"Time", fmt.Sprintf("%ds", rec.TimeSeconds)},
		{"Moves", rec.Moves},
		{"Cost", fmt.Sprintf("$%.2f", rec.Cost)},
		{"Rounds", rec.Rounds},
		{"Items", rec.ItemsCompleted},
	})
	tw.Render()
}
