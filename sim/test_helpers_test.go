package sim

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// mustLayout builds a layout or fails the test.
func mustLayout(t *testing.T, w, h int, cells ...Cell) *Layout {
	t.Helper()
	l, err := NewLayout(w, h, cells)
	require.NoError(t, err)
	return l
}

func shelf(x, y int, inv ...InventoryEntry) Cell {
	return Cell{At: Coord{X: x, Y: y}, Kind: KindShelf, Inventory: inv}
}

func cellAt(x, y int, kind CellKind) Cell {
	return Cell{At: Coord{X: x, Y: y}, Kind: kind}
}

// fixedRecorder stamps a constant time and sequential ids.
func fixedRecorder() Recorder {
	n := 0
	return Recorder{
		Now: func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	}
}

// newTestEngine builds an engine with round size n and seed 42.
func newTestEngine(t *testing.T, roundSize int) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.RoundSize = roundSize
	e, err := NewEngine(cfg, NewSimulationKey(42), fixedRecorder())
	require.NoError(t, err)
	return e
}

// scenarioLayout is the 4x3 grid: shelf (1,1) with qty 10, processing (2,0), bay-out (3,0).
func scenarioLayout(t *testing.T) *Layout {
	return mustLayout(t, 4, 3,
		shelf(1, 1, InventoryEntry{SKU: "sku-1", Name: "Warp Coil", Quantity: 10}),
		cellAt(2, 0, KindProcessing),
		cellAt(3, 0, KindBayOut),
	)
}

// apply runs cmds in sequence, failing the test on any rejection.
func apply(t *testing.T, e *Engine, s *Session, cmds ...Command) *Session {
	t.Helper()
	for _, cmd := range cmds {
		var res Result
		s, res = e.Apply(s, cmd)
		require.Truef(t, res.OK, "%s rejected: %s %s", cmd, res.Reason, res.Detail)
	}
	return s
}

func move(d Direction, n int) []Command {
	cmds := make([]Command, n)
	for i := range cmds {
		cmds[i] = TurnOrMove(d)
	}
	return cmds
}

func seq(groups ...[]Command) []Command {
	var out []Command
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
