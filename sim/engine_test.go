package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newScenarioSession starts a one-task picking session on the 4x3 scenario grid at (0,0).
func newScenarioSession(t *testing.T, e *Engine, style PlayStyle) *Session {
	t.Helper()
	s, err := e.NewSession(scenarioLayout(t), SessionSpec{
		UserID: "user-1", Mode: ModePicking, Style: style, Start: &Coord{X: 0, Y: 0},
	})
	require.NoError(t, err)
	return s
}

func TestNewSession_InitialState(t *testing.T) {
	e := newTestEngine(t, 1)
	s := newScenarioSession(t, e, StyleGuided)

	assert.Equal(t, Coord{X: 0, Y: 0}, s.Position)
	assert.Equal(t, DirRight, s.Facing)
	assert.Equal(t, 0, s.Moves)
	assert.Equal(t, int64(0), s.Elapsed)
	assert.Equal(t, 1, s.Order.Round)
	require.Len(t, s.Order.Items, 1)
	assert.Equal(t, Coord{X: 1, Y: 1}, s.Order.Items[0].Target)
	assert.Equal(t, StatusPending, s.Order.Items[0].Status)
	assert.Equal(t, 1, s.PendingTimers(), "first tick armed")
}

func TestNewSession_DefaultsToLayoutStart(t *testing.T) {
	e := newTestEngine(t, 1)
	l := mustLayout(t, 4, 3,
		shelf(1, 1, InventoryEntry{SKU: "s", Quantity: 4}),
		cellAt(2, 0, KindProcessing), cellAt(3, 0, KindBayOut), cellAt(0, 2, KindForkliftHome))
	s, err := e.NewSession(l, SessionSpec{Mode: ModePicking, Style: StyleFree})
	require.NoError(t, err)
	assert.Equal(t, Coord{X: 0, Y: 2}, s.Position)
}

func TestNewSession_RejectsUnplayableLayouts(t *testing.T) {
	e := newTestEngine(t, 5)
	tests := []struct {
		name string
		l    *Layout
		mode TaskMode
	}{
		{"picking without inventory", mustLayout(t, 3, 1, shelf(0, 0), cellAt(1, 0, KindProcessing), cellAt(2, 0, KindBayOut)), ModePicking},
		{"picking without processing", mustLayout(t, 2, 1, shelf(0, 0, InventoryEntry{SKU: "a", Quantity: 1}), cellAt(1, 0, KindBayOut)), ModePicking},
		{"picking without bay-out", mustLayout(t, 2, 1, shelf(0, 0, InventoryEntry{SKU: "a", Quantity: 1}), cellAt(1, 0, KindProcessing)), ModePicking},
		{"stocking without bay-in", mustLayout(t, 2, 1, shelf(0, 0)), ModeStocking},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.NewSession(tt.l, SessionSpec{Mode: tt.mode, Style: StyleFree})
			assert.ErrorIs(t, err, ErrNoOrderPossible)
		})
	}

	_, err := e.NewSession(scenarioLayout(t), SessionSpec{Mode: ModePicking, Style: "speedrun"})
	assert.Error(t, err)
	_, err = e.NewSession(scenarioLayout(t), SessionSpec{Mode: ModePicking, Style: StyleFree, Start: &Coord{X: 9, Y: 9}})
	assert.Error(t, err)
}

func TestTurnOrMove_TurnThenMove(t *testing.T) {
	// GIVEN a forklift at (0,1) facing right with a clear cell above
	e := newTestEngine(t, 1)
	s := newScenarioSession(t, e, StyleFree)
	s.Position = Coord{X: 0, Y: 1}

	// WHEN turning up
	s, res := e.Apply(s, TurnOrMove(DirUp))

	// THEN only the facing changes
	require.True(t, res.OK)
	assert.Equal(t, DirUp, s.Facing)
	assert.Equal(t, Coord{X: 0, Y: 1}, s.Position)
	assert.Equal(t, 0, s.Moves)
	assert.Equal(t, NoticeTurned, res.Notices[0].Kind)

	// WHEN moving up again
	s, res = e.Apply(s, TurnOrMove(DirUp))

	// THEN the forklift steps by (0,-1) and one move is counted
	require.True(t, res.OK)
	assert.Equal(t, Coord{X: 0, Y: 0}, s.Position)
	assert.Equal(t, 1, s.Moves)
	assert.Equal(t, NoticeMoved, res.Notices[0].Kind)
}

func TestTurnOrMove_Rejections_ChangeNothing(t *testing.T) {
	e := newTestEngine(t, 1)
	base := newScenarioSession(t, e, StyleFree)

	tests := []struct {
		name   string
		pos    Coord
		facing Direction
		want   Reason
	}{
		{"left edge", Coord{X: 0, Y: 0}, DirLeft, ReasonOutOfBounds},
		{"top edge", Coord{X: 0, Y: 0}, DirUp, ReasonOutOfBounds},
		{"bottom edge", Coord{X: 0, Y: 2}, DirDown, ReasonOutOfBounds},
		{"right edge", Coord{X: 3, Y: 2}, DirRight, ReasonOutOfBounds},
		{"shelf", Coord{X: 0, Y: 1}, DirRight, ReasonBlockedByLayout},
		{"processing", Coord{X: 1, Y: 0}, DirRight, ReasonBlockedByLayout},
		{"bay-out", Coord{X: 3, Y: 1}, DirUp, ReasonBlockedByLayout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base.clone()
			s.Position, s.Facing = tt.pos, tt.facing
			next, res := e.Apply(s, TurnOrMove(tt.facing))
			assert.False(t, res.OK)
			assert.Equal(t, tt.want, res.Reason)
			assert.Same(t, s, next)
			assert.Equal(t, tt.pos, next.Position)
			assert.Equal(t, 0, next.Moves)
		})
	}
}

func TestTurnOrMove_BlockedByRestingCargo(t *testing.T) {
	// GIVEN a pallet staged on a floor cell
	e := newTestEngine(t, 1)
	s := newScenarioSession(t, e, StyleFree)
	s.Order.Items = append(s.Order.Items, TaskItem{
		ProductID: "pallet", ProductName: "Pallet", Quantity: 1,
		Target: Coord{X: 1, Y: 1}, Location: Coord{X: 1, Y: 0}, Status: StatusPending,
	})

	// WHEN driving into it
	next, res := e.Apply(s, TurnOrMove(DirRight))

	// THEN the step is refused
	assert.False(t, res.OK)
	assert.Equal(t, ReasonBlockedByTask, res.Reason)
	assert.Equal(t, Coord{X: 0, Y: 0}, next.Position)

	// AND completed cargo no longer blocks
	s.Order.Items[1].Status = StatusCompleted
	next, res = e.Apply(s, TurnOrMove(DirRight))
	assert.True(t, res.OK)
	assert.Equal(t, Coord{X: 1, Y: 0}, next.Position)
}

func TestTurnOrMove_InvalidDirection(t *testing.T) {
	e := newTestEngine(t, 1)
	s := newScenarioSession(t, e, StyleFree)
	_, res := e.Apply(s, TurnOrMove("diagonal"))
	assert.Equal(t, ReasonInvalidCommand, res.Reason)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	e := newTestEngine(t, 1)
	s := newScenarioSession(t, e, StyleFree)
	s = apply(t, e, s, TurnOrMove(DirRight), TurnOrMove(DirDown))

	// WHEN picking up
	next, res := e.Apply(s, Interact())
	require.True(t, res.OK)

	// THEN the prior snapshot still shows the item on the shelf
	assert.Equal(t, StatusPending, s.Order.Items[0].Status)
	assert.Equal(t, "", s.Carried)
	assert.Equal(t, StatusCarrying, next.Order.Items[0].Status)
	assert.Equal(t, "sku-1", next.Carried)
}

// TestEndToEnd_PickingScenario drives one picking task through the whole pipeline.
func TestEndToEnd_PickingScenario(t *testing.T) {
	e := newTestEngine(t, 1)
	s := newScenarioSession(t, e, StyleGuided)

	// move to (1,0), face the shelf, pick up
	s = apply(t, e, s, TurnOrMove(DirRight), TurnOrMove(DirDown), Interact())
	assert.Equal(t, StatusCarrying, s.Order.Items[0].Status)
	assert.Equal(t, 1, s.Moves)

	// face processing, drop
	s = apply(t, e, s, TurnOrMove(DirRight), Interact())
	assert.Equal(t, StatusProcessing, s.Order.Items[0].Status)
	assert.Equal(t, Coord{X: 2, Y: 0}, s.Order.Items[0].Location)
	assert.Equal(t, "", s.Carried)

	// processing finishes within 6s
	s, res := e.Apply(s, AdvanceClock(6000))
	require.True(t, res.OK)
	assert.Equal(t, StatusProcessed, s.Order.Items[0].Status)
	assert.Equal(t, int64(6), s.Elapsed)
	assert.Contains(t, noticeKinds(res), NoticeProcessed)

	// pick processed item back up; status keeps its provenance
	s = apply(t, e, s, Interact())
	assert.Equal(t, StatusProcessed, s.Order.Items[0].Status)
	assert.Equal(t, "sku-1", s.Carried)

	// drive round the shelf to (3,1) facing up
	s = apply(t, e, s, seq(
		move(DirLeft, 2),
		move(DirDown, 3),
		move(DirRight, 4),
		move(DirUp, 2),
	)...)
	assert.Equal(t, Coord{X: 3, Y: 1}, s.Position)
	assert.Equal(t, DirUp, s.Facing)
	assert.Equal(t, 8, s.Moves)

	s = apply(t, e, s, Interact())
	assert.Equal(t, StatusReadyForDispatch, s.Order.Items[0].Status)
	assert.False(t, s.OrderComplete)

	s, res = e.Apply(s, Dispatch())
	require.True(t, res.OK)
	assert.Equal(t, StatusCompleted, s.Order.Items[0].Status)
	assert.True(t, s.OrderComplete)
	assert.Equal(t, []NoticeKind{NoticeDispatched, NoticeOrderComplete}, noticeKinds(res))

	// the clock is paused while the order is complete
	s = apply(t, e, s, AdvanceClock(5000))
	assert.Equal(t, int64(6), s.Elapsed)

	s, res = e.Apply(s, Finish())
	require.True(t, res.OK)
	require.NotNil(t, res.Record)
	rec := res.Record
	assert.Equal(t, 8, rec.Moves)
	assert.Equal(t, int64(6), rec.TimeSeconds)
	assert.InDelta(t, 2.6, rec.Cost, 1e-9)
	assert.Equal(t, ModePicking, rec.Mode)
	assert.Equal(t, StyleGuided, rec.PlayStyle)
	assert.Equal(t, "user-1", rec.UserID)
	assert.Equal(t, 1, rec.Rounds)
	assert.Equal(t, 1, rec.ItemsCompleted)
	assert.Equal(t, scenarioLayout(t).Cells(), rec.Layout.Cells())
	assert.True(t, s.Finished)
}

func TestLifecycle_PickingNeverRevisitsAState(t *testing.T) {
	e := newTestEngine(t, 1)
	s := newScenarioSession(t, e, StyleFree)
	cmds := seq(
		[]Command{TurnOrMove(DirRight), TurnOrMove(DirDown), Interact(), TurnOrMove(DirRight), Interact()},
		[]Command{AdvanceClock(1000), AdvanceClock(1000), AdvanceClock(1000), AdvanceClock(1000), AdvanceClock(1000), AdvanceClock(1000)},
		[]Command{Interact()},
		move(DirLeft, 2), move(DirDown, 3), move(DirRight, 4), move(DirUp, 2),
		[]Command{Interact(), Dispatch()},
	)

	var history []TaskStatus
	record := func(st TaskStatus) {
		if len(history) == 0 || history[len(history)-1] != st {
			history = append(history, st)
		}
	}
	record(s.Order.Items[0].Status)
	for _, cmd := range cmds {
		s = apply(t, e, s, cmd)
		record(s.Order.Items[0].Status)
	}

	assert.Equal(t, []TaskStatus{
		StatusPending, StatusCarrying, StatusProcessing, StatusProcessed, StatusReadyForDispatch, StatusCompleted,
	}, history)
	for i := 1; i < len(history); i++ {
		assert.Greater(t, statusRank[history[i]], statusRank[history[i-1]])
	}
}

func TestGuided_OutOfOrderPickup_Rejected(t *testing.T) {
	// GIVEN pending items A (index 0) at (1,0) and B (index 1) at (3,0)
	l := mustLayout(t, 5, 3,
		shelf(1, 0, InventoryEntry{SKU: "A", Name: "Alpha", Quantity: 5}),
		shelf(3, 0, InventoryEntry{SKU: "B", Name: "Beta", Quantity: 5}),
		cellAt(0, 2, KindProcessing),
		cellAt(4, 2, KindBayOut),
	)
	order := Order{Round: 1, Items: []TaskItem{
		{ProductID: "A", ProductName: "Alpha", Quantity: 1, Target: Coord{X: 1, Y: 0}, Location: Coord{X: 1, Y: 0}, Status: StatusPending},
		{ProductID: "B", ProductName: "Beta", Quantity: 1, Target: Coord{X: 3, Y: 0}, Location: Coord{X: 3, Y: 0}, Status: StatusPending},
	}}

	for _, style := range []PlayStyle{StyleGuided, StyleFree} {
		t.Run(string(style), func(t *testing.T) {
			e := newTestEngine(t, 2)
			s, err := e.NewSession(l, SessionSpec{Mode: ModePicking, Style: style, Start: &Coord{X: 3, Y: 1}})
			require.NoError(t, err)
			s.Order = order.Clone()
			s = apply(t, e, s, TurnOrMove(DirUp))

			// WHEN picking B first
			next, res := e.Apply(s, Interact())

			if style == StyleGuided {
				// THEN guided play refuses and nothing changes
				assert.False(t, res.OK)
				assert.Equal(t, ReasonGuidedOrderViolation, res.Reason)
				assert.Contains(t, res.Detail, "Alpha")
				assert.Equal(t, StatusPending, next.Order.Items[0].Status)
				assert.Equal(t, StatusPending, next.Order.Items[1].Status)
				assert.Equal(t, "", next.Carried)
				return
			}
			// THEN free play allows it
			assert.True(t, res.OK)
			assert.Equal(t, StatusCarrying, next.Order.Items[1].Status)
			assert.Equal(t, "B", next.Carried)
		})
	}
}

func TestInteract_Rejections(t *testing.T) {
	e := newTestEngine(t, 1)
	base := newScenarioSession(t, e, StyleFree)

	t.Run("edge of grid", func(t *testing.T) {
		s := base.clone()
		s.Facing = DirUp
		_, res := e.Apply(s, Interact())
		assert.Equal(t, ReasonNoAdjacentTarget, res.Reason)
	})
	t.Run("floor in front", func(t *testing.T) {
		s := base.clone()
		s.Position, s.Facing = Coord{X: 0, Y: 2}, DirRight
		_, res := e.Apply(s, Interact())
		assert.Equal(t, ReasonNoAdjacentTarget, res.Reason)
	})
	t.Run("empty processing station", func(t *testing.T) {
		s := base.clone()
		s.Position = Coord{X: 1, Y: 0}
		_, res := e.Apply(s, Interact())
		assert.Equal(t, ReasonNoAdjacentTarget, res.Reason)
	})
	t.Run("carrying item dropped on bay-out before processing", func(t *testing.T) {
		s := apply(t, e, base.clone(), TurnOrMove(DirRight), TurnOrMove(DirDown), Interact())
		s.Position, s.Facing = Coord{X: 3, Y: 1}, DirUp
		next, res := e.Apply(s, Interact())
		assert.Equal(t, ReasonWrongLocation, res.Reason)
		assert.Equal(t, "sku-1", next.Carried)
		assert.Equal(t, StatusCarrying, next.Order.Items[0].Status)
	})
	t.Run("carrying item dropped back on shelf", func(t *testing.T) {
		s := apply(t, e, base.clone(), TurnOrMove(DirRight), TurnOrMove(DirDown), Interact())
		_, res := e.Apply(s, Interact())
		assert.Equal(t, ReasonWrongLocation, res.Reason)
	})
}

func TestInteract_CommandsAcceptedWhileProcessing(t *testing.T) {
	e := newTestEngine(t, 1)
	s := newScenarioSession(t, e, StyleFree)
	s = apply(t, e, s, TurnOrMove(DirRight), TurnOrMove(DirDown), Interact(), TurnOrMove(DirRight), Interact())
	require.Equal(t, StatusProcessing, s.Order.Items[0].Status)

	// the forklift keeps driving while the station works
	s = apply(t, e, s, TurnOrMove(DirLeft), TurnOrMove(DirLeft), TurnOrMove(DirDown), TurnOrMove(DirDown))
	assert.Equal(t, Coord{X: 0, Y: 1}, s.Position)
	assert.Equal(t, StatusProcessing, s.Order.Items[0].Status)
	assert.Equal(t, 2, s.PendingTimers(), "tick and processing completion")
}

func TestProcessingDone_StaleEventsDiscarded(t *testing.T) {
	e := newTestEngine(t, 1)
	s := newScenarioSession(t, e, StyleFree)
	s.Order.Items[0].Status = StatusProcessing

	// event from an earlier round
	stale := &ProcessingDoneEvent{time: 0, id: 99, round: 0, ProductID: "sku-1"}
	assert.Nil(t, stale.Execute(e, s))
	assert.Equal(t, StatusProcessing, s.Order.Items[0].Status)

	// event for an item that is not processing
	s.Order.Items[0].Status = StatusCarrying
	current := &ProcessingDoneEvent{time: 0, id: 100, round: 1, ProductID: "sku-1"}
	assert.Nil(t, current.Execute(e, s))
	assert.Equal(t, StatusCarrying, s.Order.Items[0].Status)

	// event for an unknown item
	unknown := &ProcessingDoneEvent{time: 0, id: 101, round: 1, ProductID: "ghost"}
	assert.Nil(t, unknown.Execute(e, s))
}

func TestProcessing_ReducedPipelineCompletesDirectly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RoundSize = 1
	cfg.Pipeline = PipelineReduced
	e, err := NewEngine(cfg, NewSimulationKey(1), fixedRecorder())
	require.NoError(t, err)
	l := mustLayout(t, 3, 2, shelf(1, 1, InventoryEntry{SKU: "r", Quantity: 3}), cellAt(2, 0, KindProcessing))
	s, err := e.NewSession(l, SessionSpec{Mode: ModePicking, Style: StyleFree, Start: &Coord{X: 0, Y: 0}})
	require.NoError(t, err)

	s = apply(t, e, s, TurnOrMove(DirRight), TurnOrMove(DirDown), Interact(), TurnOrMove(DirRight), Interact())
	s, res := e.Apply(s, AdvanceClock(cfg.TickIntervalMs*int64(cfg.ProcessingDelayMax)))
	require.True(t, res.OK)

	assert.Equal(t, StatusCompleted, s.Order.Items[0].Status)
	assert.True(t, s.OrderComplete)
	assert.Equal(t, 1, s.ItemsCompleted)
}

func TestPicking_RepeatedSKUOnOneShelf_OrderCompletes(t *testing.T) {
	// GIVEN a shelf holding the same SKU three times and a reduced pipeline
	cfg := DefaultConfig()
	cfg.RoundSize = 3
	cfg.Pipeline = PipelineReduced
	e, err := NewEngine(cfg, NewSimulationKey(1), fixedRecorder())
	require.NoError(t, err)
	l := mustLayout(t, 3, 1,
		shelf(0, 0,
			InventoryEntry{SKU: "x", Name: "Crate", Quantity: 2},
			InventoryEntry{SKU: "x", Name: "Crate", Quantity: 2},
			InventoryEntry{SKU: "x", Name: "Crate", Quantity: 2},
		),
		cellAt(2, 0, KindProcessing),
	)
	s, err := e.NewSession(l, SessionSpec{Mode: ModePicking, Style: StyleFree, Start: &Coord{X: 1, Y: 0}})
	require.NoError(t, err)
	require.Len(t, s.Order.Items, 3)

	// WHEN each item is carried from the shelf to processing in turn
	carried := map[string]bool{}
	for i := 0; i < 3; i++ {
		s = apply(t, e, s, TurnOrMove(DirLeft), Interact())
		carried[s.Carried] = true
		s = apply(t, e, s, TurnOrMove(DirRight), Interact())
		s = apply(t, e, s, AdvanceClock(cfg.TickIntervalMs*int64(cfg.ProcessingDelayMax)))
	}

	// THEN every item completed under its own id
	assert.Len(t, carried, 3)
	assert.True(t, s.OrderComplete)
	assert.Equal(t, 3, s.ItemsCompleted)
}

func TestProcessingDelay_WithinConfiguredBounds(t *testing.T) {
	e := newTestEngine(t, 1)
	for i := 0; i < 500; i++ {
		d := e.processingDelayMs()
		assert.GreaterOrEqual(t, d, int64(2000))
		assert.LessOrEqual(t, d, int64(6000))
		assert.Zero(t, d%1000)
	}
}

func TestDispatch_OnlyAffectsReadyItems(t *testing.T) {
	e := newTestEngine(t, 1)
	s := newScenarioSession(t, e, StyleFree)
	s.Order.Items = []TaskItem{
		{ProductID: "p1", Status: StatusProcessing},
		{ProductID: "p2", Status: StatusReadyForDispatch},
		{ProductID: "p3", Status: StatusProcessed},
		{ProductID: "p4", Status: StatusReadyForDispatch},
		{ProductID: "p5", Status: StatusPending},
	}

	next, res := e.Apply(s, Dispatch())
	require.True(t, res.OK)
	assert.Equal(t, 2, res.Notices[0].Count)
	want := []TaskStatus{StatusProcessing, StatusCompleted, StatusProcessed, StatusCompleted, StatusPending}
	for i, it := range next.Order.Items {
		assert.Equal(t, want[i], it.Status, it.ProductID)
	}
	assert.False(t, next.OrderComplete)

	// second dispatch has nothing left
	_, res = e.Apply(next, Dispatch())
	assert.Equal(t, ReasonNothingToDispatch, res.Reason)
}

func TestStocking_EndToEnd(t *testing.T) {
	// GIVEN bay-in at (0,1), shelf at (3,1), forklift at (1,1)
	e := newTestEngine(t, 1)
	l := mustLayout(t, 4, 3, cellAt(0, 1, KindBayIn), shelf(3, 1))
	s, err := e.NewSession(l, SessionSpec{Mode: ModeStocking, Style: StyleGuided, Start: &Coord{X: 1, Y: 1}})
	require.NoError(t, err)
	require.Len(t, s.Order.Items, 1)
	item := s.Order.Items[0]
	require.Equal(t, Coord{X: 0, Y: 1}, *item.Origin)
	require.Equal(t, Coord{X: 3, Y: 1}, item.Target)

	// dispatch is not a stocking verb
	_, res := e.Apply(s, Dispatch())
	assert.Equal(t, ReasonInvalidForMode, res.Reason)

	// pick up at the bay
	s = apply(t, e, s, TurnOrMove(DirLeft), Interact())
	assert.Equal(t, StatusCarrying, s.Order.Items[0].Status)

	// dropping on the floor is refused
	s = apply(t, e, s, TurnOrMove(DirRight))
	_, res = e.Apply(s, Interact())
	assert.Equal(t, ReasonWrongLocation, res.Reason)

	// stock it
	s, res = e.Apply(apply(t, e, s, TurnOrMove(DirRight)), Interact())
	require.True(t, res.OK)
	assert.Equal(t, StatusCompleted, s.Order.Items[0].Status)
	assert.True(t, s.OrderComplete)
	assert.Equal(t, []NoticeKind{NoticeStocked, NoticeOrderComplete}, noticeKinds(res))
}

func TestStocking_WrongShelf(t *testing.T) {
	e := newTestEngine(t, 1)
	l := mustLayout(t, 4, 3, cellAt(0, 1, KindBayIn), shelf(3, 1), shelf(1, 2))
	s, err := e.NewSession(l, SessionSpec{Mode: ModeStocking, Style: StyleFree, Start: &Coord{X: 1, Y: 1}})
	require.NoError(t, err)
	s.Order.Items[0].Target = Coord{X: 3, Y: 1}

	s = apply(t, e, s, TurnOrMove(DirLeft), Interact(), TurnOrMove(DirDown))
	_, res := e.Apply(s, Interact())
	assert.Equal(t, ReasonWrongLocation, res.Reason)
}

func TestOrderComplete_ContinueWithNewOrder(t *testing.T) {
	e := newTestEngine(t, 1)
	l := mustLayout(t, 4, 3, cellAt(0, 1, KindBayIn), shelf(3, 1))
	s, err := e.NewSession(l, SessionSpec{Mode: ModeStocking, Style: StyleFree, Start: &Coord{X: 1, Y: 1}})
	require.NoError(t, err)

	// continuing before completion is refused
	_, res := e.Apply(s, ContinueWithNewOrder())
	assert.Equal(t, ReasonOrderInProgress, res.Reason)

	s = apply(t, e, s, AdvanceClock(2500), TurnOrMove(DirLeft), Interact(), TurnOrMove(DirRight), TurnOrMove(DirRight), Interact())
	require.True(t, s.OrderComplete)
	assert.Equal(t, int64(2), s.Elapsed)
	pos, facing, moves := s.Position, s.Facing, s.Moves

	// paused: movement refused, time frozen
	_, res = e.Apply(s, TurnOrMove(DirDown))
	assert.Equal(t, ReasonOrderComplete, res.Reason)
	_, res = e.Apply(s, Interact())
	assert.Equal(t, ReasonOrderComplete, res.Reason)
	s = apply(t, e, s, AdvanceClock(10000))
	assert.Equal(t, int64(2), s.Elapsed)

	s, res = e.Apply(s, ContinueWithNewOrder())
	require.True(t, res.OK)
	assert.Equal(t, NoticeNewOrder, res.Notices[0].Kind)
	assert.False(t, s.OrderComplete)
	assert.Equal(t, 2, s.Order.Round)
	assert.Equal(t, StatusPending, s.Order.Items[0].Status)
	assert.Equal(t, pos, s.Position)
	assert.Equal(t, facing, s.Facing)
	assert.Equal(t, moves, s.Moves)

	// the clock resumes
	s = apply(t, e, s, AdvanceClock(3000))
	assert.Equal(t, int64(5), s.Elapsed)
	assert.Equal(t, 1, s.RoundsCompleted)
}

func TestFinish_EndsSession(t *testing.T) {
	e := newTestEngine(t, 1)
	s := newScenarioSession(t, e, StyleFree)
	s = apply(t, e, s, TurnOrMove(DirRight), AdvanceClock(3000))

	s, res := e.Apply(s, Finish())
	require.True(t, res.OK)
	require.NotNil(t, res.Record)
	assert.Equal(t, 1, res.Record.Moves)
	assert.Equal(t, int64(3), res.Record.TimeSeconds)
	assert.Equal(t, 0, res.Record.Rounds)

	for _, cmd := range []Command{TurnOrMove(DirDown), Interact(), Dispatch(), ContinueWithNewOrder(), Finish(), AdvanceClock(1)} {
		next, res := e.Apply(s, cmd)
		assert.Equal(t, ReasonSessionFinished, res.Reason, cmd.String())
		assert.Same(t, s, next)
	}
}

func TestAdvanceClock_NegativeDeltaRejected(t *testing.T) {
	e := newTestEngine(t, 1)
	s := newScenarioSession(t, e, StyleFree)
	_, res := e.Apply(s, AdvanceClock(-1))
	assert.Equal(t, ReasonInvalidCommand, res.Reason)
}

func TestAdvanceClock_CostTracksElapsed(t *testing.T) {
	e := newTestEngine(t, 1)
	s := newScenarioSession(t, e, StyleFree)
	s = apply(t, e, s, TurnOrMove(DirRight), AdvanceClock(4999))
	assert.Equal(t, int64(4), s.Elapsed)
	assert.Equal(t, int64(4999), s.Clock)
	assert.Equal(t, e.Config().Costs.Cost(1, 4), s.Cost)
}

func TestMovement_NeverLeavesGrid(t *testing.T) {
	e := newTestEngine(t, 1)
	dirs := []Direction{DirUp, DirDown, DirLeft, DirRight}
	for seed := int64(0); seed < 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		s := newScenarioSession(t, e, StyleFree)
		for i := 0; i < 300; i++ {
			var cmd Command
			switch rng.Intn(6) {
			case 0:
				cmd = Interact()
			case 1:
				cmd = Dispatch()
			default:
				cmd = TurnOrMove(dirs[rng.Intn(len(dirs))])
			}
			s, _ = e.Apply(s, cmd)
			require.True(t, s.Layout.InBounds(s.Position), "seed %d step %d: %s", seed, i, s.Position)
			c, _ := s.Layout.Cell(s.Position)
			require.False(t, c.Kind.BlocksMovement(), "forklift on %s", c.Kind)
		}
	}
}

func TestSameSeed_SameRun(t *testing.T) {
	run := func() *Session {
		e := newTestEngine(t, 3)
		s, err := e.NewSession(stockedLayout(t), SessionSpec{Mode: ModeStocking, Style: StyleFree, Start: &Coord{X: 0, Y: 0}})
		require.NoError(t, err)
		return s
	}
	assert.Equal(t, run().Order, run().Order)
}

func noticeKinds(res Result) []NoticeKind {
	var kinds []NoticeKind
	for _, n := range res.Notices {
		kinds = append(kinds, n.Kind)
	}
	return kinds
}
