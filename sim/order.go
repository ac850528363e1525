package sim

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrNoOrderPossible is returned with an empty order when the layout cannot
// produce a single task for the requested mode.
var ErrNoOrderPossible = errors.New("no order possible")

const (
	maxPickQuantity  = 5
	maxStockQuantity = 10
)

type pickCandidate struct {
	entry InventoryEntry
	shelf Coord
}

// GenerateOrder builds up to size randomized tasks for mode from layout.
// Picking draws (inventory entry, shelf) pairs; stocking draws distinct shelves and
// sends each a delivery from a random bay-in. The returned items are all pending.
func GenerateOrder(rng *rand.Rand, layout *Layout, mode TaskMode, size int) (Order, error) {
	if size <= 0 {
		return Order{}, fmt.Errorf("%w: round size must be positive, got %d", ErrNoOrderPossible, size)
	}
	switch mode {
	case ModePicking:
		return generatePickingOrder(rng, layout, size)
	case ModeStocking:
		return generateStockingOrder(rng, layout, size)
	default:
		return Order{}, fmt.Errorf("%w: unknown task mode %q", ErrNoOrderPossible, mode)
	}
}

func generatePickingOrder(rng *rand.Rand, layout *Layout, size int) (Order, error) {
	var candidates []pickCandidate
	for _, shelf := range layout.CellsOfKind(KindShelf) {
		for _, entry := range shelf.Inventory {
			if entry.Quantity <= 0 {
				continue
			}
			candidates = append(candidates, pickCandidate{entry: entry, shelf: shelf.At})
		}
	}
	if len(candidates) == 0 {
		return Order{}, fmt.Errorf("%w: no stocked shelves to pick from", ErrNoOrderPossible)
	}

	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	n := min(size, len(candidates))

	items := make([]TaskItem, 0, n)
	used := make(map[string]bool, n)
	for _, c := range candidates[:n] {
		id := uniqueProductID(used, c.entry.SKU, c.shelf)
		used[id] = true
		items = append(items, TaskItem{
			ProductID:   id,
			ProductName: c.entry.Name,
			Quantity:    min(c.entry.Quantity, rng.Intn(maxPickQuantity)+1),
			Target:      c.shelf,
			Location:    c.shelf,
			Status:      StatusPending,
		})
	}
	return Order{Items: items}, nil
}

// uniqueProductID returns sku, or sku@x-y when sku is already taken, or
// sku@x-y.n for the n-th further repeat on the same shelf.
func uniqueProductID(used map[string]bool, sku string, shelf Coord) string {
	if !used[sku] {
		return sku
	}
	base := fmt.Sprintf("%s@%d-%d", sku, shelf.X, shelf.Y)
	id := base
	for n := 2; used[id]; n++ {
		id = fmt.Sprintf("%s.%d", base, n)
	}
	return id
}

func generateStockingOrder(rng *rand.Rand, layout *Layout, size int) (Order, error) {
	shelves := layout.CellsOfKind(KindShelf)
	bays := layout.CellsOfKind(KindBayIn)
	if len(shelves) == 0 {
		return Order{}, fmt.Errorf("%w: no shelves to stock", ErrNoOrderPossible)
	}
	if len(bays) == 0 {
		return Order{}, fmt.Errorf("%w: no inbound bay to receive from", ErrNoOrderPossible)
	}

	rng.Shuffle(len(shelves), func(i, j int) {
		shelves[i], shelves[j] = shelves[j], shelves[i]
	})
	n := min(size, len(shelves))

	items := make([]TaskItem, 0, n)
	for _, shelf := range shelves[:n] {
		bay := bays[rng.Intn(len(bays))].At
		items = append(items, TaskItem{
			ProductID:   fmt.Sprintf("new-item-%d-%d", shelf.At.X, shelf.At.Y),
			ProductName: randomProductName(rng),
			Quantity:    rng.Intn(maxStockQuantity) + 1,
			Target:      shelf.At,
			Origin:      &bay,
			Location:    bay,
			Status:      StatusPending,
		})
	}
	return Order{Items: items}, nil
}
