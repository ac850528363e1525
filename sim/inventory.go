package sim

import (
	"fmt"
	"math/rand"
)

// ProductCatalog is the pool of display names used for generated stock.
var ProductCatalog = []string{
	"Flux Capacitor", "Quantum Carburetor", "Hyperdrive Core", "Plasma Injector",
	"Tachyon Emitter", "Graviton Beam", "Singularity Drive", "Warp Coil", "Sensor Array",
	"Shield Generator", "Navicomputer", "Ion Engine",
}

func randomProductName(rng *rand.Rand) string {
	return ProductCatalog[rng.Intn(len(ProductCatalog))]
}

// GenerateInventory returns a copy of layout in which every shelf without
// inventory holds 1–3 random entries of 5–24 units each. Stocked shelves are kept.
func GenerateInventory(rng *rand.Rand, layout *Layout) (*Layout, error) {
	cells := layout.Cells()
	for i, c := range cells {
		if c.Kind != KindShelf || len(c.Inventory) > 0 {
			continue
		}
		n := rng.Intn(3) + 1
		inv := make([]InventoryEntry, n)
		for j := range inv {
			inv[j] = InventoryEntry{
				SKU:      fmt.Sprintf("%d-%d-item-%d", c.At.X, c.At.Y, j),
				Name:     randomProductName(rng),
				Quantity: rng.Intn(20) + 5,
			}
		}
		cells[i].Inventory = inv
	}
	return NewLayout(layout.Width(), layout.Height(), cells)
}
