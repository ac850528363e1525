package floorplan

import "github.com/warehouse-sim/warehouse-sim/sim"

// BuiltinName names the floor plan used when no file is given.
const BuiltinName = "depot"

const builtinPlan = `
name: depot
rows:
  - "H........."
  - ".SS.SS.SS."
  - ".........."
  - ".SS.SS.SS."
  - ".........."
  - "I.P..P...O"
inventory:
  - at: {x: 1, y: 1}
    items:
      - {sku: d-001, name: Warp Coil, quantity: 12}
      - {sku: d-002, name: Ion Engine, quantity: 4}
  - at: {x: 5, y: 3}
    items:
      - {sku: d-003, name: Sensor Array, quantity: 9}
`

// Builtin returns the built-in depot layout. Shelves without inventory are
// left empty; callers fill them with sim.GenerateInventory when needed.
func Builtin() *sim.Layout {
	l, _, err := Parse([]byte(builtinPlan))
	if err != nil {
		panic("floorplan: built-in plan is invalid: " + err.Error())
	}
	return l
}
