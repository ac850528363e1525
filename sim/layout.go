package sim

import (
	"encoding/json"
	"errors"
	"fmt"
)

// CellKind is the fixed role of one grid square.
type CellKind string

const (
	KindFloor        CellKind = "floor"
	KindShelf        CellKind = "shelf"
	KindBayIn        CellKind = "bay-in"
	KindBayOut       CellKind = "bay-out"
	KindProcessing   CellKind = "processing"
	KindForkliftHome CellKind = "forklift-home"
)

var validCellKinds = map[CellKind]bool{
	KindFloor:        true,
	KindShelf:        true,
	KindBayIn:        true,
	KindBayOut:       true,
	KindProcessing:   true,
	KindForkliftHome: true,
}

// IsValidCellKind returns true if the given kind string is a recognized cell kind.
func IsValidCellKind(kind string) bool {
	return validCellKinds[CellKind(kind)]
}

// BlocksMovement reports whether the forklift may never drive onto a cell of this kind.
// Stations and shelves are only reachable from a neighbouring floor cell.
func (k CellKind) BlocksMovement() bool {
	switch k {
	case KindShelf, KindBayIn, KindBayOut, KindProcessing:
		return true
	}
	return false
}

// Coord is a zero-based grid position; X grows rightward, Y grows downward.
type Coord struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// InventoryEntry is one product line held on a shelf.
type InventoryEntry struct {
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Cell is one grid square.
type Cell struct {
	At        Coord            `json:"at"`
	Kind      CellKind         `json:"kind"`
	Inventory []InventoryEntry `json:"inventory,omitempty"`
}

// Layout is a Width x Height grid fully tiled by cells, stored row-major.
// A Layout handed to a session is never mutated; WithCell returns a modified copy.
type Layout struct {
	width  int
	height int
	cells  []Cell
}

var (
	ErrEmptyGrid       = errors.New("layout must be at least 1x1")
	ErrCellOutOfGrid   = errors.New("cell outside layout bounds")
	ErrDuplicateCell   = errors.New("duplicate cell coordinate")
	ErrUnknownKind     = errors.New("unknown cell kind")
	ErrStockedNonShelf = errors.New("inventory on non-shelf cell")
	ErrMissingSKU      = errors.New("inventory entry without sku")
)

// NewLayout builds a width x height layout from the given cells. Coordinates not
// covered by cells are filled as floor.
func NewLayout(width, height int, cells []Cell) (*Layout, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrEmptyGrid, width, height)
	}
	l := &Layout{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}
	seen := make([]bool, width*height)
	for _, c := range cells {
		if !l.InBounds(c.At) {
			return nil, fmt.Errorf("%w: %s in %dx%d", ErrCellOutOfGrid, c.At, width, height)
		}
		if !validCellKinds[c.Kind] {
			return nil, fmt.Errorf("%w: %q at %s", ErrUnknownKind, c.Kind, c.At)
		}
		if len(c.Inventory) > 0 && c.Kind != KindShelf {
			return nil, fmt.Errorf("%w: %s is %s", ErrStockedNonShelf, c.At, c.Kind)
		}
		for i, inv := range c.Inventory {
			if inv.SKU == "" {
				return nil, fmt.Errorf("%w: entry %d at %s", ErrMissingSKU, i, c.At)
			}
		}
		idx := l.index(c.At)
		if seen[idx] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCell, c.At)
		}
		seen[idx] = true
		l.cells[idx] = cloneCell(c)
	}
	for idx := range l.cells {
		if !seen[idx] {
			l.cells[idx] = Cell{At: Coord{X: idx % width, Y: idx / width}, Kind: KindFloor}
		}
	}
	return l, nil
}

func (l *Layout) Width() int  { return l.width }
func (l *Layout) Height() int { return l.height }

// InBounds reports whether c lies inside the grid.
func (l *Layout) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < l.width && c.Y >= 0 && c.Y < l.height
}

func (l *Layout) index(c Coord) int {
	return c.Y*l.width + c.X
}

// Cell returns the cell at c; ok is false when c is outside the grid.
func (l *Layout) Cell(c Coord) (Cell, bool) {
	if !l.InBounds(c) {
		return Cell{}, false
	}
	return l.cells[l.index(c)], true
}

// Cells returns a copy of every cell in row-major order.
func (l *Layout) Cells() []Cell {
	out := make([]Cell, len(l.cells))
	for i, c := range l.cells {
		out[i] = cloneCell(c)
	}
	return out
}

// CellsOfKind returns the cells of one kind in row-major order.
func (l *Layout) CellsOfKind(kind CellKind) []Cell {
	var out []Cell
	for _, c := range l.cells {
		if c.Kind == kind {
			out = append(out, cloneCell(c))
		}
	}
	return out
}

// Count returns how many cells have the given kind.
func (l *Layout) Count(kind CellKind) int {
	n := 0
	for _, c := range l.cells {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// WithCell returns a copy of the layout with the cell at c.At replaced.
func (l *Layout) WithCell(c Cell) (*Layout, error) {
	if !l.InBounds(c.At) {
		return nil, fmt.Errorf("%w: %s in %dx%d", ErrCellOutOfGrid, c.At, l.width, l.height)
	}
	cells := l.Cells()
	cells[l.index(c.At)] = c
	return NewLayout(l.width, l.height, cells)
}

// Clone returns a deep copy of the layout.
func (l *Layout) Clone() *Layout {
	return &Layout{width: l.width, height: l.height, cells: l.Cells()}
}

// StartPosition picks where the forklift begins: the first forklift-home cell,
// else the first bay-in, else the first bay-out, else the first floor cell, else (0,0).
func (l *Layout) StartPosition() Coord {
	for _, kind := range []CellKind{KindForkliftHome, KindBayIn, KindBayOut, KindFloor} {
		for _, c := range l.cells {
			if c.Kind == kind {
				return c.At
			}
		}
	}
	return Coord{}
}

func cloneCell(c Cell) Cell {
	if c.Inventory != nil {
		inv := make([]InventoryEntry, len(c.Inventory))
		copy(inv, c.Inventory)
		c.Inventory = inv
	}
	return c
}

type layoutJSON struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Cells  []Cell `json:"cells"`
}

// MarshalJSON encodes only the non-floor cells; floor is the fill value.
func (l *Layout) MarshalJSON() ([]byte, error) {
	out := layoutJSON{Width: l.width, Height: l.height, Cells: []Cell{}}
	for _, c := range l.cells {
		if c.Kind != KindFloor {
			out.Cells = append(out.Cells, c)
		}
	}
	return json.Marshal(out)
}

func (l *Layout) UnmarshalJSON(data []byte) error {
	var in layoutJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	parsed, err := NewLayout(in.Width, in.Height, in.Cells)
	if err != nil {
		return err
	}
	*l = *parsed
	return nil
}
