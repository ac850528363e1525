// Package floorplan reads and writes warehouse layouts as YAML files.
//
// A floor plan draws the grid as ASCII rows, one rune per cell:
//
//	.  floor
//	S  shelf
//	I  inbound bay
//	O  outbound bay
//	P  processing station
//	H  forklift home
//
// Shelf stock is listed separately under inventory, keyed by coordinate.
package floorplan

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/warehouse-sim/warehouse-sim/sim"
)

// legend maps floor plan runes to cell kinds.
var legend = map[rune]sim.CellKind{
	'.': sim.KindFloor,
	'S': sim.KindShelf,
	'I': sim.KindBayIn,
	'O': sim.KindBayOut,
	'P': sim.KindProcessing,
	'H': sim.KindForkliftHome,
}

// Symbol returns the floor plan rune for kind, or '?' for an unknown kind.
func Symbol(kind sim.CellKind) rune {
	for r, k := range legend {
		if k == kind {
			return r
		}
	}
	return '?'
}

// File is the on-disk shape of a floor plan.
type File struct {
	Name      string       `yaml:"name,omitempty"`
	Rows      []string     `yaml:"rows"`
	Inventory []ShelfStock `yaml:"inventory,omitempty"`
}

// ShelfStock lists the products held on one shelf.
type ShelfStock struct {
	At    sim.Coord       `yaml:"at"`
	Items []InventoryItem `yaml:"items"`
}

// InventoryItem is one product line in a floor plan file.
type InventoryItem struct {
	SKU      string `yaml:"sku"`
	Name     string `yaml:"name"`
	Quantity int    `yaml:"quantity"`
}

// Load reads and parses a floor plan file.
func Load(path string) (*sim.Layout, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading floor plan: %w", err)
	}
	return Parse(data)
}

// Parse decodes a floor plan document. Unknown keys are errors. It returns the
// layout and the plan's name.
func Parse(data []byte) (*sim.Layout, string, error) {
	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, "", fmt.Errorf("parsing floor plan: %w", err)
	}
	l, err := f.Layout()
	if err != nil {
		return nil, "", err
	}
	return l, f.Name, nil
}

// Layout converts the file to a validated sim.Layout.
func (f *File) Layout() (*sim.Layout, error) {
	if len(f.Rows) == 0 {
		return nil, fmt.Errorf("floor plan %q: %w", f.Name, sim.ErrEmptyGrid)
	}
	width := len([]rune(f.Rows[0]))
	cells := make([]sim.Cell, 0, width*len(f.Rows))
	for y, row := range f.Rows {
		runes := []rune(row)
		if len(runes) != width {
			return nil, fmt.Errorf("floor plan row %d has %d cells, want %d", y, len(runes), width)
		}
		for x, r := range runes {
			kind, ok := legend[r]
			if !ok {
				return nil, fmt.Errorf("floor plan row %d col %d: unknown symbol %q", y, x, r)
			}
			cells = append(cells, sim.Cell{At: sim.Coord{X: x, Y: y}, Kind: kind})
		}
	}

	for _, stock := range f.Inventory {
		c := stock.At
		if c.X < 0 || c.X >= width || c.Y < 0 || c.Y >= len(f.Rows) {
			return nil, fmt.Errorf("inventory at %s: %w", c, sim.ErrCellOutOfGrid)
		}
		cell := &cells[c.Y*width+c.X]
		for _, it := range stock.Items {
			if it.SKU == "" {
				return nil, fmt.Errorf("inventory at %s: %w", c, sim.ErrMissingSKU)
			}
			if it.Quantity < 0 {
				return nil, fmt.Errorf("inventory at %s: %s has negative quantity %d", c, it.SKU, it.Quantity)
			}
			cell.Inventory = append(cell.Inventory, sim.InventoryEntry{SKU: it.SKU, Name: it.Name, Quantity: it.Quantity})
		}
	}

	l, err := sim.NewLayout(width, len(f.Rows), cells)
	if err != nil {
		return nil, fmt.Errorf("floor plan %q: %w", f.Name, err)
	}
	return l, nil
}

// FromLayout builds the file form of l. Shelves are listed in row-major order.
func FromLayout(name string, l *sim.Layout) File {
	f := File{Name: name, Rows: Rows(l)}
	for _, c := range l.CellsOfKind(sim.KindShelf) {
		if len(c.Inventory) == 0 {
			continue
		}
		stock := ShelfStock{At: c.At}
		for _, e := range c.Inventory {
			stock.Items = append(stock.Items, InventoryItem{SKU: e.SKU, Name: e.Name, Quantity: e.Quantity})
		}
		f.Inventory = append(f.Inventory, stock)
	}
	return f
}

// Rows draws l as ASCII rows using the floor plan legend.
func Rows(l *sim.Layout) []string {
	rows := make([]string, l.Height())
	for y := range rows {
		var b strings.Builder
		for x := 0; x < l.Width(); x++ {
			c, _ := l.Cell(sim.Coord{X: x, Y: y})
			b.WriteRune(Symbol(c.Kind))
		}
		rows[y] = b.String()
	}
	return rows
}

// Encode writes l as a floor plan document.
func Encode(name string, l *sim.Layout) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(FromLayout(name, l)); err != nil {
		return nil, fmt.Errorf("encoding floor plan: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding floor plan: %w", err)
	}
	return buf.Bytes(), nil
}

// LegendText returns the legend as "S=shelf" pairs sorted by symbol.
func LegendText() []string {
	out := make([]string, 0, len(legend))
	for r, k := range legend {
		out = append(out, fmt.Sprintf("%c=%s", r, k))
	}
	sort.Strings(out)
	return out
}
