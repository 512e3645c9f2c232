package collector

import (
	"fmt"
	"slices"
	"strings"

	"pbc/common"
	"pbc/css"
	"pbc/style"
	"pbc/utils/debug"
)

// InventoryEntry is a single audit record.
type InventoryEntry struct {
	Kind     common.InventoryKind `json:"kind"`
	Block    string               `json:"block"`
	Selector string               `json:"selector,omitempty"`
	Data     any                  `json:"data,omitempty"`
}

// Record appends audit entry. Data is usually style.Tree (dropped attributes)
// or *css.Declarations (externalized declarations).
func (c *Collector) Record(kind common.InventoryKind, block, selector string, data any) {
	switch d := data.(type) {
	case style.Tree:
		if len(d) == 0 {
			return
		}
		data = d.Clone()
	case *css.Declarations:
		if d.Len() == 0 {
			return
		}
		data = d.Clone()
	}
	c.inventory = append(c.inventory, InventoryEntry{Kind: kind, Block: block, Selector: selector, Data: data})
}

// Inventory returns copy of collected audit entries in recording order.
func (c *Collector) Inventory() []InventoryEntry {
	return slices.Clone(c.inventory)
}

// DumpInventory renders inventory as indented text tree.
func (c *Collector) DumpInventory() string {
	tw := debug.NewTreeWriter()
	tw.Line(0, "Inventory: %d entries", len(c.inventory))
	for i, e := range c.inventory {
		if e.Selector != "" {
			tw.Line(1, "[%d] %s %s %s", i, e.Kind, e.Block, e.Selector)
		} else {
			tw.Line(1, "[%d] %s %s", i, e.Kind, e.Block)
		}
		switch d := e.Data.(type) {
		case nil:
		case style.Tree:
			for _, path := range d.Leaves() {
				v, _ := d.Get(strings.Split(path, ".")...)
				tw.KeyValue(2, path, " = ", v)
			}
		case *css.Declarations:
			for name, v := range d.All() {
				tw.KeyValue(2, name, ": ", v.Raw)
			}
		default:
			tw.TextBlock(2, "data", fmt.Sprint(d))
		}
	}
	return tw.String()
}
