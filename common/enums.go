// Package common keeps enumerations shared between configuration, the style
// pipeline and the command line.
package common

//go:generate go tool go-enum --marshal --names

// Precedence bucket of the generated stylesheet. Base rules are rendered first,
// so override rules win at equal specificity purely by source order.
// ENUM(base, override)
type Tier int

// Markup synthesis path. Auto means "whatever the block table says".
// ENUM(auto, canonical, heuristic)
type RenderPath int

// Kind of inventory record kept by collector for diagnostics.
// ENUM(externalized, dropped, conversion)
type InventoryKind int
