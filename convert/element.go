package convert

import (
	"pbc/common"
	"pbc/style"
)

// Element is a single source element: target block type selected by the
// widget converter, its presentation settings and already converted content.
type Element struct {
	ID    string `json:"id,omitempty"`
	Block string `json:"block,omitempty"`
	// Attrs is the attribute tree of the target block, style categories are
	// under "style" key.
	Attrs style.Tree `json:"attrs,omitempty"`
	// Content is sanitized inner markup.
	Content string `json:"content,omitempty"`
	// Style is inline CSS declarations applied to the element.
	Style string `json:"style,omitempty"`
	// Responsive maps breakpoint name to bare style tree (categories at the
	// root) active under breakpoint media query.
	Responsive map[string]style.Tree `json:"responsive,omitempty"`
	// CustomCSS is raw CSS where "selector" stands for the element.
	CustomCSS string            `json:"custom_css,omitempty"`
	Path      common.RenderPath `json:"render_path,omitempty"`
	Inner     []Element         `json:"inner,omitempty"`
}

// KitRule is a global style rule of the page builder kit.
type KitRule struct {
	Selector string     `json:"selector"`
	Style    style.Tree `json:"style"`
}

// Kit holds site wide settings shared by all elements of the document.
type Kit struct {
	Rules     []KitRule `json:"rules,omitempty"`
	CustomCSS string    `json:"custom_css,omitempty"`
}

// Source is a single document to convert.
type Source struct {
	ID       string    `json:"id,omitempty"`
	Title    string    `json:"title,omitempty"`
	Kit      *Kit      `json:"kit,omitempty"`
	Elements []Element `json:"elements"`
}

// Batch is an input file envelope.
type Batch struct {
	Version   int      `json:"version"`
	Documents []Source `json:"documents"`
}

// countElements returns number of elements including nested ones.
func countElements(elements []Element) int {
	n := len(elements)
	for _, el := range elements {
		n += countElements(el.Inner)
	}
	return n
}
