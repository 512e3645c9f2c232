package css

import (
	"fmt"
	"io"
	"iter"
	"strings"
	"unicode"

	"github.com/elliotchance/orderedmap/v3"
)

// Value represents a parsed CSS property value.
type Value struct {
	Raw     string  // Original CSS value string (e.g., "1.2em", "bold", "#ff0000")
	Value   float64 // Numeric value if applicable
	Unit    string  // Unit if applicable: "em", "px", "%", "pt", etc.
	Keyword string  // Keyword if applicable: "bold", "italic", "center", etc.
}

// RawValue wraps already serialized CSS value text.
func RawValue(raw string) Value {
	return Value{Raw: raw}
}

// IsNumeric returns true if the value has a numeric component.
// This includes explicit zero values like "0" or "0px".
func (v Value) IsNumeric() bool {
	if v.Unit != "" {
		return true
	}
	if v.Value != 0 && v.Keyword == "" {
		return true
	}
	// "0" has neither unit nor value
	if v.Raw != "" && v.Keyword == "" {
		firstChar := rune(v.Raw[0])
		if unicode.IsDigit(firstChar) || firstChar == '.' || firstChar == '-' || firstChar == '+' {
			return true
		}
	}
	return false
}

// IsKeyword returns true if the value is a keyword (no numeric component).
func (v Value) IsKeyword() bool {
	return v.Keyword != "" && v.Unit == ""
}

// Declarations is an insertion ordered property -> value map. Setting an
// existing property replaces its value in place, so merging keeps the position
// of the first write and the value of the last one.
type Declarations struct {
	m *orderedmap.OrderedMap[string, Value]
}

// NewDeclarations creates empty declarations.
func NewDeclarations() *Declarations {
	return &Declarations{m: orderedmap.NewOrderedMap[string, Value]()}
}

// DeclarationsFrom builds declarations from name/value pairs, in order.
func DeclarationsFrom(pairs ...string) *Declarations {
	d := NewDeclarations()
	for i := 0; i+1 < len(pairs); i += 2 {
		d.SetRaw(pairs[i], pairs[i+1])
	}
	return d
}

func (d *Declarations) init() {
	if d.m == nil {
		d.m = orderedmap.NewOrderedMap[string, Value]()
	}
}

// Set stores value for the property.
func (d *Declarations) Set(name string, v Value) {
	d.init()
	d.m.Set(name, v)
}

// SetRaw stores raw value text for the property.
func (d *Declarations) SetRaw(name, raw string) {
	d.Set(name, RawValue(raw))
}

// Get returns the value for a property.
func (d *Declarations) Get(name string) (Value, bool) {
	if d == nil || d.m == nil {
		return Value{}, false
	}
	return d.m.Get(name)
}

// Delete removes the property.
func (d *Declarations) Delete(name string) {
	if d == nil || d.m == nil {
		return
	}
	d.m.Delete(name)
}

// Len returns number of properties, nil receiver is empty.
func (d *Declarations) Len() int {
	if d == nil || d.m == nil {
		return 0
	}
	return d.m.Len()
}

// All iterates properties in insertion order.
func (d *Declarations) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if d == nil || d.m == nil {
			return
		}
		for name, v := range d.m.AllFromFront() {
			if !yield(name, v) {
				return
			}
		}
	}
}

// Merge copies all properties of src into d, later writes win.
func (d *Declarations) Merge(src *Declarations) {
	for name, v := range src.All() {
		d.Set(name, v)
	}
}

// Clone returns a deep copy.
func (d *Declarations) Clone() *Declarations {
	c := NewDeclarations()
	c.Merge(d)
	return c
}

// Map returns raw values keyed by property name.
func (d *Declarations) Map() map[string]string {
	out := make(map[string]string, d.Len())
	for name, v := range d.All() {
		out[name] = v.Raw
	}
	return out
}

// Inline renders declarations the way they appear in a style attribute:
// "name:value;name:value" without spaces.
func (d *Declarations) Inline() string {
	var sb strings.Builder
	for name, v := range d.All() {
		if sb.Len() > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(name)
		sb.WriteByte(':')
		sb.WriteString(v.Raw)
	}
	return sb.String()
}

// Rule represents a single CSS rule (selector + properties).
type Rule struct {
	Selector   string
	Properties *Declarations
	SourceLine int // Line number in source for error reporting
}

// GetProperty returns the value for a property, or empty Value if not found.
func (r Rule) GetProperty(name string) (Value, bool) {
	return r.Properties.Get(name)
}

// MediaBlock represents a @media block with its query and nested rules.
type MediaBlock struct {
	Query string
	Rules []Rule
}

// StylesheetItem is a single top-level item in a stylesheet.
// Exactly one of Rule or MediaBlock is non-nil.
type StylesheetItem struct {
	Rule       *Rule
	MediaBlock *MediaBlock
}

// Stylesheet represents a parsed or generated CSS stylesheet.
type Stylesheet struct {
	Items    []StylesheetItem // All top-level items in source order
	Warnings []string         // Warnings for unsupported features
}

// Rules returns all top-level rules in source order.
func (s *Stylesheet) Rules() []Rule {
	var rules []Rule
	for _, item := range s.Items {
		if item.Rule != nil {
			rules = append(rules, *item.Rule)
		}
	}
	return rules
}

// MediaBlocks returns all @media blocks in source order.
func (s *Stylesheet) MediaBlocks() []MediaBlock {
	var blocks []MediaBlock
	for _, item := range s.Items {
		if item.MediaBlock != nil {
			blocks = append(blocks, *item.MediaBlock)
		}
	}
	return blocks
}

// RulesBySelector returns all top-level rules matching the given selector string.
func (s *Stylesheet) RulesBySelector(selector string) []Rule {
	var matches []Rule
	for _, item := range s.Items {
		if item.Rule != nil && item.Rule.Selector == selector {
			matches = append(matches, *item.Rule)
		}
	}
	return matches
}

// WriteTo writes the stylesheet to w in source order, implementing io.WriterTo.
// Properties keep their insertion order. Rules without printable declarations
// and media blocks without printable rules are skipped.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var (
		total   int64
		written int
	)
	for _, item := range s.Items {
		if !item.printable() {
			continue
		}
		if written > 0 {
			n, err := fmt.Fprint(w, "\n")
			total += int64(n)
			if err != nil {
				return total, err
			}
		}

		var n int
		var err error
		switch {
		case item.MediaBlock != nil:
			n, err = writeMediaBlock(w, item.MediaBlock)
		case item.Rule != nil:
			n, err = writeRule(w, item.Rule, "")
		}
		total += int64(n)
		if err != nil {
			return total, err
		}
		written++
	}
	return total, nil
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

func (item StylesheetItem) printable() bool {
	switch {
	case item.Rule != nil:
		return item.Rule.printable()
	case item.MediaBlock != nil:
		if strings.TrimSpace(item.MediaBlock.Query) == "" {
			return false
		}
		for _, r := range item.MediaBlock.Rules {
			if r.printable() {
				return true
			}
		}
	}
	return false
}

func (r *Rule) printable() bool {
	if strings.TrimSpace(r.Selector) == "" {
		return false
	}
	for name, v := range r.Properties.All() {
		if printableDeclaration(name, v) {
			return true
		}
	}
	return false
}

func printableDeclaration(name string, v Value) bool {
	return strings.TrimSpace(name) != "" && strings.TrimSpace(v.Raw) != ""
}

// writeRule writes a single CSS rule to w using given indentation.
func writeRule(w io.Writer, rule *Rule, indent string) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "%s%s {\n", indent, rule.Selector)
	total += n
	if err != nil {
		return total, err
	}
	for name, val := range rule.Properties.All() {
		if !printableDeclaration(name, val) {
			continue
		}
		n, err = fmt.Fprintf(w, "%s  %s: %s;\n", indent, strings.TrimSpace(name), strings.TrimSpace(val.Raw))
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err = fmt.Fprintf(w, "%s}\n", indent)
	total += n
	return total, err
}

// writeMediaBlock writes an @media block to w.
func writeMediaBlock(w io.Writer, mb *MediaBlock) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "@media %s {\n", strings.TrimSpace(mb.Query))
	total += n
	if err != nil {
		return total, err
	}

	written := 0
	for i := range mb.Rules {
		rule := &mb.Rules[i]
		if !rule.printable() {
			continue
		}
		// Blank line between rules in a media block
		if written > 0 {
			n, err = fmt.Fprint(w, "\n")
			total += n
			if err != nil {
				return total, err
			}
		}
		n, err = writeRule(w, rule, "  ")
		total += n
		if err != nil {
			return total, err
		}
		written++
	}

	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}
