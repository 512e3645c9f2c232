package convert

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"pbc/blocks"
	"pbc/collector"
	"pbc/common"
	"pbc/css"
	"pbc/style"
)

// Breakpoint is a named media query used by responsive settings.
type Breakpoint struct {
	Name  string
	Query string
}

// Result is everything produced for a single document.
type Result struct {
	ID         string
	Title      string
	Markup     string
	Stylesheet string
	Fonts      collector.FontUsage
	Inventory  []collector.InventoryEntry
}

// Option configures Document.
type Option func(*Document)

// WithPresets sets theme presets used for preset promotion.
func WithPresets(p *style.Presets) Option {
	return func(d *Document) {
		d.presets = p
	}
}

// WithBreakpoints sets known breakpoints, their order is the order of media
// rules for the same element.
func WithBreakpoints(bps ...Breakpoint) Option {
	return func(d *Document) {
		d.breakpoints = append(d.breakpoints[:0], bps...)
	}
}

// WithRenderPath forces synthesis path for elements which do not request one.
func WithRenderPath(p common.RenderPath) Option {
	return func(d *Document) {
		if p.IsValid() {
			d.path = p
		}
	}
}

// WithCollectorOptions passes options to document collector.
func WithCollectorOptions(opts ...collector.Option) Option {
	return func(d *Document) {
		d.collectorOpts = append(d.collectorOpts, opts...)
	}
}

// Document converts elements of a single output document. It owns collector
// accumulating external stylesheet, font usage and inventory, so it must not
// be shared between goroutines.
type Document struct {
	log           *zap.Logger
	presets       *style.Presets
	breakpoints   []Breakpoint
	path          common.RenderPath
	collectorOpts []collector.Option

	splitter  *blocks.Splitter
	builder   *blocks.Builder
	parser    *css.Parser
	collector *collector.Collector

	seq int
}

// NewDocument creates document pipeline.
func NewDocument(log *zap.Logger, opts ...Option) *Document {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Document{log: log.Named("document")}
	for _, opt := range opts {
		opt(d)
	}
	d.splitter = blocks.NewSplitter(log)
	d.builder = blocks.NewBuilder(log)
	d.parser = css.NewParser(log)
	d.collector = collector.New(log, d.collectorOpts...)
	return d
}

// Collector gives access to document collector.
func (d *Document) Collector() *collector.Collector {
	return d.collector
}

// AddKit registers kit rules and kit custom CSS at base tier.
func (d *Document) AddKit(kit *Kit) {
	if kit == nil {
		return
	}
	for _, r := range kit.Rules {
		d.AddKitRule(r.Selector, r.Style)
	}
	if n := d.collector.AddCustomCSS(kit.CustomCSS, "body", collector.TierFor("kit")); n > 0 {
		d.log.Debug("Kit custom CSS registered", zap.Int("rules", n))
	}
}

// AddKitRule registers global rule built from bare style tree at base tier, so
// element rules override it.
func (d *Document) AddKitRule(selector string, st style.Tree) {
	norm := style.NormalizeStyle(st)
	d.registerFonts(norm)
	d.collector.AddRule(selector, cssDeclarations(norm.Flatten("")), collector.TierFor("kit"))
}

// Convert runs element through the pipeline and returns block markup.
// Element with no block type produces its content unchanged.
func (d *Document) Convert(el Element) string {
	var inner []string
	if el.Content != "" {
		inner = append(inner, el.Content)
	}
	for _, child := range el.Inner {
		if markup := d.Convert(child); markup != "" {
			inner = append(inner, markup)
		}
	}
	content := strings.Join(inner, "\n")

	typ := blocks.TypeFromName(el.Block)
	if typ == "" {
		return content
	}
	d.seq++

	attrs := PromotePresets(typ, el.Attrs, d.presets)
	split := d.splitter.Split(typ, attrs)
	for _, t := range []style.Tree{split.Native, split.Dropped} {
		if st, ok := t.GetTree(style.StyleKey); ok {
			d.registerFonts(st)
		}
	}

	external := cssDeclarations(split.External)
	if el.Style != "" {
		external.Merge(d.parser.ParseInline(el.Style))
	}

	path := el.Path
	if path == common.RenderPathAuto || !path.IsValid() {
		path = d.path
	}

	native := split.Native
	if class := d.registerClass(typ, el, external); class != "" {
		if blocks.CarriesClass(typ, path, content) {
			native["className"] = strings.TrimSpace(native.GetString("className") + " " + class)
		} else {
			d.collector.Record(common.InventoryKindConversion, string(typ), "."+class,
				"block markup does not carry class names, external style is not applied")
		}
	}
	d.collector.Record(common.InventoryKindDropped, string(typ), "", split.Dropped)

	return d.builder.Build(blocks.BuildInput{Type: typ, Attrs: native, Content: content, Path: path})
}

// ConvertAll converts top level elements, blocks are separated by empty line.
func (d *Document) ConvertAll(elements []Element) string {
	parts := make([]string, 0, len(elements))
	for _, el := range elements {
		if markup := d.Convert(el); markup != "" {
			parts = append(parts, markup)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Result returns collected output of the document.
func (d *Document) Result(id, title, markup string) Result {
	return Result{
		ID:         id,
		Title:      title,
		Markup:     markup,
		Stylesheet: d.collector.RenderStylesheet(),
		Fonts:      d.collector.FontUsage(),
		Inventory:  d.collector.Inventory(),
	}
}

// registerClass stores external, responsive and custom CSS of the element and
// returns class carrying them. Plain external declarations are deduplicated
// across elements, anything element specific gets its own class.
func (d *Document) registerClass(typ blocks.Type, el Element, external *css.Declarations) string {
	override := collector.TierFor("element")
	if len(el.Responsive) == 0 && strings.TrimSpace(el.CustomCSS) == "" {
		class := d.collector.Register(string(typ), external, override)
		if class != "" {
			d.collector.Record(common.InventoryKindExternalized, string(typ), "."+class, external)
		}
		return class
	}

	identity := string(typ) + "#"
	if el.ID != "" {
		identity += el.ID
	} else {
		identity += strconv.Itoa(d.seq)
	}
	class := d.collector.ClassFor(identity, external)
	selector := "." + class

	before := d.collector.Len()
	d.collector.AddRule(selector, external, override)
	d.collector.Record(common.InventoryKindExternalized, string(typ), selector, external)

	for _, name := range d.responsiveOrder(el.Responsive) {
		bp, ok := d.breakpoint(name)
		if !ok {
			d.collector.Record(common.InventoryKindConversion, string(typ), selector, fmt.Sprintf("unknown breakpoint %q", name))
			continue
		}
		norm := style.NormalizeStyle(el.Responsive[name])
		d.registerFonts(norm)
		decls := cssDeclarations(norm.Flatten(""))
		d.collector.AddMediaRule(bp.Query, selector, decls, override)
		d.collector.Record(common.InventoryKindExternalized, string(typ), "@media "+bp.Query+" "+selector, decls)
	}

	n := d.collector.AddCustomCSS(el.CustomCSS, selector, override)
	if d.collector.Len() == before && n == 0 {
		return ""
	}
	return class
}

// responsiveOrder returns breakpoint names of element: configured ones in
// configuration order, unknown ones sorted after them.
func (d *Document) responsiveOrder(responsive map[string]style.Tree) []string {
	out := make([]string, 0, len(responsive))
	for _, bp := range d.breakpoints {
		if _, ok := responsive[bp.Name]; ok {
			out = append(out, bp.Name)
		}
	}
	var unknown []string
	for name := range responsive {
		if _, ok := d.breakpoint(name); !ok {
			unknown = append(unknown, name)
		}
	}
	slices.Sort(unknown)
	return append(out, unknown...)
}

func (d *Document) breakpoint(name string) (Breakpoint, bool) {
	for _, bp := range d.breakpoints {
		if bp.Name == name {
			return bp, true
		}
	}
	return Breakpoint{}, false
}

// registerFonts records font usage from typography category of a bare style
// tree.
func (d *Document) registerFonts(st style.Tree) {
	typo, ok := st.GetTree("typography")
	if !ok {
		return
	}
	family := typo.GetString("fontFamily")
	if family == "" {
		return
	}
	d.collector.RegisterFontUsage(family, typo.GetString("fontWeight"), typo.GetString("fontStyle"))
}

// cssDeclarations maps flattened style keys to CSS properties. Keys without
// CSS meaning are skipped.
func cssDeclarations(flat *css.Declarations) *css.Declarations {
	out := css.NewDeclarations()
	for key, v := range flat.All() {
		if prop, value, ok := style.CSSDeclaration(key, v.Raw); ok {
			out.SetRaw(prop, value)
		}
	}
	return out
}
