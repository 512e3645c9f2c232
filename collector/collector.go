// Package collector accumulates style declarations which could not stay on
// blocks into a deduplicated external stylesheet, tracks font usage and keeps
// an audit inventory of everything that was moved out of blocks.
package collector

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/elliotchance/orderedmap/v3"
	"go.uber.org/zap"

	"pbc/common"
	"pbc/css"
)

const (
	DefaultPrefix     = "pbc-"
	DefaultHashLength = 8
)

// Option configures Collector.
type Option func(*Collector)

// WithPrefix sets generated class prefix.
func WithPrefix(prefix string) Option {
	return func(c *Collector) {
		if prefix = strings.TrimSpace(prefix); prefix != "" {
			c.prefix = prefix
		}
	}
}

// WithHashLength sets number of hex digits of generated class id (4..16).
func WithHashLength(n int) Option {
	return func(c *Collector) {
		if n >= 4 && n <= 16 {
			c.hashLength = n
		}
	}
}

// WithFontAliases sets family aliases, keys are matched case-insensitively.
func WithFontAliases(aliases map[string]string) Option {
	return func(c *Collector) {
		for k, v := range aliases {
			if k, v = strings.TrimSpace(k), strings.TrimSpace(v); k != "" && v != "" {
				c.aliases[strings.ToLower(k)] = v
			}
		}
	}
}

type selectorMap = orderedmap.OrderedMap[string, *css.Declarations]

// Collector is per output document state. NOTE: not to be used concurrently,
// every document being processed gets its own.
type Collector struct {
	log        *zap.Logger
	prefix     string
	hashLength int
	aliases    map[string]string

	static    map[common.Tier]*selectorMap
	media     map[common.Tier]*orderedmap.OrderedMap[string, *selectorMap]
	fonts     map[string]*fontEntry
	inventory []InventoryEntry
}

// New creates empty collector.
func New(log *zap.Logger, opts ...Option) *Collector {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Collector{
		log:        log.Named("collector"),
		prefix:     DefaultPrefix,
		hashLength: DefaultHashLength,
		aliases:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Reset()
	return c
}

// Reset drops everything collected so far, options are kept.
func (c *Collector) Reset() {
	c.static = make(map[common.Tier]*selectorMap)
	c.media = make(map[common.Tier]*orderedmap.OrderedMap[string, *selectorMap])
	for _, t := range []common.Tier{common.TierBase, common.TierOverride} {
		c.static[t] = orderedmap.NewOrderedMap[string, *css.Declarations]()
		c.media[t] = orderedmap.NewOrderedMap[string, *selectorMap]()
	}
	c.fonts = make(map[string]*fontEntry)
	c.inventory = nil
}

// TierFor maps registration reason to precedence bucket: kit wide (theme,
// global) styles are base, everything element specific overrides them.
func TierFor(reason string) common.Tier {
	switch strings.ToLower(strings.TrimSpace(reason)) {
	case "kit", "theme", "global":
		return common.TierBase
	}
	return common.TierOverride
}

// TierFor is a method form of package level TierFor.
func (c *Collector) TierFor(reason string) common.Tier {
	return TierFor(reason)
}

// ClassFor returns class name identifying declarations of the block. Equal
// declaration sets produce the same class regardless of insertion order.
func (c *Collector) ClassFor(block string, decls *css.Declarations) string {
	return c.prefix + c.hashID(block, sanitizeDeclarations(decls))
}

// encodeDeclarations produces canonical form of declarations, json sorts map
// keys.
var encodeDeclarations = func(m map[string]string) ([]byte, error) {
	return json.Marshal(m)
}

func (c *Collector) hashID(block string, decls *css.Declarations) string {
	data, err := encodeDeclarations(decls.Map())
	if err != nil {
		c.log.Warn("Unable to encode declarations, hashing inline form", zap.String("block", block), zap.Error(err))
		data = []byte(decls.Inline())
	}
	id := fmt.Sprintf("%016x", xxhash.Sum64String(block+string(data)))
	return id[:c.hashLength]
}

// Register stores declarations under generated class and returns class name.
// Empty declarations are not registered and produce empty class.
func (c *Collector) Register(block string, decls *css.Declarations, tier common.Tier) string {
	clean := sanitizeDeclarations(decls)
	if clean.Len() == 0 {
		return ""
	}
	class := c.prefix + c.hashID(block, clean)
	c.addRule(c.static[normalizeTier(tier)], "."+class, clean)
	return class
}

// AddRule merges declarations into rule with given selector, later writes win
// per property. Empty selector or declarations are ignored.
func (c *Collector) AddRule(selector string, decls *css.Declarations, tier common.Tier) {
	selector = strings.TrimSpace(selector)
	clean := sanitizeDeclarations(decls)
	if selector == "" || clean.Len() == 0 {
		return
	}
	c.addRule(c.static[normalizeTier(tier)], selector, clean)
}

// AddMediaRule is AddRule inside @media block with given query.
func (c *Collector) AddMediaRule(query, selector string, decls *css.Declarations, tier common.Tier) {
	query, selector = strings.TrimSpace(query), strings.TrimSpace(selector)
	clean := sanitizeDeclarations(decls)
	if query == "" || selector == "" || clean.Len() == 0 {
		return
	}
	queries := c.media[normalizeTier(tier)]
	rules, ok := queries.Get(query)
	if !ok {
		rules = orderedmap.NewOrderedMap[string, *css.Declarations]()
		queries.Set(query, rules)
	}
	c.addRule(rules, selector, clean)
}

func (c *Collector) addRule(rules *selectorMap, selector string, decls *css.Declarations) {
	if existing, ok := rules.Get(selector); ok {
		existing.Merge(decls)
		return
	}
	rules.Set(selector, decls.Clone())
}

var rePlaceholder = regexp.MustCompile(`\bselector\b`)

// AddCustomCSS registers element custom CSS. Occurrences of "selector"
// placeholder are replaced with element selector, rules without placeholder
// are scoped under it. Returns number of rules registered.
func (c *Collector) AddCustomCSS(raw, selector string, tier common.Tier) int {
	selector = strings.TrimSpace(selector)
	if strings.TrimSpace(raw) == "" || selector == "" {
		return 0
	}

	sheet := css.NewParser(c.log).Parse([]byte(raw), selector)
	for _, w := range sheet.Warnings {
		c.log.Debug("Custom CSS", zap.String("selector", selector), zap.String("warning", w))
	}

	scope := func(sel string) string {
		var out []string
		for part := range strings.SplitSeq(sel, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if rePlaceholder.MatchString(part) {
				out = append(out, rePlaceholder.ReplaceAllLiteralString(part, selector))
			} else {
				out = append(out, selector+" "+part)
			}
		}
		return strings.Join(out, ", ")
	}

	count := 0
	for _, item := range sheet.Items {
		switch {
		case item.Rule != nil:
			if sanitizeDeclarations(item.Rule.Properties).Len() > 0 {
				c.AddRule(scope(item.Rule.Selector), item.Rule.Properties, tier)
				count++
			}
		case item.MediaBlock != nil:
			for _, r := range item.MediaBlock.Rules {
				if sanitizeDeclarations(r.Properties).Len() > 0 {
					c.AddMediaRule(item.MediaBlock.Query, scope(r.Selector), r.Properties, tier)
					count++
				}
			}
		}
	}
	return count
}

// Stylesheet assembles collected rules: base static rules, override static
// rules, base media rules and override media rules. Media rules are grouped
// per query in the order queries were first seen.
func (c *Collector) Stylesheet() *css.Stylesheet {
	sheet := &css.Stylesheet{}
	for _, tier := range []common.Tier{common.TierBase, common.TierOverride} {
		for selector, decls := range c.static[tier].AllFromFront() {
			sheet.Items = append(sheet.Items, css.StylesheetItem{
				Rule: &css.Rule{Selector: selector, Properties: decls},
			})
		}
	}
	for _, tier := range []common.Tier{common.TierBase, common.TierOverride} {
		for query, rules := range c.media[tier].AllFromFront() {
			mb := &css.MediaBlock{Query: query}
			for selector, decls := range rules.AllFromFront() {
				mb.Rules = append(mb.Rules, css.Rule{Selector: selector, Properties: decls})
			}
			sheet.Items = append(sheet.Items, css.StylesheetItem{MediaBlock: mb})
		}
	}
	return sheet
}

// RenderStylesheet returns CSS text of collected rules.
func (c *Collector) RenderStylesheet() string {
	return c.Stylesheet().String()
}

// Len returns number of distinct selectors collected across all buckets.
func (c *Collector) Len() int {
	n := 0
	for _, tier := range []common.Tier{common.TierBase, common.TierOverride} {
		n += c.static[tier].Len()
		for _, rules := range c.media[tier].AllFromFront() {
			n += rules.Len()
		}
	}
	return n
}

func normalizeTier(t common.Tier) common.Tier {
	if !t.IsValid() {
		return common.TierOverride
	}
	return t
}

var reProperty = regexp.MustCompile(`^-{0,2}[a-z][a-z0-9-]*$`)

// sanitizeDeclarations trims names and values, drops blank entries and
// anything which could escape declaration block. Priority is never forced.
func sanitizeDeclarations(decls *css.Declarations) *css.Declarations {
	out := css.NewDeclarations()
	for name, v := range decls.All() {
		name = strings.ToLower(strings.TrimSpace(name))
		raw := strings.TrimSpace(v.Raw)
		if name == "" || raw == "" || !reProperty.MatchString(name) {
			continue
		}
		if escapesDeclaration(raw) {
			continue
		}
		v.Raw = raw
		out.Set(name, v)
	}
	return out
}

// escapesDeclaration reports whether value could terminate declaration or
// block it is written into. Semicolons are allowed inside strings and url()
// tokens, braces only inside strings. Unterminated strings and url() tokens
// are rejected.
func escapesDeclaration(raw string) bool {
	var quote byte
	inURL := false
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		switch {
		case quote != 0:
			switch ch {
			case '\\':
				i++
			case '\n', '\r', '\f':
				return true
			case quote:
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '\\':
			i++
		case ch == '{' || ch == '}':
			return true
		case inURL:
			if ch == ')' {
				inURL = false
			}
		case ch == ';':
			return true
		case ch == '(' && i >= 3 && strings.EqualFold(raw[i-3:i], "url"):
			inURL = true
		}
	}
	return quote != 0 || inURL
}
