package collector

import (
	"slices"
	"strings"

	"github.com/maruel/natural"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FontFamilyUsage lists weights and italic flags ("0"/"1") used with a
// family, both sorted.
type FontFamilyUsage struct {
	Weights []string `json:"weights"`
	Italics []string `json:"italics"`
}

// FontUsage is keyed by family display name.
type FontUsage map[string]FontFamilyUsage

// Families returns sorted family names.
func (u FontUsage) Families() []string {
	out := make([]string, 0, len(u))
	for f := range u {
		out = append(out, f)
	}
	slices.SortFunc(out, naturalCompare)
	return out
}

type fontEntry struct {
	name       string
	weights    map[string]bool
	italics    map[string]bool
	unresolved bool
}

var genericFamilies = map[string]bool{
	"serif": true, "sans-serif": true, "monospace": true, "cursive": true, "fantasy": true,
	"system-ui": true, "ui-serif": true, "ui-sans-serif": true, "ui-monospace": true, "ui-rounded": true,
	"emoji": true, "math": true, "fangsong": true, "-apple-system": true, "blinkmacsystemfont": true,
	"inherit": true, "initial": true, "unset": true, "revert": true, "default": true,
	"arial": true, "helvetica": true, "helvetica neue": true, "times": true, "times new roman": true,
	"georgia": true, "verdana": true, "tahoma": true, "trebuchet ms": true, "courier": true,
	"courier new": true, "segoe ui": true,
}

// RegisterFontUsage records that family is used with weight and style. Only
// the first family of a fallback list is considered, generic and system
// families are ignored.
func (c *Collector) RegisterFontUsage(family, weight, fontStyle string) {
	name := primaryFamily(family)
	if name == "" {
		return
	}
	key := strings.ToLower(name)
	if alias, ok := c.aliases[key]; ok {
		name, key = alias, strings.ToLower(alias)
	}
	if genericFamilies[key] || strings.HasPrefix(key, "var(") {
		return
	}

	e, ok := c.fonts[key]
	if !ok {
		if name == strings.ToLower(name) {
			name = cases.Title(language.Und).String(name)
		}
		e = &fontEntry{name: name, weights: make(map[string]bool), italics: make(map[string]bool)}
		c.fonts[key] = e
		c.log.Debug("Font family used", zap.String("family", name))
	}

	if w, ok := normalizeWeight(weight); ok {
		e.weights[w] = true
	} else {
		e.unresolved = true
	}
	switch strings.ToLower(strings.TrimSpace(fontStyle)) {
	case "italic", "oblique":
		e.italics["1"] = true
	default:
		e.italics["0"] = true
	}
}

// FontUsage returns aggregated font requirements. Default weight 400 is
// reported only for families which never got a concrete weight.
func (c *Collector) FontUsage() FontUsage {
	out := make(FontUsage, len(c.fonts))
	for _, e := range c.fonts {
		weights := sortedSet(e.weights)
		if len(weights) == 0 && e.unresolved {
			weights = []string{"400"}
		}
		out[e.name] = FontFamilyUsage{Weights: weights, Italics: sortedSet(e.italics)}
	}
	return out
}

func primaryFamily(family string) string {
	first, _, _ := strings.Cut(family, ",")
	first = strings.TrimSpace(first)
	first = strings.Trim(first, `"'`)
	return strings.Join(strings.Fields(first), " ")
}

func normalizeWeight(w string) (string, bool) {
	switch w = strings.ToLower(strings.TrimSpace(w)); w {
	case "normal", "regular":
		return "400", true
	case "bold":
		return "700", true
	case "100", "200", "300", "400", "500", "600", "700", "800", "900":
		return w, true
	}
	return "", false
}

func sortedSet(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.SortFunc(out, naturalCompare)
	return out
}

func naturalCompare(a, b string) int {
	switch {
	case natural.Less(a, b):
		return -1
	case natural.Less(b, a):
		return 1
	}
	return 0
}
