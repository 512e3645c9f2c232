package style

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
)

// ColorTolerance is the maximum normalized RGB distance (0..1) at which a
// color still resolves to a palette preset.
const ColorTolerance = 0.03

// Pixels per rem/em when font sizes are approximated.
const remPixels = 16.0

// ColorPreset is a named palette entry.
type ColorPreset struct {
	Slug  string `yaml:"slug" json:"slug"`
	Name  string `yaml:"name" json:"name"`
	Color string `yaml:"color" json:"color"`
}

// FontSizePreset is a named font size scale entry.
type FontSizePreset struct {
	Slug string `yaml:"slug" json:"slug"`
	Name string `yaml:"name" json:"name"`
	Size string `yaml:"size" json:"size"`
}

// Presets holds the active theme palette and font size scale in their
// declared order.
type Presets struct {
	Palette   []ColorPreset
	FontSizes []FontSizePreset
}

// NewPresets prepares presets for matching: slugs missing in configuration
// are generated from names and colors are normalized. Entries without usable
// slug or value are skipped.
func NewPresets(palette []ColorPreset, sizes []FontSizePreset) *Presets {
	p := &Presets{}
	for _, c := range palette {
		if c.Slug == "" {
			c.Slug = slug.Make(c.Name)
		}
		c.Color = NormalizeColor(c.Color)
		if c.Slug == "" || c.Color == "" {
			continue
		}
		p.Palette = append(p.Palette, c)
	}
	for _, s := range sizes {
		if s.Slug == "" {
			s.Slug = slug.Make(s.Name)
		}
		if _, ok := approxPixels(s.Size); s.Slug == "" || !ok {
			continue
		}
		p.FontSizes = append(p.FontSizes, s)
	}
	return p
}

// ColorDistance returns normalized (0..1) Euclidean RGB distance between two
// colors, or false when either cannot be parsed.
func ColorDistance(a, b string) (float64, bool) {
	ca, ok := parseColor(a)
	if !ok {
		return 0, false
	}
	cb, ok := parseColor(b)
	if !ok {
		return 0, false
	}
	// DistanceRgb works on 0..1 channels, so maximum is sqrt(3)
	return ca.DistanceRgb(cb) / math.Sqrt(3), true
}

// WithinColorTolerance reports whether normalized distance resolves to a preset.
func WithinColorTolerance(distance float64) bool {
	return distance <= ColorTolerance
}

// MatchColor returns slug of the closest palette color if it is within
// ColorTolerance.
func (p *Presets) MatchColor(v string) (string, bool) {
	if p == nil || NormalizeColor(v) == "" {
		return "", false
	}

	best, bestDist := "", math.Inf(1)
	for _, c := range p.Palette {
		d, ok := ColorDistance(v, c.Color)
		if !ok {
			continue
		}
		if d < bestDist {
			best, bestDist = c.Slug, d
		}
	}
	if best == "" || !WithinColorTolerance(bestDist) {
		return "", false
	}
	return best, true
}

// MatchFontSize returns slug of the first preset (in declared order) whose
// size is within max(0.25px, 3% of preset) of v.
func (p *Presets) MatchFontSize(v string) (string, bool) {
	if p == nil {
		return "", false
	}
	in, ok := approxPixels(v)
	if !ok {
		return "", false
	}
	for _, s := range p.FontSizes {
		size, ok := approxPixels(s.Size)
		if !ok {
			continue
		}
		if math.Abs(in-size) <= math.Max(0.25, size*0.03) {
			return s.Slug, true
		}
	}
	return "", false
}

var rePixelValue = regexp.MustCompile(`(?i)^(-?\d*\.?\d+)(px|rem|em)?$`)

// approxPixels converts px/rem/em/unitless sizes to pixels.
func approxPixels(v string) (float64, bool) {
	m := rePixelValue.FindStringSubmatch(strings.TrimSpace(v))
	if m == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	switch strings.ToLower(m[2]) {
	case "rem", "em":
		return f * remPixels, true
	default:
		return f, true
	}
}

const presetRefPrefix = "var:preset|"

// PresetRef returns attribute reference to a preset: "var:preset|color|slug".
func PresetRef(kind, slug string) string {
	return presetRefPrefix + kind + "|" + slug
}

// PresetVar returns CSS custom property reference to a preset:
// "var(--wp--preset--color--slug)".
func PresetVar(kind, slug string) string {
	return fmt.Sprintf("var(--wp--preset--%s--%s)", kind, slug)
}

// ParsePresetRef recognizes both attribute and CSS variable forms of a preset
// reference.
func ParsePresetRef(v string) (kind, slug string, ok bool) {
	v = strings.TrimSpace(v)
	if rest, found := strings.CutPrefix(v, presetRefPrefix); found {
		kind, slug, ok = strings.Cut(rest, "|")
		return kind, slug, ok && kind != "" && slug != ""
	}
	if rest, found := strings.CutPrefix(v, "var(--wp--preset--"); found {
		rest, found = strings.CutSuffix(rest, ")")
		if !found {
			return "", "", false
		}
		kind, slug, ok = strings.Cut(rest, "--")
		return kind, slug, ok && kind != "" && slug != ""
	}
	return "", "", false
}

// CSSValue converts attribute preset references to CSS variables, other
// values are returned as is.
func CSSValue(v string) string {
	if strings.HasPrefix(strings.TrimSpace(v), presetRefPrefix) {
		if kind, s, ok := ParsePresetRef(v); ok {
			return PresetVar(kind, s)
		}
	}
	return v
}
