// Package style canonicalizes presentation values coming from page-builder
// settings: dimensions, colors, keywords, preset references and the nested
// attribute tree blocks carry them in.
package style

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cast"
)

var (
	reZeroDimension = regexp.MustCompile(`(?i)^0(\.0+)?(px|em|rem|%)?$`)
	reCSSDimension  = regexp.MustCompile(`(?i)^-?\d*\.?\d+(px|em|rem|vh|vw|%)?$`)
)

// NormalizeZeroDimension collapses any spelling of zero ("0px", "0.00em",
// "0%") to "0" and reports true. Other values are returned unchanged with
// false.
func NormalizeZeroDimension(v string) (string, bool) {
	if reZeroDimension.MatchString(strings.TrimSpace(v)) {
		return "0", true
	}
	return v, false
}

// ZeroOrExternal is used for properties where only zero has native
// representation (letter-spacing, word-spacing). Zero is returned as native
// value, anything else non empty is returned as external value.
func ZeroOrExternal(v string) (native, external string) {
	if z, ok := NormalizeZeroDimension(v); ok {
		return z, ""
	}
	return "", strings.TrimSpace(v)
}

// SanitizeCSSDimension accepts unitless or px/em/rem/vh/vw/% numbers, returns
// "" for anything else. Units are lowercased.
func SanitizeCSSDimension(v string) string {
	v = strings.TrimSpace(v)
	if !reCSSDimension.MatchString(v) {
		return ""
	}
	return strings.ToLower(v)
}

// SanitizeKeyword returns lowercased v if it is one of allowed keywords, "" otherwise.
func SanitizeKeyword(v string, allowed ...string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return ""
	}
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return ""
}

// Scalar coerces raw setting value to string. Maps, slices and nil are
// treated as absent, as are values which trim to empty string.
func Scalar(v any) (string, bool) {
	switch v.(type) {
	case nil, map[string]any, Tree, []any, []string, []map[string]any:
		return "", false
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// NormalizeColor converts CSS color to lowercase #rrggbb. Returns "" for
// transparent or fully transparent colors, variable references, global
// keywords and anything it cannot parse.
func NormalizeColor(v string) string {
	c, ok := parseColor(v)
	if !ok {
		return ""
	}
	return c.Hex()
}

func parseColor(v string) (colorful.Color, bool) {
	raw := strings.ToLower(strings.TrimSpace(v))

	switch {
	case raw == "", raw == "transparent", raw == "inherit", raw == "initial",
		raw == "unset", raw == "currentcolor", strings.HasPrefix(raw, "var"):
		return colorful.Color{}, false

	case strings.HasPrefix(raw, "#"):
		return parseHexColor(raw)

	case strings.HasPrefix(raw, "rgb(") || strings.HasPrefix(raw, "rgba("):
		return parseRGBFunc(raw)
	}

	if rgb, ok := namedColors[raw]; ok {
		return colorful.Color{R: float64(rgb[0]) / 255.0, G: float64(rgb[1]) / 255.0, B: float64(rgb[2]) / 255.0}, true
	}
	return colorful.Color{}, false
}

func parseHexColor(raw string) (colorful.Color, bool) {
	hex := raw[1:]
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return colorful.Color{}, false
		}
	}

	switch len(hex) {
	case 4:
		if hex[3] == '0' {
			return colorful.Color{}, false
		}
		hex = hex[:3]
	case 8:
		if hex[6:] == "00" {
			return colorful.Color{}, false
		}
		hex = hex[:6]
	case 3, 6:
	default:
		return colorful.Color{}, false
	}

	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

// parseRGBFunc handles rgb()/rgba() in both comma and space separated forms,
// channels may be numbers or percentages, alpha may be number or percentage.
func parseRGBFunc(raw string) (colorful.Color, bool) {
	open, end := strings.IndexByte(raw, '('), strings.LastIndexByte(raw, ')')
	if open < 0 || end < open {
		return colorful.Color{}, false
	}
	inner := raw[open+1 : end]

	var parts []string
	if strings.Contains(inner, ",") {
		for p := range strings.SplitSeq(inner, ",") {
			parts = append(parts, strings.TrimSpace(p))
		}
	} else {
		inner = strings.ReplaceAll(inner, "/", " ")
		parts = strings.Fields(inner)
	}
	if len(parts) != 3 && len(parts) != 4 {
		return colorful.Color{}, false
	}

	var ch [3]float64
	for i := range 3 {
		f, ok := parseChannel(parts[i], 255)
		if !ok {
			return colorful.Color{}, false
		}
		ch[i] = math.Max(0, math.Min(255, f))
	}
	if len(parts) == 4 {
		alpha, ok := parseChannel(parts[3], 1)
		if !ok || alpha <= 0 {
			return colorful.Color{}, false
		}
	}
	return colorful.Color{R: math.Round(ch[0]) / 255.0, G: math.Round(ch[1]) / 255.0, B: math.Round(ch[2]) / 255.0}, true
}

// parseChannel parses number or percentage, percentage is scaled to max.
func parseChannel(s string, scale float64) (float64, bool) {
	if s == "" {
		return 0, false
	}
	if p, ok := strings.CutSuffix(s, "%"); ok {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, false
		}
		return f * scale / 100, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Basic and most frequently used extended CSS color keywords.
var namedColors = map[string][3]uint8{
	"black":   {0, 0, 0},
	"white":   {255, 255, 255},
	"red":     {255, 0, 0},
	"green":   {0, 128, 0},
	"blue":    {0, 0, 255},
	"gray":    {128, 128, 128},
	"grey":    {128, 128, 128},
	"silver":  {192, 192, 192},
	"maroon":  {128, 0, 0},
	"navy":    {0, 0, 128},
	"teal":    {0, 128, 128},
	"olive":   {128, 128, 0},
	"purple":  {128, 0, 128},
	"fuchsia": {255, 0, 255},
	"magenta": {255, 0, 255},
	"aqua":    {0, 255, 255},
	"cyan":    {0, 255, 255},
	"lime":    {0, 255, 0},
	"yellow":  {255, 255, 0},
	"orange":  {255, 165, 0},
	"brown":   {165, 42, 42},
	"pink":    {255, 192, 203},
	"gold":    {255, 215, 0},
	"indigo":  {75, 0, 130},
	"violet":  {238, 130, 238},
	"coral":   {255, 127, 80},
	"salmon":  {250, 128, 114},
	"tomato":  {255, 99, 71},
	"crimson": {220, 20, 60},
	"khaki":   {240, 230, 140},
	"beige":   {245, 245, 220},
	"ivory":   {255, 255, 240},
}
