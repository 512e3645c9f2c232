package style

import (
	"strings"
)

// Flattened style keys which do not name a CSS property directly.
var propertyAliases = map[string]string{
	"color-text":                       "color",
	"color-background":                 "background-color",
	"color-gradient":                   "background-image",
	"spacing-block-gap":                "gap",
	"spacing-block-gap-top":            "row-gap",
	"spacing-block-gap-left":           "column-gap",
	"spacing-padding":                  "padding",
	"spacing-margin":                   "margin",
	"background-background-image":      "background-image",
	"background-background-image-url":  "background-image",
	"background-background-size":       "background-size",
	"background-background-position":   "background-position",
	"background-background-repeat":     "background-repeat",
	"background-background-attachment": "background-attachment",
	"border-radius-top-left":           "border-top-left-radius",
	"border-radius-top-right":          "border-top-right-radius",
	"border-radius-bottom-left":        "border-bottom-left-radius",
	"border-radius-bottom-right":       "border-bottom-right-radius",
	"dimensions-min-height":            "min-height",
	"dimensions-aspect-ratio":          "aspect-ratio",
	"dimensions-width":                 "width",
	"dimensions-height":                "height",
	"shadow":                           "box-shadow",
	"typography-text-columns":          "column-count",
	"typography-writing-mode":          "writing-mode",
	"typography-font-family":           "font-family",
	"typography-font-size":             "font-size",
	"typography-font-style":            "font-style",
	"typography-font-weight":           "font-weight",
	"typography-letter-spacing":        "letter-spacing",
	"typography-line-height":           "line-height",
	"typography-text-align":            "text-align",
	"typography-text-decoration":       "text-decoration",
	"typography-text-transform":        "text-transform",
	"typography-word-spacing":          "word-spacing",
}

// Flattened prefixes of descriptive data which has no CSS meaning: media
// library metadata of background image, duotone filter presets.
var metadataPrefixes = []string{"elements-", "background-background-image-", "color-duotone"}

// Flattened prefixes which are removed to get CSS property name.
var propertyPrefixes = []struct{ prefix, replace string }{
	{"spacing-padding-", "padding-"},
	{"spacing-margin-", "margin-"},
	{"typography-", ""},
}

// CSSProperty maps flattened style key (see Tree.Flatten) to CSS property
// name. Keys without CSS meaning (nested element styles, image metadata)
// return false.
func CSSProperty(flatKey string) (string, bool) {
	if flatKey == "" {
		return "", false
	}
	if p, ok := propertyAliases[flatKey]; ok {
		return p, true
	}
	for _, prefix := range metadataPrefixes {
		if strings.HasPrefix(flatKey, prefix) {
			return "", false
		}
	}
	for _, pp := range propertyPrefixes {
		if rest, ok := strings.CutPrefix(flatKey, pp.prefix); ok && rest != "" {
			return pp.replace + rest, true
		}
	}
	return flatKey, true
}

// CSSDeclaration maps flattened style key and value to CSS declaration.
// Preset references become CSS variables and image urls are wrapped.
func CSSDeclaration(flatKey, value string) (string, string, bool) {
	prop, ok := CSSProperty(flatKey)
	if !ok {
		return "", "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", "", false
	}
	if flatKey == "background-background-image-url" && !strings.HasPrefix(value, "url(") {
		value = "url(" + value + ")"
	}
	return prop, CSSValue(value), true
}
