// Package blocks knows target block types: which style categories and
// attributes each type carries natively, how attribute trees are split
// between the block and external stylesheet and how block markup is
// produced.
package blocks

import (
	"slices"
	"strings"

	"pbc/common"
)

// Type is fully qualified block name, "core/paragraph".
type Type string

// Known block types.
const (
	Paragraph   Type = "core/paragraph"
	Heading     Type = "core/heading"
	List        Type = "core/list"
	ListItem    Type = "core/list-item"
	Quote       Type = "core/quote"
	Image       Type = "core/image"
	Gallery     Type = "core/gallery"
	Buttons     Type = "core/buttons"
	Button      Type = "core/button"
	Group       Type = "core/group"
	Columns     Type = "core/columns"
	Column      Type = "core/column"
	Cover       Type = "core/cover"
	Spacer      Type = "core/spacer"
	Separator   Type = "core/separator"
	Embed       Type = "core/embed"
	Video       Type = "core/video"
	Audio       Type = "core/audio"
	HTML        Type = "core/html"
	Shortcode   Type = "core/shortcode"
	SocialLinks Type = "core/social-links"
)

const corePrefix = "core/"

// TypeFromName accepts both "core/paragraph" and "paragraph".
func TypeFromName(name string) Type {
	name = strings.TrimSpace(name)
	if name != "" && !strings.Contains(name, "/") {
		name = corePrefix + name
	}
	return Type(name)
}

// ShortName returns name as it appears in block delimiters: core namespace is
// omitted.
func (t Type) ShortName() string {
	return strings.TrimPrefix(string(t), corePrefix)
}

// Support describes what a block type carries natively.
type Support struct {
	styles map[string]bool
	attrs  map[string]bool

	// Path is the default markup synthesis path.
	Path common.RenderPath
	// Class is the base wrapper class, may be empty.
	Class string
	// Tag is the wrapper element for heuristic path.
	Tag string
	// Order is the attribute serialization order, keys not listed here
	// follow alphabetically.
	Order []string
}

// AllowsStyle reports whether style category is native for the block.
func (s Support) AllowsStyle(category string) bool {
	return s.styles[category]
}

// AllowsAttr reports whether top level attribute is native for the block.
func (s Support) AllowsAttr(key string) bool {
	return s.attrs[key]
}

// Styles returns sorted native style categories.
func (s Support) Styles() []string {
	return sortedKeys(s.styles)
}

// Attrs returns sorted native attributes.
func (s Support) Attrs() []string {
	return sortedKeys(s.attrs)
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Attributes every block accepts.
var universalAttrs = []string{"lock", "metadata"}

// Attributes injected by color, typography and class name supports.
var presentationAttrs = []string{
	"anchor", "className", "textColor", "backgroundColor", "gradient", "fontSize", "fontFamily",
}

func support(path common.RenderPath, class, tag string, styles []string, attrs [][]string, order ...string) Support {
	s := Support{
		styles: make(map[string]bool, len(styles)),
		attrs:  make(map[string]bool),
		Path:   path,
		Class:  class,
		Tag:    tag,
		Order:  order,
	}
	for _, st := range styles {
		s.styles[st] = true
	}
	for _, group := range append(attrs, universalAttrs) {
		for _, a := range group {
			s.attrs[a] = true
		}
	}
	return s
}

var (
	canonical = common.RenderPathCanonical
	heuristic = common.RenderPathHeuristic
)

// supportTable is the closed set of block types with their native
// capabilities. It is never modified after initialization.
var supportTable = map[Type]Support{
	Paragraph: support(heuristic, "", "p",
		[]string{"color", "typography", "spacing", "border"},
		[][]string{presentationAttrs, {"align", "dropCap", "direction"}},
		"align", "dropCap", "placeholder", "direction"),
	Heading: support(heuristic, "wp-block-heading", "h2",
		[]string{"color", "typography", "spacing", "border"},
		[][]string{presentationAttrs, {"textAlign", "level"}},
		"textAlign", "level", "placeholder"),
	List: support(heuristic, "wp-block-list", "ul",
		[]string{"color", "typography", "spacing", "border"},
		[][]string{presentationAttrs, {"ordered", "type", "start", "reversed"}},
		"ordered", "values", "type", "start", "reversed", "placeholder"),
	ListItem: support(heuristic, "", "li",
		[]string{"color", "typography", "spacing"},
		[][]string{presentationAttrs},
		"placeholder", "content"),
	Quote: support(heuristic, "wp-block-quote", "blockquote",
		[]string{"color", "typography", "spacing", "border"},
		[][]string{presentationAttrs, {"textAlign", "citation"}},
		"value", "citation", "textAlign"),
	Image: support(canonical, "wp-block-image", "figure",
		[]string{"border", "shadow", "spacing"},
		[][]string{{"anchor", "className", "align", "url", "alt", "caption", "lightbox", "title", "href", "rel",
			"linkClass", "id", "width", "height", "aspectRatio", "scale", "sizeSlug", "linkDestination", "linkTarget"}},
		"blob", "url", "alt", "caption", "lightbox", "title", "href", "rel", "linkClass", "id", "width", "height",
		"aspectRatio", "scale", "sizeSlug", "linkDestination", "linkTarget"),
	Gallery: support(canonical, "wp-block-gallery", "figure",
		[]string{"border", "spacing", "color"},
		[][]string{{"anchor", "className", "align", "images", "ids", "columns", "caption", "imageCrop", "randomOrder",
			"fixedHeight", "linkTarget", "linkTo", "sizeSlug", "allowResize", "backgroundColor", "textColor", "layout"}},
		"images", "ids", "shortCodeTransforms", "columns", "caption", "imageCrop", "randomOrder", "fixedHeight",
		"linkTarget", "linkTo", "sizeSlug", "allowResize"),
	Buttons: support(heuristic, "wp-block-buttons", "div",
		[]string{"spacing", "typography"},
		[][]string{{"anchor", "className", "align", "layout", "fontSize", "fontFamily"}}),
	Button: support(heuristic, "wp-block-button", "div",
		[]string{"color", "typography", "spacing", "border", "shadow"},
		[][]string{presentationAttrs, {"tagName", "type", "textAlign", "url", "title", "text", "linkTarget", "rel", "width"}},
		"tagName", "type", "textAlign", "url", "title", "text", "linkTarget", "rel", "placeholder",
		"backgroundColor", "textColor", "gradient", "width"),
	Group: support(heuristic, "wp-block-group", "div",
		[]string{"color", "spacing", "border", "typography", "dimensions", "background", "shadow"},
		[][]string{presentationAttrs, {"tagName", "templateLock", "align", "layout", "borderColor"}},
		"tagName", "templateLock"),
	Columns: support(heuristic, "wp-block-columns", "div",
		[]string{"color", "spacing", "border", "typography"},
		[][]string{presentationAttrs, {"verticalAlignment", "isStackedOnMobile", "templateLock", "align", "layout"}},
		"verticalAlignment", "isStackedOnMobile", "templateLock"),
	Column: support(heuristic, "wp-block-column", "div",
		[]string{"color", "spacing", "border", "typography", "shadow"},
		[][]string{presentationAttrs, {"verticalAlignment", "width", "templateLock", "layout"}},
		"verticalAlignment", "width", "templateLock"),
	Cover: support(heuristic, "wp-block-cover", "div",
		[]string{"spacing", "border", "color", "typography", "dimensions"},
		[][]string{presentationAttrs, {"url", "useFeaturedImage", "id", "alt", "hasParallax", "isRepeated", "dimRatio",
			"overlayColor", "customOverlayColor", "backgroundType", "focalPoint", "minHeight", "minHeightUnit",
			"customGradient", "contentPosition", "isDark", "templateLock", "tagName", "sizeSlug", "align", "layout"}},
		"url", "useFeaturedImage", "id", "alt", "hasParallax", "isRepeated", "dimRatio", "overlayColor",
		"customOverlayColor", "backgroundType", "focalPoint", "minHeight", "minHeightUnit", "gradient",
		"customGradient", "contentPosition", "isDark", "allowedBlocks", "templateLock", "tagName", "sizeSlug"),
	Spacer: support(heuristic, "wp-block-spacer", "div",
		[]string{"spacing"},
		[][]string{{"anchor", "className", "height", "width"}},
		"height", "width"),
	Separator: support(heuristic, "wp-block-separator", "hr",
		[]string{"color", "spacing"},
		[][]string{{"anchor", "className", "opacity", "align", "backgroundColor"}},
		"opacity"),
	Embed: support(canonical, "wp-block-embed", "figure",
		[]string{"spacing"},
		[][]string{{"anchor", "className", "url", "caption", "type", "providerNameSlug", "allowResponsive",
			"responsive", "previewable", "align"}},
		"url", "caption", "type", "providerNameSlug", "allowResponsive", "responsive", "previewable"),
	Video: support(canonical, "wp-block-video", "figure",
		[]string{"spacing"},
		[][]string{{"anchor", "className", "autoplay", "caption", "controls", "id", "loop", "muted", "poster",
			"preload", "src", "playsInline", "tracks", "align"}},
		"autoplay", "caption", "controls", "id", "loop", "muted", "poster", "preload", "blob", "src",
		"playsInline", "tracks"),
	Audio: support(canonical, "wp-block-audio", "figure",
		[]string{"spacing"},
		[][]string{{"anchor", "className", "src", "caption", "id", "autoplay", "loop", "preload", "align"}},
		"blob", "src", "caption", "id", "autoplay", "loop", "preload"),
	HTML: support(canonical, "", "",
		nil,
		[][]string{{"content"}},
		"content"),
	Shortcode: support(canonical, "", "",
		nil,
		[][]string{{"text"}},
		"text"),
	SocialLinks: support(heuristic, "wp-block-social-links", "ul",
		[]string{"spacing", "border", "color"},
		[][]string{{"anchor", "className", "iconColor", "customIconColor", "iconColorValue", "iconBackgroundColor",
			"customIconBackgroundColor", "iconBackgroundColorValue", "openInNewTab", "showLabels", "size",
			"align", "layout"}},
		"iconColor", "customIconColor", "iconColorValue", "iconBackgroundColor", "customIconBackgroundColor",
		"iconBackgroundColorValue", "openInNewTab", "showLabels", "size"),
}

// Lookup returns support record for block type. Unknown types get empty
// allow-sets and canonical path, so nothing is claimed as native.
func Lookup(t Type) (Support, bool) {
	s, ok := supportTable[t]
	if !ok {
		return Support{Path: common.RenderPathCanonical}, false
	}
	return s, true
}

// Types returns all known block types, sorted.
func Types() []Type {
	out := make([]Type, 0, len(supportTable))
	for t := range supportTable {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}
