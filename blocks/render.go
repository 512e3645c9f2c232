package blocks

import (
	"strings"

	"pbc/css"
	"pbc/style"
)

// wrapper is the input of inline style renderers.
type wrapper struct {
	typ   Type
	attrs style.Tree
	style style.Tree
}

func (w *wrapper) get(path ...string) (any, bool) {
	if w.style == nil {
		return nil, false
	}
	return w.style.Get(path...)
}

// styleRenderer renders one group of inline declarations.
type styleRenderer struct {
	name    string
	applies func(w *wrapper) bool
	render  func(w *wrapper, decls *css.Declarations)
}

// styleRenderers is the fixed order in which inline properties are emitted.
var styleRenderers = []styleRenderer{
	{"gap", hasStyle("spacing", "blockGap"), renderGap},
	{"margin", hasStyle("spacing", "margin"), renderBox("margin")},
	{"padding", hasStyle("spacing", "padding"), renderBox("padding")},
	{"typography", hasStyle("typography"), renderTypography},
	{"color", hasStyle("color", "text"), renderTextColor},
	{"background-color", hasAnyStyle([]string{"color", "background"}, []string{"color", "gradient"}), renderBackgroundColor},
	{"background-image", hasStyle("background"), renderBackgroundImage},
	{"min-height", hasMinHeight, renderMinHeight},
	{"size", isType(Spacer), renderSpacerSize},
	{"box-shadow", hasStyle("shadow"), renderShadow},
	{"border", hasStyle("border"), renderBorder},
}

func hasStyle(path ...string) func(w *wrapper) bool {
	return func(w *wrapper) bool {
		_, ok := w.get(path...)
		return ok
	}
}

func hasAnyStyle(paths ...[]string) func(w *wrapper) bool {
	return func(w *wrapper) bool {
		for _, p := range paths {
			if _, ok := w.get(p...); ok {
				return true
			}
		}
		return false
	}
}

func isType(t Type) func(w *wrapper) bool {
	return func(w *wrapper) bool { return w.typ == t }
}

// set stores scalar value, preset references become CSS variables.
func set(decls *css.Declarations, prop string, v any) {
	if s, ok := style.Scalar(v); ok {
		decls.SetRaw(prop, style.CSSValue(s))
	}
}

func renderGap(w *wrapper, decls *css.Declarations) {
	gap, _ := w.get("spacing", "blockGap")
	if sides, ok := style.AsTree(gap); ok {
		set(decls, "row-gap", sides["top"])
		set(decls, "column-gap", sides["left"])
		return
	}
	set(decls, "gap", gap)
}

func renderBox(box string) func(w *wrapper, decls *css.Declarations) {
	return func(w *wrapper, decls *css.Declarations) {
		v, _ := w.get("spacing", box)
		sides, ok := style.AsTree(v)
		if !ok {
			set(decls, box, v)
			return
		}
		for _, side := range []string{"top", "right", "bottom", "left"} {
			set(decls, box+"-"+side, sides[side])
		}
	}
}

// Typography keys in emission order.
var typographyOrder = []struct{ key, prop string }{
	{"fontSize", "font-size"},
	{"fontFamily", "font-family"},
	{"fontStyle", "font-style"},
	{"fontWeight", "font-weight"},
	{"letterSpacing", "letter-spacing"},
	{"lineHeight", "line-height"},
	{"textColumns", "column-count"},
	{"textDecoration", "text-decoration"},
	{"textTransform", "text-transform"},
	{"wordSpacing", "word-spacing"},
	{"writingMode", "writing-mode"},
}

func renderTypography(w *wrapper, decls *css.Declarations) {
	typo, _ := w.style.GetTree("typography")
	for _, t := range typographyOrder {
		set(decls, t.prop, typo[t.key])
	}
}

func renderTextColor(w *wrapper, decls *css.Declarations) {
	v, _ := w.get("color", "text")
	set(decls, "color", v)
}

func renderBackgroundColor(w *wrapper, decls *css.Declarations) {
	if v, ok := w.get("color", "background"); ok {
		set(decls, "background-color", v)
	}
	if v, ok := w.get("color", "gradient"); ok {
		set(decls, "background", v)
	}
}

func renderBackgroundImage(w *wrapper, decls *css.Declarations) {
	bg, _ := w.style.GetTree("background")

	var url string
	if img, ok := style.AsTree(bg["backgroundImage"]); ok {
		url = img.GetString("url")
	} else {
		url, _ = style.Scalar(bg["backgroundImage"])
	}
	if url != "" {
		if !strings.HasPrefix(url, "url(") {
			url = "url('" + url + "')"
		}
		decls.SetRaw("background-image", url)
	}
	set(decls, "background-position", bg["backgroundPosition"])
	set(decls, "background-size", bg["backgroundSize"])
	set(decls, "background-repeat", bg["backgroundRepeat"])
	set(decls, "background-attachment", bg["backgroundAttachment"])
}

func hasMinHeight(w *wrapper) bool {
	if _, ok := w.get("dimensions"); ok {
		return true
	}
	_, ok := w.attrs["minHeight"]
	return ok && w.typ == Cover
}

func renderMinHeight(w *wrapper, decls *css.Declarations) {
	if w.typ == Cover {
		if h := w.attrs.GetString("minHeight"); h != "" {
			unit := w.attrs.GetString("minHeightUnit")
			if unit == "" {
				unit = "px"
			}
			decls.SetRaw("min-height", h+unit)
		}
	}
	if v, ok := w.get("dimensions", "minHeight"); ok {
		set(decls, "min-height", v)
	}
	if v, ok := w.get("dimensions", "aspectRatio"); ok {
		set(decls, "aspect-ratio", v)
	}
}

func renderSpacerSize(w *wrapper, decls *css.Declarations) {
	for _, k := range []string{"height", "width"} {
		v := w.attrs.GetString(k)
		if v == "" {
			continue
		}
		switch w.attrs[k].(type) {
		case float64, int:
			v += "px"
		}
		decls.SetRaw(k, style.CSSValue(v))
	}
}

func renderShadow(w *wrapper, decls *css.Declarations) {
	v, _ := w.get("shadow")
	set(decls, "box-shadow", v)
}

var borderCorners = []struct{ key, prop string }{
	{"topLeft", "border-top-left-radius"},
	{"topRight", "border-top-right-radius"},
	{"bottomLeft", "border-bottom-left-radius"},
	{"bottomRight", "border-bottom-right-radius"},
}

func renderBorder(w *wrapper, decls *css.Declarations) {
	border, _ := w.style.GetTree("border")

	set(decls, "border-color", border["color"])
	if corners, ok := style.AsTree(border["radius"]); ok {
		for _, c := range borderCorners {
			set(decls, c.prop, corners[c.key])
		}
	} else {
		set(decls, "border-radius", border["radius"])
	}
	set(decls, "border-style", border["style"])
	set(decls, "border-width", border["width"])

	for _, side := range []string{"top", "right", "bottom", "left"} {
		s, ok := style.AsTree(border[side])
		if !ok {
			continue
		}
		for _, k := range []string{"color", "style", "width"} {
			set(decls, "border-"+side+"-"+k, s[k])
		}
	}
}
