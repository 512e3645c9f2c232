package blocks

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"go.uber.org/zap"

	"pbc/common"
	"pbc/css"
	"pbc/style"
)

// BuildInput is everything needed to produce markup of a single block.
type BuildInput struct {
	Type Type
	// Attrs are native attributes, normally SplitResult.Native.
	Attrs style.Tree
	// Content is pre-sanitized inner markup.
	Content string
	// Path forces synthesis path, auto uses block table.
	Path common.RenderPath
}

// Builder synthesizes block markup. It keeps no state between calls.
type Builder struct {
	log *zap.Logger
}

// NewBuilder creates a builder.
func NewBuilder(log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{log: log.Named("builder")}
}

// Build returns serialized block. Without block type content is returned
// unchanged.
func (b *Builder) Build(in BuildInput) string {
	if in.Type == "" {
		return in.Content
	}

	sup, _ := Lookup(in.Type)
	path := in.Path
	if path == common.RenderPathAuto || !path.IsValid() {
		path = sup.Path
	}

	if path == common.RenderPathHeuristic {
		return Serialize(in.Type, in.Attrs, Wrap(in.Type, in.Attrs, in.Content))
	}

	content := in.Content
	if in.Type == Image {
		content = NormalizeImage(in.Attrs, content)
	} else {
		content = NormalizeRootClass(in.Type, in.Attrs, content)
	}
	return Serialize(in.Type, in.Attrs, content)
}

// Wrap assembles wrapper element for heuristic path:
// <tag class="..." style="..." ...>content</tag>.
func Wrap(typ Type, attrs style.Tree, content string) string {
	tag := wrapperTag(typ, attrs)

	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(tag)
	if classes := WrapperClasses(typ, attrs); len(classes) > 0 {
		writeAttr(&sb, "class", strings.Join(classes, " "))
	}
	if decls := WrapperStyle(typ, attrs); decls.Len() > 0 {
		writeAttr(&sb, "style", decls.Inline())
	}
	if anchor := attrs.GetString("anchor"); anchor != "" {
		writeAttr(&sb, "id", anchor)
	}
	for _, a := range extraAttributes(typ, attrs) {
		writeAttr(&sb, a[0], a[1])
	}

	if voidTags[tag] {
		sb.WriteString("/>")
		return sb.String()
	}
	sb.WriteByte('>')
	sb.WriteString(content)
	sb.WriteString("</")
	sb.WriteString(tag)
	sb.WriteByte('>')
	return sb.String()
}

var voidTags = map[string]bool{"hr": true, "br": true, "img": true}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;")

func writeAttr(sb *strings.Builder, name, value string) {
	sb.WriteByte(' ')
	sb.WriteString(name)
	sb.WriteString(`="`)
	sb.WriteString(attrEscaper.Replace(value))
	sb.WriteByte('"')
}

var containerTags = []string{"div", "header", "main", "section", "article", "aside", "footer", "nav"}

func wrapperTag(typ Type, attrs style.Tree) string {
	sup, _ := Lookup(typ)
	tag := sup.Tag
	if tag == "" {
		tag = "div"
	}

	switch typ {
	case Heading:
		if level := attrs.GetString("level"); len(level) == 1 && level[0] >= '1' && level[0] <= '6' {
			tag = "h" + level
		}
	case List:
		if v, ok := attrs["ordered"].(bool); ok && v {
			tag = "ol"
		}
	case Group, Cover:
		if t := style.SanitizeKeyword(attrs.GetString("tagName"), containerTags...); t != "" {
			tag = t
		}
	}
	return tag
}

func extraAttributes(typ Type, attrs style.Tree) [][2]string {
	var out [][2]string
	switch typ {
	case Spacer:
		out = append(out, [2]string{"aria-hidden", "true"})
	case List:
		if v, ok := attrs["ordered"].(bool); ok && v {
			if start := style.SanitizeCSSDimension(attrs.GetString("start")); start != "" {
				out = append(out, [2]string{"start", start})
			}
			if v, ok := attrs["reversed"].(bool); ok && v {
				out = append(out, [2]string{"reversed", "reversed"})
			}
		}
	}
	return out
}

var alignments = []string{"left", "center", "right", "wide", "full"}

// WrapperClasses returns class list of heuristic wrapper: base class,
// alignment, preset and has-* classes and custom classes, without duplicates.
func WrapperClasses(typ Type, attrs style.Tree) []string {
	sup, _ := Lookup(typ)
	var classes []string
	add := func(c ...string) {
		for _, v := range c {
			if v != "" && !slices.Contains(classes, v) {
				classes = append(classes, v)
			}
		}
	}

	add(sup.Class)

	if align := style.SanitizeKeyword(attrs.GetString("align"), alignments...); align != "" {
		if typ == Paragraph {
			add("has-text-align-" + align)
		} else {
			add("align" + align)
		}
	}
	if ta := style.SanitizeKeyword(attrs.GetString("textAlign"), "left", "center", "right", "justify"); ta != "" {
		add("has-text-align-" + ta)
	}

	switch typ {
	case Columns:
		if va := attrs.GetString("verticalAlignment"); va != "" {
			add("are-vertically-aligned-" + SanitizeClass(va))
		}
		if v, ok := attrs["isStackedOnMobile"].(bool); ok && !v {
			add("is-not-stacked-on-mobile")
		}
	case Column:
		if va := attrs.GetString("verticalAlignment"); va != "" {
			add("is-vertically-aligned-" + SanitizeClass(va))
		}
	}

	add(presetClasses(attrs)...)
	add(CustomClasses(attrs.GetString("className"))...)
	return classes
}

func presetClasses(attrs style.Tree) []string {
	var out []string
	preset := func(key, format string) bool {
		s := SanitizeClass(attrs.GetString(key))
		if s == "" {
			return false
		}
		out = append(out, fmt.Sprintf(format, s))
		return true
	}
	has := func(path ...string) bool {
		_, ok := attrs.Get(append([]string{style.StyleKey}, path...)...)
		return ok
	}

	text := preset("textColor", "has-%s-color")
	bg := preset("backgroundColor", "has-%s-background-color")
	gradient := preset("gradient", "has-%s-gradient-background")
	border := preset("borderColor", "has-%s-border-color")

	if text || has("color", "text") {
		out = append(out, "has-text-color")
	}
	if bg || gradient || has("color", "background") || has("color", "gradient") {
		out = append(out, "has-background")
	}
	if has("elements", "link", "color", "text") {
		out = append(out, "has-link-color")
	}
	if border || has("border", "color") {
		out = append(out, "has-border-color")
	}

	preset("fontSize", "has-%s-font-size")
	preset("fontFamily", "has-%s-font-family")
	return out
}

var (
	reClassOctets  = regexp.MustCompile(`%[a-fA-F0-9][a-fA-F0-9]`)
	reClassInvalid = regexp.MustCompile(`[^A-Za-z0-9_-]`)
)

// SanitizeClass strips percent encoded octets and characters not allowed in
// class names.
func SanitizeClass(s string) string {
	return reClassInvalid.ReplaceAllString(reClassOctets.ReplaceAllString(s, ""), "")
}

// CustomClasses splits className attribute into sanitized unique classes.
func CustomClasses(className string) []string {
	var out []string
	for _, f := range strings.Fields(className) {
		if c := SanitizeClass(f); c != "" && !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

// WrapperStyle returns inline declarations of heuristic wrapper. Properties
// always come in the order of styleRenderers.
func WrapperStyle(typ Type, attrs style.Tree) *css.Declarations {
	w := &wrapper{typ: typ, attrs: attrs}
	w.style, _ = attrs.GetTree(style.StyleKey)

	decls := css.NewDeclarations()
	for _, r := range styleRenderers {
		if r.applies(w) {
			r.render(w, decls)
		}
	}
	return decls
}
