package blocks

import (
	"regexp"
	"slices"
	"strings"

	"golang.org/x/net/html"

	"pbc/common"
	"pbc/style"
)

var reClassAttr = regexp.MustCompile("(?is)\\sclass\\s*=\\s*(\"[^\"]*\"|'[^']*'|[^\\s\"'=<>`]+)")

// rootTag locates start tag of the root element of content. Content starting
// with text or closing tag has no root element.
func rootTag(content string) (start, end int, classes []string, ok bool) {
	z := html.NewTokenizer(strings.NewReader(content))
	offset := 0
	for {
		tt := z.Next()
		raw := len(z.Raw())
		switch tt {
		case html.ErrorToken, html.EndTagToken:
			return 0, 0, nil, false
		case html.TextToken:
			if strings.TrimSpace(string(z.Raw())) != "" {
				return 0, 0, nil, false
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			_, hasAttr := z.TagName()
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) == "class" {
					classes = strings.Fields(string(val))
				}
			}
			return offset, offset + raw, classes, true
		}
		offset += raw
	}
}

// CarriesClass reports whether class added to className attribute of the
// block reaches its markup on the given synthesis path. Types which do not
// accept className never carry it, canonical content needs a root element
// or a block wrapper to create one.
func CarriesClass(typ Type, path common.RenderPath, content string) bool {
	sup, known := Lookup(typ)
	if known && !sup.AllowsAttr("className") {
		return false
	}
	if path == common.RenderPathAuto || !path.IsValid() {
		path = sup.Path
	}
	switch {
	case path == common.RenderPathHeuristic:
		return true
	case strings.TrimSpace(content) == "":
		return false
	case typ == Image:
		return true
	}
	if _, _, _, ok := rootTag(content); ok {
		return true
	}
	return sup.Tag != ""
}

// NormalizeRootClass makes root element of canonical content carry wrapper
// classes of the block (base, alignment, preset and custom classes). Missing
// classes are appended to its class attribute, everything else is kept byte
// for byte. Content without root element is wrapped into block wrapper when
// the type has one.
func NormalizeRootClass(typ Type, attrs style.Tree, content string) string {
	classes := WrapperClasses(typ, attrs)
	if len(classes) == 0 || strings.TrimSpace(content) == "" {
		return content
	}

	start, end, existing, ok := rootTag(content)
	if !ok {
		sup, _ := Lookup(typ)
		if sup.Tag == "" {
			return content
		}
		var sb strings.Builder
		sb.WriteString("<" + sup.Tag)
		writeAttr(&sb, "class", strings.Join(classes, " "))
		sb.WriteString(">" + content + "</" + sup.Tag + ">")
		return sb.String()
	}

	merged := slices.Clone(existing)
	for _, c := range classes {
		if !slices.Contains(merged, c) {
			merged = append(merged, c)
		}
	}
	if len(merged) == len(existing) {
		return content
	}

	tag := content[start:end]
	var attr strings.Builder
	writeAttr(&attr, "class", strings.Join(merged, " "))
	if loc := reClassAttr.FindStringIndex(tag); loc != nil {
		tag = tag[:loc[0]] + attr.String() + tag[loc[1]:]
	} else {
		name := 1 + strings.IndexAny(tag[1:], " \t\n\r\f/>")
		tag = tag[:name] + attr.String() + tag[name:]
	}
	return content[:start] + tag + content[end:]
}
