package convert

import (
	"pbc/blocks"
	"pbc/style"
)

type promotion struct {
	path []string
	attr string
	kind string
}

// Style values which have preset attribute counterparts.
var promotions = []promotion{
	{[]string{"color", "text"}, "textColor", "color"},
	{[]string{"color", "background"}, "backgroundColor", "color"},
	{[]string{"typography", "fontSize"}, "fontSize", "font-size"},
}

// PromotePresets returns copy of attrs where custom colors and font sizes
// matching theme presets (or referencing them explicitly) are replaced by
// preset slug attributes. Promotion happens only when block type carries both
// style category and preset attribute natively and the attribute is not set
// already.
func PromotePresets(typ blocks.Type, attrs style.Tree, presets *style.Presets) style.Tree {
	out := attrs.Clone()
	if presets == nil {
		return out
	}
	sup, known := blocks.Lookup(typ)
	if !known {
		return out
	}

	for _, p := range promotions {
		if !sup.AllowsStyle(p.path[0]) || !sup.AllowsAttr(p.attr) || out.GetString(p.attr) != "" {
			continue
		}
		path := append([]string{style.StyleKey}, p.path...)
		v := out.GetString(path...)
		if v == "" {
			continue
		}
		if slug, ok := matchPreset(presets, p.kind, v); ok {
			out[p.attr] = slug
			out.Delete(path...)
		}
	}
	return style.Normalize(out)
}

func matchPreset(presets *style.Presets, kind, v string) (string, bool) {
	if k, slug, ok := style.ParsePresetRef(v); ok {
		return slug, k == kind
	}
	switch kind {
	case "color":
		return presets.MatchColor(v)
	case "font-size":
		return presets.MatchFontSize(v)
	}
	return "", false
}
