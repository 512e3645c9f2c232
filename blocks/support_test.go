package blocks

import (
	"slices"
	"testing"

	"pbc/common"
)

func TestTypeFromName(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{"paragraph", Paragraph},
		{"core/paragraph", Paragraph},
		{" heading ", Heading},
		{"acme/widget", "acme/widget"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := TypeFromName(tt.in); got != tt.want {
			t.Errorf("TypeFromName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if got := Paragraph.ShortName(); got != "paragraph" {
		t.Errorf("ShortName() = %q", got)
	}
	if got := Type("acme/widget").ShortName(); got != "acme/widget" {
		t.Errorf("ShortName() = %q", got)
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		typ       Type
		path      common.RenderPath
		styles    []string
		allowed   []string
		forbidden []string
	}{
		{
			typ:       Paragraph,
			path:      common.RenderPathHeuristic,
			styles:    []string{"border", "color", "spacing", "typography"},
			allowed:   []string{"align", "dropCap", "className", "lock", "metadata"},
			forbidden: []string{"level", "url"},
		},
		{
			typ:       Image,
			path:      common.RenderPathCanonical,
			styles:    []string{"border", "shadow", "spacing"},
			allowed:   []string{"id", "sizeSlug", "url", "alt"},
			forbidden: []string{"textColor", "fontSize"},
		},
		{
			typ:     Spacer,
			path:    common.RenderPathHeuristic,
			styles:  []string{"spacing"},
			allowed: []string{"height", "width"},
		},
		{
			typ:     Shortcode,
			path:    common.RenderPathCanonical,
			allowed: []string{"text"},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			sup, ok := Lookup(tt.typ)
			if !ok {
				t.Fatal("expected known type")
			}
			if sup.Path != tt.path {
				t.Errorf("Path = %v, want %v", sup.Path, tt.path)
			}
			if got := sup.Styles(); !slices.Equal(got, tt.styles) && len(got)+len(tt.styles) > 0 {
				t.Errorf("Styles() = %v, want %v", got, tt.styles)
			}
			for _, a := range tt.allowed {
				if !sup.AllowsAttr(a) {
					t.Errorf("expected %s to be allowed", a)
				}
			}
			for _, a := range tt.forbidden {
				if sup.AllowsAttr(a) {
					t.Errorf("expected %s to be forbidden", a)
				}
			}
		})
	}
}

func TestLookup_Unknown(t *testing.T) {
	sup, ok := Lookup("acme/widget")
	if ok {
		t.Fatal("expected unknown type")
	}
	if len(sup.Styles()) != 0 || len(sup.Attrs()) != 0 {
		t.Errorf("unknown type must have empty allow-sets, got %v %v", sup.Styles(), sup.Attrs())
	}
	if sup.AllowsAttr("lock") || sup.AllowsStyle("color") {
		t.Error("unknown type must not allow anything")
	}
	if sup.Path != common.RenderPathCanonical {
		t.Errorf("Path = %v", sup.Path)
	}
}

func TestTypes(t *testing.T) {
	types := Types()
	if len(types) != 21 {
		t.Errorf("expected 21 types, got %d", len(types))
	}
	if !slices.IsSorted(types) {
		t.Error("types must be sorted")
	}
	for _, typ := range types {
		sup, _ := Lookup(typ)
		if !sup.Path.IsValid() || sup.Path == common.RenderPathAuto {
			t.Errorf("%s: invalid default path %v", typ, sup.Path)
		}
		for _, a := range universalAttrs {
			if !sup.AllowsAttr(a) {
				t.Errorf("%s: universal attribute %s missing", typ, a)
			}
		}
	}
}
