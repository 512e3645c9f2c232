package collector

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"pbc/common"
	"pbc/css"
)

func TestCollector_ClassForIsOrderIndependent(t *testing.T) {
	c := New(zaptest.NewLogger(t))

	a := css.DeclarationsFrom("color", "#111111", "margin-top", "2em")
	b := css.DeclarationsFrom("margin-top", "2em", "color", "#111111")

	ca, cb := c.ClassFor("core/paragraph", a), c.ClassFor("core/paragraph", b)
	if ca != cb {
		t.Errorf("ClassFor() differs for equal sets: %s vs %s", ca, cb)
	}
	if !strings.HasPrefix(ca, DefaultPrefix) || len(ca) != len(DefaultPrefix)+DefaultHashLength {
		t.Errorf("unexpected class %q", ca)
	}
	if other := c.ClassFor("core/heading", a); other == ca {
		t.Error("block name must take part in class id")
	}
	if other := c.ClassFor("core/paragraph", css.DeclarationsFrom("color", "#111112", "margin-top", "2em")); other == ca {
		t.Error("different declarations must produce different class")
	}
}

func TestCollector_Options(t *testing.T) {
	c := New(nil, WithPrefix("x-"), WithHashLength(12), WithHashLength(40))
	class := c.ClassFor("core/group", css.DeclarationsFrom("color", "red"))
	if !strings.HasPrefix(class, "x-") || len(class) != 14 {
		t.Errorf("unexpected class %q", class)
	}
}

func TestCollector_RegisterDeduplicates(t *testing.T) {
	c := New(zaptest.NewLogger(t))

	first := c.Register("core/image", css.DeclarationsFrom("color", "#fff", "font-size", "12px"), common.TierOverride)
	second := c.Register("core/image", css.DeclarationsFrom("font-size", "12px", "color", "#fff"), common.TierOverride)
	if first == "" || first != second {
		t.Fatalf("expected same non empty class, got %q and %q", first, second)
	}
	if c.Len() != 1 {
		t.Errorf("expected single rule, got %d", c.Len())
	}

	want := "." + first + " {\n  color: #fff;\n  font-size: 12px;\n}\n"
	if got := c.RenderStylesheet(); got != want {
		t.Errorf("RenderStylesheet() =\n%s\nwant\n%s", got, want)
	}

	if got := c.Register("core/image", css.NewDeclarations(), common.TierOverride); got != "" {
		t.Errorf("empty declarations must not register, got %q", got)
	}
	if got := c.Register("core/image", nil, common.TierOverride); got != "" {
		t.Errorf("nil declarations must not register, got %q", got)
	}
}

func TestCollector_AddRuleMerges(t *testing.T) {
	c := New(zaptest.NewLogger(t))

	c.AddRule(".a", css.DeclarationsFrom("color", "red", "margin", "0"), common.TierOverride)
	c.AddRule(".a", css.DeclarationsFrom("color", "blue", "padding", "1px"), common.TierOverride)
	c.AddRule("", css.DeclarationsFrom("color", "red"), common.TierOverride)
	c.AddRule(".b", css.NewDeclarations(), common.TierOverride)

	want := ".a {\n  color: blue;\n  margin: 0;\n  padding: 1px;\n}\n"
	if got := c.RenderStylesheet(); got != want {
		t.Errorf("RenderStylesheet() =\n%s\nwant\n%s", got, want)
	}
}

func TestCollector_PrecedenceOrder(t *testing.T) {
	c := New(zaptest.NewLogger(t))

	c.AddMediaRule("(max-width: 767px)", ".m", css.DeclarationsFrom("color", "red"), common.TierOverride)
	c.AddRule(".o", css.DeclarationsFrom("color", "red"), common.TierOverride)
	c.AddMediaRule("(max-width: 1024px)", ".kit", css.DeclarationsFrom("color", "green"), common.TierBase)
	c.AddRule(".k", css.DeclarationsFrom("color", "green"), common.TierBase)
	c.AddMediaRule("(max-width: 767px)", ".n", css.DeclarationsFrom("color", "blue"), common.TierOverride)
	c.AddMediaRule("(max-width: 1024px)", ".t", css.DeclarationsFrom("color", "blue"), common.TierOverride)

	want := strings.Join([]string{
		".k {\n  color: green;\n}\n",
		".o {\n  color: red;\n}\n",
		"@media (max-width: 1024px) {\n  .kit {\n    color: green;\n  }\n}\n",
		"@media (max-width: 767px) {\n  .m {\n    color: red;\n  }\n\n  .n {\n    color: blue;\n  }\n}\n",
		"@media (max-width: 1024px) {\n  .t {\n    color: blue;\n  }\n}\n",
	}, "\n")
	if got := c.RenderStylesheet(); got != want {
		t.Errorf("RenderStylesheet() =\n%s\nwant\n%s", got, want)
	}
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		reason string
		want   common.Tier
	}{
		{"kit", common.TierBase},
		{"Theme", common.TierBase},
		{"global", common.TierBase},
		{"element", common.TierOverride},
		{"", common.TierOverride},
	}
	for _, tt := range tests {
		if got := TierFor(tt.reason); got != tt.want {
			t.Errorf("TierFor(%q) = %v, want %v", tt.reason, got, tt.want)
		}
	}
}

func TestSanitizeDeclarations(t *testing.T) {
	in := css.DeclarationsFrom(
		" Color ", " red ",
		"margin", "",
		"padding", "   ",
		"width", "10px;}body{color:red",
		"x y", "1",
		"--custom", "3px",
		"font-size", "12px !important",
	)
	want := "color:red;--custom:3px;font-size:12px !important"
	if got := sanitizeDeclarations(in).Inline(); got != want {
		t.Errorf("sanitizeDeclarations() = %q, want %q", got, want)
	}
	if !strings.Contains(sanitizeDeclarations(css.DeclarationsFrom("color", "red")).Inline(), "red") ||
		strings.Contains(sanitizeDeclarations(css.DeclarationsFrom("color", "red")).Inline(), "important") {
		t.Error("priority must not be forced")
	}
}

func TestCollector_AddCustomCSS(t *testing.T) {
	c := New(zaptest.NewLogger(t))

	raw := `selector .title { color: red; }
selector:hover, .x { opacity: .5 }
@media (max-width: 767px) { selector { display: none; } }
@import url("x.css");
.empty { }`

	if n := c.AddCustomCSS(raw, ".pbc-el-1", common.TierOverride); n != 3 {
		t.Errorf("expected 3 rules, got %d", n)
	}

	want := strings.Join([]string{
		".pbc-el-1 .title {\n  color: red;\n}\n",
		".pbc-el-1:hover, .pbc-el-1 .x {\n  opacity: .5;\n}\n",
		"@media (max-width: 767px) {\n  .pbc-el-1 {\n    display: none;\n  }\n}\n",
	}, "\n")
	if got := c.RenderStylesheet(); got != want {
		t.Errorf("RenderStylesheet() =\n%s\nwant\n%s", got, want)
	}

	if n := c.AddCustomCSS("  ", ".a", common.TierOverride); n != 0 {
		t.Errorf("blank css registered %d rules", n)
	}
}

func TestCollector_Reset(t *testing.T) {
	c := New(zaptest.NewLogger(t), WithPrefix("r-"))
	c.Register("core/group", css.DeclarationsFrom("color", "red"), common.TierOverride)
	c.RegisterFontUsage("Roboto", "400", "")
	c.Record(common.InventoryKindConversion, "core/group", "", "note")

	c.Reset()
	if c.Len() != 0 || c.RenderStylesheet() != "" || len(c.FontUsage()) != 0 || len(c.Inventory()) != 0 {
		t.Error("Reset() must drop collected state")
	}
	if class := c.ClassFor("core/group", css.DeclarationsFrom("color", "red")); !strings.HasPrefix(class, "r-") {
		t.Errorf("options must survive Reset(), got %q", class)
	}
}

func TestCollector_SameSelectorAcrossTiers(t *testing.T) {
	c := New(zaptest.NewLogger(t))

	c.AddRule(".x", css.DeclarationsFrom("color", "blue"), common.TierOverride)
	c.AddRule(".x", css.DeclarationsFrom("color", "red"), common.TierBase)

	want := ".x {\n  color: red;\n}\n\n.x {\n  color: blue;\n}\n"
	got := c.RenderStylesheet()
	if got != want {
		t.Fatalf("RenderStylesheet() =\n%s\nwant\n%s", got, want)
	}
	base, override := strings.Index(got, "color: red"), strings.LastIndex(got, "color: blue")
	if base < 0 || override <= base {
		t.Errorf("override rule must follow base rule: %q", got)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestEscapesDeclaration(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"red", false},
		{`url("data:image/svg+xml;base64,AAA")`, false},
		{"url(data:image/svg+xml;base64,AAA)", false},
		{`URL('a;b.png') no-repeat`, false},
		{`"a;b{c}"`, false},
		{`"a\";b"`, false},
		{"red; position: fixed", true},
		{"10px}body{color:red", true},
		{"url(a{b}.png)", true},
		{"url(a;b", true},
		{`"open`, true},
		{"\"a\nb\"", true},
		{`url("a") ; color: red`, true},
	}
	for _, tt := range tests {
		if got := escapesDeclaration(tt.value); got != tt.want {
			t.Errorf("escapesDeclaration(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}

	decls := sanitizeDeclarations(css.DeclarationsFrom(
		"background-image", `url("data:image/svg+xml;base64,AAA")`,
		"color", "red; position: fixed",
	))
	if want := `background-image:url("data:image/svg+xml;base64,AAA")`; decls.Inline() != want {
		t.Errorf("sanitizeDeclarations() = %q, want %q", decls.Inline(), want)
	}
}

func TestCollector_ClassForEncodingFailure(t *testing.T) {
	c := New(zaptest.NewLogger(t))
	decls := css.DeclarationsFrom("color", "red", "margin", "0")
	want := c.ClassFor("core/paragraph", decls)

	saved := encodeDeclarations
	t.Cleanup(func() { encodeDeclarations = saved })
	encodeDeclarations = func(map[string]string) ([]byte, error) {
		return nil, errors.New("broken")
	}

	got := c.ClassFor("core/paragraph", decls)
	if !strings.HasPrefix(got, DefaultPrefix) || len(got) != len(DefaultPrefix)+DefaultHashLength {
		t.Fatalf("unexpected class %q", got)
	}
	if got != c.ClassFor("core/paragraph", decls) {
		t.Error("fallback class is not stable")
	}
	if got == want {
		t.Error("fallback must hash inline form")
	}
}
