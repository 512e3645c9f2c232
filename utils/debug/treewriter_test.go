package debug

import (
	"testing"
)

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{"no depth", 0, "test", nil, "test\n"},
		{"depth 1", 1, "indented", nil, "  indented\n"},
		{"depth 2", 2, "double indent", nil, "    double indent\n"},
		{"negative depth", -1, "flat", nil, "flat\n"},
		{"with formatting", 1, "value: %d", []any{42}, "  value: 42\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Line(tt.depth, tt.format, tt.args...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_KeyValue(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		key   string
		sep   string
		value any
		want  string
	}{
		{"string", 0, "color", ": ", "red", "color: red\n"},
		{"number", 1, "style.spacing.top", " = ", 12.5, "  style.spacing.top = 12.5\n"},
		{"bool", 2, "dropCap", " = ", true, "    dropCap = true\n"},
		{"multiline is quoted", 0, "content", " = ", "a\nb", "content = \"a\\nb\"\n"},
		{"slice", 0, "values", " = ", []any{"a", 1}, "values = [a 1]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.KeyValue(tt.depth, tt.key, tt.sep, tt.value)
			if got := tw.String(); got != tt.want {
				t.Errorf("KeyValue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_TextBlock(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		label string
		value string
		want  string
	}{
		{"empty value", 0, "field", "", "field: \n"},
		{"with value", 1, "content", "test", "  content: \"test\"\n"},
		{"value with quotes", 0, "quoted", `he said "hello"`, "quoted: \"he said \\\"hello\\\"\"\n"},
		{"value with newline", 0, "multiline", "line1\nline2", "multiline: \"line1\\nline2\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.TextBlock(tt.depth, tt.label, tt.value)
			if got := tw.String(); got != tt.want {
				t.Errorf("TextBlock() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Accumulates(t *testing.T) {
	tw := NewTreeWriter()
	if tw.String() != "" {
		t.Error("Expected empty string from new TreeWriter")
	}
	tw.Line(0, "Inventory: %d entries", 1)
	tw.Line(1, "[0] dropped core/image")
	tw.KeyValue(2, "lightbox", " = ", false)

	want := "Inventory: 1 entries\n  [0] dropped core/image\n    lightbox = false\n"
	if got := tw.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
