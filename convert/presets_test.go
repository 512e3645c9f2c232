package convert

import (
	"reflect"
	"testing"

	"pbc/blocks"
	"pbc/style"
)

func TestPromotePresets(t *testing.T) {
	presets := testPresets()

	tests := []struct {
		name  string
		typ   blocks.Type
		attrs style.Tree
		want  style.Tree
	}{
		{
			name:  "color within tolerance",
			typ:   blocks.Paragraph,
			attrs: style.Tree{"style": style.Tree{"color": style.Tree{"text": "#6ec1e5", "background": "#6ec1e4"}}},
			want:  style.Tree{"textColor": "primary", "backgroundColor": "primary"},
		},
		{
			name:  "font size keeps other typography",
			typ:   blocks.Heading,
			attrs: style.Tree{"style": style.Tree{"typography": style.Tree{"fontSize": "2.25rem", "lineHeight": "1.2"}}},
			want:  style.Tree{"fontSize": "large", "style": style.Tree{"typography": style.Tree{"lineHeight": "1.2"}}},
		},
		{
			name:  "explicit reference",
			typ:   blocks.Paragraph,
			attrs: style.Tree{"style": style.Tree{"color": style.Tree{"text": "var:preset|color|accent"}}},
			want:  style.Tree{"textColor": "accent"},
		},
		{
			name:  "reference of another kind stays",
			typ:   blocks.Paragraph,
			attrs: style.Tree{"style": style.Tree{"color": style.Tree{"text": "var(--wp--preset--font-size--large)"}}},
			want:  style.Tree{"style": style.Tree{"color": style.Tree{"text": "var(--wp--preset--font-size--large)"}}},
		},
		{
			name:  "no match",
			typ:   blocks.Paragraph,
			attrs: style.Tree{"style": style.Tree{"color": style.Tree{"text": "#ff0000"}}},
			want:  style.Tree{"style": style.Tree{"color": style.Tree{"text": "#ff0000"}}},
		},
		{
			name:  "attribute already set",
			typ:   blocks.Paragraph,
			attrs: style.Tree{"textColor": "secondary", "style": style.Tree{"color": style.Tree{"text": "#6ec1e4"}}},
			want:  style.Tree{"textColor": "secondary", "style": style.Tree{"color": style.Tree{"text": "#6ec1e4"}}},
		},
		{
			name:  "category not native",
			typ:   blocks.Image,
			attrs: style.Tree{"style": style.Tree{"color": style.Tree{"text": "#6ec1e4"}}},
			want:  style.Tree{"style": style.Tree{"color": style.Tree{"text": "#6ec1e4"}}},
		},
		{
			name:  "unknown block",
			typ:   "acme/widget",
			attrs: style.Tree{"style": style.Tree{"color": style.Tree{"text": "#6ec1e4"}}},
			want:  style.Tree{"style": style.Tree{"color": style.Tree{"text": "#6ec1e4"}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := tt.attrs.Clone()
			got := PromotePresets(tt.typ, tt.attrs, presets)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PromotePresets() = %v, want %v", got, tt.want)
			}
			if !reflect.DeepEqual(tt.attrs, orig) {
				t.Errorf("input was modified: %v", tt.attrs)
			}
		})
	}
}

func TestPromotePresets_NoPresets(t *testing.T) {
	attrs := style.Tree{"style": style.Tree{"color": style.Tree{"text": "#6ec1e4"}}}
	if got := PromotePresets(blocks.Paragraph, attrs, nil); !reflect.DeepEqual(got, attrs) {
		t.Errorf("PromotePresets() = %v, want %v", got, attrs)
	}
}
