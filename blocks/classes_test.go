package blocks

import (
	"testing"

	"pbc/common"
	"pbc/style"
)

func TestNormalizeRootClass(t *testing.T) {
	tests := []struct {
		name    string
		typ     Type
		attrs   style.Tree
		content string
		want    string
	}{
		{
			name:    "appends to existing class",
			typ:     Video,
			attrs:   style.Tree{"className": "pbc-1"},
			content: `<figure class="wp-block-video"><video src="a.mp4"></video></figure>`,
			want:    `<figure class="wp-block-video pbc-1"><video src="a.mp4"></video></figure>`,
		},
		{
			name:    "single quoted class",
			typ:     Video,
			attrs:   style.Tree{"className": "pbc-1"},
			content: `<figure data-x="1" class='wp-block-video'><video></video></figure>`,
			want:    `<figure data-x="1" class="wp-block-video pbc-1"><video></video></figure>`,
		},
		{
			name:    "inserts missing class attribute",
			typ:     Audio,
			attrs:   style.Tree{"className": "pbc-2"},
			content: `<figure id="a"><audio src="a.mp3"></audio></figure>`,
			want:    `<figure class="wp-block-audio pbc-2" id="a"><audio src="a.mp3"></audio></figure>`,
		},
		{
			name:    "leading whitespace is kept",
			typ:     Embed,
			attrs:   style.Tree{"className": "pbc-3"},
			content: "\n<figure class=\"wp-block-embed\"></figure>",
			want:    "\n<figure class=\"wp-block-embed pbc-3\"></figure>",
		},
		{
			name:    "self closing root",
			typ:     Video,
			attrs:   style.Tree{"className": "pbc-1"},
			content: `<video src="a.mp4"/>`,
			want:    `<video class="wp-block-video pbc-1" src="a.mp4"/>`,
		},
		{
			name:    "text content is wrapped",
			typ:     Gallery,
			attrs:   style.Tree{"className": "pbc-4"},
			content: "images",
			want:    `<figure class="wp-block-gallery pbc-4">images</figure>`,
		},
		{
			name:    "nothing missing",
			typ:     Gallery,
			attrs:   style.Tree{"className": "pbc-4"},
			content: `<figure class="pbc-4 wp-block-gallery"></figure>`,
			want:    `<figure class="pbc-4 wp-block-gallery"></figure>`,
		},
		{
			name:    "only root element is touched",
			typ:     Video,
			attrs:   style.Tree{"className": "pbc-1"},
			content: `<figure class="wp-block-video"><figcaption class="c">x</figcaption></figure>`,
			want:    `<figure class="wp-block-video pbc-1"><figcaption class="c">x</figcaption></figure>`,
		},
		{
			name:    "no wrapper for html",
			typ:     HTML,
			attrs:   style.Tree{"className": "pbc-5"},
			content: "<b>x</b>",
			want:    "<b>x</b>",
		},
		{
			name:    "empty content",
			typ:     Video,
			attrs:   style.Tree{"className": "pbc-1"},
			content: "",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeRootClass(tt.typ, tt.attrs, tt.content)
			if got != tt.want {
				t.Fatalf("NormalizeRootClass() =\n%s\nwant\n%s", got, tt.want)
			}
			if again := NormalizeRootClass(tt.typ, tt.attrs, got); again != got {
				t.Errorf("NormalizeRootClass() is not stable:\n%s\nthen\n%s", got, again)
			}
		})
	}
}

func TestCarriesClass(t *testing.T) {
	tests := []struct {
		name    string
		typ     Type
		path    common.RenderPath
		content string
		want    bool
	}{
		{"heuristic", Paragraph, common.RenderPathAuto, "", true},
		{"forced heuristic", Video, common.RenderPathHeuristic, "", true},
		{"video with root", Video, common.RenderPathAuto, `<figure><video></video></figure>`, true},
		{"video with text", Video, common.RenderPathAuto, "a.mp4", true},
		{"empty canonical", Video, common.RenderPathAuto, "  ", false},
		{"image", Image, common.RenderPathAuto, `<img src="a.png"/>`, true},
		{"html", HTML, common.RenderPathAuto, "<b>x</b>", false},
		{"shortcode", Shortcode, common.RenderPathAuto, "[gallery]", false},
		{"unknown with root", "acme/box", common.RenderPathAuto, "<i>x</i>", true},
		{"unknown with text", "acme/box", common.RenderPathAuto, "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CarriesClass(tt.typ, tt.path, tt.content); got != tt.want {
				t.Errorf("CarriesClass() = %v, want %v", got, tt.want)
			}
		})
	}
}
