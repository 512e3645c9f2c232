package convert

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"pbc/common"
)

const sampleBatch = `{
  "version": 1,
  "documents": [
    {
      "id": "home",
      "title": "Home",
      "kit": {
        "rules": [{"selector": "h1", "style": {"typography": {"fontFamily": "Roboto"}}}],
        "custom_css": "a { color: red; }"
      },
      "elements": [
        {
          "block": "group",
          "attrs": {"tagName": "section"},
          "responsive": {"mobile": {"spacing": {"padding": {"top": "0px"}}}},
          "render_path": "heuristic",
          "inner": [
            {"block": "heading", "content": "Hello", "style": "letter-spacing: 2px"}
          ]
        }
      ]
    },
    {"elements": []}
  ]
}`

func TestDecodeBatch(t *testing.T) {
	for _, validate := range []bool{true, false} {
		b, err := decodeBatch([]byte("\xef\xbb\xbf"+sampleBatch), validate)
		if err != nil {
			t.Fatalf("decodeBatch(validate=%v) error = %v", validate, err)
		}
		if len(b.Documents) != 2 {
			t.Fatalf("got %d documents, want 2", len(b.Documents))
		}

		home := b.Documents[0]
		if home.ID != "home" || home.Title != "Home" || home.Kit == nil || len(home.Kit.Rules) != 1 {
			t.Errorf("unexpected document %+v", home)
		}
		el := home.Elements[0]
		if el.Path != common.RenderPathHeuristic || len(el.Inner) != 1 || el.Inner[0].Style != "letter-spacing: 2px" {
			t.Errorf("unexpected element %+v", el)
		}
		if got := el.Responsive["mobile"].GetString("spacing", "padding", "top"); got != "0px" {
			t.Errorf("responsive padding = %q", got)
		}
		if countElements(home.Elements) != 2 {
			t.Errorf("countElements() = %d, want 2", countElements(home.Elements))
		}

		if _, err := uuid.Parse(b.Documents[1].ID); err != nil {
			t.Errorf("generated id %q is not uuid: %v", b.Documents[1].ID, err)
		}
	}
}

func TestDecodeBatch_Errors(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		validate bool
		want     string
	}{
		{"not json", `{"version":`, false, "unable to decode batch"},
		{"wrong version", `{"version": 2, "documents": []}`, false, "unsupported batch version 2"},
		{"schema version", `{"version": 2, "documents": []}`, true, "does not conform to schema"},
		{"unknown field", `{"version": 1, "documents": [{"elements": [{"blok": "paragraph"}]}]}`, true, "does not conform to schema"},
		{"bad render path", `{"version": 1, "documents": [{"elements": [{"render_path": "fast"}]}]}`, true, "does not conform to schema"},
		{"missing elements", `{"version": 1, "documents": [{"id": "x"}]}`, true, "does not conform to schema"},
		{"bad render path without schema", `{"version": 1, "documents": [{"elements": [{"render_path": "fast"}]}]}`, false, "unable to decode batch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeBatch([]byte(tt.data), tt.validate)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestValidateBatch_ReportsAllViolations(t *testing.T) {
	err := validateBatch([]byte(`{"version": 1, "extra": true, "documents": [{"elements": [], "kit": {"rules": [{"selector": ""}]}}]}`))
	if err == nil {
		t.Fatal("expected error")
	}
	// additional property, empty selector, missing style
	if n := strings.Count(err.Error(), ";") + 1; n < 3 {
		t.Errorf("expected at least 3 violations, got %d: %v", n, err)
	}
}
