package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"pbc/config"
)

// Values holds variables available for template expansion.
type Values struct {
	Context  string
	ID       string
	Title    string
	Source   string
	Index    int
	Elements int
}

func newValues(name config.TemplateFieldName, doc *Source, src string, index int) Values {
	return Values{
		Context:  string(name),
		ID:       doc.ID,
		Title:    doc.Title,
		Source:   strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)),
		Index:    index,
		Elements: countElements(doc.Elements),
	}
}

func expandTemplate(name config.TemplateFieldName, field string, values Values) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
