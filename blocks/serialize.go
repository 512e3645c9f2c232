package blocks

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"

	"pbc/style"
)

// Block is a parsed block. Freeform HTML between blocks has empty Name.
type Block struct {
	Name      Type
	Attrs     style.Tree
	InnerHTML string
	Inner     []Block
	Void      bool
}

// Serialize produces block markup in the target's own canonical form:
//
//	<!-- wp:name {"attr":1} -->content<!-- /wp:name -->
//
// Core namespace is omitted from the name, block without content is written
// in void form. Attribute keys follow block's declared order, then the rest
// alphabetically; nested objects are always alphabetical.
func Serialize(name Type, attrs style.Tree, content string) string {
	var sb strings.Builder
	sb.WriteString("<!-- wp:")
	sb.WriteString(name.ShortName())
	sb.WriteByte(' ')
	if len(attrs) > 0 {
		sb.WriteString(EncodeAttributes(name, attrs))
		sb.WriteByte(' ')
	}
	if content == "" {
		sb.WriteString("/-->")
		return sb.String()
	}
	sb.WriteString("-->")
	sb.WriteString(content)
	sb.WriteString("<!-- /wp:")
	sb.WriteString(name.ShortName())
	sb.WriteString(" -->")
	return sb.String()
}

// SerializeBlocks is inverse of Parse.
func SerializeBlocks(list []Block) string {
	var sb strings.Builder
	for _, b := range list {
		if b.Name == "" {
			sb.WriteString(b.InnerHTML)
			continue
		}
		content := b.InnerHTML
		if b.Void {
			content = ""
		}
		sb.WriteString(Serialize(b.Name, b.Attrs, content))
	}
	return sb.String()
}

// EncodeAttributes encodes block attributes as JSON escaped for embedding into
// an HTML comment.
func EncodeAttributes(name Type, attrs style.Tree) string {
	sup, _ := Lookup(name)

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		ia, ib := slices.Index(sup.Order, a), slices.Index(sup.Order, b)
		switch {
		case ia >= 0 && ib >= 0:
			return ia - ib
		case ia >= 0:
			return -1
		case ib >= 0:
			return 1
		}
		return strings.Compare(a, b)
	})

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(marshal(k))
		buf.WriteByte(':')
		buf.Write(marshal(attrs[k]))
	}
	buf.WriteByte('}')
	return escapeAttributes(buf.Bytes())
}

// marshal encodes value without HTML escaping. Map keys are sorted by
// encoding/json.
func marshal(v any) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return []byte("null")
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
}

// escapeAttributes replaces sequences which would break out of an HTML
// comment or be mangled by HTML processing. Only string contents can hold
// them, escaped quotes are rewritten as unicode escapes.
func escapeAttributes(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data))
	inString := false
	for i := 0; i < len(data); i++ {
		c := data[i]
		if !inString {
			if c == '"' {
				inString = true
			}
			sb.WriteByte(c)
			continue
		}
		switch c {
		case '\\':
			if i+1 < len(data) {
				i++
				if data[i] == '"' {
					sb.WriteString(`\u0022`)
				} else {
					sb.WriteByte('\\')
					sb.WriteByte(data[i])
				}
			}
		case '"':
			inString = false
			sb.WriteByte(c)
		case '-':
			if i+1 < len(data) && data[i+1] == '-' {
				sb.WriteString(`\u002d\u002d`)
				i++
			} else {
				sb.WriteByte(c)
			}
		case '<':
			sb.WriteString(`\u003c`)
		case '>':
			sb.WriteString(`\u003e`)
		case '&':
			sb.WriteString(`\u0026`)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// delimiter is a parsed block comment.
type delimiter struct {
	start, end int
	name       Type
	attrs      style.Tree
	closer     bool
	void       bool
}

// Parse splits markup into top level blocks. Nested blocks are available in
// Inner, InnerHTML keeps raw markup between delimiters. Malformed delimiters
// are treated as freeform HTML.
func Parse(markup string) []Block {
	var (
		out   []Block
		pos   int
		depth int
		open  delimiter
	)

	flushFreeform := func(upto int) {
		if upto > pos {
			out = append(out, Block{InnerHTML: markup[pos:upto]})
			pos = upto
		}
	}

	for offset := 0; offset < len(markup); {
		d, ok := nextDelimiter(markup, offset)
		if !ok {
			break
		}
		offset = d.end

		switch {
		case depth == 0 && d.void:
			flushFreeform(d.start)
			out = append(out, Block{Name: d.name, Attrs: d.attrs, Void: true})
			pos = d.end
		case depth == 0 && !d.closer:
			flushFreeform(d.start)
			open, depth = d, 1
		case depth == 0:
			// stray closer stays in freeform html
		case d.void:
		case !d.closer && d.name == open.name:
			depth++
		case d.closer && d.name == open.name:
			depth--
			if depth == 0 {
				inner := markup[open.end:d.start]
				out = append(out, Block{Name: open.name, Attrs: open.attrs, InnerHTML: inner, Inner: innerBlocks(inner)})
				pos = d.end
			}
		}
	}

	if depth > 0 {
		// unterminated block is kept as freeform from its opener on
		pos = min(pos, open.start)
	}
	flushFreeform(len(markup))
	return out
}

func innerBlocks(inner string) []Block {
	if !strings.Contains(inner, "<!-- wp:") {
		return nil
	}
	var out []Block
	for _, b := range Parse(inner) {
		if b.Name != "" {
			out = append(out, b)
		}
	}
	return out
}

// nextDelimiter finds next well formed block delimiter at or after offset.
func nextDelimiter(markup string, offset int) (delimiter, bool) {
	for {
		idx := strings.Index(markup[offset:], "<!--")
		if idx < 0 {
			return delimiter{}, false
		}
		start := offset + idx
		rel := strings.Index(markup[start:], "-->")
		if rel < 0 {
			return delimiter{}, false
		}
		end := start + rel + len("-->")
		if d, ok := parseDelimiter(markup[start+len("<!--") : end-len("-->")]); ok {
			d.start, d.end = start, end
			return d, true
		}
		offset = start + len("<!--")
	}
}

// parseDelimiter parses comment body: ` /wp:name `, ` wp:name {attrs} /`.
func parseDelimiter(body string) (delimiter, bool) {
	var d delimiter
	if body == "" || !isSpace(body[0]) {
		return d, false
	}
	body = strings.TrimLeft(body, " \t\r\n")
	if rest, ok := strings.CutPrefix(body, "/"); ok {
		d.closer = true
		body = rest
	}
	body, ok := strings.CutPrefix(body, "wp:")
	if !ok {
		return d, false
	}

	n := 0
	for n < len(body) && isNameChar(body[n], n == 0) {
		n++
	}
	name := body[:n]
	if n > 0 && n < len(body) && body[n] == '/' {
		m := n + 1
		for m < len(body) && isNameChar(body[m], m == n+1) {
			m++
		}
		if m == n+1 {
			return d, false
		}
		name, n = body[:m], m
	}
	if name == "" || n >= len(body) || !isSpace(body[n]) {
		return d, false
	}
	d.name = TypeFromName(name)

	rest := strings.TrimSpace(body[n:])
	if r, ok := strings.CutSuffix(rest, "/"); ok {
		d.void = true
		rest = strings.TrimSpace(r)
	}
	if rest == "" {
		return d, true
	}
	if d.closer || !strings.HasPrefix(rest, "{") {
		return d, false
	}
	var attrs map[string]any
	if err := json.Unmarshal([]byte(rest), &attrs); err != nil {
		return d, false
	}
	d.attrs = style.Tree(attrs).Clone()
	return d, true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isNameChar(c byte, first bool) bool {
	if c >= 'a' && c <= 'z' {
		return true
	}
	if first {
		return false
	}
	return c >= '0' && c <= '9' || c == '_' || c == '-'
}
